package vendoradapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// WhisperCLIAdapter runs a local Whisper model through the `whisper` command line
// tool. The model is loaded by every invocation; nothing is cached between calls.
type WhisperCLIAdapter struct {
	BinaryPath string
	Model      string
	Timeout    time.Duration
}

// FindWhisperBinary resolves the configured whisper command. It returns "" when
// no local runtime is installed.
func FindWhisperBinary(configured string) string {
	candidates := []string{configured}
	if configured == "" || configured == "whisper" {
		candidates = []string{"whisper", "/usr/local/bin/whisper", "/opt/homebrew/bin/whisper"}
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if path, err := exec.LookPath(c); err == nil {
			return path
		}
	}
	return ""
}

// NewWhisperCLIAdapter creates an adapter for an already resolved binary.
func NewWhisperCLIAdapter(binaryPath, model string, timeout time.Duration) *WhisperCLIAdapter {
	if model == "" {
		model = "small"
	}
	return &WhisperCLIAdapter{BinaryPath: binaryPath, Model: model, Timeout: timeout}
}

func (w *WhisperCLIAdapter) Name() string { return "whisper-local" }

type whisperJSONOutput struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Recognize writes whisper's JSON output into a scratch directory and reads the text back.
func (w *WhisperCLIAdapter) Recognize(ctx context.Context, audioFilePath string) (string, string, error) {
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	outDir, err := os.MkdirTemp("", "whisper-out-")
	if err != nil {
		return "", "", fmt.Errorf("failed to create whisper output directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	cmd := exec.CommandContext(ctx, w.BinaryPath,
		audioFilePath,
		"--model", w.Model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--fp16", "False",
		"--verbose", "False",
	)
	cmd.WaitDelay = time.Second

	startTime := time.Now()
	out, err := cmd.CombinedOutput()
	log.Printf("Local whisper (%s) for %s finished in %v", w.Model, audioFilePath, time.Since(startTime))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", "", fmt.Errorf("local whisper timed out after %s", w.Timeout)
		}
		return "", "", fmt.Errorf("local whisper failed: %w: %s", err, lastLines(string(out), 5))
	}

	base := strings.TrimSuffix(filepath.Base(audioFilePath), filepath.Ext(audioFilePath))
	raw, err := os.ReadFile(filepath.Join(outDir, base+".json"))
	if err != nil {
		return "", "", fmt.Errorf("local whisper produced no output: %w", err)
	}

	var parsed whisperJSONOutput
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", string(raw), fmt.Errorf("failed to parse whisper output: %w", err)
	}
	return parsed.Text, string(raw), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, " | ")
}
