package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"interview-platform/backend/internal/config"
	"interview-platform/backend/internal/coreengine/audionormalizer"
	"interview-platform/backend/internal/coreengine/transcription"
	"interview-platform/backend/internal/coreengine/vendoradapters"
	"interview-platform/backend/internal/metrics"
)

var transcribeJSON bool

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <media-file>",
	Short: "Normalize a local media file and run it through the transcription chain",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)
	transcribeCmd.Flags().BoolVar(&transcribeJSON, "json", false, "Print the outcome as JSON")
}

type transcribeReport struct {
	Transcript         string   `json:"transcript"`
	Provider           string   `json:"provider,omitempty"`
	TranscriptionError *string  `json:"transcription_error"`
	Attempts           []string `json:"attempts"`
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadAppConfig()
	src := args[0]
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("cannot read media file: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "interviewd-transcribe-")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)
	dst := filepath.Join(tmpDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".wav")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	normalizer := audionormalizer.NewFFmpegNormalizer(cfg.Normalizer.FFmpegPath, cfg.Normalizer.Timeout)
	if _, err := normalizer.Normalize(ctx, src, dst); err != nil {
		return fmt.Errorf("audio conversion failed: %w", err)
	}

	providers, _ := vendoradapters.BuildProviders(cfg.Transcription)
	outcome := transcription.NewChain(metrics.NewMetrics(), providers...).Transcribe(ctx, dst)

	report := transcribeReport{
		Transcript:         outcome.Transcript,
		Provider:           outcome.Provider,
		TranscriptionError: outcome.Error,
		Attempts:           []string{},
	}
	for _, a := range outcome.Attempts {
		line := fmt.Sprintf("%s ok (%v)", a.Provider, a.Duration)
		if a.Err != nil {
			line = fmt.Sprintf("%s failed (%v): %v", a.Provider, a.Duration, a.Err)
		}
		report.Attempts = append(report.Attempts, line)
	}

	out := cmd.OutOrStdout()
	if transcribeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	for _, line := range report.Attempts {
		fmt.Fprintf(out, "  - %s\n", line)
	}
	if report.TranscriptionError != nil {
		fmt.Fprintf(out, "No transcript: %s\n", *report.TranscriptionError)
		return nil
	}
	fmt.Fprintf(out, "[%s] %s\n", report.Provider, report.Transcript)
	return nil
}
