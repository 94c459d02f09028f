package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func clearProviderEnv(t *testing.T) {
	for _, key := range []string{"OPENAI_API_KEY", "DEEPGRAM_API_KEY", "GOOGLE_APPLICATION_CREDENTIALS", "TENCENTCLOUD_SECRET_ID", "TENCENTCLOUD_SECRET_KEY"} {
		t.Setenv(key, "")
	}
}

func TestCapabilitiesCommand(t *testing.T) {
	clearProviderEnv(t)
	dir := t.TempDir()
	t.Setenv("WHISPER_PATH", filepath.Join(dir, "missing-whisper"))
	t.Setenv("FFMPEG_PATH", filepath.Join(dir, "missing-ffmpeg"))
	t.Setenv("OPENAI_API_KEY", "sk-test")

	out, err := runCLI(t, "capabilities")
	if err != nil {
		t.Fatalf("capabilities error = %v", err)
	}
	var report map[string]any
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report["OPENAI_API_KEY_set"] != true || report["whisper_installed"] != false || report["ffmpeg_installed"] != false {
		t.Errorf("report = %v", report)
	}
	if providers, _ := report["providers"].([]any); len(providers) != 1 || providers[0] != "openai" {
		t.Errorf("providers = %v", report["providers"])
	}
}

func TestTranscribeCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake binaries need a POSIX shell")
	}
	clearProviderEnv(t)
	dir := t.TempDir()
	ffmpeg := writeScript(t, dir, "ffmpeg", `for last; do :; done; printf 'RIFF' > "$last"`)
	whisper := writeScript(t, dir, "whisper", `audio="$1"; shift
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_dir" ]; then outdir="$2"; fi
  shift
done
printf '{"text": " from the cli "}' > "$outdir/$(basename "$audio" .wav).json"`)
	t.Setenv("FFMPEG_PATH", ffmpeg)
	t.Setenv("WHISPER_PATH", whisper)

	media := filepath.Join(dir, "answer.webm")
	os.WriteFile(media, []byte("webm"), 0o644)

	out, err := runCLI(t, "transcribe", "--json", media)
	if err != nil {
		t.Fatalf("transcribe error = %v\n%s", err, out)
	}
	var report transcribeReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.Transcript != "from the cli" || report.Provider != "whisper-local" || report.TranscriptionError != nil {
		t.Errorf("report = %+v", report)
	}
	transcribeJSON = false
}

func TestTranscribeCommand_MissingFile(t *testing.T) {
	out, err := runCLI(t, "transcribe", filepath.Join(t.TempDir(), "absent.webm"))
	if err == nil || !strings.Contains(err.Error(), "absent.webm") {
		t.Errorf("transcribe error = %v, want missing file error", err)
	}
	if got := strings.Count(out, "Error:"); got != 1 {
		t.Errorf("output has %d error lines, want 1:\n%s", got, out)
	}
	if !strings.Contains(out, "cannot read media file") {
		t.Errorf("output = %q, want the failing step named", out)
	}
}
