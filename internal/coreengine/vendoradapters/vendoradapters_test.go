package vendoradapters

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"interview-platform/backend/internal/config"
)

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tok_abc.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenAIASRAdapter_Recognize(t *testing.T) {
	var gotAuth, gotModel, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("path = %v, want /v1/audio/transcriptions", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotModel = r.FormValue("model")
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			return
		}
		defer f.Close()
		gotFile = hdr.Filename
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"text":" hello world "}`)
	}))
	defer srv.Close()

	a := NewOpenAIASRAdapter("sk-test", "", srv.URL+"/", time.Second)
	text, raw, err := a.Recognize(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if text != " hello world " {
		t.Errorf("text = %q, want raw provider text", text)
	}
	if !strings.Contains(raw, "hello world") {
		t.Errorf("raw = %q", raw)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model = %q, want whisper-1", gotModel)
	}
	if gotFile != "tok_abc.wav" {
		t.Errorf("filename = %q, want tok_abc.wav", gotFile)
	}
}

func TestOpenAIASRAdapter_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"http status", http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, "401"},
		{"error payload", http.StatusOK, `{"error":{"message":"quota","type":"insufficient_quota"}}`, "quota"},
		{"not json", http.StatusOK, `<html>`, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			a := NewOpenAIASRAdapter("sk-test", "whisper-1", srv.URL, time.Second)
			_, _, err := a.Recognize(context.Background(), writeAudio(t))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Recognize() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestOpenAIASRAdapter_MissingFile(t *testing.T) {
	a := NewOpenAIASRAdapter("sk-test", "", "http://127.0.0.1:1", time.Second)
	if _, _, err := a.Recognize(context.Background(), filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Error("Recognize() error = nil, want error for missing file")
	}
}

func TestDeepgramASRAdapter_Recognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" {
			t.Errorf("path = %v, want /v1/listen", r.URL.Path)
		}
		if got := r.URL.Query().Get("model"); got != "nova-2" {
			t.Errorf("model = %q, want nova-2", got)
		}
		if got := r.Header.Get("Authorization"); got != "Token dg-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "audio/wav" {
			t.Errorf("Content-Type = %q", got)
		}
		io.WriteString(w, `{"metadata":{"request_id":"r1"},"results":{"channels":[{"alternatives":[{"transcript":"I led the team","confidence":0.9}]}]}}`)
	}))
	defer srv.Close()

	a := NewDeepgramASRAdapter("dg-key", "nova-2", srv.URL, time.Second)
	text, _, err := a.Recognize(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if text != "I led the team" {
		t.Errorf("text = %q", text)
	}
}

func TestDeepgramASRAdapter_NoAlternatives(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"results":{"channels":[]}}`)
	}))
	defer srv.Close()

	a := NewDeepgramASRAdapter("dg-key", "", srv.URL, time.Second)
	text, _, err := a.Recognize(context.Background(), writeAudio(t))
	if err != nil || text != "" {
		t.Errorf("Recognize() = %q, %v, want empty transcript and nil error", text, err)
	}
}

func TestDeepgramASRAdapter_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewDeepgramASRAdapter("dg-key", "", srv.URL, time.Second)
	if _, _, err := a.Recognize(context.Background(), writeAudio(t)); err == nil || !strings.Contains(err.Error(), "503") {
		t.Errorf("Recognize() error = %v, want 503", err)
	}
}

func TestTencentASRAdapter_MissingCredentials(t *testing.T) {
	a := NewTencentASRAdapter("", "", "ap-guangzhou", "", time.Second)
	if a.EngineModelType != "16k_en" {
		t.Errorf("EngineModelType = %q, want 16k_en", a.EngineModelType)
	}
	if _, _, err := a.Recognize(context.Background(), writeAudio(t)); err == nil {
		t.Error("Recognize() error = nil, want missing credential error")
	}
}

// writeFakeWhisper installs a script that mimics `whisper --output_format json`.
func writeFakeWhisper(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake whisper scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "whisper")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

const whisperWritesJSON = `audio="$1"; shift
outdir=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--output_dir" ]; then outdir="$2"; fi
  shift
done
base=$(basename "$audio" .wav)
printf '{"text": " local transcript ", "language": "en"}' > "$outdir/$base.json"`

func TestWhisperCLIAdapter_Recognize(t *testing.T) {
	bin := writeFakeWhisper(t, whisperWritesJSON)
	a := NewWhisperCLIAdapter(bin, "", 5*time.Second)
	if a.Model != "small" {
		t.Errorf("Model = %q, want small", a.Model)
	}
	text, raw, err := a.Recognize(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	if text != " local transcript " {
		t.Errorf("text = %q", text)
	}
	if !strings.Contains(raw, `"language": "en"`) {
		t.Errorf("raw = %q", raw)
	}
}

func TestWhisperCLIAdapter_Failure(t *testing.T) {
	bin := writeFakeWhisper(t, `echo "RuntimeError: model load failed" >&2; exit 3`)
	a := NewWhisperCLIAdapter(bin, "small", 5*time.Second)
	_, _, err := a.Recognize(context.Background(), writeAudio(t))
	if err == nil || !strings.Contains(err.Error(), "model load failed") {
		t.Errorf("Recognize() error = %v, want stderr tail", err)
	}
}

func TestWhisperCLIAdapter_Timeout(t *testing.T) {
	bin := writeFakeWhisper(t, `exec sleep 5`)
	a := NewWhisperCLIAdapter(bin, "small", 200*time.Millisecond)
	_, _, err := a.Recognize(context.Background(), writeAudio(t))
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("Recognize() error = %v, want timeout", err)
	}
}

func TestFindWhisperBinary(t *testing.T) {
	bin := writeFakeWhisper(t, `exit 0`)
	if got := FindWhisperBinary(bin); got != bin {
		t.Errorf("FindWhisperBinary(%q) = %q", bin, got)
	}
	if got := FindWhisperBinary(filepath.Join(t.TempDir(), "missing-whisper")); got != "" {
		t.Errorf("FindWhisperBinary(missing) = %q, want empty", got)
	}
}

func TestBuildProviders(t *testing.T) {
	missingWhisper := filepath.Join(t.TempDir(), "missing-whisper")

	tests := []struct {
		name        string
		cfg         config.TranscriptionConfig
		wantNames   []string
		wantKeySet  bool
		wantWhisper bool
	}{
		{
			name:      "nothing configured",
			cfg:       config.TranscriptionConfig{WhisperPath: missingWhisper},
			wantNames: []string{},
		},
		{
			name: "remote order",
			cfg: config.TranscriptionConfig{
				OpenAIAPIKey:          "sk",
				DeepgramAPIKey:        "dg",
				GoogleCredentialsFile: "/etc/gcp.json",
				TencentSecretID:       "id",
				TencentSecretKey:      "key",
				WhisperPath:           missingWhisper,
			},
			wantNames:  []string{"openai", "deepgram", "google", "tencent"},
			wantKeySet: true,
		},
		{
			name:      "tencent needs both secrets",
			cfg:       config.TranscriptionConfig{TencentSecretID: "id", WhisperPath: missingWhisper},
			wantNames: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, caps := BuildProviders(tt.cfg)
			names := ProviderNames(providers)
			if strings.Join(names, ",") != strings.Join(tt.wantNames, ",") {
				t.Errorf("providers = %v, want %v", names, tt.wantNames)
			}
			if caps.OpenAIKeySet != tt.wantKeySet {
				t.Errorf("OpenAIKeySet = %v, want %v", caps.OpenAIKeySet, tt.wantKeySet)
			}
			if caps.WhisperInstalled != tt.wantWhisper {
				t.Errorf("WhisperInstalled = %v, want %v", caps.WhisperInstalled, tt.wantWhisper)
			}
			if caps.OpenAIVersion == nil || !caps.OpenAIInstalled {
				t.Error("OpenAI client should always be reported as installed")
			}
		})
	}
}

func TestBuildProviders_LocalWhisperLast(t *testing.T) {
	bin := writeFakeWhisper(t, `exit 0`)
	providers, caps := BuildProviders(config.TranscriptionConfig{OpenAIAPIKey: "sk", WhisperPath: bin})
	names := ProviderNames(providers)
	if len(names) != 2 || names[0] != "openai" || names[1] != "whisper-local" {
		t.Errorf("providers = %v, want [openai whisper-local]", names)
	}
	if !caps.WhisperInstalled || caps.WhisperPath != bin {
		t.Errorf("caps = %+v", caps)
	}
}

func TestMockASRAdapter_RecordsCalls(t *testing.T) {
	m := &MockASRAdapter{Text: "ok"}
	m.Recognize(context.Background(), "a.wav")
	m.Recognize(context.Background(), "b.wav")
	if got := m.Calls(); len(got) != 2 || got[1] != "b.wav" {
		t.Errorf("Calls() = %v", got)
	}
	if m.Name() != "mock" {
		t.Errorf("Name() = %q, want mock", m.Name())
	}
}
