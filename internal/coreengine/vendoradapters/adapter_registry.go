package vendoradapters

import (
	"log"
	"strings"

	"interview-platform/backend/internal/config"
)

// OpenAIClientVersion identifies the OpenAI transcription client built into this binary.
const OpenAIClientVersion = "v1-audio-transcriptions"

// Capabilities describes which transcription backends are usable in this process.
type Capabilities struct {
	OpenAIInstalled  bool     `json:"openai_installed"`
	OpenAIVersion    *string  `json:"openai_version"`
	OpenAIKeySet     bool     `json:"OPENAI_API_KEY_set"`
	WhisperInstalled bool     `json:"whisper_installed"`
	WhisperPath      string   `json:"whisper_path,omitempty"`
	Providers        []string `json:"providers"`
}

// BuildProviders returns the ordered provider list for the fallback chain.
// Remote providers join only when their credentials are configured; the local
// whisper provider joins last and only when its binary can be found.
func BuildProviders(cfg config.TranscriptionConfig) ([]ASRAdapter, Capabilities) {
	var providers []ASRAdapter
	version := OpenAIClientVersion
	caps := Capabilities{
		OpenAIInstalled: true,
		OpenAIVersion:   &version,
		OpenAIKeySet:    cfg.OpenAIAPIKey != "",
	}

	if cfg.OpenAIAPIKey != "" {
		providers = append(providers, NewOpenAIASRAdapter(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.RemoteTimeout))
	}
	if cfg.DeepgramAPIKey != "" {
		providers = append(providers, NewDeepgramASRAdapter(cfg.DeepgramAPIKey, cfg.DeepgramModel, cfg.DeepgramBaseURL, cfg.RemoteTimeout))
	}
	if cfg.GoogleCredentialsFile != "" {
		providers = append(providers, NewGoogleASRAdapter(cfg.GoogleCredentialsFile, cfg.GoogleLanguageCode, cfg.RemoteTimeout))
	}
	if cfg.TencentSecretID != "" && cfg.TencentSecretKey != "" {
		providers = append(providers, NewTencentASRAdapter(cfg.TencentSecretID, cfg.TencentSecretKey, cfg.TencentRegion, cfg.TencentEngine, cfg.RemoteTimeout))
	}

	if whisperPath := FindWhisperBinary(cfg.WhisperPath); whisperPath != "" {
		caps.WhisperInstalled = true
		caps.WhisperPath = whisperPath
		providers = append(providers, NewWhisperCLIAdapter(whisperPath, cfg.WhisperModel, cfg.WhisperTimeout))
	}

	caps.Providers = ProviderNames(providers)
	if len(providers) == 0 {
		log.Println("WARNING: no transcription provider is configured. Answers will be stored without transcripts.")
	} else {
		log.Printf("Transcription chain: %s", strings.Join(caps.Providers, " -> "))
	}
	return providers, caps
}

// ProviderNames lists provider names in chain order.
func ProviderNames(providers []ASRAdapter) []string {
	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name())
	}
	return names
}
