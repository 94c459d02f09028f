package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds every setting the interview backend reads at startup.
// Values come from the process environment, optionally seeded from a .env file.
type AppConfig struct {
	Server        ServerConfig
	Storage       StorageConfig
	Minio         MinioConfig
	Normalizer    NormalizerConfig
	Transcription TranscriptionConfig
	Interview     InterviewConfig
}

type ServerConfig struct {
	Port            int
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
}

// StorageConfig locates the record store document and the media directories.
type StorageConfig struct {
	DataDir           string
	DBFile            string
	MediaBackend      string // "disk" or "minio"
	RetainFailedMedia bool
}

type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

type NormalizerConfig struct {
	FFmpegPath string
	Timeout    time.Duration
}

// TranscriptionConfig carries the credentials and runtime paths the provider
// registry inspects to decide which providers join the fallback chain.
type TranscriptionConfig struct {
	RemoteTimeout time.Duration

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	DeepgramAPIKey  string
	DeepgramModel   string
	DeepgramBaseURL string

	GoogleCredentialsFile string
	GoogleLanguageCode    string

	TencentSecretID  string
	TencentSecretKey string
	TencentRegion    string
	TencentEngine    string

	WhisperPath    string
	WhisperModel   string
	WhisperTimeout time.Duration
}

type InterviewConfig struct {
	QuestionBankFile string
	FrontendBaseURL  string
}

// LoadEnvFiles seeds the environment from the given .env files. Missing files
// are ignored; variables already present in the environment win.
func LoadEnvFiles(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Printf("WARNING: failed to load env file '%s': %v", p, err)
		}
	}
}

// LoadAppConfig reads the configuration from the environment.
func LoadAppConfig() *AppConfig {
	dataDir := getEnv("DATA_DIR", "data")
	cfg := &AppConfig{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_MB", 200)) << 20,
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Storage: StorageConfig{
			DataDir:           dataDir,
			DBFile:            getEnv("DB_FILE", filepath.Join(dataDir, "db.json")),
			MediaBackend:      strings.ToLower(getEnv("MEDIA_BACKEND", "disk")),
			RetainFailedMedia: getEnvAsBool("RETAIN_FAILED_MEDIA", true),
		},
		Minio: MinioConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", ""),
			AccessKeyID:     getEnv("MINIO_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("MINIO_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("MINIO_BUCKET_NAME", ""),
			UseSSL:          getEnvAsBool("MINIO_USE_SSL", false),
		},
		Normalizer: NormalizerConfig{
			FFmpegPath: getEnv("FFMPEG_PATH", "ffmpeg"),
			Timeout:    getEnvAsDuration("FFMPEG_TIMEOUT", 2*time.Minute),
		},
		Transcription: TranscriptionConfig{
			RemoteTimeout: getEnvAsDuration("REMOTE_TIMEOUT", 2*time.Minute),

			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
			OpenAIModel:   getEnv("OPENAI_MODEL", "whisper-1"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),

			DeepgramAPIKey:  getEnv("DEEPGRAM_API_KEY", ""),
			DeepgramModel:   getEnv("DEEPGRAM_MODEL", "nova-2"),
			DeepgramBaseURL: getEnv("DEEPGRAM_BASE_URL", "https://api.deepgram.com"),

			GoogleCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			GoogleLanguageCode:    getEnv("GOOGLE_SPEECH_LANGUAGE", "en-US"),

			TencentSecretID:  getEnv("TENCENTCLOUD_SECRET_ID", ""),
			TencentSecretKey: getEnv("TENCENTCLOUD_SECRET_KEY", ""),
			TencentRegion:    getEnv("TENCENTCLOUD_REGION", "ap-guangzhou"),
			TencentEngine:    getEnv("TENCENTCLOUD_ENGINE", "16k_en"),

			WhisperPath:    getEnv("WHISPER_PATH", "whisper"),
			WhisperModel:   getEnv("WHISPER_MODEL", "small"),
			WhisperTimeout: getEnvAsDuration("WHISPER_TIMEOUT", 10*time.Minute),
		},
		Interview: InterviewConfig{
			QuestionBankFile: getEnv("QUESTION_BANK_FILE", ""),
			FrontendBaseURL:  strings.TrimRight(getEnv("FRONTEND_BASE_URL", "http://localhost:5173"), "/"),
		},
	}

	if cfg.Storage.MediaBackend != "disk" && cfg.Storage.MediaBackend != "minio" {
		log.Printf("WARNING: unknown MEDIA_BACKEND '%s'. Falling back to disk.", cfg.Storage.MediaBackend)
		cfg.Storage.MediaBackend = "disk"
	}
	if cfg.Normalizer.Timeout <= 0 {
		log.Println("WARNING: FFMPEG_TIMEOUT must be positive. Using 2m.")
		cfg.Normalizer.Timeout = 2 * time.Minute
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("WARNING: %s='%s' is not a valid integer. Using default %d.", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
		log.Printf("WARNING: %s='%s' is not a valid boolean. Using default %v.", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("WARNING: %s='%s' is not a valid duration. Using default %s.", key, value, defaultValue)
	}
	return defaultValue
}
