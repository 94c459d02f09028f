// Package bootstrap assembles the interview backend from its configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"interview-platform/backend/internal/answermanagement"
	"interview-platform/backend/internal/apigateway"
	"interview-platform/backend/internal/config"
	"interview-platform/backend/internal/coreengine/audionormalizer"
	"interview-platform/backend/internal/coreengine/questiongenerator"
	"interview-platform/backend/internal/coreengine/transcription"
	"interview-platform/backend/internal/coreengine/vendoradapters"
	"interview-platform/backend/internal/datastore"
	"interview-platform/backend/internal/diagnostics"
	"interview-platform/backend/internal/interviewmanagement"
	"interview-platform/backend/internal/metrics"
	"interview-platform/backend/internal/objectstore"

	"github.com/gin-gonic/gin"
)

// App holds every long-lived component of a running backend.
type App struct {
	Config       *config.AppConfig
	Records      *datastore.RecordStore
	Media        objectstore.MediaStore
	Normalizer   *audionormalizer.FFmpegNormalizer
	Chain        *transcription.Chain
	Capabilities vendoradapters.Capabilities
	Questions    *questiongenerator.QuestionBank
	Metrics      *metrics.Metrics
	Answers      *answermanagement.AnswerService
}

// New opens the stores and builds the transcription chain described by cfg.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	records, err := datastore.OpenRecordStore(cfg.Storage.DBFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	media, err := NewMediaStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	questions := questiongenerator.DefaultBank()
	if cfg.Interview.QuestionBankFile != "" {
		questions, err = questiongenerator.LoadBank(cfg.Interview.QuestionBankFile)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded %d question templates from '%s'", len(questions.Templates), cfg.Interview.QuestionBankFile)
	}

	normalizer := audionormalizer.NewFFmpegNormalizer(cfg.Normalizer.FFmpegPath, cfg.Normalizer.Timeout)
	if !normalizer.Available() {
		log.Printf("WARNING: ffmpeg binary '%s' not found. Answer uploads will fail conversion.", normalizer.Binary)
	}

	m := metrics.NewMetrics()
	providers, caps := vendoradapters.BuildProviders(cfg.Transcription)
	chain := transcription.NewChain(m, providers...)

	answers := answermanagement.NewAnswerService(records, media, normalizer, chain, m)
	answers.RetainFailedMedia = cfg.Storage.RetainFailedMedia

	return &App{
		Config:       cfg,
		Records:      records,
		Media:        media,
		Normalizer:   normalizer,
		Chain:        chain,
		Capabilities: caps,
		Questions:    questions,
		Metrics:      m,
		Answers:      answers,
	}, nil
}

// NewMediaStore returns the disk store, or a MinIO store spooling through the
// disk store when MEDIA_BACKEND=minio.
func NewMediaStore(ctx context.Context, cfg *config.AppConfig) (objectstore.MediaStore, error) {
	disk, err := objectstore.NewDiskStore(filepath.Join(cfg.Storage.DataDir, "uploads"))
	if err != nil {
		return nil, err
	}
	if cfg.Storage.MediaBackend != "minio" {
		return disk, nil
	}
	store, err := objectstore.NewMinioStore(ctx, cfg.Minio, disk)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO media store: %w", err)
	}
	return store, nil
}

// Router builds the HTTP router over the app's components.
func (a *App) Router() *gin.Engine {
	return apigateway.SetupRouter(apigateway.RouterDeps{
		Answers: answermanagement.NewHandlers(a.Answers, a.Config.Server.MaxUploadBytes),
		Interviews: interviewmanagement.NewHandlers(a.Records, a.Media, a.Questions, a.Metrics,
			a.Config.Interview.FrontendBaseURL, a.Config.Server.MaxUploadBytes),
		Diagnostics: diagnostics.NewHandlers(a.Capabilities, a.Metrics, a.Media.Backend(), a.Normalizer.Available()),
	})
}
