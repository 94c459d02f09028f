// Package diagnostics serves liveness and capability endpoints for operators.
package diagnostics

import (
	"net/http"

	"interview-platform/backend/internal/coreengine/vendoradapters"
	"interview-platform/backend/internal/metrics"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Capabilities vendoradapters.Capabilities
	Metrics      *metrics.Metrics
	MediaBackend string
	FFmpegReady  bool
}

func NewHandlers(caps vendoradapters.Capabilities, m *metrics.Metrics, mediaBackend string, ffmpegReady bool) *Handlers {
	if m == nil {
		m = metrics.NewMetrics()
	}
	if caps.Providers == nil {
		caps.Providers = []string{}
	}
	return &Handlers{Capabilities: caps, Metrics: m, MediaBackend: mediaBackend, FFmpegReady: ffmpegReady}
}

func (h *Handlers) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CapabilitiesHandler reports which transcription backends this process can use.
func (h *Handlers) CapabilitiesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"openai_installed":   h.Capabilities.OpenAIInstalled,
		"openai_version":     h.Capabilities.OpenAIVersion,
		"OPENAI_API_KEY_set": h.Capabilities.OpenAIKeySet,
		"whisper_installed":  h.Capabilities.WhisperInstalled,
		"providers":          h.Capabilities.Providers,
		"ffmpeg_installed":   h.FFmpegReady,
		"media_backend":      h.MediaBackend,
	})
}

func (h *Handlers) MetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Metrics.GetSnapshot())
}
