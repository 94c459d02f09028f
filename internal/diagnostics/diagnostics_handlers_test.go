package diagnostics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"interview-platform/backend/internal/coreengine/vendoradapters"
	"interview-platform/backend/internal/metrics"
)

func TestDiagnosticsHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	version := vendoradapters.OpenAIClientVersion
	m := metrics.NewMetrics()
	m.IncrementAnswersSubmitted()
	h := NewHandlers(vendoradapters.Capabilities{
		OpenAIInstalled: true,
		OpenAIVersion:   &version,
		OpenAIKeySet:    true,
		Providers:       []string{"openai"},
	}, m, "disk", false)

	r := gin.New()
	r.GET("/health", h.HealthHandler)
	r.GET("/debug/openai", h.CapabilitiesHandler)
	r.GET("/debug/metrics", h.MetricsHandler)

	tests := []struct {
		path  string
		check func(t *testing.T, body map[string]any)
	}{
		{"/health", func(t *testing.T, body map[string]any) {
			if body["status"] != "ok" {
				t.Errorf("status = %v", body["status"])
			}
		}},
		{"/debug/openai", func(t *testing.T, body map[string]any) {
			if body["openai_installed"] != true || body["OPENAI_API_KEY_set"] != true || body["whisper_installed"] != false {
				t.Errorf("flags = %v", body)
			}
			if body["openai_version"] != version {
				t.Errorf("openai_version = %v", body["openai_version"])
			}
			if providers, _ := body["providers"].([]any); len(providers) != 1 || providers[0] != "openai" {
				t.Errorf("providers = %v", body["providers"])
			}
		}},
		{"/debug/metrics", func(t *testing.T, body map[string]any) {
			if body["answers_submitted"] != float64(1) {
				t.Errorf("answers_submitted = %v", body["answers_submitted"])
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			tt.check(t, body)
		})
	}
}

func TestCapabilitiesHandler_NoProviders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandlers(vendoradapters.Capabilities{}, nil, "disk", true)
	r := gin.New()
	r.GET("/debug/openai", h.CapabilitiesHandler)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/openai", nil))
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if v, ok := body["openai_version"]; !ok || v != nil {
		t.Errorf("openai_version = %v, want null", v)
	}
	if providers, ok := body["providers"].([]any); !ok || len(providers) != 0 {
		t.Errorf("providers = %v, want []", body["providers"])
	}
}
