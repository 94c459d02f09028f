package answermanagement

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"interview-platform/backend/internal/coreengine/audionormalizer"
	"interview-platform/backend/internal/coreengine/vendoradapters"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.POST("/answer", h.SubmitAnswerHandler)
	r.GET("/media/video/:filename", h.ServeVideoHandler)
	return r
}

func multipartAnswer(t *testing.T, fields map[string]string, file []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		w.WriteField(k, v)
	}
	if file != nil {
		fw, err := w.CreateFormFile("file", "answer.webm")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(file)
	}
	w.Close()
	return &body, w.FormDataContentType()
}

func postAnswer(t *testing.T, r http.Handler, fields map[string]string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ctype := multipartAnswer(t, fields, file)
	req := httptest.NewRequest(http.MethodPost, "/answer", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSubmitAnswerHandler_Success(t *testing.T) {
	env := newTestEnv(t, &stubNormalizer{}, &vendoradapters.MockASRAdapter{Text: "I enjoy Go"})
	token := env.addCandidate(t, "Ada")
	r := newTestRouter(NewHandlers(env.service, 0))

	rec := postAnswer(t, r, map[string]string{"token": token, "question": "Why Go?"}, []byte("webm-data"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["transcript"] != "I enjoy Go" {
		t.Errorf("transcript = %v", resp["transcript"])
	}
	if v, ok := resp["transcription_error"]; !ok || v != nil {
		t.Errorf("transcription_error = %v (present %v), want null", v, ok)
	}
	if len(resp) != 3 {
		t.Errorf("response has fields %v, want exactly 3", resp)
	}

	mediaURL, _ := resp["media_url"].(string)
	getRec := httptest.NewRecorder()
	r.ServeHTTP(getRec, httptest.NewRequest(http.MethodGet, mediaURL, nil))
	if getRec.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d", mediaURL, getRec.Code)
	}
	if got := getRec.Header().Get("Content-Type"); got != "video/webm" {
		t.Errorf("Content-Type = %q", got)
	}
	if !strings.Contains(getRec.Header().Get("Content-Disposition"), "attachment") {
		t.Errorf("Content-Disposition = %q", getRec.Header().Get("Content-Disposition"))
	}
	if getRec.Body.String() != "webm-data" {
		t.Errorf("body = %q", getRec.Body.String())
	}
}

func TestSubmitAnswerHandler_UnknownToken(t *testing.T) {
	env := newTestEnv(t, &stubNormalizer{})
	r := newTestRouter(NewHandlers(env.service, 0))

	rec := postAnswer(t, r, map[string]string{"token": "missing", "question": "Q"}, []byte("x"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Candidate token not found") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSubmitAnswerHandler_ConversionFailure(t *testing.T) {
	env := newTestEnv(t, &stubNormalizer{err: &audionormalizer.ConversionError{ExitCode: 1, Stderr: "moov atom not found"}})
	token := env.addCandidate(t, "Ada")
	r := newTestRouter(NewHandlers(env.service, 0))

	rec := postAnswer(t, r, map[string]string{"token": token, "question": "Q"}, []byte("x"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["detail"] != "Audio conversion failed: moov atom not found" {
		t.Errorf("detail = %q", resp["detail"])
	}
	if len(env.records.ListAnswers(token)) != 0 {
		t.Error("answer recorded after conversion failure")
	}
}

func TestSubmitAnswerHandler_MissingFields(t *testing.T) {
	env := newTestEnv(t, &stubNormalizer{})
	token := env.addCandidate(t, "Ada")
	r := newTestRouter(NewHandlers(env.service, 0))

	tests := []struct {
		name   string
		fields map[string]string
		file   []byte
	}{
		{"no token", map[string]string{"question": "Q"}, []byte("x")},
		{"no question", map[string]string{"token": token}, []byte("x")},
		{"no file", map[string]string{"token": token, "question": "Q"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postAnswer(t, r, tt.fields, tt.file)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestSubmitAnswerHandler_TooLarge(t *testing.T) {
	env := newTestEnv(t, &stubNormalizer{})
	token := env.addCandidate(t, "Ada")
	r := newTestRouter(NewHandlers(env.service, 1024))

	rec := postAnswer(t, r, map[string]string{"token": token, "question": "Q"}, bytes.Repeat([]byte("x"), 64<<10))
	if rec.Code != http.StatusRequestEntityTooLarge && rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 413 or 400", rec.Code)
	}
	if len(env.records.ListAnswers(token)) != 0 {
		t.Error("oversized upload was recorded")
	}
}

func TestServeVideoHandler_NotFound(t *testing.T) {
	env := newTestEnv(t, &stubNormalizer{})
	r := newTestRouter(NewHandlers(env.service, 0))

	for _, path := range []string{"/media/video/missing.webm", "/media/video/..%2Fdb.json"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, rec.Code)
		}
		io.Copy(io.Discard, rec.Body)
	}
}
