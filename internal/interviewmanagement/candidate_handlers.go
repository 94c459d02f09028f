package interviewmanagement

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"interview-platform/backend/internal/coreengine/questiongenerator"
	"interview-platform/backend/internal/datastore"
	"interview-platform/backend/internal/metrics"
	"interview-platform/backend/internal/objectstore"

	"github.com/gin-gonic/gin"
)

const (
	defaultMaxUploadSize = 200 << 20 // 200 MB
	multipartMemory      = 32 << 20
)

// Handlers serves candidate registration, questions, rubrics and results.
type Handlers struct {
	Records         *datastore.RecordStore
	Media           objectstore.MediaStore
	Questions       *questiongenerator.QuestionBank
	Metrics         *metrics.Metrics
	FrontendBaseURL string
	MaxUploadSize   int64
}

func NewHandlers(records *datastore.RecordStore, media objectstore.MediaStore, questions *questiongenerator.QuestionBank, m *metrics.Metrics, frontendBaseURL string, maxUploadSize int64) *Handlers {
	if questions == nil {
		questions = questiongenerator.DefaultBank()
	}
	if m == nil {
		m = metrics.NewMetrics()
	}
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &Handlers{
		Records:         records,
		Media:           media,
		Questions:       questions,
		Metrics:         m,
		FrontendBaseURL: strings.TrimRight(frontendBaseURL, "/"),
		MaxUploadSize:   maxUploadSize,
	}
}

type createCandidateResponse struct {
	Token string `json:"token"`
	datastore.Candidate
}

// ListCandidatesHandler returns the token to candidate mapping.
func (h *Handlers) ListCandidatesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.Records.ListCandidates())
}

// CreateCandidateHandler registers a candidate from form fields name, role,
// limit (default 5), optional email and an optional resume file.
func (h *Handlers) CreateCandidateHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)
	// url-encoded bodies are parsed by the same call and report ErrNotMultipart.
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			msg := fmt.Sprintf("Upload exceeds limit of %d MB", h.MaxUploadSize>>20)
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": msg, "detail": msg})
			return
		}
		msg := fmt.Sprintf("Failed to parse form: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "detail": msg})
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	role := strings.TrimSpace(c.PostForm("role"))
	if name == "" || role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and role are required", "detail": "name and role are required"})
		return
	}

	limit := questiongenerator.DefaultLimit
	if limitStr := strings.TrimSpace(c.PostForm("limit")); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer", "detail": "limit must be an integer"})
			return
		}
		limit = parsed
	}

	token := datastore.NewToken()
	candidate := datastore.Candidate{
		Name:      name,
		Role:      role,
		Limit:     limit,
		Email:     strings.TrimSpace(c.PostForm("email")),
		CreatedAt: time.Now().UTC(),
	}

	fileHeader, err := c.FormFile("resume")
	switch {
	case err == nil:
		resumeName := objectstore.ResumeName(token, fileHeader.Filename)
		if objectstore.ValidateName(resumeName) != nil {
			resumeName = objectstore.ResumeName(token, "")
		}
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to open resume: %v", err)})
			return
		}
		defer file.Close()
		if _, err := h.Media.Put(c.Request.Context(), resumeName, file); err != nil {
			log.Printf("CreateCandidateHandler: failed to store resume for token '%s': %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to store resume: %v", err)})
			return
		}
		candidate.ResumeFilename = resumeName
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// resume is optional
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Failed to read resume: %v", err)})
		return
	}

	if err := h.Records.CreateCandidate(token, candidate); err != nil {
		log.Printf("CreateCandidateHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create candidate: " + err.Error()})
		return
	}
	h.Metrics.IncrementCandidatesCreated()
	log.Printf("Candidate '%s' registered for role '%s' with token '%s'", name, role, token)

	c.JSON(http.StatusOK, createCandidateResponse{Token: token, Candidate: candidate})
}

// GetQuestionsHandler returns the question set for ?role= truncated to max(1, limit).
func (h *Handlers) GetQuestionsHandler(c *gin.Context) {
	limit := questiongenerator.DefaultLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
			return
		}
		limit = parsed
	}
	c.JSON(http.StatusOK, gin.H{"questions": h.Questions.Generate(c.Query("role"), limit)})
}
