package answermanagement

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"interview-platform/backend/internal/coreengine/audionormalizer"
	"interview-platform/backend/internal/datastore"

	"github.com/gin-gonic/gin"
)

const defaultMaxUploadSize = 200 << 20 // 200 MB

// multipartMemory is how much of a form is kept in memory before spilling to disk.
const multipartMemory = 32 << 20

// Handlers exposes the answer pipeline and stored media over HTTP.
type Handlers struct {
	Service       *AnswerService
	MaxUploadSize int64
}

func NewHandlers(service *AnswerService, maxUploadSize int64) *Handlers {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &Handlers{Service: service, MaxUploadSize: maxUploadSize}
}

// abortWithDetail keeps the "detail" field that the interview frontend reads next to "error".
func abortWithDetail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "detail": msg})
}

// SubmitAnswerHandler handles multipart answer uploads with fields file, token and question.
func (h *Handlers) SubmitAnswerHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithDetail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds limit of %d MB", h.MaxUploadSize>>20))
			return
		}
		abortWithDetail(c, http.StatusBadRequest, fmt.Sprintf("Failed to parse multipart form: %v", err))
		return
	}

	token := c.PostForm("token")
	question := c.PostForm("question")
	if token == "" {
		abortWithDetail(c, http.StatusBadRequest, "token is required")
		return
	}
	if question == "" {
		abortWithDetail(c, http.StatusBadRequest, "question is required")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			abortWithDetail(c, http.StatusBadRequest, "file is required")
		} else {
			abortWithDetail(c, http.StatusBadRequest, fmt.Sprintf("Failed to get file: %v", err))
		}
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithDetail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to open uploaded file: %v", err))
		return
	}
	defer file.Close()

	result, err := h.Service.Submit(c.Request.Context(), Submission{Token: token, Question: question, Media: file})
	if err != nil {
		var convErr *audionormalizer.ConversionError
		var timeoutErr *audionormalizer.TimeoutError
		switch {
		case errors.Is(err, datastore.ErrCandidateNotFound):
			abortWithDetail(c, http.StatusNotFound, "Candidate token not found")
		case errors.As(err, &convErr):
			abortWithDetail(c, http.StatusInternalServerError, "Audio conversion failed: "+convErr.Stderr)
		case errors.As(err, &timeoutErr):
			abortWithDetail(c, http.StatusInternalServerError, "Audio conversion failed: "+timeoutErr.Error())
		default:
			log.Printf("SubmitAnswerHandler: %v", err)
			abortWithDetail(c, http.StatusInternalServerError, "Failed to process answer: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
