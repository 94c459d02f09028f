package interviewmanagement

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SaveRubricRequest is the body of POST /rubric. Criteria are stored verbatim.
type SaveRubricRequest struct {
	Token    string            `json:"token"`
	Criteria []json.RawMessage `json:"criteria"`
}

// GetRubricHandler returns {"criteria": [...]} for a token; unknown tokens get an empty list.
func (h *Handlers) GetRubricHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"criteria": h.Records.GetRubric(c.Param("token"))})
}

// SaveRubricHandler replaces the criteria for a token.
func (h *Handlers) SaveRubricHandler(c *gin.Context) {
	var req SaveRubricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if req.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token", "detail": "Missing token"})
		return
	}

	if err := h.Records.SaveRubric(req.Token, req.Criteria); err != nil {
		log.Printf("SaveRubricHandler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save rubric: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
