package answermanagement

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"interview-platform/backend/internal/objectstore"

	"github.com/gin-gonic/gin"
)

// ServeVideoHandler streams a stored raw answer blob as an attachment.
func (h *Handlers) ServeVideoHandler(c *gin.Context) {
	name := c.Param("filename")
	if err := objectstore.ValidateName(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found", "detail": "File not found"})
		return
	}

	reader, size, err := h.Service.Media.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, objectstore.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found", "detail": "File not found"})
			return
		}
		log.Printf("ServeVideoHandler: failed to open '%s': %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read media: " + err.Error()})
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, size, "video/webm", reader, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", name),
	})
}
