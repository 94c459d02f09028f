package datastore

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Candidate maps to one entry of the "candidates" mapping in the store document.
type Candidate struct {
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Limit          int       `json:"limit"`
	Email          string    `json:"email,omitempty"`
	ResumeFilename string    `json:"resume_filename,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewToken returns a fresh candidate token: 128 random bits rendered as 32 hex characters.
// No uniqueness check is performed.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
