package interviewmanagement

import (
	"net/http"
	"sort"

	"interview-platform/backend/internal/datastore"

	"github.com/gin-gonic/gin"
)

// CandidateResult is one row of the aggregated results view.
type CandidateResult struct {
	Token         string                   `json:"token"`
	Name          string                   `json:"name"`
	Role          string                   `json:"role"`
	Email         string                   `json:"email"`
	Answers       []datastore.AnswerRecord `json:"answers"`
	TotalScore    *float64                 `json:"total_score"` // always null; no scoring yet
	InterviewLink string                   `json:"interview_link"`
}

// BuildResults aggregates every candidate with its answers, oldest registration first.
func BuildResults(doc *datastore.Document, frontendBaseURL string) []CandidateResult {
	tokens := make([]string, 0, len(doc.Candidates))
	for token := range doc.Candidates {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		a, b := doc.Candidates[tokens[i]], doc.Candidates[tokens[j]]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return tokens[i] < tokens[j]
	})

	out := make([]CandidateResult, 0, len(tokens))
	for _, token := range tokens {
		cand := doc.Candidates[token]
		answers := doc.Answers[token]
		if answers == nil {
			answers = []datastore.AnswerRecord{}
		}
		out = append(out, CandidateResult{
			Token:         token,
			Name:          cand.Name,
			Role:          cand.Role,
			Email:         cand.Email,
			Answers:       answers,
			InterviewLink: frontendBaseURL + "/candidate/" + token,
		})
	}
	return out
}

// GetResultsHandler returns {"candidates": [...]}.
func (h *Handlers) GetResultsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"candidates": BuildResults(h.Records.Snapshot(), h.FrontendBaseURL)})
}
