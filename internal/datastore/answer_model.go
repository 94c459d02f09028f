package datastore

import (
	"encoding/json"
	"time"
)

// AnswerRecord is the persisted result of one question-answer submission.
type AnswerRecord struct {
	QuestionText          string                 `json:"q_text"`
	Transcript            string                 `json:"transcript"`
	MediaFilename         string                 `json:"media_filename"`
	MediaURL              string                 `json:"media_url"`
	TranscriptionError    *string                `json:"transcription_error"`
	TranscriptionProvider string                 `json:"transcription_provider,omitempty"`
	TranscriptionAttempts []TranscriptionAttempt `json:"transcription_attempts,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
}

// TranscriptionAttempt records one provider invocation made while transcribing an answer.
type TranscriptionAttempt struct {
	Provider  string `json:"provider"`
	Error     string `json:"error,omitempty"`
	LatencyMs int64  `json:"latency_ms"`
}

// Document is the whole persisted state: three flat mappings keyed by candidate token.
type Document struct {
	Candidates map[string]Candidate         `json:"candidates"`
	Answers    map[string][]AnswerRecord    `json:"answers"`
	Rubrics    map[string][]json.RawMessage `json:"rubrics"`
}

func emptyDocument() *Document {
	return &Document{
		Candidates: map[string]Candidate{},
		Answers:    map[string][]AnswerRecord{},
		Rubrics:    map[string][]json.RawMessage{},
	}
}

// normalize fills in mappings that a hand-edited or older document may lack.
func (d *Document) normalize() {
	if d.Candidates == nil {
		d.Candidates = map[string]Candidate{}
	}
	if d.Answers == nil {
		d.Answers = map[string][]AnswerRecord{}
	}
	if d.Rubrics == nil {
		d.Rubrics = map[string][]json.RawMessage{}
	}
}
