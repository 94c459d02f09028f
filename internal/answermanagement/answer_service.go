package answermanagement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"interview-platform/backend/internal/coreengine/audionormalizer"
	"interview-platform/backend/internal/coreengine/transcription"
	"interview-platform/backend/internal/datastore"
	"interview-platform/backend/internal/metrics"
	"interview-platform/backend/internal/objectstore"
)

const (
	AnswerStateStoredWithTranscript    = "STORED_WITH_TRANSCRIPT"
	AnswerStateStoredWithoutTranscript = "STORED_WITHOUT_TRANSCRIPT"
	AnswerStateRejected                = "REJECTED"
)

// RecordStore is the part of the record store the pipeline needs.
type RecordStore interface {
	GetCandidate(token string) (*datastore.Candidate, error)
	AppendAnswer(token string, rec datastore.AnswerRecord) error
}

// Normalizer converts raw media into the audio format providers expect.
type Normalizer interface {
	Normalize(ctx context.Context, srcPath, dstPath string) (string, error)
}

// Transcriber turns normalized audio into text. It never fails outright.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) transcription.Outcome
}

// Submission is one uploaded answer.
type Submission struct {
	Token    string
	Question string
	Media    io.Reader
}

// Result is returned to the client once the answer has been recorded.
type Result struct {
	Transcript         string  `json:"transcript"`
	MediaURL           string  `json:"media_url"`
	TranscriptionError *string `json:"transcription_error"`

	State         string `json:"-"`
	MediaFilename string `json:"-"`
}

// AnswerService runs the answer pipeline: store media, normalize, transcribe, record.
type AnswerService struct {
	Records           RecordStore
	Media             objectstore.MediaStore
	Normalizer        Normalizer
	Transcriber       Transcriber
	Metrics           *metrics.Metrics
	RetainFailedMedia bool
}

// NewAnswerService wires the pipeline stages together.
func NewAnswerService(records RecordStore, media objectstore.MediaStore, normalizer Normalizer, transcriber Transcriber, m *metrics.Metrics) *AnswerService {
	if m == nil {
		m = metrics.NewMetrics()
	}
	return &AnswerService{
		Records:           records,
		Media:             media,
		Normalizer:        normalizer,
		Transcriber:       transcriber,
		Metrics:           m,
		RetainFailedMedia: true,
	}
}

// Submit processes one answer synchronously. The returned error is
// datastore.ErrCandidateNotFound, *audionormalizer.ConversionError,
// *audionormalizer.TimeoutError, or an I/O failure.
func (s *AnswerService) Submit(ctx context.Context, sub Submission) (*Result, error) {
	s.Metrics.IncrementAnswersSubmitted()

	// 1. The candidate must exist before any bytes are written.
	if _, err := s.Records.GetCandidate(sub.Token); err != nil {
		s.Metrics.IncrementAnswersRejected(false)
		return nil, err
	}

	// 2. Persist the raw media.
	videoName := objectstore.NewVideoName(sub.Token)
	videoPath, err := s.Media.Put(ctx, videoName, sub.Media)
	if err != nil {
		s.Metrics.IncrementAnswersRejected(false)
		return nil, fmt.Errorf("failed to store answer media: %w", err)
	}
	log.Printf("AnswerService: stored media '%s' for token '%s' (%s backend)", videoName, sub.Token, s.Media.Backend())

	audioPath, err := s.Media.AudioPath(videoName)
	if err != nil {
		s.Metrics.IncrementAnswersRejected(false)
		return nil, fmt.Errorf("failed to resolve audio path: %w", err)
	}

	// 3. Normalize. A failure rejects the answer without a record.
	if _, err := s.Normalizer.Normalize(ctx, videoPath, audioPath); err != nil {
		s.Metrics.IncrementAnswersRejected(isConversionFailure(err))
		log.Printf("AnswerService: conversion failed for '%s': %v", videoName, err)
		s.discardFailedMedia(videoName, audioPath)
		return nil, err
	}

	// 4. Transcribe. Best effort; the answer is accepted from here on.
	outcome := s.Transcriber.Transcribe(ctx, audioPath)

	// 5. Record.
	rec := datastore.AnswerRecord{
		QuestionText:          sub.Question,
		Transcript:            outcome.Transcript,
		MediaFilename:         videoName,
		MediaURL:              objectstore.PublicVideoURL(videoName),
		TranscriptionError:    outcome.Error,
		TranscriptionProvider: outcome.Provider,
		TranscriptionAttempts: toRecordAttempts(outcome.Attempts),
		CreatedAt:             time.Now().UTC(),
	}
	if err := s.Records.AppendAnswer(sub.Token, rec); err != nil {
		s.Metrics.IncrementAnswersRejected(false)
		return nil, fmt.Errorf("failed to record answer: %w", err)
	}

	state := AnswerStateStoredWithTranscript
	if outcome.Transcript == "" {
		state = AnswerStateStoredWithoutTranscript
	}
	s.Metrics.IncrementAnswersStored(outcome.Transcript != "")
	log.Printf("AnswerService: answer for token '%s' recorded as %s", sub.Token, state)

	return &Result{
		Transcript:         rec.Transcript,
		MediaURL:           rec.MediaURL,
		TranscriptionError: rec.TranscriptionError,
		State:              state,
		MediaFilename:      videoName,
	}, nil
}

func (s *AnswerService) discardFailedMedia(videoName, audioPath string) {
	if s.RetainFailedMedia {
		if err := os.Remove(audioPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("AnswerService: failed to remove partial audio '%s': %v", audioPath, err)
		}
		return
	}
	if err := s.Media.Delete(context.Background(), videoName); err != nil {
		log.Printf("AnswerService: failed to delete rejected media '%s': %v", videoName, err)
	}
}

func isConversionFailure(err error) bool {
	var convErr *audionormalizer.ConversionError
	var timeoutErr *audionormalizer.TimeoutError
	return errors.As(err, &convErr) || errors.As(err, &timeoutErr)
}

func toRecordAttempts(attempts []transcription.Attempt) []datastore.TranscriptionAttempt {
	if len(attempts) == 0 {
		return nil
	}
	out := make([]datastore.TranscriptionAttempt, 0, len(attempts))
	for _, a := range attempts {
		ra := datastore.TranscriptionAttempt{Provider: a.Provider, LatencyMs: a.Duration.Milliseconds()}
		if a.Err != nil {
			ra.Error = a.Err.Error()
		}
		out = append(out, ra)
	}
	return out
}
