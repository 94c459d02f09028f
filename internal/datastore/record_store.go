package datastore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrCandidateNotFound is returned when a token does not name a registered candidate.
var ErrCandidateNotFound = errors.New("candidate token not found")

// RecordStore persists candidates, answers and rubrics in a single JSON document.
// Every operation reads the whole document and mutations rewrite it; the mutex
// spans the full read-modify-write cycle so concurrent writers never drop each
// other's changes.
type RecordStore struct {
	path string
	mu   sync.Mutex
}

// OpenRecordStore prepares a store backed by the file at path. The file itself is
// created lazily on the first mutation.
func OpenRecordStore(path string) (*RecordStore, error) {
	if path == "" {
		return nil, errors.New("record store path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create record store directory: %w", err)
	}
	return &RecordStore{path: path}, nil
}

// Path returns the location of the backing document.
func (s *RecordStore) Path() string {
	return s.path
}

// load reads the document. A missing file is an empty store. An invalid file is
// moved aside and treated as empty. Any other read failure is returned so callers
// never overwrite a document they could not see.
func (s *RecordStore) load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return emptyDocument(), nil
		}
		return nil, fmt.Errorf("failed to read record store '%s': %w", s.path, err)
	}

	doc := emptyDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		backup := fmt.Sprintf("%s.corrupt-%d", s.path, time.Now().UnixNano())
		if renameErr := os.Rename(s.path, backup); renameErr != nil {
			return nil, fmt.Errorf("record store '%s' is corrupt (%v) and could not be preserved: %w", s.path, err, renameErr)
		}
		log.Printf("WARNING: record store '%s' is corrupt (%v). Preserved as '%s', continuing with an empty store.", s.path, err, backup)
		return emptyDocument(), nil
	}
	doc.normalize()
	return doc, nil
}

// save replaces the document atomically: write a sibling temp file, then rename.
func (s *RecordStore) save(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for record store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write record store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close record store temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace record store '%s': %w", s.path, err)
	}
	return nil
}

func (s *RecordStore) update(fn func(doc *Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *RecordStore) view() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// viewOrEmpty serves the read-only listings, which degrade to empty results when
// the document cannot be read.
func (s *RecordStore) viewOrEmpty() *Document {
	doc, err := s.view()
	if err != nil {
		log.Printf("WARNING: %v", err)
		return emptyDocument()
	}
	return doc
}

// Snapshot returns a full copy of the current document.
func (s *RecordStore) Snapshot() *Document {
	return s.viewOrEmpty()
}

// CreateCandidate registers a candidate under token.
func (s *RecordStore) CreateCandidate(token string, c Candidate) error {
	if token == "" {
		return errors.New("candidate token cannot be empty")
	}
	return s.update(func(doc *Document) error {
		doc.Candidates[token] = c
		return nil
	})
}

// GetCandidate returns the candidate registered under token.
func (s *RecordStore) GetCandidate(token string) (*Candidate, error) {
	doc, err := s.view()
	if err != nil {
		return nil, err
	}
	c, ok := doc.Candidates[token]
	if !ok {
		return nil, fmt.Errorf("candidate '%s': %w", token, ErrCandidateNotFound)
	}
	return &c, nil
}

// ListCandidates returns the token to candidate mapping.
func (s *RecordStore) ListCandidates() map[string]Candidate {
	return s.viewOrEmpty().Candidates
}

// AppendAnswer appends rec to the token's answer list. The candidate must exist.
func (s *RecordStore) AppendAnswer(token string, rec AnswerRecord) error {
	return s.update(func(doc *Document) error {
		if _, ok := doc.Candidates[token]; !ok {
			return fmt.Errorf("candidate '%s': %w", token, ErrCandidateNotFound)
		}
		doc.Answers[token] = append(doc.Answers[token], rec)
		return nil
	})
}

// ListAnswers returns the answers recorded for token, oldest first.
func (s *RecordStore) ListAnswers(token string) []AnswerRecord {
	answers := s.viewOrEmpty().Answers[token]
	if answers == nil {
		return []AnswerRecord{}
	}
	return answers
}

// GetRubric returns the criteria saved for token, or an empty list.
func (s *RecordStore) GetRubric(token string) []json.RawMessage {
	criteria := s.viewOrEmpty().Rubrics[token]
	if criteria == nil {
		return []json.RawMessage{}
	}
	return criteria
}

// SaveRubric replaces the criteria saved for token. The token is not required to
// name a registered candidate.
func (s *RecordStore) SaveRubric(token string, criteria []json.RawMessage) error {
	if token == "" {
		return errors.New("rubric token cannot be empty")
	}
	if criteria == nil {
		criteria = []json.RawMessage{}
	}
	return s.update(func(doc *Document) error {
		doc.Rubrics[token] = criteria
		return nil
	})
}
