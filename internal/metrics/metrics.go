package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu                 sync.RWMutex
	CandidatesCreated  int64
	AnswersSubmitted   int64
	AnswersStored      int64
	AnswersRejected    int64
	ConversionFailures int64
	TranscriptsMissing int64
	ProviderAttempts   map[string]int64
	ProviderFailures   map[string]int64
	LastUpdateTime     time.Time
}

// Snapshot is a point-in-time copy safe to serialize.
type Snapshot struct {
	CandidatesCreated  int64            `json:"candidates_created"`
	AnswersSubmitted   int64            `json:"answers_submitted"`
	AnswersStored      int64            `json:"answers_stored"`
	AnswersRejected    int64            `json:"answers_rejected"`
	ConversionFailures int64            `json:"conversion_failures"`
	TranscriptsMissing int64            `json:"transcripts_missing"`
	ProviderAttempts   map[string]int64 `json:"provider_attempts"`
	ProviderFailures   map[string]int64 `json:"provider_failures"`
	LastUpdateTime     time.Time        `json:"last_update_time"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		ProviderAttempts: make(map[string]int64),
		ProviderFailures: make(map[string]int64),
		LastUpdateTime:   time.Now(),
	}
}

func (m *Metrics) IncrementCandidatesCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesCreated++
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAnswersSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersSubmitted++
	m.LastUpdateTime = time.Now()
}

// IncrementAnswersStored counts a committed answer; withTranscript is false when
// the chain produced no text.
func (m *Metrics) IncrementAnswersStored(withTranscript bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersStored++
	if !withTranscript {
		m.TranscriptsMissing++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementAnswersRejected(conversionFailure bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AnswersRejected++
	if conversionFailure {
		m.ConversionFailures++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementProviderAttempt(provider string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ProviderAttempts[provider]++
	if !success {
		m.ProviderFailures[provider]++
	}
	m.LastUpdateTime = time.Now()
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{
		CandidatesCreated:  m.CandidatesCreated,
		AnswersSubmitted:   m.AnswersSubmitted,
		AnswersStored:      m.AnswersStored,
		AnswersRejected:    m.AnswersRejected,
		ConversionFailures: m.ConversionFailures,
		TranscriptsMissing: m.TranscriptsMissing,
		ProviderAttempts:   make(map[string]int64, len(m.ProviderAttempts)),
		ProviderFailures:   make(map[string]int64, len(m.ProviderFailures)),
		LastUpdateTime:     m.LastUpdateTime,
	}
	for k, v := range m.ProviderAttempts {
		s.ProviderAttempts[k] = v
	}
	for k, v := range m.ProviderFailures {
		s.ProviderFailures[k] = v
	}
	return s
}
