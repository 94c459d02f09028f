package vendoradapters

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// MockASRAdapter is a scripted provider used by tests and local dry runs.
type MockASRAdapter struct {
	ProviderName string
	Text         string
	Err          error
	Panic        bool

	mu    sync.Mutex
	calls []string
}

func (m *MockASRAdapter) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// Recognize returns the scripted text or error.
func (m *MockASRAdapter) Recognize(ctx context.Context, audioFilePath string) (string, string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, audioFilePath)
	m.mu.Unlock()

	log.Printf("MockASRAdapter(%s): Recognize called for audio file '%s'", m.Name(), audioFilePath)
	if m.Panic {
		panic(fmt.Sprintf("mock provider %s panicked", m.Name()))
	}
	if m.Err != nil {
		return "", fmt.Sprintf(`{"error": %q}`, m.Err.Error()), m.Err
	}
	return m.Text, fmt.Sprintf(`{"transcription": %q, "simulated": true}`, m.Text), nil
}

// Calls returns the audio paths this adapter was asked to recognize.
func (m *MockASRAdapter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
