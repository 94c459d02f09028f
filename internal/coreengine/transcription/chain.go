// Package transcription runs normalized audio through an ordered list of
// speech providers until one of them produces a transcript.
package transcription

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"interview-platform/backend/internal/coreengine/vendoradapters"
	"interview-platform/backend/internal/metrics"
)

// NoBackendMessage is reported when no provider is configured at all.
const NoBackendMessage = "No transcription backend available. Set OPENAI_API_KEY (or another provider credential) or install a local whisper runtime."

// Attempt is the result of asking one provider.
type Attempt struct {
	Provider string
	Text     string
	Err      error
	Duration time.Duration
}

func (a Attempt) Succeeded() bool { return a.Err == nil }

// Outcome is what the chain hands back to the answer pipeline. Error is nil
// whenever some provider succeeded, even if earlier providers failed.
type Outcome struct {
	Transcript string
	Provider   string
	Error      *string
	Attempts   []Attempt
}

// Chain tries providers in order. It never returns an error.
type Chain struct {
	providers []vendoradapters.ASRAdapter
	metrics   *metrics.Metrics
}

func NewChain(m *metrics.Metrics, providers ...vendoradapters.ASRAdapter) *Chain {
	return &Chain{providers: providers, metrics: m}
}

// Providers returns the provider names in the order they are tried.
func (c *Chain) Providers() []string {
	return vendoradapters.ProviderNames(c.providers)
}

// Transcribe runs the chain against a normalized audio file.
func (c *Chain) Transcribe(ctx context.Context, audioPath string) Outcome {
	if len(c.providers) == 0 {
		msg := NoBackendMessage
		return Outcome{Error: &msg}
	}

	var out Outcome
	for _, p := range c.providers {
		attempt := c.try(ctx, p, audioPath)
		out.Attempts = append(out.Attempts, attempt)
		if c.metrics != nil {
			c.metrics.IncrementProviderAttempt(attempt.Provider, attempt.Succeeded())
		}
		if attempt.Succeeded() {
			out.Transcript = attempt.Text
			out.Provider = attempt.Provider
			return out
		}
		log.Printf("Transcription: provider '%s' failed for '%s' after %v: %v", attempt.Provider, audioPath, attempt.Duration, attempt.Err)
		if ctx.Err() != nil {
			break
		}
	}

	last := out.Attempts[len(out.Attempts)-1]
	msg := Describe(last)
	out.Error = &msg
	return out
}

func (c *Chain) try(ctx context.Context, p vendoradapters.ASRAdapter, audioPath string) (attempt Attempt) {
	attempt.Provider = p.Name()
	start := time.Now()
	defer func() {
		attempt.Duration = time.Since(start)
		if r := recover(); r != nil {
			attempt.Text = ""
			attempt.Err = fmt.Errorf("provider panicked: %v", r)
		}
	}()

	text, _, err := p.Recognize(ctx, audioPath)
	if err != nil {
		attempt.Err = err
		return attempt
	}
	attempt.Text = strings.TrimSpace(text)
	return attempt
}

// Describe formats a failed attempt as the descriptor stored on an answer.
func Describe(a Attempt) string {
	if a.Err == nil {
		return ""
	}
	return fmt.Sprintf("%s transcription failed: %v", a.Provider, a.Err)
}
