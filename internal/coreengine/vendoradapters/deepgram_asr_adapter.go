package vendoradapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// DeepgramASRAdapter implements the ASRAdapter interface for Deepgram.
type DeepgramASRAdapter struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewDeepgramASRAdapter creates a new instance of DeepgramASRAdapter.
func NewDeepgramASRAdapter(apiKey, model, baseURL string, timeout time.Duration) *DeepgramASRAdapter {
	if baseURL == "" {
		baseURL = "https://api.deepgram.com"
	}
	return &DeepgramASRAdapter{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (a *DeepgramASRAdapter) Name() string { return "deepgram" }

// DeepgramResponse is the subset of the Deepgram listen response we read.
type DeepgramResponse struct {
	Metadata struct {
		RequestID string  `json:"request_id"`
		Duration  float64 `json:"duration"`
		Channels  int     `json:"channels"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Recognize posts the raw WAV bytes to /v1/listen.
func (a *DeepgramASRAdapter) Recognize(ctx context.Context, audioFilePath string) (string, string, error) {
	if a.APIKey == "" {
		return "", "", fmt.Errorf("Deepgram API key is missing")
	}

	audioBytes, err := os.ReadFile(audioFilePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read audio file '%s': %w", audioFilePath, err)
	}

	reqURL, err := url.Parse(a.BaseURL + "/v1/listen")
	if err != nil {
		return "", "", fmt.Errorf("failed to parse Deepgram base URL: %w", err)
	}
	query := reqURL.Query()
	if a.Model != "" {
		query.Set("model", a.Model)
	}
	query.Set("smart_format", "true")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), bytes.NewReader(audioBytes))
	if err != nil {
		return "", "", fmt.Errorf("failed to create Deepgram request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+a.APIKey)
	req.Header.Set("Content-Type", "audio/wav")
	req.Header.Set("Accept", "application/json")

	startTime := time.Now()
	httpResp, err := a.HTTPClient.Do(req)
	log.Printf("Deepgram API call for %s completed in %v", audioFilePath, time.Since(startTime))
	if err != nil {
		return "", "", fmt.Errorf("failed to send request to Deepgram: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read Deepgram response body: %w", err)
	}
	rawResponse := string(respBody)

	if httpResp.StatusCode != http.StatusOK {
		return "", rawResponse, fmt.Errorf("Deepgram API request failed with status %s: %s", httpResp.Status, rawResponse)
	}

	var dgResponse DeepgramResponse
	if err := json.Unmarshal(respBody, &dgResponse); err != nil {
		return "", rawResponse, fmt.Errorf("failed to parse Deepgram JSON response: %w", err)
	}

	if len(dgResponse.Results.Channels) == 0 || len(dgResponse.Results.Channels[0].Alternatives) == 0 {
		// Silent audio yields no alternatives; that is an empty transcript, not a failure.
		log.Printf("Deepgram response for %s contained no alternatives", audioFilePath)
		return "", rawResponse, nil
	}
	return dgResponse.Results.Channels[0].Alternatives[0].Transcript, rawResponse, nil
}
