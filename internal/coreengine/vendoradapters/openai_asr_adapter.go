package vendoradapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// OpenAIASRAdapter transcribes audio with the OpenAI audio transcriptions endpoint.
type OpenAIASRAdapter struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewOpenAIASRAdapter creates an adapter; the HTTP client timeout bounds the remote call.
func NewOpenAIASRAdapter(apiKey, model, baseURL string, timeout time.Duration) *OpenAIASRAdapter {
	if model == "" {
		model = "whisper-1"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	return &OpenAIASRAdapter{
		APIKey:     apiKey,
		Model:      model,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (a *OpenAIASRAdapter) Name() string { return "openai" }

type openAITranscriptionResponse struct {
	Text  string `json:"text"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Recognize uploads the file as multipart/form-data and returns the "text" field.
func (a *OpenAIASRAdapter) Recognize(ctx context.Context, audioFilePath string) (string, string, error) {
	if a.APIKey == "" {
		return "", "", fmt.Errorf("OpenAI API key is missing")
	}

	f, err := os.Open(audioFilePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to open audio file '%s': %w", audioFilePath, err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", a.Model); err != nil {
		return "", "", err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioFilePath))
	if err != nil {
		return "", "", err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", "", fmt.Errorf("failed to read audio file '%s': %w", audioFilePath, err)
	}
	if err := mw.Close(); err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return "", "", fmt.Errorf("failed to create OpenAI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	startTime := time.Now()
	resp, err := a.HTTPClient.Do(req)
	log.Printf("OpenAI transcription call for %s completed in %v", audioFilePath, time.Since(startTime))
	if err != nil {
		return "", "", fmt.Errorf("failed to send request to OpenAI: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read OpenAI response body: %w", err)
	}
	rawResponse := string(respBody)

	if resp.StatusCode >= 300 {
		return "", rawResponse, fmt.Errorf("OpenAI API request failed with status %s: %s", resp.Status, rawResponse)
	}

	var parsed openAITranscriptionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", rawResponse, fmt.Errorf("failed to parse OpenAI JSON response: %w", err)
	}
	if parsed.Error != nil {
		return "", rawResponse, fmt.Errorf("OpenAI API error (%s): %s", parsed.Error.Type, parsed.Error.Message)
	}
	return parsed.Text, rawResponse, nil
}
