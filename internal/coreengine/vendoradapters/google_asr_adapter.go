package vendoradapters

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/encoding/protojson"

	"interview-platform/backend/internal/coreengine/audionormalizer"
)

// GoogleASRAdapter implements the ASRAdapter interface for Google Cloud Speech-to-Text.
// Synchronous recognition accepts up to one minute of audio.
type GoogleASRAdapter struct {
	CredentialsFile string
	LanguageCode    string
	Timeout         time.Duration
}

// NewGoogleASRAdapter creates a new instance of GoogleASRAdapter.
func NewGoogleASRAdapter(credentialsFile, languageCode string, timeout time.Duration) *GoogleASRAdapter {
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &GoogleASRAdapter{CredentialsFile: credentialsFile, LanguageCode: languageCode, Timeout: timeout}
}

func (a *GoogleASRAdapter) Name() string { return "google" }

// Recognize transcribes audio using Google Cloud Speech-to-Text.
func (a *GoogleASRAdapter) Recognize(ctx context.Context, audioFilePath string) (string, string, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	var opts []option.ClientOption
	if a.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(a.CredentialsFile))
	}

	speechClient, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return "", "", fmt.Errorf("failed to create Google Speech client: %w", err)
	}
	defer speechClient.Close()

	audioContent, err := os.ReadFile(audioFilePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read audio file '%s': %w", audioFilePath, err)
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            audionormalizer.SampleRate,
			AudioChannelCount:          audionormalizer.Channels,
			LanguageCode:               a.LanguageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioContent},
		},
	}

	startTime := time.Now()
	resp, err := speechClient.Recognize(ctx, req)
	log.Printf("Google Speech-to-Text API call for %s completed in %v", audioFilePath, time.Since(startTime))
	if err != nil {
		return "", "", fmt.Errorf("Google Speech API recognition failed: %w", err)
	}

	var transcriptBuilder strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcriptBuilder.WriteString(result.Alternatives[0].Transcript)
			transcriptBuilder.WriteString(" ")
		}
	}

	rawResponse := ""
	if rawBytes, marshalErr := protojson.Marshal(resp); marshalErr != nil {
		log.Printf("Error marshalling Google Speech API response to JSON: %v", marshalErr)
	} else {
		rawResponse = string(rawBytes)
	}

	return strings.TrimSpace(transcriptBuilder.String()), rawResponse, nil
}
