package vendoradapters

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	asr "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/asr/v20190614"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	sdkerrors "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/errors"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
)

// TencentASRAdapter implements the ASRAdapter interface with Tencent Cloud
// one-sentence recognition (audio up to 60 seconds).
type TencentASRAdapter struct {
	SecretID        string
	SecretKey       string
	Region          string
	EngineModelType string
	Endpoint        string
	Timeout         time.Duration
}

// NewTencentASRAdapter creates a new instance of TencentASRAdapter.
func NewTencentASRAdapter(secretID, secretKey, region, engineModelType string, timeout time.Duration) *TencentASRAdapter {
	if engineModelType == "" {
		engineModelType = "16k_en"
	}
	return &TencentASRAdapter{
		SecretID:        secretID,
		SecretKey:       secretKey,
		Region:          region,
		EngineModelType: engineModelType,
		Endpoint:        "asr.tencentcloudapi.com",
		Timeout:         timeout,
	}
}

func (a *TencentASRAdapter) Name() string { return "tencent" }

// Recognize transcribes audio using the SentenceRecognition API.
func (a *TencentASRAdapter) Recognize(ctx context.Context, audioFilePath string) (string, string, error) {
	if a.SecretID == "" || a.SecretKey == "" {
		return "", "", fmt.Errorf("Tencent Cloud SecretId/SecretKey are missing")
	}
	if a.Region == "" {
		return "", "", fmt.Errorf("Tencent Cloud region is missing")
	}

	credential := common.NewCredential(a.SecretID, a.SecretKey)
	cpf := profile.NewClientProfile()
	cpf.HttpProfile.Endpoint = a.Endpoint
	if a.Timeout > 0 {
		cpf.HttpProfile.ReqTimeout = int(a.Timeout / time.Second)
	}

	client, err := asr.NewClient(credential, a.Region, cpf)
	if err != nil {
		return "", "", fmt.Errorf("failed to create Tencent ASR client: %w", err)
	}

	audioBytes, err := os.ReadFile(audioFilePath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read audio file '%s': %w", audioFilePath, err)
	}

	request := asr.NewSentenceRecognitionRequest()
	request.EngSerViceType = common.StringPtr(a.EngineModelType)
	request.SourceType = common.Uint64Ptr(1) // audio data passed inline
	request.VoiceFormat = common.StringPtr("wav")
	request.Data = common.StringPtr(base64.StdEncoding.EncodeToString(audioBytes))
	request.DataLen = common.Int64Ptr(int64(len(audioBytes)))

	startTime := time.Now()
	response, err := client.SentenceRecognitionWithContext(ctx, request)
	log.Printf("Tencent ASR API call for %s completed in %v", audioFilePath, time.Since(startTime))

	rawResponse := ""
	if response != nil {
		if rawBytes, marshalErr := json.Marshal(response); marshalErr == nil {
			rawResponse = string(rawBytes)
		}
	}

	if err != nil {
		var terr *sdkerrors.TencentCloudSDKError
		if errors.As(err, &terr) {
			return "", rawResponse, fmt.Errorf("Tencent ASR API error: %s (Code: %s, RequestId: %s)", terr.GetMessage(), terr.GetCode(), terr.GetRequestId())
		}
		return "", rawResponse, fmt.Errorf("Tencent ASR API request failed: %w", err)
	}

	if response.Response == nil || response.Response.Result == nil {
		return "", rawResponse, fmt.Errorf("Tencent ASR API returned nil response or result")
	}
	return *response.Response.Result, rawResponse, nil
}
