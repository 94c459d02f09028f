package vendoradapters

import "context"

// ASRAdapter is one transcription provider. Implementations are only constructed
// when their prerequisites (credentials, local runtime) are satisfied, so the
// fallback chain never has to ask whether a provider is usable.
type ASRAdapter interface {
	// Name identifies the provider in logs, failure descriptors and diagnostics.
	Name() string

	// Recognize transcribes the normalized (mono 16 kHz WAV) audio at audioFilePath.
	// rawResponse carries the vendor payload when there is one.
	Recognize(ctx context.Context, audioFilePath string) (recognizedText string, rawResponse string, err error)
}
