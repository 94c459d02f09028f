package cmd

import (
	"github.com/spf13/cobra"

	"interview-platform/backend/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "interviewd",
	Short: "Interview backend: candidate sessions, answer uploads and transcription",
	Long: `interviewd serves the interview API. Candidates answer role-based
questions on video; each answer is stored, converted to mono 16 kHz audio with
ffmpeg and transcribed by the first available provider:

  openai   - OPENAI_API_KEY
  deepgram - DEEPGRAM_API_KEY
  google   - GOOGLE_APPLICATION_CREDENTIALS
  tencent  - TENCENTCLOUD_SECRET_ID / TENCENTCLOUD_SECRET_KEY
  whisper  - local whisper CLI (WHISPER_PATH)`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnvFiles(envFile)
	},
	// Errors are printed once by cobra, wrapped with their context by each command.
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional .env file seeding the environment")
}
