package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"interview-platform/backend/internal/config"
	"interview-platform/backend/internal/coreengine/audionormalizer"
	"interview-platform/backend/internal/coreengine/vendoradapters"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Print which conversion and transcription backends are usable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadAppConfig()
		_, caps := vendoradapters.BuildProviders(cfg.Transcription)
		normalizer := audionormalizer.NewFFmpegNormalizer(cfg.Normalizer.FFmpegPath, cfg.Normalizer.Timeout)

		report := struct {
			vendoradapters.Capabilities
			FFmpegInstalled bool   `json:"ffmpeg_installed"`
			MediaBackend    string `json:"media_backend"`
		}{caps, normalizer.Available(), cfg.Storage.MediaBackend}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
}
