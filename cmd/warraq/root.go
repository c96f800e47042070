package main

import (
	"github.com/spf13/cobra"

	"github.com/warraq-dev/warraq/internal/api"
	"github.com/warraq-dev/warraq/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "warraq",
	Short: "Arabic OCR pipeline for scanned documents",
	Long: `Warraq converts scanned Arabic documents (PDFs or page images) into
properly shaped, right-to-left Word documents.

The pipeline includes:
  - Page rasterization via poppler at configurable DPI
  - Pluggable recognition engines (tesseract, paddle, vision)
  - Arabic contextual shaping and bidirectional reordering
  - .docx assembly with RTL paragraph formatting`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.warraq/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)

	// Set output format before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		api.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(versionCmd)
}
