package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/warraq-dev/warraq/internal/api"
	"github.com/warraq-dev/warraq/internal/config"
	"github.com/warraq-dev/warraq/internal/engine"
	"github.com/warraq-dev/warraq/internal/export"
	"github.com/warraq-dev/warraq/internal/pipeline"
	"github.com/warraq-dev/warraq/internal/raster"
)

var (
	convertEngine     string
	convertDPI        int
	convertWorkers    int
	convertTranscript bool
	convertOutDir     string
)

// convertResult is the summary printed after a successful conversion.
type convertResult struct {
	Source        string   `json:"source" yaml:"source"`
	Engine        string   `json:"engine" yaml:"engine"`
	Pages         int      `json:"pages" yaml:"pages"`
	PagesWithText int      `json:"pages_with_text" yaml:"pages_with_text"`
	Outputs       []string `json:"outputs" yaml:"outputs"`
}

var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a scanned Arabic document to .docx",
	Long: `Convert a scanned PDF or page image into a right-to-left Word document.

Each page is rasterized, recognized by the configured engine, shaped and
reordered for Arabic display, and written as one .docx in the output
directory. A page that fails recognition is kept in the document with a
no-text marker rather than aborting the run.

Examples:
  warraq convert scan.pdf                      # tesseract, 300 DPI
  warraq convert scan.pdf -e vision            # multimodal model OCR
  warraq convert page.png --transcript         # also write plain text
  warraq convert scan.pdf --dpi 400 --workers 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		sourcePath := args[0]

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		// Flags override config
		if convertEngine != "" {
			cfg.Engine = convertEngine
		}
		if convertDPI > 0 {
			cfg.DPI = convertDPI
		}
		if convertWorkers > 0 {
			cfg.Workers = convertWorkers
		}
		if convertOutDir != "" {
			cfg.OutputDir = convertOutDir
		}

		eng, err := engine.New(cfg.EngineOptions())
		if err != nil {
			return err
		}
		if closer, ok := eng.(interface{ Close() error }); ok {
			defer closer.Close()
		}

		p, err := pipeline.New(pipeline.Config{
			Rasterizer: raster.New(logger),
			Recognizer: engine.NewAdapter(eng),
			Workers:    cfg.Workers,
			DPI:        cfg.DPI,
			Logger:     logger,
		})
		if err != nil {
			return err
		}

		source, err := os.ReadFile(sourcePath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", sourcePath, err)
		}

		doc, err := p.Run(ctx, source, filepath.Base(sourcePath))
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}

		docxData, err := export.Document(*doc)
		if err != nil {
			return err
		}
		docxPath := filepath.Join(cfg.OutputDir, export.DocumentName(doc.Source))
		if err := os.WriteFile(docxPath, docxData, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", docxPath, err)
		}
		outputs := []string{docxPath}

		if convertTranscript {
			txtPath := filepath.Join(cfg.OutputDir, export.TranscriptName(doc.Source))
			if err := os.WriteFile(txtPath, export.Transcript(*doc), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", txtPath, err)
			}
			outputs = append(outputs, txtPath)
		}

		withText := 0
		for _, page := range doc.Pages {
			if page.HasText {
				withText++
			}
		}

		return api.Output(convertResult{
			Source:        sourcePath,
			Engine:        eng.Name(),
			Pages:         len(doc.Pages),
			PagesWithText: withText,
			Outputs:       outputs,
		})
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertEngine, "engine", "e", "", "recognition engine: tesseract, paddle, or vision")
	convertCmd.Flags().IntVar(&convertDPI, "dpi", 0, "PDF render resolution (default 300)")
	convertCmd.Flags().IntVar(&convertWorkers, "workers", 0, "parallel page workers (default: number of CPUs)")
	convertCmd.Flags().BoolVar(&convertTranscript, "transcript", false, "also write a plain-text transcript")
	convertCmd.Flags().StringVar(&convertOutDir, "out-dir", "", "output directory (default: current directory)")

	rootCmd.AddCommand(convertCmd)
}
