// Package pipeline drives a document conversion: rasterize the source,
// recognize and reorder each page in parallel, and assemble the result
// into the document model in submission order.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"

	"github.com/warraq-dev/warraq/internal/arabic"
	"github.com/warraq-dev/warraq/internal/document"
	"github.com/warraq-dev/warraq/internal/engine"
	"github.com/warraq-dev/warraq/internal/raster"
)

// Recognizer is the page-recognition capability the pipeline consumes;
// engine.Adapter satisfies it.
type Recognizer interface {
	Name() string
	Recognize(ctx context.Context, image []byte) ([]engine.RawLine, error)
}

// Config configures a pipeline.
type Config struct {
	Rasterizer raster.Rasterizer
	Recognizer Recognizer
	Workers    int // parallel page workers (default: runtime.NumCPU())
	DPI        int // render resolution for PDF sources (default: 300)
	Logger     *slog.Logger
}

// Pipeline converts one source document at a time. It holds no
// per-document state and is safe for reuse.
type Pipeline struct {
	rasterizer raster.Rasterizer
	recognizer Recognizer
	workers    int
	dpi        int
	logger     *slog.Logger
}

// New creates a pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Rasterizer == nil {
		return nil, fmt.Errorf("rasterizer is required")
	}
	if cfg.Recognizer == nil {
		return nil, fmt.Errorf("recognizer is required")
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	dpi := cfg.DPI
	if dpi <= 0 {
		dpi = raster.DefaultDPI
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		rasterizer: cfg.Rasterizer,
		recognizer: cfg.Recognizer,
		workers:    workers,
		dpi:        dpi,
		logger:     logger,
	}, nil
}

// Run converts source bytes into the assembled document. Rasterization
// failure is fatal. A page whose recognition fails is recorded without
// text; it never aborts the document. Cancelling the context abandons
// remaining pages and returns the context error, never a partially
// assembled document.
func (p *Pipeline) Run(ctx context.Context, source []byte, sourceName string) (*document.Document, error) {
	jobID := uuid.New().String()
	log := p.logger.With("job_id", jobID, "source", sourceName)

	images, err := p.rasterizer.Rasterize(ctx, source, p.dpi)
	if err != nil {
		return nil, err
	}
	log.Info("rasterized source", "pages", len(images), "engine", p.recognizer.Name())

	// All pages are independent: farm them out to a bounded worker set
	// and restore page order afterwards.
	results := make(chan document.Page, len(images))
	sem := make(chan struct{}, p.workers)

	launched := 0
launch:
	for _, img := range images {
		if ctx.Err() != nil {
			break
		}
		select {
		case sem <- struct{}{}:
			// Token is held from here on; it is always paired with a
			// worker, so cancellation can never strand one.
		case <-ctx.Done():
			break launch
		}
		launched++
		go func(img raster.PageImage) {
			defer func() { <-sem }()
			results <- p.processPage(ctx, log, img)
		}(img)
	}

	pages := make([]document.Page, 0, launched)
	for i := 0; i < launched; i++ {
		pages = append(pages, <-results)
	}

	if err := ctx.Err(); err != nil {
		log.Warn("conversion cancelled", "completed_pages", len(pages), "total", len(images))
		return nil, fmt.Errorf("conversion cancelled: %w", err)
	}

	doc := document.New(sourceName, pages)

	withText := 0
	for _, pg := range doc.Pages {
		if pg.HasText {
			withText++
		}
	}
	log.Info("conversion complete", "pages", len(doc.Pages), "pages_with_text", withText)

	return &doc, nil
}

// processPage recognizes and reorders one page. Recognition failure is
// isolated here: the page comes back with HasText=false so document
// page numbering stays contiguous.
func (p *Pipeline) processPage(ctx context.Context, log *slog.Logger, img raster.PageImage) document.Page {
	rawLines, err := p.recognizer.Recognize(ctx, img.Data)
	if err != nil {
		log.Warn("page recognition failed", "page", img.Number, "error", err)
		return document.Page{Number: img.Number, HasText: false}
	}

	lines := make([]document.Line, len(rawLines))
	for i, rl := range rawLines {
		lines[i] = document.Line{
			Text:       arabic.Render(rl.Text),
			Confidence: rl.Confidence,
			OrderIndex: rl.OrderIndex,
		}
	}

	page := document.NewPage(img.Number, lines)
	log.Debug("page processed", "page", img.Number, "lines", len(page.Lines))
	return page
}
