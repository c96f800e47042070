// Package raster turns an uploaded source (PDF or a single raster
// image) into an ordered sequence of page images for recognition.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	// Raster formats accepted for single-image input.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrRasterization wraps any failure to decode the source into page
// images. It is fatal: it aborts before any page processing starts.
var ErrRasterization = errors.New("rasterization failed")

// DefaultDPI is the render resolution used when none is configured.
const DefaultDPI = 300

// PageImage is one rendered page, 1-based and in source order.
type PageImage struct {
	Number int
	Data   []byte // PNG for rendered PDF pages; original bytes for image input
}

// Rasterizer produces page images from source bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, source []byte, dpi int) ([]PageImage, error)
}

// Poppler rasterizes PDFs by rendering each page with pdftoppm
// (poppler-utils) and uses pdfcpu for page discovery. A non-PDF source
// is validated as a raster image and treated as a one-page sequence.
type Poppler struct {
	logger *slog.Logger
}

// New creates a Poppler rasterizer.
func New(logger *slog.Logger) *Poppler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poppler{logger: logger}
}

// Rasterize dispatches on the source format.
func (r *Poppler) Rasterize(ctx context.Context, source []byte, dpi int) ([]PageImage, error) {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	if isPDF(source) {
		return r.rasterizePDF(ctx, source, dpi)
	}
	return r.rasterizeImage(source)
}

// isPDF sniffs the PDF magic header.
func isPDF(source []byte) bool {
	return bytes.HasPrefix(source, []byte("%PDF-"))
}

// rasterizeImage validates a direct image upload and returns it as a
// single page. The image is passed to the engine as-is; engines accept
// the same formats the decoders registered above cover.
func (r *Poppler) rasterizeImage(source []byte) ([]PageImage, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("%w: source is neither a PDF nor a decodable image: %w", ErrRasterization, err)
	}
	r.logger.Debug("single image input", "format", format)
	return []PageImage{{Number: 1, Data: source}}, nil
}

// rasterizePDF renders every page of the PDF at the requested DPI.
func (r *Poppler) rasterizePDF(ctx context.Context, source []byte, dpi int) ([]PageImage, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	pageCount, err := api.PageCount(bytes.NewReader(source), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read PDF: %w", ErrRasterization, err)
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("%w: PDF has no pages", ErrRasterization)
	}

	// pdftoppm works on files, not streams.
	tmpPDF, err := os.CreateTemp("", "warraq-src-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create temp PDF: %w", ErrRasterization, err)
	}
	tmpPath := tmpPDF.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpPDF.Write(source); err != nil {
		tmpPDF.Close()
		return nil, fmt.Errorf("%w: failed to write temp PDF: %w", ErrRasterization, err)
	}
	if err := tmpPDF.Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to close temp PDF: %w", ErrRasterization, err)
	}

	r.logger.Debug("rendering PDF pages", "pages", pageCount, "dpi", dpi)

	pages := make([]PageImage, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := renderPage(ctx, tmpPath, page, dpi)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrRasterization, page, err)
		}
		pages = append(pages, PageImage{Number: page, Data: data})
	}

	return pages, nil
}

// renderPage renders a single PDF page to PNG using pdftoppm.
func renderPage(ctx context.Context, pdfPath string, page, dpi int) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "warraq-page-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")
	pageStr := strconv.Itoa(page)

	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", strconv.Itoa(dpi),
		"-singlefile",
		pdfPath,
		outputPrefix,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	data, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm did not create expected output: %w", err)
	}
	return data, nil
}
