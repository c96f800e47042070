package raster

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestIsPDF(t *testing.T) {
	if !isPDF([]byte("%PDF-1.7\n...")) {
		t.Error("expected PDF magic to match")
	}
	if isPDF(pngBytes(t)) {
		t.Error("PNG should not sniff as PDF")
	}
	if isPDF(nil) {
		t.Error("empty input should not sniff as PDF")
	}
}

func TestRasterizeSingleImage(t *testing.T) {
	r := New(nil)

	pages, err := r.Rasterize(context.Background(), pngBytes(t), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].Number != 1 {
		t.Errorf("expected page number 1, got %d", pages[0].Number)
	}
	if len(pages[0].Data) == 0 {
		t.Error("expected page data to be preserved")
	}
}

func TestRasterizeRejectsGarbage(t *testing.T) {
	r := New(nil)

	_, err := r.Rasterize(context.Background(), []byte("not an image at all"), 300)
	if !errors.Is(err, ErrRasterization) {
		t.Errorf("expected ErrRasterization, got %v", err)
	}
}

func TestRasterizeRejectsBrokenPDF(t *testing.T) {
	r := New(nil)

	_, err := r.Rasterize(context.Background(), []byte("%PDF-1.4 truncated garbage"), 300)
	if !errors.Is(err, ErrRasterization) {
		t.Errorf("expected ErrRasterization, got %v", err)
	}
}
