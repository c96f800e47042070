// Package engine normalizes the output of the supported OCR engines into
// canonical per-line records. Each engine reports results in its own
// native shape; the adapter hides that behind a single Recognize call.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrRecognitionFailed wraps any engine-level failure. Callers recover
// per page: a failed page is recorded without text, it never aborts the
// whole document.
var ErrRecognitionFailed = errors.New("recognition failed")

// RawLine is one recognized line in engine emission order.
type RawLine struct {
	Text       string
	Confidence float64 // in [0,1]; 1.0 when the engine reports none
	OrderIndex int     // contiguous, 0-based, emission order
}

// ResultKind tags the native result shape of an engine.
type ResultKind int

const (
	// KindBoxes is an ordered sequence of bounding boxes with text and
	// confidence (box-classification engines).
	KindBoxes ResultKind = iota
	// KindParagraphs is an ordered sequence of plain strings, already
	// paragraph-merged.
	KindParagraphs
	// KindBlock is a single newline-joined block of page text
	// (traditional page-segmentation engines).
	KindBlock
)

// BoxLine is one entry of a box-classification result. The engine
// resolves an unreported confidence to 1.0 before building the BoxLine;
// a zero here is a genuine zero score, not absence.
type BoxLine struct {
	Region     [][]float64 // polygon corner points, engine coordinates
	Text       string
	Confidence float64
}

// NativeResult is the closed set of engine result shapes. Exactly the
// fields implied by Kind are populated.
type NativeResult struct {
	Kind       ResultKind
	Boxes      []BoxLine
	Paragraphs []string
	Block      string
}

// Normalize converts a native result into canonical RawLines.
// Empty and whitespace-only lines are skipped, never propagated;
// OrderIndex follows the engine's emission sequence.
func (r NativeResult) Normalize() []RawLine {
	var lines []RawLine

	appendLine := func(text string, confidence float64) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		lines = append(lines, RawLine{
			Text:       text,
			Confidence: clampConfidence(confidence),
			OrderIndex: len(lines),
		})
	}

	switch r.Kind {
	case KindBoxes:
		for _, b := range r.Boxes {
			appendLine(b.Text, b.Confidence)
		}
	case KindParagraphs:
		for _, p := range r.Paragraphs {
			appendLine(p, 1.0)
		}
	case KindBlock:
		for _, l := range strings.Split(r.Block, "\n") {
			appendLine(l, 1.0)
		}
	}

	return lines
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// Engine is one recognition backend. Implementations own the transport
// encoding of the page image (temp files, base64 payloads) and must
// release it on every exit path.
type Engine interface {
	// Name returns the engine identifier (e.g. "paddle").
	Name() string

	// Recognize runs OCR on a raster page image (PNG or JPEG bytes)
	// and returns the engine's native result.
	Recognize(ctx context.Context, image []byte) (NativeResult, error)
}

// Adapter presents a single recognize capability over any Engine,
// yielding canonical RawLines and translating engine failures into
// ErrRecognitionFailed.
type Adapter struct {
	engine Engine
}

// NewAdapter wraps an engine.
func NewAdapter(e Engine) *Adapter {
	return &Adapter{engine: e}
}

// Name returns the underlying engine identifier.
func (a *Adapter) Name() string {
	return a.engine.Name()
}

// Recognize runs the engine and normalizes its result. An empty line
// slice with a nil error is a normal outcome for a blank page.
func (a *Adapter) Recognize(ctx context.Context, image []byte) ([]RawLine, error) {
	res, err := a.engine.Recognize(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("engine %s: %w: %w", a.engine.Name(), ErrRecognitionFailed, err)
	}
	return res.Normalize(), nil
}
