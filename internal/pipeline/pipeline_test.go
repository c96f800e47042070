package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/warraq-dev/warraq/internal/document"
	"github.com/warraq-dev/warraq/internal/engine"
	"github.com/warraq-dev/warraq/internal/raster"
)

// fakeRasterizer emits one synthetic page image per requested page.
type fakeRasterizer struct {
	pages int
	err   error
}

func (f *fakeRasterizer) Rasterize(ctx context.Context, source []byte, dpi int) ([]raster.PageImage, error) {
	if f.err != nil {
		return nil, f.err
	}
	images := make([]raster.PageImage, f.pages)
	for i := range images {
		images[i] = raster.PageImage{Number: i + 1, Data: []byte(fmt.Sprintf("page-%d", i+1))}
	}
	return images, nil
}

// scriptedRecognizer returns canned lines keyed by page image content.
type scriptedRecognizer struct {
	lines map[string][]string
	fail  map[string]bool
	delay map[string]time.Duration
	calls atomic.Int32
}

func (s *scriptedRecognizer) Name() string { return "scripted" }

func (s *scriptedRecognizer) Recognize(ctx context.Context, image []byte) ([]engine.RawLine, error) {
	s.calls.Add(1)
	key := string(image)
	if d := s.delay[key]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.fail[key] {
		return nil, fmt.Errorf("%w: scripted failure", engine.ErrRecognitionFailed)
	}
	var out []engine.RawLine
	for i, text := range s.lines[key] {
		out = append(out, engine.RawLine{Text: text, Confidence: 1, OrderIndex: i})
	}
	return out, nil
}

func newTestPipeline(t *testing.T, rast raster.Rasterizer, rec Recognizer) *Pipeline {
	t.Helper()
	p, err := New(Config{Rasterizer: rast, Recognizer: rec, Workers: 2})
	if err != nil {
		t.Fatalf("failed to create pipeline: %v", err)
	}
	return p
}

func TestRunTwoPagesSecondEmpty(t *testing.T) {
	rec := &scriptedRecognizer{
		lines: map[string][]string{
			"page-1": {"السلام", "عليكم"},
			"page-2": {},
		},
	}
	p := newTestPipeline(t, &fakeRasterizer{pages: 2}, rec)

	doc, err := p.Run(context.Background(), []byte("src"), "scan.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(doc.Pages))
	}
	if !doc.Pages[0].HasText || len(doc.Pages[0].Lines) != 2 {
		t.Errorf("page 1 should carry 2 lines: %+v", doc.Pages[0])
	}
	if doc.Pages[1].HasText {
		t.Error("page 2 should have no text")
	}

	transcript := document.Transcript(*doc)
	segments := strings.Split(transcript, "\n\n")
	if len(segments) != 2 {
		t.Fatalf("expected 2 transcript segments, got %d", len(segments))
	}
	if !strings.Contains(segments[1], document.NoTextMarker) {
		t.Errorf("second segment should contain the no-text marker: %q", segments[1])
	}
}

func TestRunSingleImage(t *testing.T) {
	rec := &scriptedRecognizer{lines: map[string][]string{"page-1": {"hello"}}}
	p := newTestPipeline(t, &fakeRasterizer{pages: 1}, rec)

	doc, err := p.Run(context.Background(), []byte("img"), "photo.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
}

func TestRunRecognitionFailureIsIsolated(t *testing.T) {
	rec := &scriptedRecognizer{
		lines: map[string][]string{
			"page-1": {"one"},
			"page-3": {"three"},
		},
		fail: map[string]bool{"page-2": true},
	}
	p := newTestPipeline(t, &fakeRasterizer{pages: 3}, rec)

	doc, err := p.Run(context.Background(), []byte("src"), "scan.pdf")
	if err != nil {
		t.Fatalf("page failure must not abort the document: %v", err)
	}

	if len(doc.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(doc.Pages))
	}
	for i, pg := range doc.Pages {
		if pg.Number != i+1 {
			t.Errorf("page %d out of order: number %d", i, pg.Number)
		}
	}
	if doc.Pages[1].HasText {
		t.Error("failed page should be marked without text")
	}
	if !doc.Pages[0].HasText || !doc.Pages[2].HasText {
		t.Error("pages around the failure should be unaffected")
	}
}

func TestRunRestoresSubmissionOrder(t *testing.T) {
	// First page is the slowest; output order must not depend on
	// completion order.
	rec := &scriptedRecognizer{
		lines: map[string][]string{
			"page-1": {"a"}, "page-2": {"b"}, "page-3": {"c"}, "page-4": {"d"},
		},
		delay: map[string]time.Duration{
			"page-1": 30 * time.Millisecond,
			"page-2": 10 * time.Millisecond,
		},
	}
	p := newTestPipeline(t, &fakeRasterizer{pages: 4}, rec)

	doc, err := p.Run(context.Background(), []byte("src"), "scan.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c", "d"}
	for i, pg := range doc.Pages {
		if len(pg.Lines) != 1 || pg.Lines[0].Text != want[i] {
			t.Errorf("page %d: expected line %q, got %+v", i+1, want[i], pg.Lines)
		}
	}
}

func TestRunRasterizationIsFatal(t *testing.T) {
	rec := &scriptedRecognizer{}
	p := newTestPipeline(t, &fakeRasterizer{err: raster.ErrRasterization}, rec)

	if _, err := p.Run(context.Background(), []byte("bad"), "x.pdf"); err == nil {
		t.Error("expected rasterization error to propagate")
	}
}

func TestRunCancellation(t *testing.T) {
	rec := &scriptedRecognizer{
		lines: map[string][]string{"page-1": {"a"}, "page-2": {"b"}, "page-3": {"c"}},
		delay: map[string]time.Duration{
			"page-1": 50 * time.Millisecond,
			"page-2": 50 * time.Millisecond,
			"page-3": 50 * time.Millisecond,
		},
	}
	p := newTestPipeline(t, &fakeRasterizer{pages: 3}, rec)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	if _, err := p.Run(ctx, []byte("src"), "scan.pdf"); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestRunCancelledBeforeStart(t *testing.T) {
	rec := &scriptedRecognizer{
		lines: map[string][]string{"page-1": {"a"}, "page-2": {"b"}},
	}
	p := newTestPipeline(t, &fakeRasterizer{pages: 2}, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Run(ctx, []byte("src"), "scan.pdf"); err == nil {
		t.Error("expected cancellation error")
	}
	if n := rec.calls.Load(); n != 0 {
		t.Errorf("expected no recognition calls after cancellation, got %d", n)
	}
}

func TestRunShapesArabicLines(t *testing.T) {
	rec := &scriptedRecognizer{
		lines: map[string][]string{"page-1": {"السلام"}},
	}
	p := newTestPipeline(t, &fakeRasterizer{pages: 1}, rec)

	doc, err := p.Run(context.Background(), []byte("src"), "scan.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := doc.Pages[0].Lines[0].Text
	// Shaped and reordered: isolated alef (first logical letter) is
	// now the last rune so it renders rightmost.
	if got == "السلام" {
		t.Error("line should have been shaped, not passed through")
	}
	runes := []rune(got)
	if runes[len(runes)-1] != 'ﺍ' {
		t.Errorf("expected isolated alef rightmost, got %q", got)
	}
}
