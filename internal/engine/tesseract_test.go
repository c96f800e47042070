package engine

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeTesseractClient records the image paths it was given and whether
// it has been closed.
type fakeTesseractClient struct {
	mu     sync.Mutex
	text   string
	images []string
	closed bool
}

func (f *fakeTesseractClient) SetImage(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.images = append(f.images, path)
	return nil
}

func (f *fakeTesseractClient) Text() (string, error) {
	return f.text, nil
}

func (f *fakeTesseractClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// newFakeTesseract swaps the engine's client constructor for one that
// hands out fakes, returning the engine and the created fakes.
func newFakeTesseract(cfg TesseractConfig, text string) (*TesseractEngine, *[]*fakeTesseractClient) {
	e := NewTesseractEngine(cfg)
	var created []*fakeTesseractClient
	var mu sync.Mutex
	e.newClient = func() (tesseractClient, error) {
		c := &fakeTesseractClient{text: text}
		mu.Lock()
		created = append(created, c)
		mu.Unlock()
		return c, nil
	}
	return e, &created
}

func TestTesseractEngineRecognize(t *testing.T) {
	e, created := newFakeTesseract(TesseractConfig{PoolSize: 2}, "مرحبا\nاهلا")

	res, err := e.Recognize(context.Background(), []byte("fake-png"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Kind != KindBlock {
		t.Fatalf("expected KindBlock, got %d", res.Kind)
	}
	if res.Block != "مرحبا\nاهلا" {
		t.Errorf("unexpected block text: %q", res.Block)
	}

	if len(*created) != 1 {
		t.Fatalf("expected 1 client, got %d", len(*created))
	}
	images := (*created)[0].images
	if len(images) != 1 || !strings.HasSuffix(images[0], ".png") {
		t.Errorf("expected one temp .png handoff, got %v", images)
	}
}

func TestTesseractEnginePool(t *testing.T) {
	t.Run("client is reused across pages", func(t *testing.T) {
		e, created := newFakeTesseract(TesseractConfig{PoolSize: 2}, "text")

		for i := 0; i < 3; i++ {
			if _, err := e.Recognize(context.Background(), []byte("img")); err != nil {
				t.Fatalf("recognize %d: %v", i, err)
			}
		}
		if len(*created) != 1 {
			t.Errorf("sequential pages should share one client, got %d", len(*created))
		}
	})

	t.Run("creation stops at the pool size", func(t *testing.T) {
		e, created := newFakeTesseract(TesseractConfig{PoolSize: 1}, "text")

		c1, err := e.acquire(context.Background())
		if err != nil {
			t.Fatalf("first acquire: %v", err)
		}

		// Pool is exhausted: a second acquire must wait, not create.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		if _, err := e.acquire(ctx); err == nil {
			t.Error("expected acquire past the pool size to honor cancellation")
		}
		if len(*created) != 1 {
			t.Errorf("expected 1 client created, got %d", len(*created))
		}

		// Releasing hands the same client to the next acquire.
		e.release(c1)
		c2, err := e.acquire(context.Background())
		if err != nil {
			t.Fatalf("acquire after release: %v", err)
		}
		if c2 != c1 {
			t.Error("expected the released client back")
		}
		e.release(c2)
	})

	t.Run("close drains the pool", func(t *testing.T) {
		e, created := newFakeTesseract(TesseractConfig{PoolSize: 2}, "text")

		c1, _ := e.acquire(context.Background())
		c2, _ := e.acquire(context.Background())
		e.release(c1)
		e.release(c2)

		if err := e.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		for i, c := range *created {
			if !c.closed {
				t.Errorf("client %d not closed", i)
			}
		}
	})
}
