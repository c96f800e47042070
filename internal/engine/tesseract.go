package engine

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/otiai10/gosseract/v2"
)

const (
	TesseractName            = "tesseract"
	tesseractDefaultLanguage = "ara"
)

// TesseractConfig holds configuration for the Tesseract engine.
type TesseractConfig struct {
	Language string // tesseract language codes, "+"-joined (default: "ara")
	PoolSize int    // max concurrent clients (default: runtime.NumCPU())
}

// tesseractClient is the surface of gosseract.Client the engine drives.
type tesseractClient interface {
	SetImage(path string) error
	Text() (string, error)
	Close() error
}

// TesseractEngine implements Engine using the local Tesseract library
// via gosseract. A gosseract client is not safe for concurrent use, so
// clients are pooled: created lazily up to PoolSize and reused across
// pages for the life of the process.
type TesseractEngine struct {
	language  string
	size      int32
	created   atomic.Int32
	pool      chan tesseractClient
	newClient func() (tesseractClient, error)
}

// NewTesseractEngine creates a Tesseract engine. No client is created
// until the first Recognize call.
func NewTesseractEngine(cfg TesseractConfig) *TesseractEngine {
	if cfg.Language == "" {
		cfg.Language = tesseractDefaultLanguage
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = runtime.NumCPU()
	}

	e := &TesseractEngine{
		language: cfg.Language,
		size:     int32(cfg.PoolSize),
		pool:     make(chan tesseractClient, cfg.PoolSize),
	}
	e.newClient = func() (tesseractClient, error) {
		c := gosseract.NewClient()
		if err := c.SetLanguage(e.language); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to set tesseract language %q: %w", e.language, err)
		}
		return c, nil
	}
	return e
}

// Name returns the engine identifier.
func (e *TesseractEngine) Name() string {
	return TesseractName
}

// Language returns the configured tesseract language string.
func (e *TesseractEngine) Language() string {
	return e.language
}

// PoolSize returns the maximum number of concurrent clients.
func (e *TesseractEngine) PoolSize() int {
	return int(e.size)
}

// Recognize writes the image to a temporary file (the only transport
// tesseract accepts reliably across formats), runs recognition, and
// returns the page text as a single block. The temporary file is
// removed on every exit path.
func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) (NativeResult, error) {
	tmp, err := os.CreateTemp("", "warraq-page-*.png")
	if err != nil {
		return NativeResult{}, fmt.Errorf("failed to create temp image: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return NativeResult{}, fmt.Errorf("failed to write temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return NativeResult{}, fmt.Errorf("failed to close temp image: %w", err)
	}

	client, err := e.acquire(ctx)
	if err != nil {
		return NativeResult{}, err
	}
	defer e.release(client)

	if err := client.SetImage(tmpPath); err != nil {
		return NativeResult{}, fmt.Errorf("failed to set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return NativeResult{}, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	return NativeResult{Kind: KindBlock, Block: text}, nil
}

// acquire returns a pooled client, creating one if the pool has not yet
// reached its size limit.
func (e *TesseractEngine) acquire(ctx context.Context) (tesseractClient, error) {
	select {
	case c := <-e.pool:
		return c, nil
	default:
	}

	if e.created.Add(1) <= e.size {
		c, err := e.newClient()
		if err != nil {
			e.created.Add(-1)
			return nil, err
		}
		return c, nil
	}
	e.created.Add(-1)

	select {
	case c := <-e.pool:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *TesseractEngine) release(c tesseractClient) {
	select {
	case e.pool <- c:
	default:
		c.Close()
	}
}

// Close releases all pooled clients.
func (e *TesseractEngine) Close() error {
	for {
		select {
		case c := <-e.pool:
			c.Close()
		default:
			return nil
		}
	}
}
