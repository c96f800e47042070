package engine

import "fmt"

// Options selects and configures a recognition engine.
type Options struct {
	Engine    string // "paddle", "vision", or "tesseract"
	Paddle    PaddleConfig
	Vision    VisionConfig
	Tesseract TesseractConfig
}

// New constructs the configured engine. The returned engine is built
// once per process and shared by all page workers; each implementation
// is safe for concurrent use (the tesseract engine pools its clients).
func New(opts Options) (Engine, error) {
	switch opts.Engine {
	case PaddleName:
		return NewPaddleEngine(opts.Paddle), nil
	case VisionName:
		return NewVisionEngine(opts.Vision), nil
	case TesseractName:
		return NewTesseractEngine(opts.Tesseract), nil
	default:
		return nil, fmt.Errorf("unknown engine: %q (supported: %s, %s, %s)",
			opts.Engine, PaddleName, VisionName, TesseractName)
	}
}
