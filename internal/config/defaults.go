package config

import "runtime"

// DefaultConfig returns the configuration used when no config file or
// environment overrides are present.
func DefaultConfig() *Config {
	return &Config{
		Engine:    "tesseract",
		DPI:       300,
		Workers:   runtime.NumCPU(),
		OutputDir: ".",
		Paddle: PaddleConfig{
			BaseURL:        "http://localhost:8868",
			TimeoutSeconds: 60,
			Attempts:       3,
		},
		Vision: VisionConfig{
			APIKey:         "${OPENAI_API_KEY}",
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 120,
		},
		Tesseract: TesseractConfig{
			Language: "ara",
		},
	}
}
