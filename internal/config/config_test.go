package config

import (
	"os"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Engine != "tesseract" {
		t.Errorf("expected tesseract default engine, got %s", cfg.Engine)
	}
	if cfg.DPI != 300 {
		t.Errorf("expected 300 dpi, got %d", cfg.DPI)
	}
	if cfg.Workers < 1 {
		t.Errorf("expected at least one worker, got %d", cfg.Workers)
	}
	if cfg.Vision.APIKey != "${OPENAI_API_KEY}" {
		t.Error("expected OpenAI API key placeholder")
	}
	if cfg.Tesseract.Language != "ara" {
		t.Errorf("expected ara language, got %s", cfg.Tesseract.Language)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Run("resolves environment variable", func(t *testing.T) {
		os.Setenv("TEST_API_KEY", "secret123")
		defer os.Unsetenv("TEST_API_KEY")

		result := ResolveEnvVars("${TEST_API_KEY}")
		if result != "secret123" {
			t.Errorf("expected secret123, got %s", result)
		}
	})

	t.Run("returns empty for missing env var", func(t *testing.T) {
		result := ResolveEnvVars("${DEFINITELY_NOT_SET_12345}")
		if result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})

	t.Run("leaves literal values unchanged", func(t *testing.T) {
		result := ResolveEnvVars("literal-value")
		if result != "literal-value" {
			t.Errorf("expected literal-value, got %s", result)
		}
	})
}

func TestConfig_EngineOptions(t *testing.T) {
	os.Setenv("TEST_VISION_KEY", "vk-123")
	defer os.Unsetenv("TEST_VISION_KEY")

	cfg := &Config{
		Engine:  "vision",
		Workers: 4,
		Paddle: PaddleConfig{
			BaseURL:        "http://ocr:8868",
			TimeoutSeconds: 30,
			Attempts:       5,
		},
		Vision: VisionConfig{
			APIKey:         "${TEST_VISION_KEY}",
			Model:          "gpt-4o",
			TimeoutSeconds: 90,
		},
		Tesseract: TesseractConfig{Language: "ara+eng"},
	}

	opts := cfg.EngineOptions()

	if opts.Engine != "vision" {
		t.Errorf("expected vision engine, got %s", opts.Engine)
	}
	if opts.Vision.APIKey != "vk-123" {
		t.Errorf("expected resolved API key, got %s", opts.Vision.APIKey)
	}
	if opts.Vision.Timeout != 90*time.Second {
		t.Errorf("expected 90s timeout, got %s", opts.Vision.Timeout)
	}
	if opts.Paddle.Attempts != 5 {
		t.Errorf("expected 5 attempts, got %d", opts.Paddle.Attempts)
	}
	if opts.Tesseract.Language != "ara+eng" {
		t.Errorf("expected ara+eng, got %s", opts.Tesseract.Language)
	}
	if opts.Tesseract.PoolSize != 4 {
		t.Errorf("expected pool size 4, got %d", opts.Tesseract.PoolSize)
	}
}

func TestWriteDefault(t *testing.T) {
	path := t.TempDir() + "/config.yaml"
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty config file")
	}
}
