package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

const (
	PaddleName           = "paddle"
	PaddleDefaultBaseURL = "http://localhost:8868"

	paddleOCRPath = "/predict/ocr_system"
)

// PaddleConfig holds configuration for the PaddleOCR serving client.
type PaddleConfig struct {
	BaseURL    string
	Timeout    time.Duration
	Attempts   uint          // HTTP retry attempts (default: 3)
	RetryDelay time.Duration // base backoff delay (default: 1s)
}

// PaddleEngine implements Engine against a PaddleOCR hub-serving
// sidecar. The native result is an ordered sequence of text regions,
// each with recognized text and a confidence score.
type PaddleEngine struct {
	baseURL    string
	attempts   uint
	retryDelay time.Duration
	client     *http.Client
}

// NewPaddleEngine creates a PaddleOCR serving client.
func NewPaddleEngine(cfg PaddleConfig) *PaddleEngine {
	if cfg.BaseURL == "" {
		cfg.BaseURL = PaddleDefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 1 * time.Second
	}

	return &PaddleEngine{
		baseURL:    cfg.BaseURL,
		attempts:   cfg.Attempts,
		retryDelay: cfg.RetryDelay,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Name returns the engine identifier.
func (e *PaddleEngine) Name() string {
	return PaddleName
}

type paddleRequest struct {
	Images []string `json:"images"`
}

type paddleLine struct {
	Text       string      `json:"text"`
	Confidence *float64    `json:"confidence"`
	TextRegion [][]float64 `json:"text_region"`
}

type paddleResponse struct {
	Msg     string         `json:"msg"`
	Status  string         `json:"status"`
	Results [][]paddleLine `json:"results"`
}

// Recognize posts the page image as base64 JSON and decodes the region
// list. The serving API accepts a batch of images; we always send one.
func (e *PaddleEngine) Recognize(ctx context.Context, image []byte) (NativeResult, error) {
	reqBody := paddleRequest{
		Images: []string{base64.StdEncoding.EncodeToString(image)},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return NativeResult{}, fmt.Errorf("failed to marshal paddle request: %w", err)
	}

	var resp paddleResponse
	err = retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+paddleOCRPath, bytes.NewReader(payload))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			httpResp, err := e.client.Do(req)
			if err != nil {
				return err
			}
			defer httpResp.Body.Close()

			if httpResp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 512))
				return fmt.Errorf("paddle serving returned %d: %s", httpResp.StatusCode, string(body))
			}

			resp = paddleResponse{}
			if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
				return fmt.Errorf("failed to decode paddle response: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(e.attempts),
		retry.Delay(e.retryDelay),
	)
	if err != nil {
		return NativeResult{}, err
	}

	if resp.Status != "" && resp.Status != "000" {
		return NativeResult{}, fmt.Errorf("paddle serving error status %s: %s", resp.Status, resp.Msg)
	}

	var boxes []BoxLine
	if len(resp.Results) > 0 {
		for _, line := range resp.Results[0] {
			conf := 1.0
			if line.Confidence != nil {
				conf = *line.Confidence
			}
			boxes = append(boxes, BoxLine{
				Region:     line.TextRegion,
				Text:       line.Text,
				Confidence: conf,
			})
		}
	}

	return NativeResult{Kind: KindBoxes, Boxes: boxes}, nil
}
