package engine

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	VisionName         = "vision"
	visionDefaultModel = "gpt-4o-mini"
)

const visionPrompt = `You are transcribing a scanned page of Arabic text.
Read the page top to bottom and return every paragraph of text you can read.
Keep characters in logical (typed) order; do not reshape or reverse anything.
Respond with strict JSON of the form {"lines": ["...", "..."]} and nothing else.
If the page contains no readable text, respond with {"lines": []}.`

// visionResponseSchema validates the model's JSON before it is trusted.
var visionResponseSchema = jsonschema.MustCompileString("vision_lines.json", `{
	"type": "object",
	"properties": {
		"lines": {
			"type": "array",
			"items": {"type": "string"}
		}
	},
	"required": ["lines"],
	"additionalProperties": false
}`)

// VisionConfig holds configuration for the vision-model OCR client.
type VisionConfig struct {
	APIKey  string
	BaseURL string // optional (tests)
	Model   string // default: gpt-4o-mini
	Timeout time.Duration
}

// VisionEngine implements Engine using a multimodal chat model. The
// native result is an ordered list of paragraph strings; the model does
// its own line merging, so no confidence is reported.
type VisionEngine struct {
	model  string
	client openai.Client
}

// NewVisionEngine creates a vision-model OCR client.
func NewVisionEngine(cfg VisionConfig) *VisionEngine {
	if cfg.Model == "" {
		cfg.Model = visionDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &VisionEngine{
		model:  cfg.Model,
		client: openai.NewClient(opts...),
	}
}

// Name returns the engine identifier.
func (e *VisionEngine) Name() string {
	return VisionName
}

// Recognize sends the page image to the vision model and parses the
// JSON line list, validating it against the response schema.
func (e *VisionEngine) Recognize(ctx context.Context, image []byte) (NativeResult, error) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)

	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(visionPrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL,
				}),
			}),
		},
	})
	if err != nil {
		return NativeResult{}, fmt.Errorf("vision request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return NativeResult{}, fmt.Errorf("vision response has no choices")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var generic any
	if err := json.Unmarshal([]byte(content), &generic); err != nil {
		return NativeResult{}, fmt.Errorf("vision response is not valid JSON: %w", err)
	}
	if err := visionResponseSchema.Validate(generic); err != nil {
		return NativeResult{}, fmt.Errorf("vision response failed schema validation: %w", err)
	}

	var payload struct {
		Lines []string `json:"lines"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return NativeResult{}, fmt.Errorf("failed to parse vision response: %w", err)
	}

	return NativeResult{Kind: KindParagraphs, Paragraphs: payload.Lines}, nil
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models emit despite the strict-JSON instruction.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
