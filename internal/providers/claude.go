package providers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"notegrader/internal/codes"
	"notegrader/internal/config"
)

const defaultClaudeModel = "claude-sonnet-4-20250514"

// Claude calls Anthropic's Messages API, non-streaming: one transcript in,
// one JSON object out.
type Claude struct {
	client anthropic.Client
	model  string
	retry  retryPolicy
}

func NewClaude(apiKey string, model string) *Claude {
	if strings.TrimSpace(model) == "" {
		model = defaultClaudeModel
	}
	return &Claude{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		retry:  defaultRetryPolicy(),
	}
}

func (c *Claude) Name() string { return config.ProviderClaude }

func (c *Claude) Generate(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	var text string
	err := c.retry.do(ctx, func() error {
		msg, err := c.client.Messages.New(ctx, params)
		if err != nil {
			return err
		}
		var sb strings.Builder
		for _, block := range msg.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		text = sb.String()
		return nil
	})
	if err != nil {
		return nil, codes.Newf(codes.ErrProvider, "claude: %v", err)
	}
	return ExtractJSONObject(text)
}
