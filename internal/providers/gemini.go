package providers

import (
	"context"
	"encoding/json"
	"strings"

	"google.golang.org/genai"

	"notegrader/internal/codes"
	"notegrader/internal/config"
)

const defaultGeminiModel = "gemini-2.0-flash"

// Gemini calls Google's GenAI API, non-streaming.
type Gemini struct {
	client *genai.Client
	model  string
	retry  retryPolicy
}

func NewGemini(ctx context.Context, apiKey string, model string) (*Gemini, error) {
	if strings.TrimSpace(model) == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, codes.Newf(codes.ErrProvider, "gemini: %v", err)
	}
	return &Gemini{client: client, model: model, retry: defaultRetryPolicy()}, nil
}

func (g *Gemini) Name() string { return config.ProviderGemini }

func (g *Gemini) Generate(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.Temperature > 0 {
		t := float32(req.Temperature)
		cfg.Temperature = &t
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	contents := []*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}

	var text string
	err := g.retry.do(ctx, func() error {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
		if err != nil {
			return err
		}
		text = resp.Text()
		return nil
	})
	if err != nil {
		return nil, codes.Newf(codes.ErrProvider, "gemini: %v", err)
	}
	return ExtractJSONObject(text)
}
