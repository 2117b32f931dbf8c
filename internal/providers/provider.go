// Package providers turns maintenance voice-note transcripts into
// structured workflow outputs via the configured AI provider. The engine
// never calls this package; it feeds the generated documents the engine
// later evaluates.
package providers

import (
	"context"
	"encoding/json"
	"time"

	"notegrader/internal/codes"
	"notegrader/internal/config"
)

type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float64
}

// Provider produces one JSON object per transcript. Implementations retry
// transient failures internally; a returned error is final.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (json.RawMessage, error)
}

// New builds the provider selected by name.
func New(ctx context.Context, name string, apiKey string, model string) (Provider, error) {
	switch name {
	case config.ProviderClaude:
		return NewClaude(apiKey, model), nil
	case config.ProviderGemini:
		return NewGemini(ctx, apiKey, model)
	default:
		return nil, codes.Newf(codes.ErrUsage, "unsupported provider %q", name)
	}
}

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// retryPolicy retries transient provider failures with exponential
// backoff: delay, 2*delay, 4*delay, ...
type retryPolicy struct {
	maxRetries int
	baseDelay  time.Duration
}

func defaultRetryPolicy() retryPolicy {
	return retryPolicy{maxRetries: defaultMaxRetries, baseDelay: defaultRetryDelay}
}

func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	var err error
	delay := p.baseDelay
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || attempt >= p.maxRetries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
