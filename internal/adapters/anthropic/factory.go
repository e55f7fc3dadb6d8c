package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/core"
	"go.uber.org/zap"
)

// Factory creates new instances of AnthropicClient
type Factory struct {
	cfg    config.AnthropicConfig
	logger *zap.Logger
}

// NewFactory creates a new factory for AnthropicClient instances
func NewFactory(cfg config.AnthropicConfig, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new AnthropicClient
func (f *Factory) CreateLLMClient() (core.LLMClient, error) {
	if f.cfg.APIKey == "" {
		return nil, &core.ConfigurationError{Key: "anthropic.api_key", Reason: "ANTHROPIC_API_KEY is not set"}
	}

	opts := []option.RequestOption{option.WithAPIKey(f.cfg.APIKey)}
	if f.cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(f.cfg.BaseURL))
	}

	return NewAnthropicClient(
		anthropic.NewClient(opts...),
		f.cfg.ModelName,
		f.cfg.MaxTokens,
		f.cfg.Temperature,
		f.logger,
	), nil
}
