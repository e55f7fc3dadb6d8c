package factory

import (
	"fmt"

	"github.com/mikey/llm-email-classifier/internal/adapters/anthropic"
	"github.com/mikey/llm-email-classifier/internal/adapters/bedrock"
	"github.com/mikey/llm-email-classifier/internal/adapters/gemini"
	"github.com/mikey/llm-email-classifier/internal/adapters/openai"
	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates LLM clients
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateLLMClient creates a new LLM client based on the configuration
func (f *LLMFactory) CreateLLMClient() (core.LLMClient, error) {
	llmConfig, err := f.cfg.GetLLM()
	if err != nil {
		return nil, &core.ConfigurationError{Key: "llm.timeout", Reason: err.Error()}
	}

	var client core.LLMClient
	switch llmConfig.Provider {
	case "gemini":
		client, err = gemini.NewFactory(f.cfg.GetGemini(), f.logger).CreateLLMClient()
	case "openai":
		client, err = openai.NewFactory(f.cfg.GetOpenAI(), f.logger).CreateLLMClient()
	case "anthropic":
		client, err = anthropic.NewFactory(f.cfg.GetAnthropic(), f.logger).CreateLLMClient()
	case "bedrock":
		client, err = bedrock.NewFactory(f.cfg.GetBedrock(), f.logger).CreateLLMClient()
	default:
		return nil, &core.ConfigurationError{
			Key:    "llm.provider",
			Reason: fmt.Sprintf("unsupported LLM provider: %q", llmConfig.Provider),
		}
	}
	if err != nil {
		return nil, err
	}

	f.logger.Info("Created LLM client",
		zap.String("provider", llmConfig.Provider),
		zap.String("model", client.Model()))

	return client, nil
}
