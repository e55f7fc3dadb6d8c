package factory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mikey/llm-email-classifier/internal/adapters/intake"
	"github.com/mikey/llm-email-classifier/internal/adapters/web"
	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/core"
	"github.com/mikey/llm-email-classifier/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLLM struct{}

func (stubLLM) Generate(_ context.Context, _ string) (string, error) {
	return "CATEGORIA: Produtivo\nRESPOSTA_SUGERIDA: Ok.", nil
}

func (stubLLM) Model() string { return "stub-model" }

func newConfig(values map[string]interface{}) *config.Config {
	v := config.NewEmptyViper()
	for key, value := range values {
		v.Set(key, value)
	}
	return config.NewFromViper(v)
}

func TestCreateLLMClientUnsupportedProvider(t *testing.T) {
	cfg := newConfig(map[string]interface{}{"llm.provider": "cohere"})

	_, err := NewLLMFactory(cfg, zap.NewNop()).CreateLLMClient()

	var cfgErr *core.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "llm.provider", cfgErr.Key)
}

func TestCreateLLMClientMissingKey(t *testing.T) {
	tests := []struct {
		provider string
		key      string
	}{
		{provider: "gemini", key: "gemini.api_key"},
		{provider: "openai", key: "openai.api_key"},
		{provider: "anthropic", key: "anthropic.api_key"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := newConfig(map[string]interface{}{
				"llm.provider": tt.provider,
				tt.key:         "",
			})

			_, err := NewLLMFactory(cfg, zap.NewNop()).CreateLLMClient()

			var cfgErr *core.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.key, cfgErr.Key)
		})
	}
}

func TestCreateLLMClientOpenAI(t *testing.T) {
	cfg := newConfig(map[string]interface{}{
		"llm.provider":      "openai",
		"openai.api_key":    "sk-test",
		"openai.model_name": "gpt-4o-mini",
	})

	client, err := NewLLMFactory(cfg, zap.NewNop()).CreateLLMClient()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", client.Model())
}

func TestCreateClassificationService(t *testing.T) {
	cfg := newConfig(map[string]interface{}{"llm.timeout": "5s"})

	service, err := NewClassifierFactory(cfg, stubLLM{}, utils.NewTextProcessor(zap.NewNop()), zap.NewNop()).
		CreateClassificationService()
	require.NoError(t, err)

	result := service.Classify(context.Background(), "Preciso de ajuda")
	assert.Equal(t, core.CategoryProductive, result.Category)
}

func TestCreateClassificationServiceInvalidTemplate(t *testing.T) {
	cfg := newConfig(map[string]interface{}{"classifier.prompt_template": "no placeholder"})

	_, err := NewClassifierFactory(cfg, stubLLM{}, utils.NewTextProcessor(zap.NewNop()), zap.NewNop()).
		CreateClassificationService()

	var cfgErr *core.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "classifier.prompt_template", cfgErr.Key)
}

func TestCreateFrontends(t *testing.T) {
	service, err := core.NewClassificationService(stubLLM{}, core.ClassifierSettings{Timeout: time.Second}, nil, zap.NewNop())
	require.NoError(t, err)
	resolver := core.NewContentResolver(nil, utils.NewTextProcessor(zap.NewNop()), zap.NewNop())

	frontends, err := NewFrontendFactory(newConfig(nil), zap.NewNop(), resolver, service).CreateFrontends()
	require.NoError(t, err)
	require.Len(t, frontends, 1)
	assert.IsType(t, &web.Server{}, frontends[0])

	cfg := newConfig(map[string]interface{}{"intake.enabled": true})
	frontends, err = NewFrontendFactory(cfg, zap.NewNop(), resolver, service).CreateFrontends()
	require.NoError(t, err)
	require.Len(t, frontends, 2)
	assert.IsType(t, &intake.SMTPIntake{}, frontends[1])
}
