package factory

import (
	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/core"
	"github.com/mikey/llm-email-classifier/internal/utils"
	"go.uber.org/zap"
)

// ClassifierFactory creates the classification service from configuration
type ClassifierFactory struct {
	cfg           *config.Config
	llmClient     core.LLMClient
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(
	cfg *config.Config,
	llmClient core.LLMClient,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		llmClient:     llmClient,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// CreateClassificationService creates the classification service
func (f *ClassifierFactory) CreateClassificationService() (*core.ClassificationService, error) {
	llmConfig, err := f.cfg.GetLLM()
	if err != nil {
		return nil, &core.ConfigurationError{Key: "llm.timeout", Reason: err.Error()}
	}
	classifierConfig := f.cfg.GetClassifier()

	return core.NewClassificationService(
		f.llmClient,
		core.ClassifierSettings{
			PromptTemplate: classifierConfig.PromptTemplate,
			FailureMessage: classifierConfig.FailureMessage,
			MaxContentSize: classifierConfig.MaxContentSize,
			Timeout:        llmConfig.Timeout,
		},
		f.textProcessor,
		f.logger,
	)
}
