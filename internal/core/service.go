package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/llm-email-classifier/internal/utils"
	"go.uber.org/zap"
)

// DefaultFailureMessage is shown to the user when classification fails
const DefaultFailureMessage = "could not process the request, try again later"

// ClassifierSettings is the immutable configuration of a ClassificationService
type ClassifierSettings struct {
	PromptTemplate string
	FailureMessage string
	MaxContentSize int
	Timeout        time.Duration
}

// ClassificationService classifies email content with an LLM
type ClassificationService struct {
	llmClient     LLMClient
	settings      ClassifierSettings
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewClassificationService creates a new classification service
func NewClassificationService(
	llmClient LLMClient,
	settings ClassifierSettings,
	textProcessor *utils.TextProcessor,
	logger *zap.Logger,
) (*ClassificationService, error) {
	if llmClient == nil {
		return nil, errors.New("llm client must not be nil")
	}
	if settings.PromptTemplate == "" {
		settings.PromptTemplate = DefaultPromptTemplate
	}
	if err := ValidatePromptTemplate(settings.PromptTemplate); err != nil {
		return nil, &ConfigurationError{Key: "classifier.prompt_template", Reason: err.Error()}
	}
	if settings.FailureMessage == "" {
		settings.FailureMessage = DefaultFailureMessage
	}
	if textProcessor == nil {
		textProcessor = utils.NewTextProcessor(logger)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ClassificationService{
		llmClient:     llmClient,
		settings:      settings,
		textProcessor: textProcessor,
		logger:        logger,
	}, nil
}

// Classify classifies the content and never fails: any error is logged and
// reported as the error category with the configured failure message.
func (s *ClassificationService) Classify(ctx context.Context, content EmailContent) ClassificationResult {
	result, err := s.Invoke(ctx, content)
	if err != nil {
		s.logger.Error("Failed to classify email",
			zap.Error(err),
			zap.String("processing_id", result.ProcessingID),
			zap.String("model", result.ModelUsed))
		return s.failure(result)
	}

	s.logger.Info("Classified email",
		zap.String("processing_id", result.ProcessingID),
		zap.String("category", result.Category.String()),
		zap.String("model", result.ModelUsed))

	return result
}

// Invoke runs the prompt against the model and parses the reply. On failure
// the returned error is a *ClassificationError and the result only carries
// the diagnostic fields.
func (s *ClassificationService) Invoke(ctx context.Context, content EmailContent) (ClassificationResult, error) {
	result := ClassificationResult{
		ModelUsed:    s.llmClient.Model(),
		ProcessingID: newProcessingID(),
		AnalyzedAt:   time.Now(),
	}

	if content == "" {
		return result, &ClassificationError{Kind: ErrorKindInvalidContent, Err: errors.New("empty email content")}
	}

	body := s.textProcessor.ProcessText(string(content), s.settings.MaxContentSize)
	prompt := BuildPrompt(s.settings.PromptTemplate, EmailContent(body))

	if s.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.settings.Timeout)
		defer cancel()
	}

	reply, err := s.generate(ctx, prompt)
	if err != nil {
		return result, &ClassificationError{Kind: ErrorKindService, Err: err}
	}

	parsed, err := ParseReply(reply)
	if err != nil {
		s.logger.Debug("Unparseable model reply",
			zap.String("processing_id", result.ProcessingID),
			zap.String("reply", reply))
		return result, &ClassificationError{Kind: ErrorKindMalformedReply, Err: fmt.Errorf("parse reply: %w", err)}
	}

	result.Category = parsed.Category
	result.SuggestedResponse = parsed.SuggestedResponse
	return result, nil
}

// generate calls the model and turns a panic in the client into an error
func (s *ClassificationService) generate(ctx context.Context, prompt string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("llm client panicked: %v", r)
		}
	}()
	return s.llmClient.Generate(ctx, prompt)
}

// FailureResult returns the degraded result shown when classification fails
func (s *ClassificationService) FailureResult() ClassificationResult {
	return s.failure(ClassificationResult{
		ModelUsed:    s.llmClient.Model(),
		ProcessingID: newProcessingID(),
		AnalyzedAt:   time.Now(),
	})
}

func (s *ClassificationService) failure(result ClassificationResult) ClassificationResult {
	result.Category = CategoryError
	result.SuggestedResponse = s.settings.FailureMessage
	return result
}

var newProcessingID = func() string {
	return uuid.NewString()
}
