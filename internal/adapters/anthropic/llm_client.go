package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"go.uber.org/zap"
)

// AnthropicClient is an implementation of the LLMClient interface using the Anthropic Messages API
type AnthropicClient struct {
	client      anthropic.Client
	modelName   string
	maxTokens   int64
	temperature float64
	logger      *zap.Logger
}

// NewAnthropicClient creates a new Anthropic client
func NewAnthropicClient(
	client anthropic.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	logger *zap.Logger,
) *AnthropicClient {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicClient{
		client:      client,
		modelName:   modelName,
		maxTokens:   int64(maxTokens),
		temperature: float64(temperature),
		logger:      logger,
	}
}

// Model returns the Claude model name
func (c *AnthropicClient) Model() string {
	return c.modelName
}

// Generate sends the prompt as a single user message and joins the text blocks of the reply
func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelName),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	}
	if c.temperature > 0 {
		params.Temperature = anthropic.Float(c.temperature)
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create message with Anthropic: %w", err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			sb.WriteString(text.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from Anthropic")
	}

	c.logger.Debug("Anthropic reply received",
		zap.String("model", string(message.Model)),
		zap.String("stop_reason", string(message.StopReason)),
		zap.Int64("input_tokens", message.Usage.InputTokens),
		zap.Int64("output_tokens", message.Usage.OutputTokens))

	return sb.String(), nil
}
