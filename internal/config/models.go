package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
	Timeout  time.Duration
}

// ClassifierConfig represents the configuration of the classification step
type ClassifierConfig struct {
	PromptTemplate string
	FailureMessage string
	MaxContentSize int
}

// ServerConfig represents the configuration of the web front-end
type ServerConfig struct {
	ListenAddress  string
	MaxUploadBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// IntakeConfig represents the configuration of the SMTP mail intake
type IntakeConfig struct {
	Enabled                 bool
	ListenAddress           string
	Domain                  string
	MaxMessageBytes         int
	CategoryHeader          string
	SuggestedResponseHeader string
	RelayEnabled            bool
	RelayAddress            string
	RelayPort               int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// AnthropicConfig represents the configuration for Anthropic
type AnthropicConfig struct {
	APIKey      string
	ModelName   string
	BaseURL     string
	MaxTokens   int
	Temperature float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() (LLMConfig, error) {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil {
		return LLMConfig{}, fmt.Errorf("invalid llm timeout: %w", err)
	}
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
		Timeout:  timeout,
	}, nil
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		PromptTemplate: c.GetString("classifier.prompt_template"),
		FailureMessage: c.GetString("classifier.failure_message"),
		MaxContentSize: c.GetInt("classifier.max_content_size"),
	}
}

// GetServer returns the web server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server read timeout: %w", err)
	}
	writeTimeout, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server write timeout: %w", err)
	}
	return ServerConfig{
		ListenAddress:  c.GetString("server.listen_address"),
		MaxUploadBytes: c.GetInt("server.max_upload_bytes"),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
	}, nil
}

// GetIntake returns the mail intake configuration
func (c *Config) GetIntake() IntakeConfig {
	return IntakeConfig{
		Enabled:                 c.GetBool("intake.enabled"),
		ListenAddress:           c.GetString("intake.listen_address"),
		Domain:                  c.GetString("intake.domain"),
		MaxMessageBytes:         c.GetInt("intake.max_message_bytes"),
		CategoryHeader:          c.GetString("intake.headers.category"),
		SuggestedResponseHeader: c.GetString("intake.headers.suggested_response"),
		RelayEnabled:            c.GetBool("intake.relay.enabled"),
		RelayAddress:            c.GetString("intake.relay.address"),
		RelayPort:               c.GetInt("intake.relay.port"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		BaseURL:     c.GetString("openai.base_url"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetAnthropic returns the Anthropic configuration
func (c *Config) GetAnthropic() AnthropicConfig {
	return AnthropicConfig{
		APIKey:      c.GetString("anthropic.api_key"),
		ModelName:   c.GetString("anthropic.model_name"),
		BaseURL:     c.GetString("anthropic.base_url"),
		MaxTokens:   c.GetInt("anthropic.max_tokens"),
		Temperature: float32(c.GetFloat64("anthropic.temperature")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}
