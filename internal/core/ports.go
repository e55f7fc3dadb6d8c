package core

import (
	"context"
)

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// Generate sends the prompt to the model and returns the raw reply text
	Generate(ctx context.Context, prompt string) (string, error)

	// Model returns the name of the model answering the requests
	Model() string
}

// Upload is a file received from a user
type Upload interface {
	Filename() string
	ReadAll() ([]byte, error)
}

// PDFExtractor extracts the text layer of a PDF document, one entry per page.
// Pages without text are returned as empty strings.
type PDFExtractor interface {
	ExtractPages(data []byte) ([]string, error)
}
