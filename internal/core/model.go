package core

import (
	"time"
)

// EmailContent is the full text of an email to classify
type EmailContent string

// Category is the label assigned to an email
type Category string

const (
	// CategoryProductive marks emails that require an action or a reply
	CategoryProductive Category = "Produtivo"
	// CategoryUnproductive marks emails that need no action
	CategoryUnproductive Category = "Improdutivo"
	// CategoryError is reported when the email could not be classified
	CategoryError Category = "Erro"
)

// IsValid reports whether c is one of the labels the model may return
func (c Category) IsValid() bool {
	switch c {
	case CategoryProductive, CategoryUnproductive:
		return true
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ClassificationResult represents the outcome of classifying one email
type ClassificationResult struct {
	Category          Category
	SuggestedResponse string
	ModelUsed         string
	ProcessingID      string
	AnalyzedAt        time.Time
}

// Failed reports whether the result is the degraded error result
func (r ClassificationResult) Failed() bool {
	return r.Category == CategoryError
}
