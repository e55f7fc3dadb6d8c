package core

import (
	"path/filepath"
	"strings"

	"github.com/mikey/llm-email-classifier/internal/utils"
	"go.uber.org/zap"
)

const (
	extensionText = ".txt"
	extensionPDF  = ".pdf"
)

// ResolveRequest carries the raw inputs of a classification request. File
// takes precedence over Text when it has a filename.
type ResolveRequest struct {
	File Upload
	Text string
}

// ContentResolver turns an uploaded file or a text field into EmailContent
type ContentResolver struct {
	pdf           PDFExtractor
	textProcessor *utils.TextProcessor
	logger        *zap.Logger
}

// NewContentResolver creates a new content resolver
func NewContentResolver(pdf PDFExtractor, textProcessor *utils.TextProcessor, logger *zap.Logger) *ContentResolver {
	return &ContentResolver{
		pdf:           pdf,
		textProcessor: textProcessor,
		logger:        logger,
	}
}

// Resolve returns the email text of the request. It fails with *InputError
// when nothing usable was supplied, *UnsupportedFormatError for files other
// than .txt and .pdf, and *DocumentReadError when the file cannot be read.
func (r *ContentResolver) Resolve(req ResolveRequest) (EmailContent, error) {
	if req.File != nil && req.File.Filename() != "" {
		return r.resolveFile(req.File)
	}

	if req.Text != "" {
		return EmailContent(req.Text), nil
	}

	return "", &InputError{Reason: "no text or file supplied"}
}

func (r *ContentResolver) resolveFile(file Upload) (EmailContent, error) {
	filename := file.Filename()
	extension := strings.ToLower(filepath.Ext(filename))

	var text string
	switch extension {
	case extensionText:
		raw, err := file.ReadAll()
		if err != nil {
			return "", &DocumentReadError{Err: err}
		}
		text, err = r.textProcessor.DecodeUTF8(raw)
		if err != nil {
			return "", &DocumentReadError{Err: err}
		}
	case extensionPDF:
		raw, err := file.ReadAll()
		if err != nil {
			return "", &DocumentReadError{Err: err}
		}
		pages, err := r.pdf.ExtractPages(raw)
		if err != nil {
			return "", &DocumentReadError{Err: err}
		}
		text = r.textProcessor.SanitizeUTF8(strings.Join(pages, ""))
		r.logger.Debug("Extracted PDF text",
			zap.String("filename", filename),
			zap.Int("pages", len(pages)),
			zap.Int("length", len(text)))
	default:
		return "", &UnsupportedFormatError{Extension: extension}
	}

	if text == "" {
		return "", &InputError{Reason: "the uploaded file contains no text"}
	}
	return EmailContent(text), nil
}
