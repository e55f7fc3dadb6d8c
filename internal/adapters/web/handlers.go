package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/mikey/llm-email-classifier/internal/core"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templatesFS embed.FS

const (
	fieldFile = "email_file"
	fieldText = "email_text"
)

// pageData is the view model of the index page
type pageData struct {
	Error             string
	Category          string
	SuggestedResponse string
	EmailText         string
}

// classifyResponse is the JSON body returned by the API
type classifyResponse struct {
	Category          string `json:"category"`
	SuggestedResponse string `json:"suggested_response"`
	ProcessingID      string `json:"processing_id"`
}

func parsePage() (*template.Template, error) {
	page, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return page, nil
}

func (s *Server) index(c fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, pageData{})
}

func (s *Server) processForm(c fiber.Ctx) error {
	text := c.FormValue(fieldText)

	content, err := s.resolver.Resolve(s.resolveRequest(c, text))
	if err != nil {
		s.logger.Info("Rejected request", zap.Error(err))
		return s.render(c, statusFor(err), pageData{
			Error:     pageMessage(err),
			EmailText: text,
		})
	}

	result := s.classifier.Classify(c.RequestCtx(), content)
	return s.render(c, fiber.StatusOK, pageData{
		Category:          result.Category.String(),
		SuggestedResponse: result.SuggestedResponse,
		EmailText:         text,
	})
}

func (s *Server) classifyAPI(c fiber.Ctx) error {
	content, err := s.resolver.Resolve(s.resolveRequest(c, c.FormValue(fieldText)))
	if err != nil {
		s.logger.Info("Rejected request", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	result := s.classifier.Classify(c.RequestCtx(), content)
	return c.Status(fiber.StatusOK).JSON(classifyResponse{
		Category:          result.Category.String(),
		SuggestedResponse: result.SuggestedResponse,
		ProcessingID:      result.ProcessingID,
	})
}

func (s *Server) health(c fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   "email-classifier",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// resolveRequest collects the form inputs. A missing or unreadable file
// part means no file was sent.
func (s *Server) resolveRequest(c fiber.Ctx, text string) core.ResolveRequest {
	req := core.ResolveRequest{Text: text}
	if header, err := c.FormFile(fieldFile); err == nil && header != nil {
		s.logger.Debug("Received upload",
			zap.String("filename", header.Filename),
			zap.Int64("size", header.Size))
		req.File = formUpload{header: header}
	}
	return req
}

func (s *Server) render(c fiber.Ctx, status int, data pageData) error {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

// statusFor maps resolver errors to HTTP status codes
func statusFor(err error) int {
	var formatErr *core.UnsupportedFormatError
	var readErr *core.DocumentReadError
	switch {
	case errors.As(err, &formatErr):
		return fiber.StatusUnsupportedMediaType
	case errors.As(err, &readErr):
		return fiber.StatusUnprocessableEntity
	case core.IsUserError(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// pageMessage is the message shown on the page for a rejected request
func pageMessage(err error) string {
	var inputErr *core.InputError
	var formatErr *core.UnsupportedFormatError
	var readErr *core.DocumentReadError
	switch {
	case errors.As(err, &formatErr):
		return "Formato de arquivo não suportado. Use .txt ou .pdf."
	case errors.As(err, &readErr):
		return fmt.Sprintf("Erro ao ler o arquivo: %v", readErr.Err)
	case errors.As(err, &inputErr):
		return "Por favor, insira o texto ou faça o upload de um arquivo com conteúdo."
	default:
		return "Não foi possível processar a sua solicitação."
	}
}
