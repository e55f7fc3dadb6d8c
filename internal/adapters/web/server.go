package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"time"

	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/core"
	"go.uber.org/zap"
)

// ContentResolver turns a request into email content
type ContentResolver interface {
	Resolve(req core.ResolveRequest) (core.EmailContent, error)
}

// Classifier classifies email content
type Classifier interface {
	Classify(ctx context.Context, content core.EmailContent) core.ClassificationResult
}

// Server is the HTTP front-end of the classifier
type Server struct {
	app        *fiber.App
	cfg        config.ServerConfig
	resolver   ContentResolver
	classifier Classifier
	page       *template.Template
	logger     *zap.Logger
	listener   net.Listener
}

// NewServer creates the fiber application and registers its routes
func NewServer(
	cfg config.ServerConfig,
	resolver ContentResolver,
	classifier Classifier,
	logger *zap.Logger,
) (*Server, error) {
	page, err := parsePage()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		resolver:   resolver,
		classifier: classifier,
		page:       page,
		logger:     logger,
	}

	s.app = fiber.New(fiber.Config{
		AppName:      "email-classifier",
		BodyLimit:    cfg.MaxUploadBytes,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: s.handleError,
	})

	s.app.Use(recoverer.New())
	s.app.Use(requestLogger(logger))

	s.app.Get("/", s.index)
	s.app.Post("/processar", s.processForm)
	s.app.Post("/api/classify", s.classifyAPI)
	s.app.Get("/health", s.health)

	return s, nil
}

// App returns the underlying fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Start binds the listen address and serves HTTP requests in the background
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.ListenAddress, err)
	}

	s.listener = listener

	s.logger.Info("Web server starting", zap.String("address", listener.Addr().String()))

	go func() {
		if err := s.app.Listener(listener, fiber.ListenConfig{
			DisableStartupMessage: true,
		}); err != nil {
			s.logger.Error("Web server error", zap.Error(err))
		}
	}()

	return nil
}

// Addr returns the address the server listens on once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.ListenAddress
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down
func (s *Server) Stop() error {
	return s.app.ShutdownWithTimeout(10 * time.Second)
}

// handleError renders errors that escaped a handler, such as an oversized body
func (s *Server) handleError(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	s.logger.Warn("Request failed",
		zap.String("path", c.Path()),
		zap.Int("status", code),
		zap.Error(err))

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()))

		return err
	}
}
