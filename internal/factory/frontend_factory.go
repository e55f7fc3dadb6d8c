package factory

import (
	"fmt"

	"github.com/mikey/llm-email-classifier/internal/adapters/intake"
	"github.com/mikey/llm-email-classifier/internal/adapters/web"
	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/core"
	"github.com/mikey/llm-email-classifier/internal/ports"
	"go.uber.org/zap"
)

// FrontendFactory creates the front-ends enabled in the configuration
type FrontendFactory struct {
	cfg      *config.Config
	logger   *zap.Logger
	resolver *core.ContentResolver
	service  *core.ClassificationService
}

// NewFrontendFactory creates a new front-end factory
func NewFrontendFactory(
	cfg *config.Config,
	logger *zap.Logger,
	resolver *core.ContentResolver,
	service *core.ClassificationService,
) *FrontendFactory {
	return &FrontendFactory{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
		service:  service,
	}
}

// CreateFrontends returns the web front-end followed by the mail intake when enabled
func (f *FrontendFactory) CreateFrontends() ([]ports.Frontend, error) {
	serverConfig, err := f.cfg.GetServer()
	if err != nil {
		return nil, &core.ConfigurationError{Key: "server", Reason: err.Error()}
	}

	server, err := web.NewServer(serverConfig, f.resolver, f.service, f.logger.Named("web"))
	if err != nil {
		return nil, fmt.Errorf("failed to create web server: %w", err)
	}
	frontends := []ports.Frontend{server}

	intakeConfig := f.cfg.GetIntake()
	if intakeConfig.Enabled {
		frontends = append(frontends, intake.NewSMTPIntake(f.service, intakeConfig, f.logger.Named("intake")))
	}

	return frontends, nil
}
