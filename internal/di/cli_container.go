package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/logging"
)

// CLIFlags contains the logging flags of the classify command
type CLIFlags struct {
	Verbose bool
	JSONLog bool
}

// BuildCLIContainer creates the dependency injection container used by the
// one-shot classify command. It logs to the console instead of using the
// configured logger.
func BuildCLIContainer(cfg *config.Config, flags CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() *config.Config { return cfg }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func() (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	if err := provideClassification(container); err != nil {
		return nil, err
	}

	return container, nil
}
