package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/core"
	"github.com/mikey/llm-email-classifier/internal/di"
	"github.com/mikey/llm-email-classifier/internal/ports"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web front-end and the optional mail intake",
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")

			cfg, err := config.New(configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.BindFlag("server.listen_address", cmd.Flags().Lookup("listen")); err != nil {
				return err
			}
			if err := cfg.BindFlag("llm.provider", cmd.Flags().Lookup("provider")); err != nil {
				return err
			}

			container, err := di.BuildContainer(cfg)
			if err != nil {
				return fmt.Errorf("failed to build dependency container: %w", err)
			}

			if err := container.Invoke(runServe); err != nil {
				return dig.RootCause(err)
			}
			return nil
		},
	}

	cmd.Flags().String("listen", "", "Address of the web front-end (overrides server.listen_address)")
	cmd.Flags().String("provider", "", "LLM provider: gemini, openai, anthropic or bedrock")

	return cmd
}

// runServe starts the front-ends and blocks until the process is signalled
func runServe(
	logger *zap.Logger,
	frontends []ports.Frontend,
	llmClient core.LLMClient,
) error {
	defer logger.Sync()

	started := make([]ports.Frontend, 0, len(frontends))
	for _, frontend := range frontends {
		if err := frontend.Start(); err != nil {
			logger.Error("Failed to start front-end", zap.Error(err))
			stopAll(logger, started)
			return err
		}
		started = append(started, frontend)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("Shutting down...", zap.String("signal", sig.String()))

	stopAll(logger, started)

	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}

func stopAll(logger *zap.Logger, frontends []ports.Frontend) {
	for _, frontend := range frontends {
		if err := frontend.Stop(); err != nil {
			logger.Error("Failed to stop front-end", zap.Error(err))
		}
	}
}
