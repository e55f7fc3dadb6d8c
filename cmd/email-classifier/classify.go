package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mikey/llm-email-classifier/internal/config"
	"github.com/mikey/llm-email-classifier/internal/core"
	"github.com/mikey/llm-email-classifier/internal/di"
	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"
)

// errClassificationFailed makes the command exit non-zero when the model
// could not classify the email
var errClassificationFailed = errors.New("classification failed")

type classifyOptions struct {
	file       string
	text       string
	jsonOutput bool
}

// localFile adapts a file on disk to core.Upload
type localFile struct {
	path string
}

func (f localFile) Filename() string {
	return filepath.Base(f.path)
}

func (f localFile) ReadAll() ([]byte, error) {
	return os.ReadFile(f.path)
}

func newClassifyCommand() *cobra.Command {
	opts := classifyOptions{}
	var flags di.CLIFlags

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single email from a file, a flag or stdin",
		Example: `  email-classifier classify --file email.pdf
  email-classifier classify --text "Qual o status do chamado 123?"
  cat email.txt | email-classifier classify --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")

			cfg, err := config.New(configFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := cfg.BindFlag("llm.provider", cmd.Flags().Lookup("provider")); err != nil {
				return err
			}

			container, err := di.BuildCLIContainer(cfg, flags)
			if err != nil {
				return fmt.Errorf("failed to build dependency container: %w", err)
			}

			err = container.Invoke(func(
				logger *zap.Logger,
				resolver *core.ContentResolver,
				service *core.ClassificationService,
				llmClient core.LLMClient,
			) error {
				defer logger.Sync()
				if closer, ok := llmClient.(interface{ Close() error }); ok {
					defer closer.Close()
				}
				return runClassify(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin(), opts, resolver, service)
			})
			if err != nil {
				return dig.RootCause(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Email file to classify (.txt or .pdf)")
	cmd.Flags().StringVar(&opts.text, "text", "", "Email text to classify")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	cmd.Flags().String("provider", "", "LLM provider: gemini, openai, anthropic or bedrock")
	cmd.Flags().BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	cmd.Flags().BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	return cmd
}

// runClassify resolves the input, classifies it and prints the result.
// Without --file or --text the email text is read from stdin.
func runClassify(
	ctx context.Context,
	out io.Writer,
	in io.Reader,
	opts classifyOptions,
	resolver *core.ContentResolver,
	service *core.ClassificationService,
) error {
	if ctx == nil {
		ctx = context.Background()
	}

	req := core.ResolveRequest{Text: opts.text}
	if opts.file != "" {
		req.File = localFile{path: opts.file}
	} else if opts.text == "" {
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		req.Text = string(data)
	}

	content, err := resolver.Resolve(req)
	if err != nil {
		return err
	}

	startTime := time.Now()
	result := service.Classify(ctx, content)
	duration := time.Since(startTime)

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]interface{}{
			"category":           result.Category,
			"suggested_response": result.SuggestedResponse,
			"processing_id":      result.ProcessingID,
			"model":              result.ModelUsed,
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "=== Email Summary ===\n")
		if opts.file != "" {
			fmt.Fprintf(out, "File: %s\n", opts.file)
		}
		fmt.Fprintf(out, "Content length: %d bytes\n", len(content))
		fmt.Fprintf(out, "\n=== Results ===\n")
		fmt.Fprintf(out, "Category: %s\n", result.Category)
		fmt.Fprintf(out, "Suggested response: %s\n", result.SuggestedResponse)
		fmt.Fprintf(out, "Model used: %s\n", result.ModelUsed)
		fmt.Fprintf(out, "Processing ID: %s\n", result.ProcessingID)
		fmt.Fprintf(out, "Processing time: %v\n", duration)
	}

	if result.Failed() {
		return errClassificationFailed
	}
	return nil
}
