package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "email-classifier",
		Short: "Classify emails as productive or unproductive with an LLM",
		Long: `email-classifier reads an email (pasted text, a .txt file or a .pdf file),
asks a language model whether it is Produtivo or Improdutivo and suggests a reply.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newClassifyCommand())

	return rootCmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
