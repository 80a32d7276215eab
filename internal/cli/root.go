package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/fuzzkit/internal/enforce"
	"github.com/ppiankov/fuzzkit/internal/logging"
)

var (
	logLevel  string
	logFormat string

	// logger is built once per invocation in PersistentPreRunE.
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fuzzkit",
	Short: "Sandbox API fuzzing toolkit",
	Long: "Loads a target profile, enforces its safety guardrails and plans a fuzzing session.\n" +
		"Nothing is sent unless every guardrail passes.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(cmd.ErrOrStderr(), logging.Level(logLevel), logFormat)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	RunE: runSession,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug|info|warn|error (default $"+logging.EnvVar+" or info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text|json")
}

// getLogger returns the invocation logger, or a discarding one when commands run without the root hook.
func getLogger() *slog.Logger {
	if logger == nil {
		return logging.Discard()
	}
	return logger
}

// cmdContext returns the command context, or Background for commands invoked directly.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command and exits with a status derived from the error.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(enforce.ExitCode(err))
}
