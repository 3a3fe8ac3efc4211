package cli

import (
	"context"
	"fmt"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/observability"

	"github.com/spf13/cobra"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}
type obsKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}
var obsKey = obsKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumelens",
	Short: "Analyze how well a resume matches a job description",
	Long: `ResumeLens submits a resume and a job description to an analysis
service and presents the match: scores, skill gaps, rewrite suggestions,
ATS advice, and an explanation. Results can be rendered as text, markdown,
or JSON, and explored interactively in a workspace.`,
}

func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger, obs *observability.ObservabilityManager) error {
	// Attach shared dependencies to the context, making them available to all subcommands
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	ctx = context.WithValue(ctx, obsKey, obs)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

// getObservabilityFromContext returns the observability manager, which may be nil
func getObservabilityFromContext(ctx context.Context) *observability.ObservabilityManager {
	if obs, ok := ctx.Value(obsKey).(*observability.ObservabilityManager); ok {
		return obs
	}
	return nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(versionCmd)
}
