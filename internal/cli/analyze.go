package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"

	"resumelens/internal/client"
	"resumelens/internal/common"
	"resumelens/internal/errors"
	"resumelens/internal/observability"
	"resumelens/internal/session"
	"resumelens/internal/types"
	"resumelens/internal/workspace"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume-file> [job-description-file]",
	Short: "Analyze a resume against a job description",
	Long: `Analyze a resume (PDF or DOCX) against a job description and report
how well they match.

The job description comes from a text file argument or from --jd-text.
The analysis covers:
- An overall match score with skills, experience, and project breakdowns
- A skill gap: strong matches, weak matches, and missing skills
- AI-rewritten experience bullets tailored to the role
- ATS formatting suggestions
- A written explanation of the scoring

With --interactive, a workspace shell opens after the analysis to explore
the result tab by tab and accept or reject rewrite suggestions.`,
	Args: cobra.RangeArgs(1, 2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		if err := common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats); err != nil {
			return err
		}

		if len(args) < 2 && analyzeJDText == "" {
			return fmt.Errorf("provide a job description file or --jd-text")
		}
		if len(args) == 2 && analyzeJDText != "" {
			return fmt.Errorf("use either a job description file or --jd-text, not both")
		}
		return nil
	},
	RunE: runAnalyze,
}

var (
	analyzeConfig      common.CommandConfig
	analyzeJDText      string
	analyzeInteractive bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeJDText, "jd-text", "", "Job description text passed inline")
	analyzeCmd.Flags().BoolVarP(&analyzeInteractive, "interactive", "i", false, "Open the workspace shell after analysis")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// meteredAnalyzer wraps the analysis client with metrics and tracing
type meteredAnalyzer struct {
	inner   session.Analyzer
	metrics *observability.Metrics
}

func (a *meteredAnalyzer) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.FullAnalysisResult, error) {
	if a.metrics == nil {
		return a.inner.Analyze(ctx, req)
	}

	var result *types.FullAnalysisResult
	err := a.metrics.TrackAnalysis(ctx, int64(len(req.FileData)), func(ctx context.Context) error {
		var innerErr error
		result, innerErr = a.inner.Analyze(ctx, req)
		return innerErr
	})
	return result, err
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return err
	}

	fileProcessor := common.NewFileProcessor(logger)

	resumePath := args[0]
	resumeData, err := fileProcessor.ReadResumeFile(resumePath, cfg.API.MaxFileSize)
	if err != nil {
		return err
	}

	jdText := analyzeJDText
	if len(args) == 2 {
		jdText, err = fileProcessor.ReadJobText(args[1])
		if err != nil {
			return err
		}
	}
	if err := common.ValidateJobText(jdText); err != nil {
		return err
	}

	req := types.AnalysisRequest{
		FileName:       filepath.Base(resumePath),
		FileData:       resumeData,
		JobDescription: jdText,
	}

	logger.Info("Starting resume analysis",
		"resume", req.FileName,
		"jd_chars", len(jdText),
		"output_format", analyzeConfig.OutputFormat)

	obs := getObservabilityFromContext(cmd.Context())

	var analyzer session.Analyzer = client.New(cfg, logger)
	if obs != nil {
		analyzer = &meteredAnalyzer{inner: analyzer, metrics: obs.GetMetrics()}
	}

	result, err := common.RunAnalysis(cmd.Context(), logger, cfg, analyzer, req, analyzeConfig)
	if err != nil {
		var appErr *errors.AppError
		if obs != nil && stderrors.As(err, &appErr) && appErr.Code == errors.ErrCodeSubmitThrottled {
			obs.GetMetrics().RecordBlockedSubmission(cmd.Context())
		}
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully",
		"overall_score", result.Computation.Scores.OverallScore)

	if analyzeInteractive {
		ws, err := workspace.New(result)
		if err != nil {
			return err
		}
		return runWorkspaceShell(cmd, ws)
	}

	return nil
}
