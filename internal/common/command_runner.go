package common

import (
	"context"
	"fmt"
	"os"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/progress"
	"resumelens/internal/session"
	"resumelens/internal/types"
)

// RunAnalysis drives one full analysis lifecycle: it submits the request
// through the session machine, paces the staged progress display, waits for
// both the step sequence and the result to land, and writes the formatted
// output. The returned result lets callers continue into the workspace.
//
// A context cancellation abandons the run: the display stops, the session
// returns to upload, and the in-flight call is left to die on its own.
func RunAnalysis(
	ctx context.Context,
	logger *errors.Logger,
	cfg *config.Config,
	analyzer session.Analyzer,
	req types.AnalysisRequest,
	cmdConfig CommandConfig,
) (*types.FullAnalysisResult, error) {
	outputHandler := NewOutputHandler(logger)

	// Validate the output target before spending a network call on it.
	if err := outputHandler.fileProcessor.ValidateOutputFile(cmdConfig.OutputFile); err != nil {
		return nil, err
	}

	gate := session.NewSubmissionGate(cfg.API.RateLimit)
	machine := session.NewMachine(analyzer, gate, logger)
	tracker := progress.NewTracker(cfg.Progress, logger)

	tracker.SetOnStep(func(index int, label string) {
		fmt.Fprintf(os.Stderr, "  [%d/%d] %s...\n", index+1, len(progress.Steps), label)
	})

	failed := make(chan error, 1)
	machine.SetOnChange(func(s session.State) {
		switch {
		case s.Screen == session.ScreenWorkspace:
			tracker.ResultReady()
		case s.Screen == session.ScreenUpload && s.Err != nil:
			tracker.Fail()
			failed <- s.Err
		}
	})

	if err := machine.Submit(ctx, req); err != nil {
		return nil, err
	}
	tracker.Start()

	select {
	case err := <-failed:
		return nil, err
	case <-ctx.Done():
		machine.Cancel()
		tracker.Fail()
		return nil, errors.NewNetworkError(errors.ErrCodeNetworkFailed,
			"Analysis cancelled", ctx.Err())
	case <-tracker.Completed():
	}

	result := machine.State().Result
	if result == nil {
		return nil, errors.NewInternalError(errors.ErrCodeAnalysisFailed,
			"Analysis completed without a result", nil)
	}

	if err := outputHandler.HandleOutput(result, cmdConfig); err != nil {
		return nil, err
	}

	return result, nil
}
