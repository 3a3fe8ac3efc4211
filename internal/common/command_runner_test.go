package common

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

type stubAnalyzer struct {
	result *types.FullAnalysisResult
	err    error
	delay  time.Duration
}

func (s *stubAnalyzer) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.FullAnalysisResult, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.result, s.err
}

func runnerConfig() *config.Config {
	return &config.Config{
		API: config.APIConfig{
			BaseURL:     "http://localhost:8000",
			MaxFileSize: 5 * 1024 * 1024,
			RateLimit:   config.RateLimitConfig{Enabled: false},
		},
		Progress: config.ProgressConfig{
			StepInterval:    2 * time.Millisecond,
			PollInterval:    1 * time.Millisecond,
			CompletionGrace: 2 * time.Millisecond,
		},
	}
}

func runnerRequest() types.AnalysisRequest {
	return types.AnalysisRequest{
		FileName:       "resume.pdf",
		FileData:       []byte("%PDF-1.7 fake"),
		JobDescription: "Go engineer",
	}
}

func runnerResult() *types.FullAnalysisResult {
	return &types.FullAnalysisResult{
		Computation: types.AnalysisComputations{
			Scores: types.ScoringResult{OverallScore: 77},
		},
		AIInsights: types.AIInsights{
			SummaryExplanation: "Decent fit.",
		},
	}
}

func TestRunAnalysisWritesFormattedOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "analysis.json")
	analyzer := &stubAnalyzer{result: runnerResult()}

	result, err := RunAnalysis(context.Background(), nil, runnerConfig(), analyzer,
		runnerRequest(), CommandConfig{OutputFile: out, OutputFormat: "json"})
	if err != nil {
		t.Fatalf("RunAnalysis() error = %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}

	content, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(content), "\"overall_score\": 77") {
		t.Errorf("output missing score, got: %s", content)
	}
}

func TestRunAnalysisPropagatesFailure(t *testing.T) {
	failure := errors.NewAnalysisError(errors.ErrCodeAnalysisFailed, "Resume could not be parsed", nil)
	analyzer := &stubAnalyzer{err: failure}

	_, err := RunAnalysis(context.Background(), nil, runnerConfig(), analyzer,
		runnerRequest(), CommandConfig{OutputFormat: "text"})
	if err == nil {
		t.Fatal("expected failure to propagate")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeAnalysisFailed {
		t.Errorf("expected %s, got %v", errors.ErrCodeAnalysisFailed, err)
	}
}

func TestRunAnalysisCancellation(t *testing.T) {
	analyzer := &stubAnalyzer{result: runnerResult(), delay: 5 * time.Second}
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := RunAnalysis(ctx, nil, runnerConfig(), analyzer,
		runnerRequest(), CommandConfig{OutputFormat: "text"})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("cancellation did not abandon the run promptly")
	}
}

func TestRunAnalysisRejectsUnknownFormat(t *testing.T) {
	analyzer := &stubAnalyzer{result: runnerResult()}

	_, err := RunAnalysis(context.Background(), nil, runnerConfig(), analyzer,
		runnerRequest(), CommandConfig{OutputFormat: "yaml"})
	if err == nil {
		t.Fatal("expected error for unsupported output format")
	}
}
