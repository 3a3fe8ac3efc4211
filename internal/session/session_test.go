package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"resumelens/internal/config"
	"resumelens/internal/errors"
	"resumelens/internal/types"
)

type fakeAnalyzer struct {
	release chan struct{}
	result  *types.FullAnalysisResult
	err     error
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, req types.AnalysisRequest) (*types.FullAnalysisResult, error) {
	if f.release != nil {
		<-f.release
	}
	return f.result, f.err
}

func openGate() *SubmissionGate {
	return NewSubmissionGate(config.RateLimitConfig{Enabled: false})
}

func sampleRequest() types.AnalysisRequest {
	return types.AnalysisRequest{
		FileName:       "resume.pdf",
		FileData:       []byte("%PDF-1.4 sample"),
		JobDescription: "Senior Go engineer",
	}
}

func sampleResult() *types.FullAnalysisResult {
	return &types.FullAnalysisResult{
		Computation: types.AnalysisComputations{
			Scores: types.ScoringResult{OverallScore: 82},
		},
	}
}

func watchStates(m *Machine) <-chan State {
	ch := make(chan State, 16)
	m.SetOnChange(func(s State) {
		ch <- s
	})
	return ch
}

func waitForScreen(t *testing.T, ch <-chan State, want Screen) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-ch:
			if s.Screen == want {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for screen %v", want)
		}
	}
}

func TestReduceTransitions(t *testing.T) {
	result := sampleResult()
	failure := errors.NewNetworkError(errors.ErrCodeNetworkFailed, "boom", nil)

	tests := []struct {
		name  string
		state State
		event Event
		want  State
	}{
		{
			name:  "submit from upload starts analyzing",
			state: State{Screen: ScreenUpload},
			event: Submitted{},
			want:  State{Screen: ScreenAnalyzing},
		},
		{
			name:  "submit clears previous failure",
			state: State{Screen: ScreenUpload, Err: failure},
			event: Submitted{},
			want:  State{Screen: ScreenAnalyzing},
		},
		{
			name:  "success while analyzing opens workspace",
			state: State{Screen: ScreenAnalyzing},
			event: Succeeded{Result: result},
			want:  State{Screen: ScreenWorkspace, Result: result},
		},
		{
			name:  "failure while analyzing returns to upload with error",
			state: State{Screen: ScreenAnalyzing},
			event: Failed{Err: failure},
			want:  State{Screen: ScreenUpload, Err: failure},
		},
		{
			name:  "cancel while analyzing returns to clean upload",
			state: State{Screen: ScreenAnalyzing},
			event: Cancelled{},
			want:  State{Screen: ScreenUpload},
		},
		{
			name:  "retry from workspace discards result",
			state: State{Screen: ScreenWorkspace, Result: result},
			event: Retried{},
			want:  State{Screen: ScreenUpload},
		},
		{
			name:  "success on upload screen is ignored",
			state: State{Screen: ScreenUpload},
			event: Succeeded{Result: result},
			want:  State{Screen: ScreenUpload},
		},
		{
			name:  "retry while analyzing is ignored",
			state: State{Screen: ScreenAnalyzing},
			event: Retried{},
			want:  State{Screen: ScreenAnalyzing},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.state, tt.event)
			if got != tt.want {
				t.Errorf("Reduce() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSubmitDeliversResult(t *testing.T) {
	analyzer := &fakeAnalyzer{result: sampleResult()}
	m := NewMachine(analyzer, openGate(), nil)
	states := watchStates(m)

	if err := m.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	final := waitForScreen(t, states, ScreenWorkspace)
	if final.Result == nil {
		t.Fatal("expected result on workspace state")
	}
	if final.Err != nil {
		t.Errorf("unexpected error in state: %v", final.Err)
	}
}

func TestSubmitFailureReturnsToUpload(t *testing.T) {
	failure := errors.NewAnalysisError(errors.ErrCodeAnalysisFailed, "failed to analyze resume", nil)
	analyzer := &fakeAnalyzer{err: failure}
	m := NewMachine(analyzer, openGate(), nil)
	states := watchStates(m)

	if err := m.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	final := waitForScreen(t, states, ScreenUpload)
	if final.Err == nil {
		t.Fatal("expected error after failed analysis")
	}
	if final.Result != nil {
		t.Error("failed analysis must not carry a result")
	}
}

func TestSubmitRejectedWhileAnalyzing(t *testing.T) {
	analyzer := &fakeAnalyzer{release: make(chan struct{}), result: sampleResult()}
	m := NewMachine(analyzer, openGate(), nil)
	states := watchStates(m)

	if err := m.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	waitForScreen(t, states, ScreenAnalyzing)

	if err := m.Submit(context.Background(), sampleRequest()); err == nil {
		t.Fatal("expected second submit to be rejected while analyzing")
	}

	close(analyzer.release)
	waitForScreen(t, states, ScreenWorkspace)
}

func TestCancelDiscardsStaleResult(t *testing.T) {
	analyzer := &fakeAnalyzer{release: make(chan struct{}), result: sampleResult()}
	m := NewMachine(analyzer, openGate(), nil)
	states := watchStates(m)

	if err := m.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	waitForScreen(t, states, ScreenAnalyzing)

	m.Cancel()
	waitForScreen(t, states, ScreenUpload)

	// Let the abandoned call finish; its outcome must not move the session.
	close(analyzer.release)
	time.Sleep(50 * time.Millisecond)

	got := m.State()
	if got.Screen != ScreenUpload {
		t.Errorf("stale result moved session to %v", got.Screen)
	}
	if got.Result != nil {
		t.Error("stale result must be discarded")
	}
}

func TestRetryAllowsFreshSubmission(t *testing.T) {
	analyzer := &fakeAnalyzer{result: sampleResult()}
	m := NewMachine(analyzer, openGate(), nil)
	states := watchStates(m)

	if err := m.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	waitForScreen(t, states, ScreenWorkspace)

	m.Retry()
	got := waitForScreen(t, states, ScreenUpload)
	if got.Result != nil || got.Err != nil {
		t.Errorf("retry must produce a clean state, got %+v", got)
	}

	if err := m.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Submit() after retry error = %v", err)
	}
	waitForScreen(t, states, ScreenWorkspace)
}

// uncomparableError models an analyzer error whose dynamic type does not
// support ==, such as a multi-error built on a slice.
type uncomparableError []string

func (e uncomparableError) Error() string { return strings.Join(e, "; ") }

func TestIgnoredEventsTolerateUncomparableError(t *testing.T) {
	analyzer := &fakeAnalyzer{err: uncomparableError{"bad gateway", "try again later"}}
	m := NewMachine(analyzer, openGate(), nil)
	states := watchStates(m)

	if err := m.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	failed := waitForScreen(t, states, ScreenUpload)
	if failed.Err == nil {
		t.Fatal("expected error after failed analysis")
	}

	// Events that do not apply on the upload screen are dropped without
	// inspecting the held error.
	m.Cancel()
	m.Retry()

	got := m.State()
	if got.Screen != ScreenUpload {
		t.Errorf("ignored events moved session to %v", got.Screen)
	}
	if got.Err == nil {
		t.Error("ignored events cleared the failure")
	}
}

func TestSubmissionGateThrottles(t *testing.T) {
	gate := NewSubmissionGate(config.RateLimitConfig{
		Enabled:       true,
		SubmitsPerMin: 1,
		BurstCapacity: 1,
	})

	if !gate.Allow() {
		t.Fatal("first submission should pass")
	}
	if gate.Allow() {
		t.Fatal("second immediate submission should be throttled")
	}
}

func TestThrottledSubmitStaysOnUpload(t *testing.T) {
	gate := NewSubmissionGate(config.RateLimitConfig{
		Enabled:       true,
		SubmitsPerMin: 1,
		BurstCapacity: 1,
	})
	analyzer := &fakeAnalyzer{result: sampleResult()}
	m := NewMachine(analyzer, gate, nil)
	states := watchStates(m)

	if err := m.Submit(context.Background(), sampleRequest()); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}
	waitForScreen(t, states, ScreenWorkspace)
	m.Retry()
	waitForScreen(t, states, ScreenUpload)

	err := m.Submit(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("expected throttled submit to fail")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeSubmitThrottled {
		t.Errorf("expected %s, got %v", errors.ErrCodeSubmitThrottled, err)
	}
	if got := m.State().Screen; got != ScreenUpload {
		t.Errorf("throttled submit must not leave upload, got %v", got)
	}
}
