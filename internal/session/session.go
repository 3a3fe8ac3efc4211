package session

import (
	"context"
	"sync"

	"resumelens/internal/errors"
	"resumelens/internal/types"
)

// Screen identifies which of the three application surfaces is active
type Screen int

const (
	ScreenUpload Screen = iota
	ScreenAnalyzing
	ScreenWorkspace
)

func (s Screen) String() string {
	switch s {
	case ScreenUpload:
		return "upload"
	case ScreenAnalyzing:
		return "analyzing"
	case ScreenWorkspace:
		return "workspace"
	default:
		return "unknown"
	}
}

// State is the complete session state. It is a value type; transitions
// produce new values and never mutate a delivered result.
type State struct {
	Screen Screen
	Result *types.FullAnalysisResult
	Err    error
}

// Event is a session transition trigger
type Event interface {
	isEvent()
}

// Submitted fires when the user submits a resume and job description
type Submitted struct{}

// Succeeded fires when an in-flight analysis returns a result
type Succeeded struct {
	Result *types.FullAnalysisResult
}

// Failed fires when an in-flight analysis returns an error
type Failed struct {
	Err error
}

// Cancelled fires when the user abandons an in-flight analysis
type Cancelled struct{}

// Retried fires when the user leaves the workspace to start over
type Retried struct{}

func (Submitted) isEvent() {}
func (Succeeded) isEvent() {}
func (Failed) isEvent()    {}
func (Cancelled) isEvent() {}
func (Retried) isEvent()   {}

// Reduce computes the next state from the current state and an event.
// Events that are not meaningful on the current screen leave the state
// unchanged, so out-of-order deliveries cannot corrupt the session.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case Submitted:
		if s.Screen != ScreenUpload {
			return s
		}
		return State{Screen: ScreenAnalyzing}

	case Succeeded:
		if s.Screen != ScreenAnalyzing {
			return s
		}
		return State{Screen: ScreenWorkspace, Result: ev.Result}

	case Failed:
		if s.Screen != ScreenAnalyzing {
			return s
		}
		return State{Screen: ScreenUpload, Err: ev.Err}

	case Cancelled:
		if s.Screen != ScreenAnalyzing {
			return s
		}
		return State{Screen: ScreenUpload}

	case Retried:
		if s.Screen != ScreenWorkspace {
			return s
		}
		return State{Screen: ScreenUpload}
	}

	return s
}

// Analyzer is the dependency the session drives on submit
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (*types.FullAnalysisResult, error)
}

// Machine owns session state and serializes transitions. One analysis may
// be in flight at a time. Each submission increments a generation counter;
// a delivery whose generation no longer matches is discarded, which is how
// cancellation works without aborting the underlying call.
type Machine struct {
	mu         sync.Mutex
	state      State
	generation uint64
	analyzer   Analyzer
	gate       *SubmissionGate
	logger     *errors.Logger
	onChange   func(State)
}

// NewMachine creates a session machine starting on the upload screen
func NewMachine(analyzer Analyzer, gate *SubmissionGate, logger *errors.Logger) *Machine {
	return &Machine{
		state:    State{Screen: ScreenUpload},
		analyzer: analyzer,
		gate:     gate,
		logger:   logger,
	}
}

// SetOnChange registers a listener invoked after every state change.
// The listener runs while the machine lock is held and must not call
// back into the machine.
func (m *Machine) SetOnChange(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// State returns a snapshot of the current session state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Submit starts an analysis for the given request. It fails fast when an
// analysis is already in flight or the submission gate rejects the attempt.
// The analysis itself runs in the background; its outcome is delivered
// through the state machine.
func (m *Machine) Submit(ctx context.Context, req types.AnalysisRequest) error {
	m.mu.Lock()
	if m.state.Screen == ScreenAnalyzing {
		m.mu.Unlock()
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"An analysis is already in progress", nil)
	}
	if !m.gate.Allow() {
		m.mu.Unlock()
		return errors.NewValidationError(errors.ErrCodeSubmitThrottled,
			"Too many submissions, please wait before trying again", nil)
	}

	m.generation++
	gen := m.generation
	m.apply(Submitted{})
	m.mu.Unlock()

	go func() {
		result, err := m.analyzer.Analyze(ctx, req)
		m.deliver(gen, result, err)
	}()

	return nil
}

// Cancel abandons the in-flight analysis. The network call is left to
// finish on its own; its eventual result is stale and will be discarded.
func (m *Machine) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state.Screen != ScreenAnalyzing {
		return
	}
	m.generation++
	m.apply(Cancelled{})
}

// Retry leaves the workspace and returns to a fresh upload screen
func (m *Machine) Retry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(Retried{})
}

// deliver applies an analysis outcome if it belongs to the current
// generation. Stale outcomes are logged and dropped.
func (m *Machine) deliver(gen uint64, result *types.FullAnalysisResult, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		if m.logger != nil {
			m.logger.Debug("Discarding stale analysis outcome",
				"generation", gen,
				"current_generation", m.generation)
		}
		return
	}

	if err != nil {
		m.apply(Failed{Err: err})
		return
	}
	m.apply(Succeeded{Result: result})
}

// apply runs the reducer and notifies the listener. Caller holds the lock.
// Change detection compares Screen and Result only: every transition in
// Reduce moves at least one of them, and Err may hold a dynamic type that
// does not support ==.
func (m *Machine) apply(e Event) {
	next := Reduce(m.state, e)
	if next.Screen == m.state.Screen && next.Result == m.state.Result {
		return
	}
	m.state = next
	if m.onChange != nil {
		m.onChange(next)
	}
}
