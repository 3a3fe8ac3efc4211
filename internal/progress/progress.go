package progress

import (
	"sync"
	"time"

	"resumelens/internal/config"
	"resumelens/internal/errors"
)

// Steps are the staged status labels shown while an analysis is in flight.
// The display advances through them at a fixed pace regardless of what the
// backend is actually doing, then holds on the last one.
var Steps = []string{
	"Parsing resume structure",
	"Extracting job requirements",
	"Matching skills & keywords",
	"Generating AI insights",
}

// Tracker paces the analyzing display and decides when it may complete.
// Completion requires two independent conditions: the step sequence has
// reached its final label, and the analysis result has arrived. Whichever
// happens first waits for the other. After both hold, a short grace delay
// elapses and the completion callback fires exactly once.
type Tracker struct {
	cfg    config.ProgressConfig
	logger *errors.Logger

	mu          sync.Mutex
	step        int
	stepsDone   bool
	resultReady bool
	started     bool

	done       chan struct{}
	completed  chan struct{}
	onStep     func(index int, label string)
	onComplete func()
	signalOnce sync.Once
	stopOnce   sync.Once
}

// NewTracker creates a tracker with the given pacing configuration
func NewTracker(cfg config.ProgressConfig, logger *errors.Logger) *Tracker {
	return &Tracker{
		cfg:       cfg,
		logger:    logger,
		done:      make(chan struct{}),
		completed: make(chan struct{}),
	}
}

// SetOnStep registers a listener for step advances. It is also invoked for
// the initial step when the tracker starts. Must be set before Start.
func (t *Tracker) SetOnStep(fn func(index int, label string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStep = fn
}

// SetOnComplete registers the completion listener. It fires at most once.
// Must be set before Start.
func (t *Tracker) SetOnComplete(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onComplete = fn
}

// Start begins pacing the step sequence and watching for completion.
// Starting an already started tracker is a no-op.
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return
	}
	t.started = true
	onStep := t.onStep
	t.mu.Unlock()

	if onStep != nil {
		onStep(0, Steps[0])
	}

	go t.runSteps()
	go t.watchCompletion()
}

// ResultReady records that the analysis result has arrived. The display
// still finishes its step sequence before completion fires.
func (t *Tracker) ResultReady() {
	t.mu.Lock()
	t.resultReady = true
	t.mu.Unlock()
}

// Fail abandons the tracker. Stepping stops, no completion ever fires,
// and all timers are released.
func (t *Tracker) Fail() {
	t.stop()
}

// Completed returns a channel closed when the completion signal has fired
func (t *Tracker) Completed() <-chan struct{} {
	return t.completed
}

// CurrentStep returns the index of the step currently displayed
func (t *Tracker) CurrentStep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.step
}

// runSteps advances the display one step per interval until the last step,
// then holds there.
func (t *Tracker) runSteps() {
	ticker := time.NewTicker(t.cfg.StepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.step >= len(Steps)-1 {
				t.stepsDone = true
				t.mu.Unlock()
				return
			}
			t.step++
			idx := t.step
			if idx == len(Steps)-1 {
				t.stepsDone = true
			}
			onStep := t.onStep
			t.mu.Unlock()

			if onStep != nil {
				onStep(idx, Steps[idx])
			}
		}
	}
}

// watchCompletion re-evaluates the completion join on every poll tick.
// When both conditions hold it waits out the grace period and signals.
func (t *Tracker) watchCompletion() {
	ticker := time.NewTicker(t.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.mu.Lock()
			ready := t.stepsDone && t.resultReady
			t.mu.Unlock()
			if !ready {
				continue
			}

			select {
			case <-t.done:
				return
			case <-time.After(t.cfg.CompletionGrace):
			}

			t.signalOnce.Do(func() {
				if t.logger != nil {
					t.logger.Debug("Analyzing display complete")
				}
				t.mu.Lock()
				onComplete := t.onComplete
				t.mu.Unlock()
				if onComplete != nil {
					onComplete()
				}
				close(t.completed)
			})
			t.stop()
			return
		}
	}
}

func (t *Tracker) stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
}
