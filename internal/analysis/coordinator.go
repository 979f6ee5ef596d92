package analysis

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/your-org/aquavision/internal/media"
)

// State is the coordinator's workflow state.
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateComplete  State = "complete"
)

// Snapshot is a point-in-time view of the coordinator. Current stays at the
// last completed result while a new run is pending, so a reader can
// distinguish "stale result + analyzing" from "no result yet".
type Snapshot struct {
	State   State    `json:"state"`
	Current *Result  `json:"current,omitempty"`
	History []Result `json:"history"`
}

// Coordinator owns the upload-and-analysis workflow state machine:
// Idle -> Analyzing -> Complete, with Complete re-armed by a new submission.
// At most one analysis is outstanding at a time and an in-flight run always
// reaches Complete; there is no cancellation path.
type Coordinator struct {
	analyzer     MediaAnalyzer
	logger       *zap.Logger
	historyLimit int
	onComplete   func(Result)

	mu      sync.Mutex
	state   State
	current *Result
	history []Result
}

// NewCoordinator constructs a Coordinator in the Idle state. historyLimit
// caps the retained history; zero or negative disables accumulation.
func NewCoordinator(analyzer MediaAnalyzer, historyLimit int, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		analyzer:     analyzer,
		logger:       logger,
		historyLimit: historyLimit,
		state:        StateIdle,
	}
}

// OnComplete registers a hook observing every completed result. It must be
// set before the first submission.
func (c *Coordinator) OnComplete(fn func(Result)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onComplete = fn
}

// Submit hands an upload to the analyzer. While a run is in flight it is a
// pure no-op reporting false: no second run is armed and the in-flight run
// completes unaffected. The prior result, if any, remains current until the
// new one supersedes it.
func (c *Coordinator) Submit(up media.Upload) bool {
	c.mu.Lock()
	if c.state == StateAnalyzing {
		c.mu.Unlock()
		return false
	}
	c.state = StateAnalyzing
	c.mu.Unlock()

	go c.run(up)
	return true
}

// run executes on a detached context so the analysis survives whatever
// request triggered it and always reaches a terminal transition.
func (c *Coordinator) run(up media.Upload) {
	res, err := c.analyzer.Analyze(context.Background(), up)

	c.mu.Lock()
	defer func() {
		cb := c.onComplete
		c.mu.Unlock()
		if err == nil && cb != nil {
			cb(res)
		}
	}()

	if err != nil {
		// Unreachable with the simulated analyzer; a substituted backend
		// returns the machine to its previous steady state.
		c.logger.Error("analysis failed", zap.String("media", up.Name), zap.Error(err))
		if c.current == nil {
			c.state = StateIdle
		} else {
			c.state = StateComplete
		}
		return
	}

	c.current = &res
	if c.historyLimit > 0 {
		c.history = append(c.history, res)
		if len(c.history) > c.historyLimit {
			c.history = c.history[len(c.history)-c.historyLimit:]
		}
	}
	c.state = StateComplete
	c.logger.Info("analysis complete",
		zap.String("analysis_id", res.ID),
		zap.String("media", up.Name),
		zap.String("activity", string(res.ActivityLabel)),
		zap.Float64("feed_amount_kg", res.FeedAmountKg),
	)
}

// State reports the current workflow state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns the state, current result, and accumulated history.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{State: c.state, History: make([]Result, len(c.history))}
	copy(snap.History, c.history)
	if c.current != nil {
		cur := *c.current
		snap.Current = &cur
	}
	return snap
}
