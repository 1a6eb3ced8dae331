// Package session owns the analysis request lifecycle: idle, pending,
// settled or failed. The Controller is the only mutator of that state.
package session

import (
	"context"
	"log/slog"

	"github.com/sprite-ai/insight/internal/logger"
	"github.com/sprite-ai/insight/internal/model"
	"github.com/sprite-ai/insight/internal/repolist"
)

// FallbackMessage is shown when a failure carries no message of its own.
const FallbackMessage = "Something went wrong"

// Phase is the active member of the session state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseSettled
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePending:
		return "pending"
	case PhaseSettled:
		return "settled"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a read-only snapshot of the session.
//
// Result is meaningful only for PhaseIdle (the placeholder) and
// PhaseSettled; Err only for PhaseFailed.
type State struct {
	Phase  Phase
	Result model.AnalysisResult
	Err    string
}

// Analyzer performs the outbound analysis call.
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) (model.AnalysisResult, error)
}

// Controller holds the single mutable session state.
type Controller struct {
	state State
	log   *slog.Logger
}

// NewController returns a controller in the idle state. A nil log uses the
// package logger.
func NewController(log *slog.Logger) *Controller {
	if log == nil {
		log = logger.Get()
	}
	return &Controller{
		state: State{Phase: PhaseIdle, Result: model.Placeholder()},
		log:   log,
	}
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	s := c.state
	if s.Result.Aggregate != nil {
		s.Result.Aggregate = append(model.Aggregate{}, s.Result.Aggregate...)
	}
	return s
}

// Pending reports whether a request is in flight.
func (c *Controller) Pending() bool {
	return c.state.Phase == PhasePending
}

// CanSubmit reports whether a submission would be admitted: the input must
// contain at least one repository and no request may be in flight.
func (c *Controller) CanSubmit(reposInput string) bool {
	return !c.Pending() && len(repolist.Normalize(reposInput)) > 0
}

// Submit moves the session to pending and returns the one request that must
// be dispatched. It is a no-op returning false when CanSubmit is false.
func (c *Controller) Submit(reposInput, query string) (model.AnalysisRequest, bool) {
	if c.Pending() {
		c.log.Debug("submit ignored: request already pending")
		return model.AnalysisRequest{}, false
	}
	repos := repolist.Normalize(reposInput)
	if len(repos) == 0 {
		c.log.Debug("submit ignored: no repositories")
		return model.AnalysisRequest{}, false
	}

	from := c.state.Phase
	c.state = State{Phase: PhasePending}
	c.log.Info("analysis submitted", "from", from, "repos", len(repos), "query_len", len(query))

	return model.AnalysisRequest{Repos: repos, Query: query}, true
}

// Settle records the outcome of the pending request. It is ignored unless a
// request is pending.
func (c *Controller) Settle(result model.AnalysisResult, err error) {
	if !c.Pending() {
		c.log.Warn("settle ignored: no request pending", "phase", c.state.Phase)
		return
	}

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = FallbackMessage
		}
		c.state = State{Phase: PhaseFailed, Err: msg}
		c.log.Warn("analysis failed", "error", msg)
		return
	}

	if result.Aggregate == nil {
		result.Aggregate = model.Aggregate{}
	}
	c.state = State{Phase: PhaseSettled, Result: result}
	c.log.Info("analysis settled", "trends", len(result.Aggregate), "verified", result.Verified)
}

// Run submits, dispatches through a and settles, blocking until the call
// returns. It reports false when the submission was not admitted.
func (c *Controller) Run(ctx context.Context, a Analyzer, reposInput, query string) (State, bool) {
	req, ok := c.Submit(reposInput, query)
	if !ok {
		return c.State(), false
	}
	result, err := a.Analyze(ctx, req)
	c.Settle(result, err)
	return c.State(), true
}
