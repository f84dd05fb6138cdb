package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/itstabya/devin-github-issues-integration/internal/devin"
	"github.com/itstabya/devin-github-issues-integration/internal/heuristic"
	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

// Scoper analyzes a single issue. With a session service attached it
// delegates to a remote Devin session; without one it classifies with the
// local heuristics. A remote session that terminates without a usable
// payload also falls back to heuristics, so Scope degrades rather than
// failing on agent-side problems. Timeouts, expiry, and transport errors
// are surfaced: those are operator problems, not agent problems.
type Scoper struct {
	github IssueService
	devin  SessionService
	poll   devin.PollConfig
	logger *log.Logger
	runID  string
}

// ScoperOption configures a Scoper.
type ScoperOption func(*Scoper)

// WithSessions attaches a Devin session service. Without it the Scoper is
// heuristic-only.
func WithSessions(s SessionService) ScoperOption {
	return func(sc *Scoper) {
		sc.devin = s
	}
}

// WithPollConfig overrides the analysis polling budget.
func WithPollConfig(cfg devin.PollConfig) ScoperOption {
	return func(sc *Scoper) {
		sc.poll = cfg
	}
}

// WithScoperLogger sets the progress logger.
func WithScoperLogger(l *log.Logger) ScoperOption {
	return func(sc *Scoper) {
		sc.logger = l
	}
}

// NewScoper creates a Scoper. Each Scoper carries a run ID that tags the
// comments it publishes, so a run's output can be traced back.
func NewScoper(gh IssueService, opts ...ScoperOption) *Scoper {
	s := &Scoper{
		github: gh,
		poll:   devin.AnalysisPoll(),
		logger: log.Default(),
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunID returns the identifier tagging this run's published comments.
func (s *Scoper) RunID() string {
	return s.runID
}

// Scope fetches the issue and produces its Analysis.
func (s *Scoper) Scope(ctx context.Context, owner, repo string, number int) (*issue.Analysis, error) {
	rec, err := s.github.FetchIssue(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	if s.devin == nil {
		s.logger.Printf("No Devin token available, using heuristic analysis for #%d", number)
		return heuristic.Classify(rec), nil
	}

	analysis, err := s.remoteAnalysis(ctx, rec, owner, repo)
	if err != nil {
		if errors.Is(err, devin.ErrNoStructuredOutput) {
			s.logger.Printf("Devin session gave no usable analysis for #%d (%v), using heuristics", number, err)
			return heuristic.Classify(rec), nil
		}
		return nil, err
	}
	return analysis, nil
}

// remoteAnalysis runs one Devin analysis session end to end. An undecodable
// payload is reported as ErrNoStructuredOutput so the caller's fallback
// treats it the same as a missing one.
func (s *Scoper) remoteAnalysis(ctx context.Context, rec *issue.Record, owner, repo string) (*issue.Analysis, error) {
	sessionID, err := s.devin.CreateSession(ctx, devin.AnalysisPrompt(rec, owner, repo))
	if err != nil {
		return nil, err
	}
	s.logger.Printf("Created analysis session %s for #%d", sessionID, rec.Number)

	raw, err := s.devin.WaitForCompletion(ctx, sessionID, s.poll)
	if err != nil {
		return nil, err
	}

	payload, err := devin.DecodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", devin.ErrNoStructuredOutput, err)
	}
	return devin.DecodeAnalysis(payload, rec), nil
}

// PostAnalysisComment publishes the analysis as a markdown comment on its
// issue, tagged with the run ID.
func (s *Scoper) PostAnalysisComment(ctx context.Context, owner, repo string, a *issue.Analysis) error {
	body := issue.CommentBody(a) + fmt.Sprintf("\n<!-- devin-issues-run: %s -->", s.runID)
	if err := s.github.PostComment(ctx, owner, repo, a.IssueNumber, body); err != nil {
		return err
	}
	s.logger.Printf("Posted analysis comment on %s/%s#%d", owner, repo, a.IssueNumber)
	return nil
}
