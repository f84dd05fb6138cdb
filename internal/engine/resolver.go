package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/itstabya/devin-github-issues-integration/internal/devin"
	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

// ErrNoAnalysis means resolution was requested without a prior analysis and
// none could be recovered from the issue's comments.
var ErrNoAnalysis = errors.New("no prior analysis available")

// Resolver executes an issue resolution through a Devin session. Unlike
// scoping there is no heuristic fallback: resolution changes code, and a
// guess is worse than a refusal.
type Resolver struct {
	github IssueService
	devin  SessionService
	poll   devin.PollConfig
	logger *log.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolutionPoll overrides the resolution polling budget.
func WithResolutionPoll(cfg devin.PollConfig) ResolverOption {
	return func(r *Resolver) {
		r.poll = cfg
	}
}

// WithResolverLogger sets the progress logger.
func WithResolverLogger(l *log.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = l
	}
}

// NewResolver creates a Resolver. The session service is mandatory.
func NewResolver(gh IssueService, sessions SessionService, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		github: gh,
		devin:  sessions,
		poll:   devin.ResolutionPoll(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve runs a resolution session for the issue. When analysis is nil the
// most recent analysis comment on the issue is used instead; if none exists
// the call fails with ErrNoAnalysis before any session is created.
func (r *Resolver) Resolve(ctx context.Context, owner, repo string, number int, analysis *issue.Analysis) (*issue.ResolutionResult, error) {
	if r.devin == nil {
		return nil, errors.New("a Devin API token is required for issue resolution")
	}

	rec, err := r.github.FetchIssue(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	if analysis == nil {
		analysis = AnalysisFromComments(rec)
		if analysis == nil {
			return nil, fmt.Errorf("%w for %s/%s#%d: run an analysis first", ErrNoAnalysis, owner, repo, number)
		}
		r.logger.Printf("Recovered prior analysis from comments of #%d", number)
	}

	sessionID, err := r.devin.CreateSession(ctx, devin.ResolutionPrompt(rec, owner, repo, analysis))
	if err != nil {
		return nil, err
	}
	r.logger.Printf("Created resolution session %s for #%d", sessionID, rec.Number)
	r.logger.Printf("This may take several minutes while the agent works on the issue...")

	raw, err := r.devin.WaitForCompletion(ctx, sessionID, r.poll)
	if err != nil {
		return nil, err
	}

	payload, err := devin.DecodePayload(raw)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w: %v", sessionID, devin.ErrNoStructuredOutput, err)
	}
	return devin.DecodeResolution(payload, rec, sessionID), nil
}
