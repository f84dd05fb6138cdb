// Package engine wires the GitHub boundary, the Devin session client, and
// the heuristic classifier into the two top-level operations: scoping an
// issue into an Analysis and resolving it into a ResolutionResult.
package engine

import (
	"context"
	"encoding/json"

	"github.com/itstabya/devin-github-issues-integration/internal/devin"
	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

// IssueService is the slice of the GitHub client the engine needs.
type IssueService interface {
	FetchIssue(ctx context.Context, owner, repo string, number int) (*issue.Record, error)
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
}

// SessionService is the slice of the Devin client the engine needs.
type SessionService interface {
	CreateSession(ctx context.Context, prompt string) (string, error)
	WaitForCompletion(ctx context.Context, sessionID string, cfg devin.PollConfig) (json.RawMessage, error)
}

// AnalysisFromComments recovers the most recent published analysis from an
// issue's comment thread, newest comment first. The issue number and title
// are filled from the record; nil when no analysis comment exists.
func AnalysisFromComments(rec *issue.Record) *issue.Analysis {
	for i := len(rec.Comments) - 1; i >= 0; i-- {
		if !issue.HasAnalysisMarker(rec.Comments[i].Body) {
			continue
		}
		a := issue.ParseAnalysisComment(rec.Comments[i].Body)
		a.IssueNumber = rec.Number
		a.Title = rec.Title
		return a
	}
	return nil
}
