// Package github is the boundary to the GitHub REST API: it fetches issue
// records, lists open issues, and publishes analysis comments.
package github

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v58/github"

	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

// Client wraps the go-github client behind the small surface the engine
// needs. A nil token gives unauthenticated access (lower rate limits, no
// comment posting).
type Client struct {
	gh     *gogithub.Client
	logger *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger used for non-fatal fetch warnings.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

// WithBaseURL points the client at a different API endpoint (testing).
func WithBaseURL(raw string) ClientOption {
	return func(c *Client) {
		u, err := url.Parse(strings.TrimSuffix(raw, "/") + "/")
		if err != nil {
			return
		}
		c.gh.BaseURL = u
	}
}

// NewClient creates a GitHub API client. token may be empty.
func NewClient(token string, opts ...ClientOption) *Client {
	gh := gogithub.NewClient(&http.Client{Timeout: 30 * time.Second})
	if token != "" {
		gh = gh.WithAuthToken(token)
	}

	c := &Client{
		gh:     gh,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchIssue retrieves one issue with its labels and comments as an
// immutable Record. A comment-listing failure degrades to an empty comment
// list rather than failing the whole fetch.
func (c *Client) FetchIssue(ctx context.Context, owner, repo string, number int) (*issue.Record, error) {
	iss, _, err := c.gh.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issue %s/%s#%d: %w", owner, repo, number, err)
	}

	rec := &issue.Record{
		Number: iss.GetNumber(),
		Title:  iss.GetTitle(),
		Body:   iss.GetBody(),
		Labels: labelNames(iss.Labels),
	}

	comments, _, err := c.gh.Issues.ListComments(ctx, owner, repo, number, &gogithub.IssueListCommentsOptions{
		ListOptions: gogithub.ListOptions{PerPage: 100},
	})
	if err != nil {
		c.logger.Printf("Warning: failed to fetch comments for #%d: %v", number, err)
		return rec, nil
	}

	rec.Comments = make([]issue.Comment, 0, len(comments))
	for _, cm := range comments {
		rec.Comments = append(rec.Comments, issue.Comment{
			Author:    cm.GetUser().GetLogin(),
			Body:      cm.GetBody(),
			CreatedAt: cm.GetCreatedAt().Time,
		})
	}

	return rec, nil
}

// PostComment publishes a markdown comment on an issue. Requires a
// write-capable credential.
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &gogithub.IssueComment{
		Body: gogithub.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to post comment on %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}

// IssueSummary is one row of an issue listing.
type IssueSummary struct {
	Number    int
	Title     string
	State     string
	Author    string
	CreatedAt time.Time
	Labels    []string
	Assignees []string
}

// ListOptions filters an issue listing.
type ListOptions struct {
	State    string // open, closed, all (default open)
	Labels   []string
	Assignee string
	Limit    int
}

// ListIssues returns up to opts.Limit issues for a repository, most
// recently updated first. Pull requests are filtered out.
func (c *Client) ListIssues(ctx context.Context, owner, repo string, opts ListOptions) ([]IssueSummary, error) {
	if opts.Limit <= 0 {
		opts.Limit = 30
	}
	if opts.State == "" {
		opts.State = "open"
	}

	apiOpts := &gogithub.IssueListByRepoOptions{
		State:       opts.State,
		Labels:      opts.Labels,
		Assignee:    opts.Assignee,
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gogithub.ListOptions{PerPage: min(opts.Limit, 100)},
	}

	var summaries []IssueSummary
	for len(summaries) < opts.Limit {
		issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, apiOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for %s/%s: %w", owner, repo, err)
		}

		for _, iss := range issues {
			if iss.IsPullRequest() {
				continue
			}
			summaries = append(summaries, IssueSummary{
				Number:    iss.GetNumber(),
				Title:     iss.GetTitle(),
				State:     iss.GetState(),
				Author:    iss.GetUser().GetLogin(),
				CreatedAt: iss.GetCreatedAt().Time,
				Labels:    labelNames(iss.Labels),
				Assignees: assigneeLogins(iss.Assignees),
			})
			if len(summaries) >= opts.Limit {
				break
			}
		}

		if resp.NextPage == 0 {
			break
		}
		apiOpts.Page = resp.NextPage
	}

	return summaries, nil
}

func labelNames(labels []*gogithub.Label) []string {
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		names = append(names, l.GetName())
	}
	return names
}

func assigneeLogins(users []*gogithub.User) []string {
	logins := make([]string, 0, len(users))
	for _, u := range users {
		logins = append(logins, u.GetLogin())
	}
	return logins
}
