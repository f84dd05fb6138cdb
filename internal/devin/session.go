package devin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for the distinct session failure classes. Timeout is kept
// separate from decode and transport failures so callers can decide to
// re-run with a fresh session.
var (
	// ErrTimeout means the wall-clock budget ran out before a terminal state.
	ErrTimeout = errors.New("session polling timed out")

	// ErrSessionExpired means the session reached the expiry state.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoStructuredOutput means the session reached a terminal state but
	// reported no usable structured payload.
	ErrNoStructuredOutput = errors.New("session produced no structured output")
)

// Default polling budgets. Resolution sessions get a far larger budget than
// analysis sessions: making code changes takes much longer than producing a
// text assessment.
const (
	DefaultAnalysisMaxWait    = 5 * time.Minute
	DefaultAnalysisInterval   = 10 * time.Second
	DefaultResolutionMaxWait  = 30 * time.Minute
	DefaultResolutionInterval = 30 * time.Second
)

// terminalStates are the states in which a session may carry a payload.
var terminalStates = map[string]bool{
	"finished": true,
	"blocked":  true,
}

// expiredStates end the session with no chance of a payload.
var expiredStates = map[string]bool{
	"expired": true,
}

// PollConfig bounds one polling loop. The interval is constant by design:
// completion time is agent-determined, not congestion-determined, so
// backoff buys nothing.
type PollConfig struct {
	MaxWait  time.Duration
	Interval time.Duration
}

// AnalysisPoll returns the default budget for analysis sessions.
func AnalysisPoll() PollConfig {
	return PollConfig{MaxWait: DefaultAnalysisMaxWait, Interval: DefaultAnalysisInterval}
}

// ResolutionPoll returns the default budget for resolution sessions.
func ResolutionPoll() PollConfig {
	return PollConfig{MaxWait: DefaultResolutionMaxWait, Interval: DefaultResolutionInterval}
}

// WaitForCompletion polls the session on a fixed interval until it reaches a
// terminal state or the budget runs out, and returns the raw structured
// payload. Transport errors are surfaced immediately and never retried; the
// caller decides whether to re-invoke. Once the budget is exceeded no
// further status calls are made.
func (c *Client) WaitForCompletion(ctx context.Context, sessionID string, cfg PollConfig) (json.RawMessage, error) {
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultAnalysisMaxWait
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultAnalysisInterval
	}

	c.logger.Printf("Waiting for session %s to complete...", sessionID)
	start := time.Now()

	for {
		if time.Since(start) >= cfg.MaxWait {
			return nil, fmt.Errorf("session %s: %w after %s", sessionID, ErrTimeout, cfg.MaxWait)
		}

		status, err := c.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		c.logger.Printf("Session status: %s", status.StatusEnum)

		switch {
		case terminalStates[status.StatusEnum]:
			if emptyPayload(status.StructuredOutput) {
				return nil, fmt.Errorf("session %s ended %s: %w", sessionID, status.StatusEnum, ErrNoStructuredOutput)
			}
			return status.StructuredOutput, nil
		case expiredStates[status.StatusEnum]:
			return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionExpired)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.Interval):
		}
	}
}

// emptyPayload reports whether the raw structured output holds no usable
// data. A terminal session with an empty payload is a failure, never a
// success with empty fields.
func emptyPayload(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "{}", `""`:
		return true
	}
	return false
}
