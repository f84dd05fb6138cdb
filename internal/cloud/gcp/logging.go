package gcp

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/logging"
)

// RunLogger records run milestones. The zero value and a nil pointer are
// both safe no-ops, so callers log unconditionally and only a configured
// cloud project makes the entries go anywhere.
type RunLogger struct {
	client *logging.Client
	logger *logging.Logger
	labels map[string]string
}

// RunLoggerOption configures a RunLogger.
type RunLoggerOption func(*RunLogger)

// WithLabels attaches labels to every entry, typically the run ID and the
// repository being worked on.
func WithLabels(labels map[string]string) RunLoggerOption {
	return func(rl *RunLogger) {
		for k, v := range labels {
			rl.labels[k] = v
		}
	}
}

// NewRunLogger creates a Cloud Logging backed RunLogger writing to logName
// in the given project.
func NewRunLogger(ctx context.Context, projectID, logName string, opts ...RunLoggerOption) (*RunLogger, error) {
	client, err := logging.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging client: %w", err)
	}

	rl := &RunLogger{
		client: client,
		labels: map[string]string{"component": "devin-issues"},
	}
	for _, opt := range opts {
		opt(rl)
	}
	rl.logger = client.Logger(logName, logging.CommonLabels(rl.labels))

	return rl, nil
}

// Info records an informational milestone.
func (rl *RunLogger) Info(format string, args ...any) {
	rl.log(logging.Info, format, args...)
}

// Warning records a degraded-but-continuing condition.
func (rl *RunLogger) Warning(format string, args ...any) {
	rl.log(logging.Warning, format, args...)
}

// Error records a run failure.
func (rl *RunLogger) Error(format string, args ...any) {
	rl.log(logging.Error, format, args...)
}

func (rl *RunLogger) log(severity logging.Severity, format string, args ...any) {
	if rl == nil || rl.logger == nil {
		return
	}
	rl.logger.Log(logging.Entry{
		Severity: severity,
		Payload:  SanitizeForLog(fmt.Sprintf(format, args...)),
	})
}

// Close flushes buffered entries and releases the client.
func (rl *RunLogger) Close() error {
	if rl == nil || rl.client == nil {
		return nil
	}
	return rl.client.Close()
}

// SanitizeForLog redacts credential material before it reaches a log line.
func SanitizeForLog(s string) string {
	for _, prefix := range []string{"ghs_", "ghp_", "gho_"} {
		if strings.HasPrefix(s, prefix) {
			return "[REDACTED_GITHUB_TOKEN]"
		}
	}
	if strings.HasPrefix(s, "Bearer ") {
		return "Bearer [REDACTED]"
	}
	return s
}
