package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/itstabya/devin-github-issues-integration/internal/cloud/gcp"
	"github.com/itstabya/devin-github-issues-integration/internal/config"
	gh "github.com/itstabya/devin-github-issues-integration/internal/github"
)

// splitRepo splits an "owner/name" argument.
func splitRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q: expected format owner/name", repo)
	}
	return parts[0], parts[1], nil
}

// parseIssueNumber parses a positive issue number argument.
func parseIssueNumber(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid issue number %q: expected a positive integer", arg)
	}
	return n, nil
}

// resolveGitHubToken resolves the GitHub credential in precedence order:
// the --token flag, the GITHUB_TOKEN environment variable, the config file
// token, a Secret Manager secret, and finally GitHub App authentication.
// An empty result is valid: public issues can be read without credentials.
func resolveGitHubToken(ctx context.Context, cfg *config.Config, flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if cfg.GitHub.Token != "" {
		return cfg.GitHub.Token, nil
	}
	if cfg.GitHub.TokenSecret != "" {
		return fetchSecret(ctx, cfg, cfg.GitHub.TokenSecret)
	}
	if cfg.UsesAppAuth() {
		return appToken(ctx, cfg)
	}
	return "", nil
}

// resolveDevinToken resolves the Devin credential: the --devin-token flag,
// the DEVIN_API_TOKEN environment variable, the config file token, then a
// Secret Manager secret. Empty means heuristic-only scoping.
func resolveDevinToken(ctx context.Context, cfg *config.Config, flagToken string) (string, error) {
	if flagToken != "" {
		return flagToken, nil
	}
	if token := os.Getenv("DEVIN_API_TOKEN"); token != "" {
		return token, nil
	}
	if cfg.Devin.Token != "" {
		return cfg.Devin.Token, nil
	}
	if cfg.Devin.TokenSecret != "" {
		return fetchSecret(ctx, cfg, cfg.Devin.TokenSecret)
	}
	return "", nil
}

// appToken mints an installation token for the configured GitHub App.
func appToken(ctx context.Context, cfg *config.Config) (string, error) {
	var keyPEM []byte
	switch {
	case cfg.GitHub.PrivateKeyPath != "":
		data, err := os.ReadFile(cfg.GitHub.PrivateKeyPath)
		if err != nil {
			return "", fmt.Errorf("failed to read GitHub App private key: %w", err)
		}
		keyPEM = data
	case cfg.GitHub.PrivateKeySecret != "":
		secret, err := fetchSecret(ctx, cfg, cfg.GitHub.PrivateKeySecret)
		if err != nil {
			return "", err
		}
		keyPEM = []byte(secret)
	default:
		return "", fmt.Errorf("GitHub App authentication needs a private key path or secret")
	}

	auth := &gh.AppAuth{
		AppID:          cfg.GitHub.AppID,
		InstallationID: cfg.GitHub.InstallationID,
		PrivateKeyPEM:  keyPEM,
	}
	return auth.Token(ctx)
}

func fetchSecret(ctx context.Context, cfg *config.Config, secretPath string) (string, error) {
	sm, err := gcp.NewSecretManagerClient(ctx, cfg.Cloud.Project)
	if err != nil {
		return "", err
	}
	defer func() { _ = sm.Close() }()
	return sm.FetchSecret(ctx, secretPath)
}

// newRunLogger creates the Cloud Logging run logger when a cloud project is
// configured. A nil RunLogger is a safe no-op, so callers log
// unconditionally.
func newRunLogger(ctx context.Context, cfg *config.Config, labels map[string]string) *gcp.RunLogger {
	if cfg.Cloud.Project == "" {
		return nil
	}
	rl, err := gcp.NewRunLogger(ctx, cfg.Cloud.Project, cfg.Cloud.LogName, gcp.WithLabels(labels))
	if err != nil {
		log.Printf("Warning: Cloud Logging unavailable: %v", err)
		return nil
	}
	return rl
}
