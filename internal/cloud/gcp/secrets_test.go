package gcp

import (
	"testing"
)

func TestNormalizeSecretPath(t *testing.T) {
	c := &SecretManagerClient{projectID: "my-project"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"full path with version",
			"projects/p/secrets/s/versions/3",
			"projects/p/secrets/s/versions/3",
		},
		{
			"full path without version",
			"projects/p/secrets/s",
			"projects/p/secrets/s/versions/latest",
		},
		{
			"bare secret name",
			"github-token",
			"projects/my-project/secrets/github-token/versions/latest",
		},
	}

	for _, tt := range tests {
		got, err := c.normalizeSecretPath(tt.input)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeSecretPathNoProject(t *testing.T) {
	c := &SecretManagerClient{}
	if _, err := c.normalizeSecretPath("bare-name"); err == nil {
		t.Error("bare secret name without a project must fail")
	}
}

func TestProjectIDFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("GCP_PROJECT", "from-gcp-project")
	t.Setenv("GCLOUD_PROJECT", "from-gcloud")

	if got := projectIDFromEnv(); got != "from-gcp-project" {
		t.Errorf("projectIDFromEnv() = %q, want from-gcp-project", got)
	}
}

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ghs_abc123", "[REDACTED_GITHUB_TOKEN]"},
		{"ghp_abc123", "[REDACTED_GITHUB_TOKEN]"},
		{"gho_abc123", "[REDACTED_GITHUB_TOKEN]"},
		{"Bearer secret", "Bearer [REDACTED]"},
		{"plain message", "plain message"},
	}

	for _, tt := range tests {
		if got := SanitizeForLog(tt.input); got != tt.want {
			t.Errorf("SanitizeForLog(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
