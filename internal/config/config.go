package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/itstabya/devin-github-issues-integration/internal/devin"
)

// Config represents the full devin-issues configuration
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Devin  DevinConfig  `mapstructure:"devin"`
	Cloud  CloudConfig  `mapstructure:"cloud"`
}

// GitHubConfig contains GitHub authentication settings. Token auth and App
// auth are alternatives; a token wins when both are set.
type GitHubConfig struct {
	Token            string `mapstructure:"token"`
	TokenSecret      string `mapstructure:"token_secret"` // Secret Manager resource holding a token
	AppID            int64  `mapstructure:"app_id"`
	InstallationID   int64  `mapstructure:"installation_id"`
	PrivateKeyPath   string `mapstructure:"private_key_path"`
	PrivateKeySecret string `mapstructure:"private_key_secret"`
}

// DevinConfig contains Devin API settings and the polling budgets.
type DevinConfig struct {
	Token                  string `mapstructure:"token"`
	TokenSecret            string `mapstructure:"token_secret"`
	BaseURL                string `mapstructure:"base_url"`
	AnalysisMaxWait        string `mapstructure:"analysis_max_wait"`
	AnalysisPollInterval   string `mapstructure:"analysis_poll_interval"`
	ResolutionMaxWait      string `mapstructure:"resolution_max_wait"`
	ResolutionPollInterval string `mapstructure:"resolution_poll_interval"`
}

// CloudConfig contains GCP settings for Secret Manager and Cloud Logging.
type CloudConfig struct {
	Project string `mapstructure:"project"` // GCP project ID
	LogName string `mapstructure:"log_name"`
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := &Config{}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Devin.BaseURL == "" {
		cfg.Devin.BaseURL = devin.DefaultBaseURL
	}

	if cfg.Devin.AnalysisMaxWait == "" {
		cfg.Devin.AnalysisMaxWait = devin.DefaultAnalysisMaxWait.String()
	}

	if cfg.Devin.AnalysisPollInterval == "" {
		cfg.Devin.AnalysisPollInterval = devin.DefaultAnalysisInterval.String()
	}

	if cfg.Devin.ResolutionMaxWait == "" {
		cfg.Devin.ResolutionMaxWait = devin.DefaultResolutionMaxWait.String()
	}

	if cfg.Devin.ResolutionPollInterval == "" {
		cfg.Devin.ResolutionPollInterval = devin.DefaultResolutionInterval.String()
	}

	if cfg.Cloud.LogName == "" {
		cfg.Cloud.LogName = "devin-issues"
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	for _, d := range []struct {
		name  string
		value string
	}{
		{"analysis_max_wait", c.Devin.AnalysisMaxWait},
		{"analysis_poll_interval", c.Devin.AnalysisPollInterval},
		{"resolution_max_wait", c.Devin.ResolutionMaxWait},
		{"resolution_poll_interval", c.Devin.ResolutionPollInterval},
	} {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.name, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("invalid %s: must be positive", d.name)
		}
	}

	if c.UsesAppAuth() {
		if c.GitHub.AppID == 0 {
			return fmt.Errorf("GitHub App ID is required for App authentication")
		}
		if c.GitHub.InstallationID == 0 {
			return fmt.Errorf("GitHub App Installation ID is required for App authentication")
		}
		if c.GitHub.PrivateKeyPath == "" && c.GitHub.PrivateKeySecret == "" {
			return fmt.Errorf("GitHub App private key path or secret is required for App authentication")
		}
	}

	if (c.GitHub.TokenSecret != "" || c.Devin.TokenSecret != "" || c.GitHub.PrivateKeySecret != "") && c.Cloud.Project == "" {
		return fmt.Errorf("cloud project is required when reading secrets from Secret Manager")
	}

	return nil
}

// ValidateForResolve performs additional validation required before running
// a resolution. Resolution never falls back to heuristics, so a missing
// Devin credential fails here instead of after the GitHub fetch.
func (c *Config) ValidateForResolve() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Devin.Token == "" && c.Devin.TokenSecret == "" {
		return fmt.Errorf("a Devin API token is required for issue resolution")
	}

	return nil
}

// UsesAppAuth reports whether any GitHub App field is set.
func (c *Config) UsesAppAuth() bool {
	return c.GitHub.AppID != 0 || c.GitHub.InstallationID != 0 ||
		c.GitHub.PrivateKeyPath != "" || c.GitHub.PrivateKeySecret != ""
}

// AnalysisPoll returns the configured analysis polling budget. Unset or
// unparsable values take the defaults; Validate reports the unparsable case
// earlier with a real error.
func (c *Config) AnalysisPoll() devin.PollConfig {
	return devin.PollConfig{
		MaxWait:  parseDuration(c.Devin.AnalysisMaxWait, devin.DefaultAnalysisMaxWait),
		Interval: parseDuration(c.Devin.AnalysisPollInterval, devin.DefaultAnalysisInterval),
	}
}

// ResolutionPoll returns the configured resolution polling budget.
func (c *Config) ResolutionPoll() devin.PollConfig {
	return devin.PollConfig{
		MaxWait:  parseDuration(c.Devin.ResolutionMaxWait, devin.DefaultResolutionMaxWait),
		Interval: parseDuration(c.Devin.ResolutionPollInterval, devin.DefaultResolutionInterval),
	}
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
