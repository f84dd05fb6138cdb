package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/itstabya/devin-github-issues-integration/internal/devin"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize project configuration",
	Long: `Initialize devin-issues configuration for the current directory.

This creates a .devin-issues.yaml file with sensible defaults that you
can customize.

Example:
  devin-issues init
  devin-issues init --project my-gcp-project`,
	RunE: initProject,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("project", "", "GCP project for Secret Manager and Cloud Logging")
	initCmd.Flags().Int64("app-id", 0, "GitHub App ID")
	initCmd.Flags().Int64("installation-id", 0, "GitHub App Installation ID")
	initCmd.Flags().Bool("force", false, "Overwrite existing config")
}

type projectConfig struct {
	GitHub struct {
		Token            string `yaml:"token,omitempty"`
		TokenSecret      string `yaml:"token_secret,omitempty"`
		AppID            int64  `yaml:"app_id,omitempty"`
		InstallationID   int64  `yaml:"installation_id,omitempty"`
		PrivateKeySecret string `yaml:"private_key_secret,omitempty"`
	} `yaml:"github"`
	Devin struct {
		Token                  string `yaml:"token,omitempty"`
		TokenSecret            string `yaml:"token_secret,omitempty"`
		AnalysisMaxWait        string `yaml:"analysis_max_wait"`
		AnalysisPollInterval   string `yaml:"analysis_poll_interval"`
		ResolutionMaxWait      string `yaml:"resolution_max_wait"`
		ResolutionPollInterval string `yaml:"resolution_poll_interval"`
	} `yaml:"devin"`
	Cloud struct {
		Project string `yaml:"project,omitempty"`
		LogName string `yaml:"log_name,omitempty"`
	} `yaml:"cloud"`
}

func initProject(cmd *cobra.Command, args []string) error {
	configPath := filepath.Join(".", ".devin-issues.yaml")

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	cfg := projectConfig{}

	cfg.Cloud.Project, _ = cmd.Flags().GetString("project")
	cfg.GitHub.AppID, _ = cmd.Flags().GetInt64("app-id")
	cfg.GitHub.InstallationID, _ = cmd.Flags().GetInt64("installation-id")

	cfg.Devin.AnalysisMaxWait = devin.DefaultAnalysisMaxWait.String()
	cfg.Devin.AnalysisPollInterval = devin.DefaultAnalysisInterval.String()
	cfg.Devin.ResolutionMaxWait = devin.DefaultResolutionMaxWait.String()
	cfg.Devin.ResolutionPollInterval = devin.DefaultResolutionInterval.String()

	if cfg.Cloud.Project != "" {
		cfg.GitHub.TokenSecret = fmt.Sprintf("projects/%s/secrets/github-token", cfg.Cloud.Project)
		cfg.Devin.TokenSecret = fmt.Sprintf("projects/%s/secrets/devin-api-token", cfg.Cloud.Project)
		cfg.Cloud.LogName = "devin-issues"
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := `# devin-issues configuration
# Tokens may be set here, via GITHUB_TOKEN / DEVIN_API_TOKEN, or read from
# GCP Secret Manager through the *_secret fields.

`

	if err := os.WriteFile(configPath, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Created %s\n\n", configPath)
	fmt.Println("Next steps:")
	fmt.Println("  1. Set your GitHub and Devin tokens (or Secret Manager paths)")
	fmt.Println("  2. Run 'devin-issues scope owner/repo 123' to analyze an issue")
	fmt.Println("  3. Run 'devin-issues resolve owner/repo 123' to resolve it")

	return nil
}
