package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itstabya/devin-github-issues-integration/internal/config"
	"github.com/itstabya/devin-github-issues-integration/internal/devin"
	"github.com/itstabya/devin-github-issues-integration/internal/engine"
	gh "github.com/itstabya/devin-github-issues-integration/internal/github"
	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve REPO ISSUE_NUMBER",
	Short: "Resolve a GitHub issue through a Devin session",
	Long: `Run a Devin session that implements a fix for the issue, guided by a
prior analysis.

The analysis comes from --analysis-file or --analysis-json; without
either, the most recent analysis comment on the issue is used. A Devin
API token is required: resolution changes code and never falls back to
heuristics.

Example:
  devin-issues resolve microsoft/vscode 12345 --analysis-file=analysis.json
  devin-issues resolve microsoft/vscode 12345 --analysis-json='{"category":"bug",...}'
  devin-issues resolve microsoft/vscode 12345 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().String("token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
	resolveCmd.Flags().String("devin-token", "", "Devin API token (defaults to DEVIN_API_TOKEN)")
	resolveCmd.Flags().String("analysis-file", "", "path to a JSON file holding the issue analysis")
	resolveCmd.Flags().String("analysis-json", "", "JSON string holding the issue analysis")
	resolveCmd.Flags().Bool("json", false, "output the resolution result as JSON")
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	owner, repo, err := splitRepo(args[0])
	if err != nil {
		return err
	}
	number, err := parseIssueNumber(args[1])
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// When the token can only come from the config, validate that before any
	// network call so a missing credential fails fast.
	devinFlag, _ := cmd.Flags().GetString("devin-token")
	if devinFlag == "" && os.Getenv("DEVIN_API_TOKEN") == "" {
		err = cfg.ValidateForResolve()
	} else {
		err = cfg.Validate()
	}
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	flagToken, _ := cmd.Flags().GetString("token")
	githubToken, err := resolveGitHubToken(ctx, cfg, flagToken)
	if err != nil {
		return err
	}

	devinToken, err := resolveDevinToken(ctx, cfg, devinFlag)
	if err != nil {
		return err
	}
	if devinToken == "" {
		return fmt.Errorf("a Devin API token is required for issue resolution")
	}

	analysis, err := loadAnalysis(cmd, number)
	if err != nil {
		return err
	}

	runLog := newRunLogger(ctx, cfg, map[string]string{
		"operation":  "resolve",
		"repository": args[0],
		"run":        uuid.NewString(),
	})
	defer func() { _ = runLog.Close() }()

	resolver := engine.NewResolver(
		gh.NewClient(githubToken),
		devin.NewClient(devinToken, devin.WithBaseURL(cfg.Devin.BaseURL)),
		engine.WithResolutionPoll(cfg.ResolutionPoll()),
	)

	runLog.Info("resolving %s#%d", args[0], number)

	result, err := resolver.Resolve(ctx, owner, repo, number, analysis)
	if err != nil {
		runLog.Error("resolution of %s#%d failed: %v", args[0], number, err)
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(result.Flat(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode resolution: %w", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(issue.FormatResolution(result))
	}

	runLog.Info("resolved %s#%d: %s, score %.1f", args[0], number,
		result.ExecutionStatus, result.SuccessScore)
	return nil
}

// loadAnalysis reads the analysis from --analysis-file or --analysis-json.
// Nil means none was supplied and the resolver recovers it from the issue's
// comments.
func loadAnalysis(cmd *cobra.Command, number int) (*issue.Analysis, error) {
	file, _ := cmd.Flags().GetString("analysis-file")
	raw, _ := cmd.Flags().GetString("analysis-json")

	var data []byte
	switch {
	case file != "":
		content, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read analysis file: %w", err)
		}
		data = content
	case raw != "":
		data = []byte(raw)
	default:
		return nil, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse analysis JSON: %w", err)
	}

	a := devin.DecodeAnalysis(payload, &issue.Record{Number: number})
	if title, ok := payload["title"].(string); ok {
		a.Title = title
	}
	return a, nil
}
