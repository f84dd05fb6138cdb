package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/itstabya/devin-github-issues-integration/internal/config"
	"github.com/itstabya/devin-github-issues-integration/internal/devin"
	"github.com/itstabya/devin-github-issues-integration/internal/engine"
	gh "github.com/itstabya/devin-github-issues-integration/internal/github"
	"github.com/itstabya/devin-github-issues-integration/internal/issue"
)

var scopeCmd = &cobra.Command{
	Use:   "scope REPO ISSUE_NUMBER",
	Short: "Analyze a GitHub issue",
	Long: `Analyze a GitHub issue and report its category, complexity,
confidence score, and estimated effort.

With a Devin API token the analysis runs in a remote Devin session.
Without one it falls back to local heuristics over the issue's labels,
text, and discussion.

Example:
  devin-issues scope microsoft/vscode 12345
  devin-issues scope microsoft/vscode 12345 --json
  devin-issues scope microsoft/vscode 12345 --post-comment`,
	Args: cobra.ExactArgs(2),
	RunE: runScope,
}

func init() {
	rootCmd.AddCommand(scopeCmd)

	scopeCmd.Flags().String("token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
	scopeCmd.Flags().String("devin-token", "", "Devin API token (defaults to DEVIN_API_TOKEN)")
	scopeCmd.Flags().Bool("json", false, "output the analysis as JSON")
	scopeCmd.Flags().Bool("post-comment", false, "post the analysis as a comment on the issue")
}

func runScope(cmd *cobra.Command, args []string) error {
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
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	flagToken, _ := cmd.Flags().GetString("token")
	githubToken, err := resolveGitHubToken(ctx, cfg, flagToken)
	if err != nil {
		return err
	}

	devinFlag, _ := cmd.Flags().GetString("devin-token")
	devinToken, err := resolveDevinToken(ctx, cfg, devinFlag)
	if err != nil {
		return err
	}

	postComment, _ := cmd.Flags().GetBool("post-comment")
	if postComment && githubToken == "" {
		return fmt.Errorf("posting a comment requires a GitHub token")
	}

	opts := []engine.ScoperOption{engine.WithPollConfig(cfg.AnalysisPoll())}
	if devinToken != "" {
		opts = append(opts, engine.WithSessions(
			devin.NewClient(devinToken, devin.WithBaseURL(cfg.Devin.BaseURL)),
		))
	} else {
		fmt.Fprintln(os.Stderr, "Warning: no Devin API token provided, using local heuristic analysis.")
	}
	scoper := engine.NewScoper(gh.NewClient(githubToken), opts...)

	runLog := newRunLogger(ctx, cfg, map[string]string{
		"operation":  "scope",
		"repository": args[0],
		"run":        scoper.RunID(),
	})
	defer func() { _ = runLog.Close() }()

	runLog.Info("scoping %s#%d", args[0], number)

	analysis, err := scoper.Scope(ctx, owner, repo, number)
	if err != nil {
		runLog.Error("scope of %s#%d failed: %v", args[0], number, err)
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(analysis.Flat(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode analysis: %w", err)
		}
		fmt.Println(string(data))
	} else {
		fmt.Println(issue.FormatAnalysis(analysis))
	}

	if postComment {
		if err := scoper.PostAnalysisComment(ctx, owner, repo, analysis); err != nil {
			runLog.Error("comment on %s#%d failed: %v", args[0], number, err)
			return err
		}
		fmt.Fprintf(os.Stderr, "Posted analysis comment on %s#%d\n", args[0], number)
	}

	runLog.Info("scoped %s#%d: %s/%s, confidence %.1f", args[0], number,
		analysis.Category, analysis.Complexity.Name(), analysis.ConfidenceScore)
	return nil
}
