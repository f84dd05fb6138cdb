package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itstabya/devin-github-issues-integration/internal/config"
	gh "github.com/itstabya/devin-github-issues-integration/internal/github"
)

var listCmd = &cobra.Command{
	Use:   "list REPO",
	Short: "List issues in a repository",
	Long: `List issues in a repository, most recently updated first. Pull
requests are excluded.

Example:
  devin-issues list microsoft/vscode
  devin-issues list microsoft/vscode --state closed --labels bug,regression
  devin-issues list microsoft/vscode --assignee octocat --limit 50`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
	listCmd.Flags().String("state", "open", "issue state: open, closed, or all")
	listCmd.Flags().StringSlice("labels", nil, "filter by labels (comma-separated, all must match)")
	listCmd.Flags().String("assignee", "", "filter by assignee login")
	listCmd.Flags().Int("limit", 30, "maximum number of issues to list")
	listCmd.Flags().Bool("json", false, "output the listing as JSON")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	owner, repo, err := splitRepo(args[0])
	if err != nil {
		return err
	}

	state, _ := cmd.Flags().GetString("state")
	switch state {
	case "open", "closed", "all":
	default:
		return fmt.Errorf("invalid state %q: must be open, closed, or all", state)
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

	labels, _ := cmd.Flags().GetStringSlice("labels")
	assignee, _ := cmd.Flags().GetString("assignee")
	limit, _ := cmd.Flags().GetInt("limit")

	issues, err := gh.NewClient(githubToken).ListIssues(ctx, owner, repo, gh.ListOptions{
		State:    state,
		Labels:   labels,
		Assignee: assignee,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(issues, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode listing: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(issues) == 0 {
		fmt.Printf("No %s issues found in %s\n", state, args[0])
		return nil
	}

	fmt.Printf("Found %d issue(s) in %s:\n\n", len(issues), args[0])
	for _, iss := range issues {
		fmt.Printf("#%d [%s] %s\n", iss.Number, iss.State, iss.Title)
		fmt.Printf("   by %s on %s\n", iss.Author, iss.CreatedAt.Format("2006-01-02"))
		if len(iss.Labels) > 0 {
			fmt.Printf("   labels: %s\n", strings.Join(iss.Labels, ", "))
		}
		if len(iss.Assignees) > 0 {
			fmt.Printf("   assigned: %s\n", strings.Join(iss.Assignees, ", "))
		}
		fmt.Println()
	}
	return nil
}
