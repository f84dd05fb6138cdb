// Package cli defines the devin-issues command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/itstabya/devin-github-issues-integration/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "devin-issues",
	Short: "Analyze and resolve GitHub issues with Devin sessions",
	Long: `devin-issues scopes GitHub issues into structured analyses and drives
Devin sessions to resolve them.

Scoping fetches an issue, runs a remote analysis session (or local
heuristics when no Devin token is available), and reports category,
complexity, confidence, and effort. Resolution feeds a prior analysis
into a Devin session that implements the fix and opens a PR.

Example:
  devin-issues scope microsoft/vscode 12345 --post-comment
  devin-issues resolve microsoft/vscode 12345 --analysis-file=analysis.json`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under a cancellable context, so an
// interrupt stops any in-flight session polling.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .devin-issues.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".devin-issues")
	}

	viper.SetEnvPrefix("DEVIN_ISSUES")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
