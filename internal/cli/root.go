package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess        = 0
	ExitBelowThreshold = 1
	ExitUsageError     = 2
	ExitRuntimeError   = 4
)

var rootCmd = &cobra.Command{
	Use:           "coral",
	Short:         "GitHub repository and pull request analyzer",
	Long:          "Coral fetches a GitHub repository or pull request, applies heuristic review rules and reports scored findings.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Run executes the root command and returns an exit code.
func Run() int {
	exitCode = ExitSuccess
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

func userAgent() string {
	return "coral/" + version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print coral version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "coral version %s\n", version)
	},
}
