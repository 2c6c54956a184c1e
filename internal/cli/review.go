package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/dshills/coral/internal/config"
	"github.com/dshills/coral/internal/gitctx"
	"github.com/dshills/coral/internal/github"
	"github.com/dshills/coral/internal/output"
	"github.com/dshills/coral/internal/progress"
	"github.com/dshills/coral/internal/review"
	"github.com/dshills/coral/internal/target"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Review flags
var (
	flagType       string
	flagFormat     string
	flagOut        string
	flagFailUnder  int
	flagNoProgress bool
	flagRemote     bool
	flagPR         int
)

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagType, "type", "auto", "Analysis type (auto, repository, pull-request)")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, sarif, summary)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	cmd.Flags().IntVar(&flagFailUnder, "fail-under", -1, "Exit 1 when the score is below this value (0-100)")
	cmd.Flags().BoolVar(&flagNoProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().BoolVar(&flagRemote, "remote", false, "Analyze the repository of the current directory's origin remote")
	cmd.Flags().IntVar(&flagPR, "pr", 0, "With --remote, analyze this pull request number")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailUnder >= 0 {
		m["failUnder"] = strconv.Itoa(flagFailUnder)
	}
	if flagNoProgress {
		m["progress"] = "false"
	}
	return m
}

// Hooks replaced in tests.
var (
	isInteractive = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
	promptTarget  = runInteractivePrompt
	detectRepo    = gitctx.DetectRepo
)

var errNoURL = errors.New("a GitHub URL is required (pass it as an argument or use --remote)")

// resolveInput returns the URL and type to analyze from the arguments,
// the origin remote, or an interactive prompt, in that order.
func resolveInput(args []string, kind target.AnalysisType) (string, target.AnalysisType, error) {
	switch {
	case len(args) == 1:
		return args[0], kind, nil
	case flagRemote:
		owner, repo, err := detectRepo()
		if err != nil {
			return "", "", err
		}
		url := fmt.Sprintf("https://%s/%s/%s", target.Host, owner, repo)
		if flagPR > 0 {
			url = fmt.Sprintf("%s/pull/%d", url, flagPR)
		}
		return url, kind, nil
	case isInteractive():
		return promptTarget()
	default:
		return "", "", errNoURL
	}
}

var reviewCmd = &cobra.Command{
	Use:   "review [url]",
	Short: "Analyze a GitHub repository or pull request",
	Long: "Analyze a GitHub repository or pull request URL and report scored findings.\n" +
		"With no URL on an interactive terminal, coral asks for one.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			return err
		}

		kind, err := target.ParseType(flagType)
		if err != nil {
			return err
		}

		rawURL, kind, err := resolveInput(args, kind)
		if err != nil {
			return err
		}

		runReview(cmd.Context(), cfg, rawURL, kind)
		return nil
	},
}

func init() {
	addReviewFlags(reviewCmd)
}

func newEngine(cfg config.Config) *review.Engine {
	opts := cfg.GitHubOptions()
	opts.UserAgent = userAgent()
	return review.New(github.NewClient(opts), review.WithThresholds(cfg.ReviewThresholds()))
}

func runReview(ctx context.Context, cfg config.Config, rawURL string, kind target.AnalysisType) {
	if cfg.GitHub.Token == "" {
		fmt.Fprintln(os.Stderr, "Note: no GitHub token configured; API requests are rate-limited.")
	}

	tracker := progress.NewTracker(progress.NewRenderer(cfg.Progress))
	report := newEngine(cfg).Run(ctx, review.Request{URL: rawURL, Type: kind, Observer: tracker})
	report.Agents = tracker.Snapshot()

	if err := output.WriteReport(report, cfg.Format, flagOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
		return
	}

	if cfg.FailUnder > 0 && report.Score < cfg.FailUnder {
		fmt.Fprintf(os.Stderr, "Score %d is below --fail-under %d\n", report.Score, cfg.FailUnder)
		exitCode = ExitBelowThreshold
	}
}
