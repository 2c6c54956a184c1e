package progress

import (
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Renderer displays overall progress.
type Renderer interface {
	Update(percent int, description string)
	Close()
}

// NewRenderer returns a progress bar on stderr when enabled and stderr is
// an interactive terminal, and a no-op renderer otherwise.
func NewRenderer(enabled bool) Renderer {
	if enabled && IsInteractiveEnvironment() {
		return NewBarRenderer(os.Stderr)
	}
	return NoOpRenderer{}
}

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI.
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// BarRenderer draws a single percentage bar.
type BarRenderer struct {
	bar *progressbar.ProgressBar
}

// NewBarRenderer creates a bar writing to w.
func NewBarRenderer(w io.Writer) *BarRenderer {
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(18),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	return &BarRenderer{bar: bar}
}

// Update moves the bar to percent and shows the active agent.
func (r *BarRenderer) Update(percent int, description string) {
	if description != "" {
		r.bar.Describe(description)
	}
	_ = r.bar.Set(percent)
}

// Close finishes the bar.
func (r *BarRenderer) Close() {
	_ = r.bar.Finish()
}

// NoOpRenderer renders nothing.
type NoOpRenderer struct{}

func (NoOpRenderer) Update(int, string) {}
func (NoOpRenderer) Close()             {}
