package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/coral/internal/config"
	"github.com/dshills/coral/internal/redact"
	"github.com/dshills/coral/internal/server"
	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]string{}
		if flagAddr != "" {
			overrides["server.addr"] = flagAddr
		}
		cfg, err := config.Load(overrides)
		if err != nil {
			return err
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		if cfg.GitHub.Token == "" {
			logger.Warn("no GitHub token configured; API requests are rate-limited")
		} else {
			logger.Info("using GitHub token", "token", redact.Token(cfg.GitHub.Token))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		handler := server.NewMux(server.NewHandlers(newEngine(cfg), logger))
		if err := server.Serve(ctx, cfg.Server.Addr, handler, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from config, :8080)")
}
