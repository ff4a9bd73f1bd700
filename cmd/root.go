// Package cmd wires the examwatch command line.
package cmd

import (
	"context"
	clts "examwatch/clients"
	"examwatch/config"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env carries what every subcommand needs.
type env struct {
	logger *zap.Logger
	cfg    *config.Config
}

// NewRootCmd builds the command tree. cfg is modified by flags before any
// subcommand runs.
func NewRootCmd(logger *zap.Logger, cfg *config.Config) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &env{logger: logger, cfg: cfg}

	root := &cobra.Command{
		Use:   "examwatch",
		Short: "Terminal dashboard for an AI exam proctoring backend",
		Long: `examwatch follows a running malpractice detection backend. It shows live
detection counters and alerts while a session runs, reviews the recorded
event log afterwards and exports session reports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			e.cfg.Backend.BaseURL = strings.TrimRight(e.cfg.Backend.BaseURL, "/")
			if err := e.cfg.Err(); err != nil {
				return err
			}
			e.logger.Debug("command starting",
				zap.String("command", cmd.CommandPath()),
				zap.String("backend", e.cfg.Backend.BaseURL),
			)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Backend.BaseURL, "base-url", cfg.Backend.BaseURL, "detection backend base URL")
	flags.DurationVar(&cfg.Backend.RequestTimeout, "timeout", cfg.Backend.RequestTimeout, "backend request timeout")
	flags.StringVar(&cfg.Summary.ExportDir, "export-dir", cfg.Summary.ExportDir, "directory for exported reports and snapshots")
	flags.StringVar(&cfg.Summary.EventLogFile, "log", cfg.Summary.EventLogFile, "session event log file (JSON)")

	root.AddCommand(
		newMonitorCmd(e),
		newSummaryCmd(e),
		newExportCmd(e),
		newStartCmd(e),
		newStopCmd(e),
		newResetCmd(e),
	)
	return root
}

func newClients(e *env) *clts.Clients {
	return clts.NewClients(e.logger, e.cfg)
}

// Execute runs the command tree until it completes or ctx is cancelled.
func Execute(ctx context.Context, logger *zap.Logger, cfg *config.Config) error {
	return NewRootCmd(logger, cfg).ExecuteContext(ctx)
}
