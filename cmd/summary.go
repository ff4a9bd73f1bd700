package cmd

import (
	"examwatch/internal/dashboard"
	"examwatch/internal/eventlog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSummaryCmd(e *env) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Review a recorded session",
		Long: `Shows the detection counters and the event table of a recorded session log.
Events can be filtered by category, searched and inspected, and the session
can be exported as CSV, a text report or the backend's PDF report.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients := newClients(e)
			defer clients.Close()
			return runSummary(cmd, e, clients.Alerts, follow)
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "reload the summary when the log file changes")
	return cmd
}

func runSummary(cmd *cobra.Command, e *env, backend dashboard.SummaryBackend, follow bool) error {
	model := dashboard.NewSummaryModel(e.logger, loadLog(e), backend, e.cfg.Summary.ExportDir)

	if follow && e.cfg.Summary.EventLogFile != "" {
		updates, err := eventlog.Watch(cmd.Context(), e.logger, e.cfg.Summary.EventLogFile)
		if err != nil {
			e.logger.Warn("cannot follow event log", zap.Error(err))
		} else {
			model.Follow(updates)
		}
	}

	_, err := dashboard.Run(cmd.Context(), model)
	return err
}

// loadLog reads the configured event log. A missing or unreadable log yields
// nil, which the summary renders as empty.
func loadLog(e *env) *eventlog.Log {
	path := e.cfg.Summary.EventLogFile
	if path == "" {
		e.logger.Warn("no event log configured")
		return nil
	}
	l, err := eventlog.Load(path)
	if err != nil {
		e.logger.Error("failed to load event log", zap.String("path", path), zap.Error(err))
		return nil
	}
	e.logger.Info("event log loaded", zap.String("path", path), zap.Int("events", l.Len()))
	return l
}
