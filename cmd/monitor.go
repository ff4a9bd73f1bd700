package cmd

import (
	"examwatch/internal/app"
	"examwatch/internal/dashboard"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMonitorCmd(e *env) *cobra.Command {
	var (
		headless    bool
		showSummary bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Show the live monitoring dashboard",
		Long: `Polls the backend for detections and shows live counters, the alert feed and
connection status. New alerts are forwarded to Discord and Telegram when
those are configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			clients := newClients(e)
			runner := app.NewRunner(clients, e.cfg)

			if headless {
				fmt.Fprintf(cmd.OutOrStdout(), "Monitoring session %s (ctrl+c to stop)\n", runner.Monitor().SessionID())
				return runner.Run(ctx)
			}

			if err := runner.Start(ctx); err != nil {
				return err
			}
			model := dashboard.NewMonitorModel(e.logger, runner.Monitor(), clients.Alerts, e.cfg.Summary.ExportDir)
			_, runErr := dashboard.Run(ctx, model)
			runner.Stop()
			if runErr != nil {
				return runErr
			}

			if !model.Stopped() {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Monitoring stopped.")
			if !showSummary || e.cfg.Summary.EventLogFile == "" {
				return nil
			}
			return runSummary(cmd, e, clients.Alerts, false)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&headless, "headless", false, "run without the dashboard (status server and notifications only)")
	flags.BoolVar(&showSummary, "summary", true, "open the session summary after stopping (requires --log)")
	flags.BoolVar(&e.cfg.Monitor.Notify, "notify", e.cfg.Monitor.Notify, "forward new alerts to chat notifiers")
	flags.DurationVar(&e.cfg.Monitor.PollInterval, "poll-interval", e.cfg.Monitor.PollInterval, "alert poll interval")
	flags.BoolVar(&e.cfg.StatusServer.Enabled, "status-server", e.cfg.StatusServer.Enabled, "serve /health, /stats and /ws")
	flags.IntVar(&e.cfg.StatusServer.Port, "status-port", e.cfg.StatusServer.Port, "status server port")
	return cmd
}

func newStartCmd(e *env) *cobra.Command {
	var video string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a monitoring session on the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients := newClients(e)
			defer clients.Close()

			if err := clients.Alerts.StartMonitoring(cmd.Context(), video); err != nil {
				return err
			}
			source := "camera"
			if video != "" {
				source = video
			}
			e.logger.Info("monitoring started", zap.String("source", source))
			fmt.Fprintf(cmd.OutOrStdout(), "Monitoring started (%s)\n", source)
			return nil
		},
	}
	cmd.Flags().StringVar(&video, "video", "", "local video file for the backend to analyse instead of the camera")
	return cmd
}

func newStopCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running monitoring session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients := newClients(e)
			defer clients.Close()

			if err := clients.Alerts.StopMonitoring(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Monitoring stopped.")
			return nil
		},
	}
}

func newResetCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the backend session counters and log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			clients := newClients(e)
			defer clients.Close()

			if err := clients.Alerts.ResetSession(cmd.Context()); err != nil {
				return errors.Wrap(err, "reset session")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session reset.")
			return nil
		},
	}
}
