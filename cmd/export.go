package cmd

import (
	"examwatch/internal/eventlog"
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a session report",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "csv",
			Short: "Write the event log as " + eventlog.CSVFileName,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := eventlog.ExportCSV(loadLog(e), e.cfg.Summary.ExportDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "CSV saved to %s\n", p)
				return nil
			},
		},
		&cobra.Command{
			Use:   "report",
			Short: "Write a plain-text report as " + eventlog.ReportFileName,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				p, err := eventlog.PrintFile(loadLog(e), e.cfg.Summary.ExportDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", p)
				return nil
			},
		},
		&cobra.Command{
			Use:   "pdf",
			Short: "Download the backend's PDF session report",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				clients := newClients(e)
				defer clients.Close()

				p, err := clients.Alerts.ExportPDF(cmd.Context(), e.cfg.Summary.ExportDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "PDF report saved to %s\n", p)
				return nil
			},
		},
	)
	return cmd
}
