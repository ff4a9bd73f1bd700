package eventlog

import (
	"encoding/csv"
	"examwatch/internal/detection"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
)

const (
	CSVFileName    = "malpractice_report.csv"
	ReportFileName = "malpractice_report.txt"
)

// CSVHeader is the first row of a CSV export.
var CSVHeader = []string{"Event #", "Date", "Time", "Detection Type", "Confidence", "Snapshot"}

// WriteCSV writes the header and one row per event to w.
func WriteCSV(w io.Writer, l *Log) error {
	if l == nil {
		return ErrLogUnavailable
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for i, a := range l.events {
		if err := cw.Write(newRow(i, a).Cells()); err != nil {
			return errors.Wrapf(err, "write csv row %d", i+1)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// ExportCSV writes the log to malpractice_report.csv in dir and returns the
// file path. Nothing is written when the log is missing.
func ExportCSV(l *Log, dir string) (string, error) {
	if l == nil {
		return "", ErrLogUnavailable
	}
	return writeFile(dir, CSVFileName, func(w io.Writer) error {
		return WriteCSV(w, l)
	})
}

// Print writes a plain-text report of the session to w.
func Print(w io.Writer, l *Log) error {
	if l == nil {
		return ErrLogUnavailable
	}

	fmt.Fprintln(w, "Malpractice Detection Report")
	fmt.Fprintln(w)
	if start := l.SessionStart(); !start.IsZero() {
		fmt.Fprintf(w, "Session start:  %s %s\n", detection.FormatDate(start), detection.FormatTime(start))
	}
	if end := l.SessionEnd(); !end.IsZero() {
		fmt.Fprintf(w, "Session end:    %s %s\n", detection.FormatDate(end), detection.FormatTime(end))
	}
	if d := l.Duration(); d != "" {
		fmt.Fprintf(w, "Duration:       %s\n", d)
	}

	stats := l.Stats()
	fmt.Fprintf(w, "Events/minute:  %s\n", stats.Rate)
	fmt.Fprintf(w, "Most common:    %s\n", stats.MostCommonLabel())
	fmt.Fprintf(w, "Avg confidence: %s\n", stats.AvgPercent())

	counts := l.Counts()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw)
	for _, c := range detection.Categories {
		fmt.Fprintf(tw, "%s\t%d\n", detection.SummaryLabel(c), counts[c])
	}
	fmt.Fprintf(tw, "Total Events\t%d\n", l.Len())
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "write counts")
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Detection Events (%d events)\n\n", l.Len())

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tDATE\tTIME\tTYPE\tCONFIDENCE\tSNAPSHOT")
	for i, a := range l.events {
		r := newRow(i, a)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Number, r.Date, r.Time, r.Label, r.Percent, r.Snapshot)
	}
	return errors.Wrap(tw.Flush(), "write events")
}

// PrintFile writes the text report to malpractice_report.txt in dir.
func PrintFile(l *Log, dir string) (string, error) {
	if l == nil {
		return "", ErrLogUnavailable
	}
	return writeFile(dir, ReportFileName, func(w io.Writer) error {
		return Print(w, l)
	})
}

func writeFile(dir, name string, write func(io.Writer) error) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create export dir")
	}

	dest := filepath.Join(dir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", errors.Wrap(err, "create file")
	}

	writeErr := write(f)
	closeErr := f.Close()
	if writeErr != nil {
		_ = os.Remove(dest)
		return "", writeErr
	}
	if closeErr != nil {
		return "", errors.Wrap(closeErr, "close file")
	}
	return dest, nil
}
