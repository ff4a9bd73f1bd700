package eventlog

import (
	"examwatch/internal/detection"
	"fmt"
	"strings"
)

// Row is one rendered event in the summary table.
type Row struct {
	Index    int // position in the log
	Type     detection.Category
	Number   string
	Date     string
	Time     string
	Label    string
	Percent  string
	Snapshot string // "N/A" when the event has none

	text string // lowercased full row text for search
}

// Cells returns the row's columns in display order.
func (r Row) Cells() []string {
	return []string{r.Number, r.Date, r.Time, r.Label, r.Percent, r.Snapshot}
}

func newRow(i int, a detection.Alert) Row {
	r := Row{
		Index:    i,
		Type:     a.Type,
		Number:   fmt.Sprintf("%d", i+1),
		Date:     detection.FormatDate(a.Timestamp),
		Time:     detection.FormatTime(a.Timestamp),
		Label:    detection.SummaryLabel(a.Type),
		Percent:  detection.FormatPercent(a.Confidence),
		Snapshot: notApplicable,
	}
	if a.HasSnapshot() {
		r.Snapshot = a.Snapshot
	}
	r.text = strings.ToLower(strings.Join(r.Cells(), " "))
	return r
}

// Table is the filterable view over a log. The active category survives
// searches, so clearing the search restores the category's rows.
type Table struct {
	rows    []Row
	visible []bool
	active  detection.Category
	search  string
	count   int
}

// NewTable builds a table over l with every row visible.
func NewTable(l *Log) *Table {
	t := &Table{active: detection.CategoryAll}
	for i, a := range l.Events() {
		t.rows = append(t.rows, newRow(i, a))
	}
	t.visible = make([]bool, len(t.rows))
	t.applyFilter()
	return t
}

// Filter shows the rows tagged c, or every row for the "all" key, and makes
// c the active category. Any search term is cleared.
func (t *Table) Filter(c detection.Category) {
	t.active = c
	t.search = ""
	t.applyFilter()
}

// Search shows rows whose rendered text contains term, ignoring case and the
// active category. Only the empty term re-applies the active category;
// whitespace is matched as typed.
func (t *Table) Search(term string) {
	t.search = term
	if term == "" {
		t.applyFilter()
		return
	}

	needle := strings.ToLower(term)

	for i, r := range t.rows {
		t.visible[i] = strings.Contains(r.text, needle)
	}
	t.updateCount()
}

func (t *Table) applyFilter() {
	for i, r := range t.rows {
		t.visible[i] = t.active == detection.CategoryAll || r.Type == t.active
	}
	t.updateCount()
}

func (t *Table) updateCount() {
	n := 0
	for _, v := range t.visible {
		if v {
			n++
		}
	}
	t.count = n
}

// Active returns the active category filter.
func (t *Table) Active() detection.Category {
	return t.active
}

// SearchTerm returns the current search term.
func (t *Table) SearchTerm() string {
	return t.search
}

// Highlighted returns the category whose counter is highlighted. There is
// none while the filter is "all".
func (t *Table) Highlighted() (detection.Category, bool) {
	if t.active == detection.CategoryAll {
		return "", false
	}
	return t.active, true
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// VisibleCount returns the number of visible rows.
func (t *Table) VisibleCount() int {
	return t.count
}

// IsVisible reports whether row i is visible.
func (t *Table) IsVisible(i int) bool {
	return i >= 0 && i < len(t.visible) && t.visible[i]
}

// Visible returns the visible rows in log order.
func (t *Table) Visible() []Row {
	out := make([]Row, 0, t.count)
	for i, r := range t.rows {
		if t.visible[i] {
			out = append(out, r)
		}
	}
	return out
}

// Rows returns every row in log order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}

// Counter returns the event counter header.
func (t *Table) Counter() string {
	return fmt.Sprintf("Detection Events (%d events)", t.count)
}
