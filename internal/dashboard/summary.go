package dashboard

import (
	"context"
	"examwatch/internal/detection"
	"examwatch/internal/eventlog"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// SummaryBackend resolves snapshots and server-side reports for the summary
// view. It may be nil when the backend is unreachable.
type SummaryBackend interface {
	SnapshotURL(name string) string
	DownloadSnapshot(ctx context.Context, name, dir string) (string, error)
	ExportPDF(ctx context.Context, dir string) (string, error)
}

const distributionWidth = 48

type (
	logReloadedMsg  struct{ log *eventlog.Log }
	logWatchDoneMsg struct{}
)

// fileDoneMsg reports the outcome of an export or download.
type fileDoneMsg struct {
	what string
	path string
	err  error
}

// SummaryModel is the post-session summary view.
type SummaryModel struct {
	logger    *zap.Logger
	log       *eventlog.Log
	backend   SummaryBackend
	exportDir string

	events *eventlog.Table
	counts map[detection.Category]int
	stats  eventlog.Stats

	table  table.Model
	search textinput.Model
	help   help.Model
	keys   summaryKeyMap
	styles Styles

	updates <-chan *eventlog.Log

	detail    *eventlog.EventDetail
	notice    string
	noticeErr bool

	width  int
	height int
}

// NewSummaryModel builds the summary view over l. A nil log renders an empty
// summary.
func NewSummaryModel(logger *zap.Logger, l *eventlog.Log, backend SummaryBackend, exportDir string) *SummaryModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 5},
			{Title: "Date", Width: 11},
			{Title: "Time", Width: 12},
			{Title: "Detection Type", Width: 26},
			{Title: "Confidence", Width: 10},
			{Title: "Snapshot", Width: 32},
		}),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorBorder).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("#ffffff")).
		Background(ColorBorder).
		Bold(false)
	t.SetStyles(ts)

	ti := textinput.New()
	ti.Placeholder = "Search events..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	m := &SummaryModel{
		logger:    logger,
		log:       l,
		backend:   backend,
		exportDir: exportDir,
		events:    eventlog.NewTable(l),
		counts:    l.Counts(),
		stats:     l.Stats(),
		table:     t,
		search:    ti,
		help:      help.New(),
		keys:      defaultSummaryKeyMap(),
		styles:    NewStyles(),
	}
	m.syncRows()
	return m
}

// Follow reloads the summary from each log received on updates.
func (m *SummaryModel) Follow(updates <-chan *eventlog.Log) {
	m.updates = updates
}

func (m *SummaryModel) Init() tea.Cmd {
	return m.waitForLog()
}

func (m *SummaryModel) waitForLog() tea.Cmd {
	updates := m.updates
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		l, ok := <-updates
		if !ok {
			return logWatchDoneMsg{}
		}
		return logReloadedMsg{log: l}
	}
}

// reload swaps in l and re-applies the active filter and search term.
func (m *SummaryModel) reload(l *eventlog.Log) {
	active, term := m.events.Active(), m.events.SearchTerm()

	m.log = l
	m.counts = l.Counts()
	m.stats = l.Stats()
	m.events = eventlog.NewTable(l)
	m.events.Filter(active)
	if term != "" {
		m.events.Search(term)
	}
	m.syncRows()
}

// Events returns the filter state behind the table.
func (m *SummaryModel) Events() *eventlog.Table {
	return m.events
}

// Detail returns the open event detail, or nil.
func (m *SummaryModel) Detail() *eventlog.EventDetail {
	return m.detail
}

func (m *SummaryModel) syncRows() {
	visible := m.events.Visible()
	rows := make([]table.Row, 0, len(visible))
	for _, r := range visible {
		rows = append(rows, table.Row(r.Cells()))
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-16, 5))
		return m, nil

	case logReloadedMsg:
		m.reload(msg.log)
		m.logger.Debug("summary reloaded", zap.Int("events", msg.log.Len()))
		return m, m.waitForLog()

	case logWatchDoneMsg:
		return m, nil

	case fileDoneMsg:
		if msg.err != nil {
			m.logger.Error("summary action failed", zap.String("action", msg.what), zap.Error(msg.err))
			m.setNotice(fmt.Sprintf("%s failed: %s", msg.what, msg.err), true)
			return m, nil
		}
		m.setNotice(fmt.Sprintf("%s saved to %s", msg.what, msg.path), false)
		return m, nil

	case tea.KeyMsg:
		if m.detail != nil {
			return m.handleDetailKey(msg)
		}
		if m.search.Focused() {
			return m.handleSearchKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *SummaryModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Details):
		m.detail = nil
	case key.Matches(msg, m.keys.Snapshot):
		return m, m.downloadSnapshotCmd(*m.detail)
	}
	return m, nil
}

func (m *SummaryModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEnter:
		m.search.Blur()
		m.table.Focus()
		return m, nil
	case tea.KeyEsc:
		m.clearSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.events.SearchTerm() {
		m.events.Search(m.search.Value())
		m.syncRows()
	}
	return m, cmd
}

func (m *SummaryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	for i, b := range m.keys.filters() {
		if key.Matches(msg, b) {
			m.events.Filter(detection.FilterKeys[i])
			m.search.SetValue("")
			m.syncRows()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.table.Blur()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Close):
		if m.events.SearchTerm() != "" {
			m.clearSearch()
		}
		return m, nil

	case key.Matches(msg, m.keys.Details):
		m.openDetail()
		return m, nil

	case key.Matches(msg, m.keys.Print):
		return m, m.fileCmd("Report", func() (string, error) {
			return eventlog.PrintFile(m.log, m.exportDir)
		})

	case key.Matches(msg, m.keys.ExportCSV):
		return m, m.fileCmd("CSV", func() (string, error) {
			return eventlog.ExportCSV(m.log, m.exportDir)
		})

	case key.Matches(msg, m.keys.ExportPDF):
		return m, m.exportPDFCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *SummaryModel) clearSearch() {
	m.search.SetValue("")
	m.search.Blur()
	m.table.Focus()
	m.events.Search("")
	m.syncRows()
}

func (m *SummaryModel) openDetail() {
	visible := m.events.Visible()
	cursor := m.table.Cursor()

	index := -1
	if cursor >= 0 && cursor < len(visible) {
		index = visible[cursor].Index
	}

	var resolve func(string) string
	if m.backend != nil {
		resolve = m.backend.SnapshotURL
	}

	d, err := eventlog.Detail(m.log, index, resolve)
	if err != nil {
		m.logger.Error("event details unavailable", zap.Int("index", index), zap.Error(err))
		return
	}
	m.detail = &d
}

func (m *SummaryModel) fileCmd(what string, fn func() (string, error)) tea.Cmd {
	return func() tea.Msg {
		p, err := fn()
		return fileDoneMsg{what: what, path: p, err: err}
	}
}

func (m *SummaryModel) exportPDFCmd() tea.Cmd {
	backend, dir := m.backend, m.exportDir
	return m.fileCmd("PDF report", func() (string, error) {
		if backend == nil {
			return "", errors.New("backend not configured")
		}
		ctx, cancel := context.WithTimeout(context.Background(), backendOpTimeout)
		defer cancel()
		return backend.ExportPDF(ctx, dir)
	})
}

func (m *SummaryModel) downloadSnapshotCmd(d eventlog.EventDetail) tea.Cmd {
	backend, dir := m.backend, m.exportDir
	return m.fileCmd("Snapshot", func() (string, error) {
		if !d.HasSnapshot() {
			return "", errors.New("event has no snapshot")
		}
		if backend == nil {
			return "", errors.New("backend not configured")
		}
		ctx, cancel := context.WithTimeout(context.Background(), backendOpTimeout)
		defer cancel()
		return backend.DownloadSnapshot(ctx, d.Snapshot, dir)
	})
}

func (m *SummaryModel) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *SummaryModel) View() string {
	if m.detail != nil {
		return m.styles.Modal("Event Details", m.detailView(*m.detail), m.width, m.height)
	}

	title := m.styles.Title.Render("📊 Session Summary")
	if d := m.log.Duration(); d != "" {
		title += m.styles.Muted.Render("  Duration " + d)
	}

	active, highlighted := m.events.Highlighted()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.StatCard("Total Events", m.log.Len(), ColorPrimary, false),
		m.styles.StatCard(detection.ShortLabel(detection.HandGestures), m.counts[detection.HandGestures], ColorHand, highlighted && active == detection.HandGestures),
		m.styles.StatCard(detection.ShortLabel(detection.MobilePhone), m.counts[detection.MobilePhone], ColorPhone, highlighted && active == detection.MobilePhone),
		m.styles.StatCard(detection.ShortLabel(detection.Talking), m.counts[detection.Talking], ColorTalking, highlighted && active == detection.Talking),
	)

	search := m.search.View()
	if !m.search.Focused() && m.search.Value() == "" {
		search = m.styles.Muted.Render("/ to search")
	}

	var body string
	if m.events.Len() == 0 {
		body = m.styles.Muted.Render("No detection events recorded.")
	} else {
		body = m.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		cards,
		m.statsView(),
		m.styles.HeaderBar.Render(m.events.Counter()),
		search,
		m.styles.Panel.Render(body),
		m.styles.Notice(m.notice, m.noticeErr),
		m.styles.Footer.Render(m.help.View(m.keys)),
	)
}

func (m *SummaryModel) statsView() string {
	line := fmt.Sprintf("Rate: %s/min   Most common: %s   Avg confidence: %s",
		m.stats.Rate, m.stats.MostCommonLabel(), m.stats.AvgPercent())
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Muted.Render(line),
		m.styles.DistributionBar(m.counts, distributionWidth),
	)
}

func (m *SummaryModel) detailView(d eventlog.EventDetail) string {
	var b strings.Builder
	label := lipgloss.NewStyle().Foreground(CategoryColor(d.Type)).Bold(true).Render(d.Label)
	fmt.Fprintf(&b, "%s %s\n\n", d.Icon, label)
	fmt.Fprintf(&b, "Event #:     %d\n", d.Number)
	fmt.Fprintf(&b, "Date:        %s\n", d.Date)
	fmt.Fprintf(&b, "Time:        %s\n", d.Time)
	fmt.Fprintf(&b, "Confidence:  %s\n", d.Percent)
	fmt.Fprintf(&b, "Count:       %s\n", d.Count)
	if d.HasSnapshot() {
		fmt.Fprintf(&b, "Snapshot:    %s\n", d.Snapshot)
		if d.SnapshotURL != "" {
			fmt.Fprintf(&b, "             %s\n", m.styles.Muted.Render(d.SnapshotURL))
		}
		b.WriteString("\n" + m.styles.Muted.Render("s save snapshot • esc close"))
	} else {
		fmt.Fprintf(&b, "Snapshot:    N/A\n")
		b.WriteString("\n" + m.styles.Muted.Render("esc close"))
	}
	return b.String()
}
