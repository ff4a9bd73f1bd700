package dashboard

import (
	"context"
	"examwatch/internal/app"
	"examwatch/internal/detection"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

const (
	emptyFeedText    = "No alerts yet..."
	refreshFeedback  = time.Second
	backendOpTimeout = 30 * time.Second
)

// MonitorController is the live state source behind the monitor view.
type MonitorController interface {
	Subscribe() (<-chan app.View, func())
	Refresh(ctx context.Context) error
}

// MonitorBackend performs the session actions triggered from the monitor view.
type MonitorBackend interface {
	StopMonitoring(ctx context.Context) error
	ExportPDF(ctx context.Context, dir string) (string, error)
}

type (
	viewMsg         app.View
	viewsClosedMsg  struct{}
	refreshDoneMsg  struct{ err error }
	refreshResetMsg struct{}
	stopDoneMsg     struct{ err error }
	exportDoneMsg   struct {
		path string
		err  error
	}
)

// MonitorModel is the live monitoring view.
type MonitorModel struct {
	logger     *zap.Logger
	controller MonitorController
	backend    MonitorBackend
	exportDir  string

	views       <-chan app.View
	unsubscribe func()

	view       app.View
	hasView    bool
	feed       viewport.Model
	spinner    spinner.Model
	help       help.Model
	keys       monitorKeyMap
	styles     Styles
	refreshing bool
	confirming bool
	stopped    bool
	busy       bool
	notice     string
	noticeErr  bool

	width  int
	height int
}

// NewMonitorModel subscribes to controller and builds the monitor view.
func NewMonitorModel(logger *zap.Logger, controller MonitorController, backend MonitorBackend, exportDir string) *MonitorModel {
	if logger == nil {
		logger = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	m := &MonitorModel{
		logger:     logger,
		controller: controller,
		backend:    backend,
		exportDir:  exportDir,
		feed:       viewport.New(80, 10),
		spinner:    sp,
		help:       help.New(),
		keys:       defaultMonitorKeyMap(),
		styles:     NewStyles(),
	}
	m.views, m.unsubscribe = controller.Subscribe()
	return m
}

func (m *MonitorModel) Init() tea.Cmd {
	return m.waitForView()
}

// Stopped reports whether the session was stopped from this view.
func (m *MonitorModel) Stopped() bool {
	return m.stopped
}

func (m *MonitorModel) waitForView() tea.Cmd {
	views := m.views
	return func() tea.Msg {
		v, ok := <-views
		if !ok {
			return viewsClosedMsg{}
		}
		return viewMsg(v)
	}
}

func (m *MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.feed.Width = msg.Width - 4
		m.feed.Height = max(msg.Height-16, 3)
		m.renderFeed(false)
		return m, nil

	case viewMsg:
		m.view = app.View(msg)
		m.hasView = true
		m.renderFeed(m.view.AutoScroll)
		return m, m.waitForView()

	case viewsClosedMsg:
		m.logger.Debug("monitor view stream closed")
		return m, nil

	case refreshDoneMsg:
		if msg.err != nil {
			m.setNotice("Refresh failed: "+msg.err.Error(), true)
		}
		return m, nil

	case refreshResetMsg:
		m.refreshing = false
		return m, nil

	case stopDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.logger.Error("stop monitoring failed", zap.Error(msg.err))
			m.setNotice("Failed to stop monitoring: "+msg.err.Error(), true)
			return m, nil
		}
		m.stopped = true
		m.close()
		return m, tea.Quit

	case exportDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.logger.Error("export report failed", zap.Error(msg.err))
			m.setNotice("Export failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.setNotice("Report saved to "+msg.path, false)
		return m, nil

	case spinner.TickMsg:
		if !m.refreshing && !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.feed, cmd = m.feed.Update(msg)
	return m, cmd
}

func (m *MonitorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirming = false
			m.busy = true
			return m, m.stopCmd()
		case key.Matches(msg, m.keys.Cancel):
			m.confirming = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Stop):
		if !m.busy {
			m.confirming = true
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, tea.Batch(m.spinner.Tick, m.refreshCmd(), tea.Tick(refreshFeedback, func(time.Time) tea.Msg {
			return refreshResetMsg{}
		}))

	case key.Matches(msg, m.keys.Export):
		if m.busy {
			return m, nil
		}
		m.busy = true
		m.setNotice("Exporting report...", false)
		return m, m.exportCmd()
	}

	var cmd tea.Cmd
	m.feed, cmd = m.feed.Update(msg)
	return m, cmd
}

func (m *MonitorModel) refreshCmd() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backendOpTimeout)
		defer cancel()
		return refreshDoneMsg{err: controller.Refresh(ctx)}
	}
}

func (m *MonitorModel) stopCmd() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backendOpTimeout)
		defer cancel()
		return stopDoneMsg{err: backend.StopMonitoring(ctx)}
	}
}

func (m *MonitorModel) exportCmd() tea.Cmd {
	backend, dir := m.backend, m.exportDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), backendOpTimeout)
		defer cancel()
		p, err := backend.ExportPDF(ctx, dir)
		return exportDoneMsg{path: p, err: err}
	}
}

func (m *MonitorModel) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *MonitorModel) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *MonitorModel) renderFeed(scroll bool) {
	if len(m.view.Feed) == 0 {
		m.feed.SetContent(m.styles.Muted.Render(emptyFeedText))
		return
	}

	var b strings.Builder
	for i, e := range m.view.Feed {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.feedLine(e))
	}
	m.feed.SetContent(b.String())
	if scroll {
		m.feed.GotoBottom()
	}
}

func (m *MonitorModel) feedLine(e app.FeedEntry) string {
	label := lipgloss.NewStyle().Foreground(CategoryColor(e.Type)).Bold(true).Render(e.Label)
	line := fmt.Sprintf("%s %s  %s  %s", e.Icon, label, m.styles.Muted.Render(e.Time), m.styles.Badge.Render(e.Percent))
	if e.HasSnapshot {
		line += "  📷"
	}
	return line
}

func (m *MonitorModel) View() string {
	v := m.view

	title := m.styles.Title.Render("🎓 AI Exam Proctor")
	status := m.styles.StatusIndicator(v.Status, v.Connected)
	if !m.hasView {
		status = m.styles.LoadingSpinner(m.spinner, "Connecting...")
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", status, "  ", m.styles.Primary.Render(v.Clock))

	var session string
	if !v.SessionStart.IsZero() {
		session = m.styles.Muted.Render(fmt.Sprintf("Session started %s %s  •  Duration %s",
			detection.FormatDate(v.SessionStart), detection.FormatTime(v.SessionStart), v.Duration))
	}

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.StatCard(detection.ShortLabel(detection.HandGestures), v.HandGestures, ColorHand, false),
		m.styles.StatCard(detection.ShortLabel(detection.MobilePhone), v.MobilePhone, ColorPhone, false),
		m.styles.StatCard(detection.ShortLabel(detection.Talking), v.Talking, ColorTalking, false),
	)

	stats := m.styles.Muted.Render(fmt.Sprintf("Total events: %d  •  Rate: %s/min", v.TotalEvents, v.Rate))

	refresh := ""
	if m.refreshing {
		refresh = m.styles.LoadingSpinner(m.spinner, "Refreshing...")
	}

	feed := m.styles.Panel.Render(m.styles.HeaderBar.Render("Live Alerts") + "\n" + m.feed.View())

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		session,
		"",
		cards,
		stats,
		feed,
		refresh,
		m.styles.Notice(m.notice, m.noticeErr),
		m.styles.Footer.Render(m.help.View(m.keys)),
	)

	if m.confirming {
		return m.styles.Modal("Stop Monitoring",
			"Are you sure you want to stop monitoring?\n\n"+m.styles.Muted.Render("y confirm • n cancel"),
			m.width, m.height)
	}
	return body
}
