// Package dashboard renders the live monitoring and session summary views in
// the terminal.
package dashboard

import (
	"examwatch/internal/detection"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// Common color palette for consistent styling
var (
	ColorPrimary   = lipgloss.Color("#00ffff") // Cyan
	ColorSuccess   = lipgloss.Color("#28a745") // Green
	ColorWarning   = lipgloss.Color("#ffaa00") // Orange
	ColorError     = lipgloss.Color("#ff4d4f") // Red
	ColorMuted     = lipgloss.Color("#666666") // Gray
	ColorBorder    = lipgloss.Color("#3d5a80") // Medium blue
	ColorHighlight = lipgloss.Color("#007bff") // Active filter

	ColorHand    = lipgloss.Color("#dc3545")
	ColorPhone   = lipgloss.Color("#007bff")
	ColorTalking = lipgloss.Color("#ffc107")
)

// CategoryColor returns the accent color of a detection category.
func CategoryColor(c detection.Category) lipgloss.Color {
	switch c {
	case detection.HandGestures:
		return ColorHand
	case detection.MobilePhone:
		return ColorPhone
	case detection.Talking:
		return ColorTalking
	default:
		return ColorMuted
	}
}

// Styles provides consistent styling across both views.
type Styles struct {
	Title     lipgloss.Style
	HeaderBar lipgloss.Style

	Card       lipgloss.Style
	CardActive lipgloss.Style
	Panel      lipgloss.Style
	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style

	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Badge   lipgloss.Style

	Footer lipgloss.Style
}

// NewStyles creates the default style set.
func NewStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1),

		HeaderBar: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Padding(0, 1).
			Bold(true),

		Card: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 2).
			MarginRight(1).
			Width(22).
			Align(lipgloss.Center),

		CardActive: lipgloss.NewStyle().
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(ColorHighlight).
			Padding(0, 2).
			MarginRight(1).
			Width(22).
			Align(lipgloss.Center),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder),

		ModalBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2),

		ModalTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1),

		Primary: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Badge: lipgloss.NewStyle().
			Background(lipgloss.Color("#6c757d")).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
	}
}

// StatCard renders a counter card. active draws the highlight border.
func (s Styles) StatCard(title string, value int, accent lipgloss.Color, active bool) string {
	style := s.Card
	if active {
		style = s.CardActive
	}
	content := lipgloss.JoinVertical(
		lipgloss.Center,
		lipgloss.NewStyle().Foreground(accent).Bold(true).Render(fmt.Sprintf("%d", value)),
		s.Muted.Render(title),
	)
	return style.Render(content)
}

// StatusIndicator renders the connectivity status line.
func (s Styles) StatusIndicator(status string, connected bool) string {
	if connected {
		return s.Success.Render("● " + status)
	}
	return s.Warning.Render("▲ " + status)
}

// LoadingSpinner renders a spinner with a message.
func (s Styles) LoadingSpinner(sp spinner.Model, message string) string {
	return fmt.Sprintf("%s %s", sp.View(), s.Primary.Render(message))
}

// Notice renders a transient status message.
func (s Styles) Notice(text string, isErr bool) string {
	if text == "" {
		return ""
	}
	if isErr {
		return s.Error.Render(text)
	}
	return s.Success.Render(text)
}

// Modal centers body in a bordered box over a w×h area.
func (s Styles) Modal(title, body string, w, h int) string {
	box := s.ModalBox.Render(s.ModalTitle.Render(title) + "\n" + body)
	if w <= 0 || h <= 0 {
		return box
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}

// distributionCells splits width cells across the known categories in
// proportion to counts. The cells always sum to width when any count is set.
func distributionCells(counts map[detection.Category]int, width int) []int {
	cells := make([]int, len(detection.Categories))
	total := 0
	for _, c := range detection.Categories {
		total += counts[c]
	}
	if total == 0 || width <= 0 {
		return cells
	}

	cum, prev := 0, 0
	for i, c := range detection.Categories {
		cum += counts[c]
		end := (cum*width*2 + total) / (total * 2)
		cells[i] = end - prev
		prev = end
	}
	return cells
}

// DistributionBar renders the detection distribution as a single bar of
// width cells with a legend underneath.
func (s Styles) DistributionBar(counts map[detection.Category]int, width int) string {
	cells := distributionCells(counts, width)

	total := 0
	for _, n := range cells {
		total += n
	}
	if total == 0 {
		return s.Muted.Render(strings.Repeat("░", max(width, 0)))
	}

	var bar, legend strings.Builder
	for i, c := range detection.Categories {
		color := lipgloss.NewStyle().Foreground(CategoryColor(c))
		bar.WriteString(color.Render(strings.Repeat("█", cells[i])))
		if i > 0 {
			legend.WriteString("  ")
		}
		legend.WriteString(color.Render("■") + s.Muted.Render(fmt.Sprintf(" %s %d", detection.ShortLabel(c), counts[c])))
	}
	return bar.String() + "\n" + legend.String()
}
