package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
)

type monitorKeyMap struct {
	Stop    key.Binding
	Refresh key.Binding
	Export  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Quit    key.Binding
}

func defaultMonitorKeyMap() monitorKeyMap {
	return monitorKeyMap{
		Stop:    key.NewBinding(key.WithKeys("ctrl+q"), key.WithHelp("ctrl+q", "stop monitoring")),
		Refresh: key.NewBinding(key.WithKeys("f5"), key.WithHelp("f5", "refresh")),
		Export:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export report")),
		Confirm: key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "cancel")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k monitorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Stop, k.Refresh, k.Export, k.Quit}
}

func (k monitorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type summaryKeyMap struct {
	FilterAll     key.Binding
	FilterHand    key.Binding
	FilterPhone   key.Binding
	FilterTalking key.Binding
	Search        key.Binding
	Details       key.Binding
	Snapshot      key.Binding
	Print         key.Binding
	ExportPDF     key.Binding
	ExportCSV     key.Binding
	Close         key.Binding
	Quit          key.Binding
}

func defaultSummaryKeyMap() summaryKeyMap {
	return summaryKeyMap{
		FilterAll:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterHand:    key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "gestures")),
		FilterPhone:   key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "phone")),
		FilterTalking: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "talking")),
		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Details:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Snapshot:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save snapshot")),
		Print:         key.NewBinding(key.WithKeys("ctrl+p"), key.WithHelp("ctrl+p", "print")),
		ExportPDF:     key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export pdf")),
		ExportCSV:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "export csv")),
		Close:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// filters lists the shortcuts in detection.FilterKeys order.
func (k summaryKeyMap) filters() []key.Binding {
	return []key.Binding{k.FilterAll, k.FilterHand, k.FilterPhone, k.FilterTalking}
}

func (k summaryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.FilterAll, k.FilterHand, k.FilterPhone, k.FilterTalking, k.Search, k.Details, k.ExportCSV, k.Quit}
}

func (k summaryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.filters(),
		{k.Search, k.Details, k.Snapshot, k.Close},
		{k.Print, k.ExportPDF, k.ExportCSV, k.Quit},
	}
}
