package dashboard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
)

// Run takes over the terminal and runs model until it quits or ctx is done.
func Run(ctx context.Context, model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return final, errors.Wrap(err, "run dashboard")
	}
	return final, nil
}
