package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen UI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, backend Backend, opts ...Option) error {
	p := tea.NewProgram(New(ctx, backend, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
