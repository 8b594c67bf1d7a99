// Package tui is the interactive day list: browse one date's tasks, filter
// them, and reorder them with grab-and-drop.
package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

func Run(opts Options) error {
	if opts.State == nil || opts.Persist == nil {
		return errors.New("tui: state and persistor are required")
	}
	applyThemePreference()
	applyColorProfilePreference()

	m := newAppModel(opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
