// Package tui provides the interactive terminal prompts using BubbleTea.
// The main component is the per-file confirmation prompt shown before an
// instructions document is written into a workspace root.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts a BubbleTea program with the given model.
func Run(model tea.Model) (tea.Model, error) {
	p := tea.NewProgram(model)
	return p.Run()
}
