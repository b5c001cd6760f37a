package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/instrsync/instrsync/internal/diff"
	"github.com/instrsync/instrsync/internal/syncer"
)

// maxPreviewLines bounds the diff preview inside the confirmation prompt.
// Full diffs can be arbitrarily large; the prompt only needs enough context
// to make the decision.
const maxPreviewLines = 12

// confirmKeyMap defines the key bindings for the confirmation prompt.
type confirmKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Yes    key.Binding
	All    key.Binding
	No     key.Binding
	Always key.Binding
	Select key.Binding
	Quit   key.Binding
}

func defaultConfirmKeyMap() confirmKeyMap {
	return confirmKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yes"),
		),
		All: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "yes to all"),
		),
		No: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no"),
		),
		Always: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "always"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "dismiss"),
		),
	}
}

// confirmChoices lists the prompt options in display order.
var confirmChoices = []struct {
	choice syncer.Choice
	label  string
}{
	{syncer.ChoiceYes, "Yes"},
	{syncer.ChoiceYesToAll, "Yes to All"},
	{syncer.ChoiceNo, "No"},
	{syncer.ChoiceAlways, "Always (stop asking)"},
}

// Styles for the confirmation prompt.
var confirmStyles = struct {
	Title      lipgloss.Style
	Help       lipgloss.Style
	Added      lipgloss.Style
	Removed    lipgloss.Style
	Context    lipgloss.Style
	HunkHeader lipgloss.Style
	Option     lipgloss.Style
	Cursor     lipgloss.Style
}{
	Title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Padding(0, 1),
	Help:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	Added:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Removed:    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	Context:    lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	HunkHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true),
	Option:     lipgloss.NewStyle(),
	Cursor:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
}

// ConfirmModel is the BubbleTea model for the per-file write confirmation.
type ConfirmModel struct {
	req      syncer.ConfirmRequest
	keys     confirmKeyMap
	cursor   int
	choice   syncer.Choice
	width    int
	quitting bool
}

// NewConfirmModel creates a confirmation prompt for a pending write.
func NewConfirmModel(req syncer.ConfirmRequest) ConfirmModel {
	return ConfirmModel{
		req:   req,
		keys:  defaultConfirmKeyMap(),
		width: 80,
	}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.decide(syncer.ChoiceNone)
		case key.Matches(msg, m.keys.Up):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(confirmChoices) - 1
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.cursor = (m.cursor + 1) % len(confirmChoices)
			return m, nil
		case key.Matches(msg, m.keys.Yes):
			return m.decide(syncer.ChoiceYes)
		case key.Matches(msg, m.keys.All):
			return m.decide(syncer.ChoiceYesToAll)
		case key.Matches(msg, m.keys.No):
			return m.decide(syncer.ChoiceNo)
		case key.Matches(msg, m.keys.Always):
			return m.decide(syncer.ChoiceAlways)
		case key.Matches(msg, m.keys.Select):
			return m.decide(confirmChoices[m.cursor].choice)
		}
	}

	return m, nil
}

func (m ConfirmModel) decide(choice syncer.Choice) (tea.Model, tea.Cmd) {
	m.choice = choice
	m.quitting = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	verb := "Update"
	if m.req.Create {
		verb = "Create"
	}
	title := confirmStyles.Title.Render(fmt.Sprintf("%s %s?", verb, filepath.Base(m.req.Path)))
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Root:     %s\n", m.req.Root.Name))
	if m.req.Source.Language != "" {
		b.WriteString(fmt.Sprintf("  Language: %s\n", m.req.Source.Language))
	}
	b.WriteString(fmt.Sprintf("  Source:   %s\n", truncateText(m.req.Source.URL, m.width-12)))
	b.WriteString(fmt.Sprintf("  Path:     %s\n", truncateText(m.req.Path, m.width-12)))

	added, removed := diff.Stats(m.req.Hunks)
	changes := confirmStyles.Added.Render(fmt.Sprintf("+%d", added)) +
		" " + confirmStyles.Removed.Render(fmt.Sprintf("-%d", removed))
	b.WriteString(fmt.Sprintf("  Changes:  %s\n", changes))

	if preview := m.renderPreview(); preview != "" {
		b.WriteString("\n")
		b.WriteString(preview)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for i, option := range confirmChoices {
		marker := "  "
		style := confirmStyles.Option
		if i == m.cursor {
			marker = "> "
			style = confirmStyles.Cursor
		}
		b.WriteString("  ")
		b.WriteString(style.Render(marker + option.label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderShortHelp())

	return b.String()
}

// renderPreview renders the diff hunks, capped at maxPreviewLines.
func (m ConfirmModel) renderPreview() string {
	if len(m.req.Hunks) == 0 {
		return ""
	}

	total := 0
	for _, hunk := range m.req.Hunks {
		total += 1 + len(hunk.Lines)
	}

	var b strings.Builder
	shown := 0
	for _, hunk := range m.req.Hunks {
		if shown >= maxPreviewLines {
			break
		}
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OldStart, hunk.OldCount, hunk.NewStart, hunk.NewCount)
		b.WriteString("  ")
		b.WriteString(confirmStyles.HunkHeader.Render(header))
		b.WriteString("\n")
		shown++

		for _, line := range hunk.Lines {
			if shown >= maxPreviewLines {
				break
			}
			style := confirmStyles.Context
			switch line.Type {
			case diff.LineAdded:
				style = confirmStyles.Added
			case diff.LineRemoved:
				style = confirmStyles.Removed
			}
			b.WriteString("  ")
			b.WriteString(style.Render(truncateText(line.String(), m.width-2)))
			b.WriteString("\n")
			shown++
		}
	}

	if total > shown {
		b.WriteString("  ")
		b.WriteString(confirmStyles.Help.Render(fmt.Sprintf("... %d more line(s)", total-shown)))
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func (m ConfirmModel) renderShortHelp() string {
	keys := []string{
		"↑/↓ navigate",
		"enter select",
		"y yes",
		"a all",
		"n no",
		"w always",
		"esc dismiss",
	}
	return confirmStyles.Help.Render(strings.Join(keys, " • "))
}

// Result returns the choice the user made. A dismissed prompt reports
// ChoiceNone.
func (m ConfirmModel) Result() syncer.Choice {
	return m.choice
}

// RunConfirm runs the interactive confirmation prompt and returns the
// user's choice.
func RunConfirm(req syncer.ConfirmRequest) (syncer.Choice, error) {
	mdl := NewConfirmModel(req)
	finalModel, err := Run(mdl)
	if err != nil {
		return syncer.ChoiceNone, err
	}

	if m, ok := finalModel.(ConfirmModel); ok {
		return m.Result(), nil
	}

	return syncer.ChoiceNone, nil
}

// ConfirmPrompter asks for write confirmation through the BubbleTea prompt.
// It implements syncer.Prompter.
type ConfirmPrompter struct{}

// Confirm implements syncer.Prompter.
func (ConfirmPrompter) Confirm(req syncer.ConfirmRequest) (syncer.Choice, error) {
	return RunConfirm(req)
}
