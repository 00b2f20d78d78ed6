package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"checklist/internal/todo"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	filterOnStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	filterStyle   = lipgloss.NewStyle().Faint(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	spinnerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("todos"))
	b.WriteString("\n\n")
	b.WriteString(m.renderInputBar())
	b.WriteString("\n\n")

	switch {
	case m.list.Loading():
		b.WriteString(m.spinner.View() + " Loading...")
		b.WriteString("\n")
	case len(m.list.View()) == 0:
		b.WriteString(m.emptyMessage())
		b.WriteString("\n")
	default:
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFilterBar())
	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) renderInputBar() string {
	if m.mode == modeAdd {
		return m.input.View()
	}
	if draft := m.list.Draft(); draft != "" {
		return fmt.Sprintf("  draft: %s", draft)
	}
	return fmt.Sprintf("  press %s to add a task", keyLabel(m.cfg.Keys.Add))
}

func (m Model) emptyMessage() string {
	switch m.list.Filter() {
	case todo.FilterActive:
		return "Nothing left to do."
	case todo.FilterCompleted:
		return "No completed tasks."
	default:
		return fmt.Sprintf("No tasks yet. Press '%s' to add one.", keyLabel(m.cfg.Keys.Add))
	}
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, it := range m.list.View() {
		cursor := " "
		if m.cursor == i && m.mode != modeAdd {
			cursor = cursorStyle.Render(">")
		}

		checkbox := "[ ]"
		if it.Complete {
			checkbox = "[x]"
		}

		var body string
		switch {
		case m.mode == modeEdit && it.Key == m.editKey:
			body = m.editor.View()
		case it.Complete:
			body = doneStyle.Render(it.Text)
		default:
			body = it.Text
		}

		b.WriteString(fmt.Sprintf("%s %s %s", cursor, checkbox, body))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFilterBar() string {
	left := m.list.ActiveCount()
	noun := "items"
	if left == 1 {
		noun = "item"
	}

	parts := make([]string, 0, len(todo.Filters()))
	for _, f := range todo.Filters() {
		if f == m.list.Filter() {
			parts = append(parts, filterOnStyle.Render(f.Label()))
		} else {
			parts = append(parts, filterStyle.Render(f.Label()))
		}
	}
	return fmt.Sprintf("%d %s left  %s", left, noun, strings.Join(parts, " | "))
}
