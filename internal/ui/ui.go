package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"checklist/internal/config"
	"checklist/internal/todo"
)

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
)

// Loader reads the persisted list.
type Loader func() ([]todo.Item, error)

type loadedMsg struct {
	items []todo.Item
	err   error
}

type Model struct {
	list    *todo.List
	load    Loader
	cfg     config.Config
	keys    keyMap
	help    help.Model
	input   textinput.Model
	editor  textinput.Model
	spinner spinner.Model
	logger  *log.Logger
	cursor  int
	mode    mode
	editKey int64
	status  string
}

// Run loads the list from store and drives it from the terminal until the
// user quits.
func Run(ctx context.Context, store todo.Getter, list *todo.List, cfg config.Config, logger *log.Logger) error {
	load := func() ([]todo.Item, error) {
		return todo.Load(ctx, store)
	}
	program := tea.NewProgram(New(list, load, cfg, logger), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func New(list *todo.List, load Loader, cfg config.Config, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 256
	ti.Width = 40
	ti.SetValue(list.Draft())

	ed := textinput.New()
	ed.CharLimit = 256
	ed.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	list.BeginLoad()

	return Model{
		list:    list,
		load:    load,
		cfg:     cfg,
		keys:    newKeyMap(cfg.Keys),
		help:    help.New(),
		input:   ti,
		editor:  ed,
		spinner: sp,
		logger:  logger,
		mode:    modeList,
		status:  fmt.Sprintf("Press '%s' to add, '%s' to complete, '%s' to delete.", keyLabel(cfg.Keys.Add), keyLabel(cfg.Keys.Toggle), keyLabel(cfg.Keys.Delete)),
	}
}

func (m Model) Init() tea.Cmd {
	load := m.load
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		if load == nil {
			return loadedMsg{}
		}
		items, err := load()
		return loadedMsg{items: items, err: err}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		m.list.Loaded(msg.items, msg.err)
		m.cursor = clampCursor(m.cursor, len(m.list.View()))
		return m, nil
	case spinner.TickMsg:
		if !m.list.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
		m.editor.Width = max(msg.Width-14, 10)
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.list.Loading() {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}
	switch m.mode {
	case modeAdd:
		return m.updateAddMode(msg)
	case modeEdit:
		return m.updateEditMode(msg)
	}
	return m.updateListMode(msg)
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.input.Blur()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if strings.TrimSpace(m.input.Value()) == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.list.SetDraft(m.input.Value())
		it, ok := m.list.Add()
		if !ok {
			return m, nil
		}
		m.input.SetValue(m.list.Draft())
		m.input.Blur()
		m.mode = modeList
		m.status = "Added task"
		m.focusKey(it.Key)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.list.SetDraft(m.input.Value())
		return m, cmd
	}
}

func (m Model) updateEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.list.SetEditing(m.editKey, false)
		m.finishEdit("Edit cancelled")
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		text := strings.TrimSpace(m.editor.Value())
		if text == "" {
			m.status = "Title cannot be empty"
			return m, nil
		}
		m.list.UpdateText(m.editKey, text)
		m.list.SetEditing(m.editKey, false)
		m.finishEdit("Updated task")
		return m, nil
	default:
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
}

func (m *Model) finishEdit(status string) {
	m.editor.Blur()
	m.editor.SetValue("")
	m.mode = modeList
	m.status = status
	m.focusKey(m.editKey)
	m.editKey = 0
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.list.View())
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, n)
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, n)
	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.SetValue(m.list.Draft())
		m.status = "Add mode: type a title and press Enter"
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Toggle):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.list.SetComplete(it.Key, !it.Complete)
		m.status = "Marked " + humanDone(!it.Complete)
	case key.Matches(msg, m.keys.ToggleAll):
		m.list.ToggleAll()
		m.status = "Toggled all tasks"
	case key.Matches(msg, m.keys.Delete):
		it, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.list.Remove(it.Key)
		m.status = fmt.Sprintf("Deleted %q", it.Text)
	case key.Matches(msg, m.keys.Edit):
		it, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		m.list.SetEditing(it.Key, true)
		m.editKey = it.Key
		m.editor.SetValue(it.Text)
		m.editor.CursorEnd()
		m.mode = modeEdit
		m.status = "Editing: Enter to save, Esc to cancel"
		return m, m.editor.Focus()
	case key.Matches(msg, m.keys.Filter):
		m.list.SetFilter(m.list.Filter().Next())
		m.status = "Showing " + strings.ToLower(m.list.Filter().Label())
	case key.Matches(msg, m.keys.ClearCompleted):
		m.list.ClearCompleted()
		m.status = "Cleared completed tasks"
	}
	m.cursor = clampCursor(m.cursor, len(m.list.View()))
	return m, nil
}

func (m Model) selected() (todo.Item, bool) {
	view := m.list.View()
	if len(view) == 0 {
		return todo.Item{}, false
	}
	return view[clampCursor(m.cursor, len(view))], true
}

// focusKey moves the cursor onto key if it is visible under the current
// filter, otherwise it just keeps the cursor in range.
func (m *Model) focusKey(k int64) {
	view := m.list.View()
	for i, it := range view {
		if it.Key == k {
			m.cursor = i
			return
		}
	}
	m.cursor = clampCursor(m.cursor, len(view))
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
