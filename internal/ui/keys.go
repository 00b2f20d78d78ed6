package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"checklist/internal/config"
)

type keyMap struct {
	Quit           key.Binding
	Add            key.Binding
	Up             key.Binding
	Down           key.Binding
	Toggle         key.Binding
	ToggleAll      key.Binding
	Delete         key.Binding
	Edit           key.Binding
	Confirm        key.Binding
	Cancel         key.Binding
	Filter         key.Binding
	ClearCompleted key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:           binding("quit", k.Quit, "ctrl+c"),
		Add:            binding("add", k.Add),
		Up:             binding("up", k.Up, "up"),
		Down:           binding("down", k.Down, "down"),
		Toggle:         binding("complete", k.Toggle),
		ToggleAll:      binding("toggle all", k.ToggleAll),
		Delete:         binding("delete", k.Delete),
		Edit:           binding("edit", k.Edit),
		Confirm:        binding("confirm", k.Confirm),
		Cancel:         binding("cancel", k.Cancel),
		Filter:         binding("filter", k.Filter),
		ClearCompleted: binding("clear completed", k.ClearCompleted),
	}
}

func binding(desc, primary string, extra ...string) key.Binding {
	return key.NewBinding(
		key.WithKeys(append([]string{primary}, extra...)...),
		key.WithHelp(keyLabel(primary), desc),
	)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.Filter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit},
		{k.Toggle, k.ToggleAll, k.Delete, k.ClearCompleted},
		{k.Filter, k.Confirm, k.Cancel, k.Quit},
	}
}
