package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextFocus  key.Binding
	PrevFocus  key.Binding
	Search     key.Binding
	SortToggle key.Binding
	Edit       key.Binding
	Save       key.Binding
	Cancel     key.Binding
	Delete     key.Binding
	Refresh    key.Binding
	Add        key.Binding
	Logout     key.Binding
	Login      key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

var keys = keyMap{
	Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	NextFocus:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
	PrevFocus:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
	Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	SortToggle: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "sort")),
	Edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Save:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save/add")),
	Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel/close")),
	Delete:     key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "manage")),
	Logout:     key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "logout")),
	Login:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "sign in")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
}

// ShortHelp returns short help key bindings (for help.Model)
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFocus, k.Edit, k.Save, k.Delete, k.SortToggle, k.Cancel, k.Quit}
}

// FullHelp returns full help key bindings
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextFocus, k.PrevFocus, k.Search},
		{k.Edit, k.Save, k.Cancel, k.Delete},
		{k.SortToggle, k.Refresh, k.Add, k.Logout},
		{k.Help, k.Quit},
	}
}
