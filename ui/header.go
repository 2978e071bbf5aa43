package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Header is the dashboard header. It holds no state: the add control asks
// the parent to open the admin panel and Logout asks it to sign out.
type Header struct {
	title  string
	label  string
	add    key.Binding
	logout Logout
}

// NewHeader creates the dashboard header.
func NewHeader() Header {
	return Header{
		title:  "Category",
		label:  "Mobile category",
		add:    keys.Add,
		logout: NewLogout(),
	}
}

// Update maps header key presses to parent-state requests. It returns nil
// for keys the header does not own.
func (h Header) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, h.add) {
		return setAdding(true)
	}
	return h.logout.Update(msg)
}

// View renders the heading and both controls.
func (h Header) View() string {
	button := ButtonStyle.Render(h.add.Help().Key + "  " + h.label)
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(h.title),
		lipgloss.JoinHorizontal(lipgloss.Center, button, "  ", h.logout.View()),
	)
}

// Logout signs the user out by asking the parent to clear its
// authenticated flag.
type Logout struct {
	binding key.Binding
}

func NewLogout() Logout {
	return Logout{binding: keys.Logout}
}

func (l Logout) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !key.Matches(keyMsg, l.binding) {
		return nil
	}
	return setAuthenticated(false)
}

func (l Logout) View() string {
	return ButtonStyle.Render(l.binding.Help().Key + "  Logout")
}
