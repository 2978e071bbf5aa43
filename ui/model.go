package ui

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/qyinm/catadmin/types"
)

const (
	defaultCategory = "smartphones"
	defaultTimeout  = 10 * time.Second
)

// Options configures the models built by NewModel and NewPanel.
type Options struct {
	// Category is the one product category loaded into the panel.
	Category string
	Timeout  time.Duration
	Locale   language.Tag
	Logger   *logrus.Logger
}

func (o Options) withDefaults() Options {
	if o.Category == "" {
		o.Category = defaultCategory
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Locale == language.Und {
		o.Locale = language.English
	}
	if o.Logger == nil {
		o.Logger = logrus.New()
		o.Logger.SetOutput(io.Discard)
	}
	return o
}

// Model is the main TUI model. It owns the isAdding and isAuthenticated
// flags; the header and panel change them only through SetAddingMsg and
// SetAuthenticatedMsg.
type Model struct {
	source types.CatalogSource
	opts   Options
	log    *logrus.Entry

	header Header
	panel  Panel
	help   help.Model
	keys   keyMap

	isAdding        bool
	isAuthenticated bool

	width  int
	height int
}

// NewModel creates a signed-in Model backed by source. The admin panel is
// mounted once the header's add control is used.
func NewModel(source types.CatalogSource, opts Options) Model {
	opts = opts.withDefaults()
	return Model{
		source:          source,
		opts:            opts,
		log:             opts.Logger.WithField("component", "app"),
		header:          NewHeader(),
		help:            help.New(),
		keys:            keys,
		isAuthenticated: true,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Adding reports whether the admin panel is mounted.
func (m Model) Adding() bool { return m.isAdding }

// Authenticated reports whether the user is signed in.
func (m Model) Authenticated() bool { return m.isAuthenticated }

// Panel returns the mounted admin panel. It is only meaningful while
// Adding reports true.
func (m Model) Panel() Panel { return m.panel }

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.isAdding {
			m.panel, _ = m.panel.Update(m.panelSize())
		}
		return m, nil

	case SetAddingMsg:
		return m.setAdding(msg.Adding)

	case SetAuthenticatedMsg:
		m.isAuthenticated = msg.Authenticated
		if !msg.Authenticated {
			m.log.Info("Signed out")
			m.isAdding = false
			m.panel = Panel{}
		} else {
			m.log.Info("Signed in")
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if !m.isAdding {
		return m, nil
	}
	var cmd tea.Cmd
	m.panel, cmd = m.panel.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if !m.isAuthenticated {
		switch {
		case key.Matches(msg, m.keys.Login):
			return m, setAuthenticated(true)
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		return m, nil
	}

	typing := m.isAdding && m.panel.Typing()
	if !typing {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if cmd := m.header.Update(msg); cmd != nil {
			return m, cmd
		}
	} else if cmd := m.header.logout.Update(msg); cmd != nil {
		return m, cmd
	}

	if !m.isAdding {
		return m, nil
	}
	var cmd tea.Cmd
	m.panel, cmd = m.panel.Update(msg)
	return m, cmd
}

// setAdding mounts a fresh panel or unmounts the current one. Mounting
// triggers the panel's initial reads.
func (m Model) setAdding(adding bool) (tea.Model, tea.Cmd) {
	if adding == m.isAdding {
		return m, nil
	}
	m.isAdding = adding
	if !adding {
		m.panel = Panel{}
		return m, nil
	}
	m.log.WithField("category", m.opts.Category).Info("Opening admin panel")
	m.panel = NewPanel(m.source, m.opts)
	if m.width > 0 {
		m.panel, _ = m.panel.Update(m.panelSize())
	}
	return m, m.panel.Init()
}

// panelSize is the window minus the header and help rows.
func (m Model) panelSize() tea.WindowSizeMsg {
	used := strings.Count(m.header.View(), "\n") + 2
	return tea.WindowSizeMsg{Width: m.width, Height: max(m.height-used, 0)}
}

// View renders the current view
func (m Model) View() string {
	if !m.isAuthenticated {
		return NoticeStyle.Render("Signed out.\n\nPress enter to sign in, q to quit.")
	}

	var b strings.Builder
	b.WriteString(m.header.View())
	b.WriteString("\n")
	if m.isAdding {
		b.WriteString(m.panel.View())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
