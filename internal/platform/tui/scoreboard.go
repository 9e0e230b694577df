package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/storage"
)

const maxScores = 100

// ScoreSource lists recorded runs.
type ScoreSource interface {
	TopScores(profile string, limit int) ([]storage.ScoreEntry, error)
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Toggle, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "everyone/mine"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the high score table.
type ScoreboardModel struct {
	source  ScoreSource
	profile string
	mine    bool
	scores  []storage.ScoreEntry
	err     error
	table   table.Model
	help    help.Model
	keys    ScoreboardKeyMap
	width   int
	height  int
}

// NewScoreboardModel shows everyone's scores, or only profile's after Tab.
func NewScoreboardModel(source ScoreSource, profile string, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		source:  source,
		profile: profile,
		help:    help.New(),
		keys:    DefaultScoreboardKeyMap(),
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.loadScores()
	return m
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 16},
		{Title: "Score", Width: 8},
		{Title: "Date", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *ScoreboardModel) loadScores() {
	profile := ""
	if m.mine {
		profile = m.profile
	}
	m.scores, m.err = m.source.TopScores(profile, maxScores)

	rows := make([]table.Row, len(m.scores))
	for i, s := range m.scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			s.Profile,
			fmt.Sprintf("%d", s.Score),
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			m.mine = !m.mine
			m.loadScores()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.loadScores()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	var b strings.Builder

	title := "HIGH SCORES - everyone"
	if m.mine {
		title = "HIGH SCORES - " + m.profile
	}
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Render(title))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	switch {
	case m.err != nil:
		b.WriteString(boxStyle.Render("Cannot load scores: " + m.err.Error()))
	case len(m.scores) == 0:
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		b.WriteString(boxStyle.Render(empty.Render("No scores recorded yet.\nPlay a game to set a high score!")))
	default:
		b.WriteString(boxStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

// RunScoreboard shows the scoreboard until the player quits.
func RunScoreboard(source ScoreSource, profile string, width, height int) error {
	p := tea.NewProgram(NewScoreboardModel(source, profile, width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
