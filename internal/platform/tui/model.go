package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Model is the Bubble Tea model hosting one session's frame loop.
type Model struct {
	stack      *Stack
	screen     *core.Screen
	keys       KeyMap
	help       help.Model
	bar        progress.Model
	inputFrame core.InputFrame
	adFreeMins int
	quitting   bool
}

// NewModel creates a model around a built but not yet started stack.
func NewModel(stack *Stack, adFreeSeconds float64) Model {
	rc := stack.Runtime()
	pf := stack.playfield()

	h := help.New()
	h.Width = rc.ScreenW

	return Model{
		stack:      stack,
		screen:     core.NewScreen(pf.ScreenW, pf.ScreenH),
		keys:       DefaultKeyMap(),
		help:       h,
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		inputFrame: core.NewInputFrame(),
		adFreeMins: int(adFreeSeconds / 60),
	}
}

// Init starts the session and the tick loop.
func (m Model) Init() tea.Cmd {
	m.stack.Start()
	return tickCmd(m.stack.Runtime().TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.stack.Resize(msg.Width, msg.Height)
		pf := m.stack.playfield()
		m.screen.Resize(pf.ScreenW, pf.ScreenH)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
		return m, nil
	}

	action := m.keys.Action(msg)
	if action == core.ActionQuit {
		m.quitting = true
		return m, tea.Quit
	}
	if action != core.ActionNone {
		m.inputFrame.Set(action)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	rc := m.stack.Runtime()
	m.stack.Frame(rc.TickSeconds(), m.inputFrame)
	m.inputFrame.Clear()
	return m, tickCmd(rc.TickRate)
}

// saveScreenshot writes the playfield to ~/.flappy/screenshots.
func (m Model) saveScreenshot() {
	m.stack.Game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".flappy", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.stack.Game.ID(), time.Now().Format("20060102_150405"))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, name), []byte(m.screen.String()), 0o600)
}

// View renders the playfield or the overlay covering it, the banner strip
// and the status bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.stack
	w, h := m.screen.Width(), m.screen.Height()
	overlay := s.Overlay()

	var field string
	switch overlay {
	case OverlayAd:
		showing, _ := s.Sim.Showing()
		field = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, renderAdPanel(showing, m.bar))
	case OverlayOffer:
		field = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
			renderOffer(s.Gate.Affordances(), m.adFreeMins, m.bar))
	case OverlayGameOver:
		field = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
			renderGameOver(s.Session.Score(), s.Rewarded.Interactable(), s.Game.Revived(), s.Gate.AdFree()))
	default:
		s.Game.Render(m.screen)
		field = RenderScreen(m.screen)
	}

	unitID, pos, visible := s.Sim.Banner()
	banner := renderBanner(unitID, pos, visible && s.Banner.Visible(), w)

	helpView := m.help.View(m.keys.For(overlay, s.Rewarded.Interactable()))
	status := renderStatus(s.Session.Score(), s.Gate.Affordances().Timer, helpView, w)

	if pos.Top() {
		return lipgloss.JoinVertical(lipgloss.Left, banner, field, status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, field, banner, status)
}

// Run hosts stack in the terminal until the player quits, then closes it.
func Run(stack *Stack, adFreeSeconds float64) error {
	defer stack.Close()

	p := tea.NewProgram(
		NewModel(stack, adFreeSeconds),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
