package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// KeyMap holds the game's key bindings.
type KeyMap struct {
	Flap       key.Binding
	Pause      key.Binding
	Restart    key.Binding
	Revive     key.Binding
	GoAdFree   key.Binding
	Watch      key.Binding
	NoThanks   key.Binding
	Continue   key.Binding
	Skip       key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Flap: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space", "flap"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Revive: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "watch ad to continue"),
		),
		GoAdFree: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "go ad-free"),
		),
		Watch: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter", "watch ad"),
		),
		NoThanks: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "no thanks"),
		),
		Continue: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "continue"),
		),
		Skip: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc", "skip/back"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key to a game action. Screenshot and quit are
// handled by the model and map to ActionNone and ActionQuit.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Flap):
		return core.ActionFlap
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	case key.Matches(msg, k.Restart):
		return core.ActionRestart
	case key.Matches(msg, k.Revive):
		return core.ActionRewarded
	case key.Matches(msg, k.GoAdFree):
		return core.ActionGoAdFree
	case key.Matches(msg, k.Watch):
		return core.ActionWatchAd
	case key.Matches(msg, k.NoThanks):
		return core.ActionNoThanks
	case key.Matches(msg, k.Continue):
		return core.ActionContinue
	case key.Matches(msg, k.Skip):
		return core.ActionBack
	}
	return core.ActionNone
}

// helpKeys is the set of bindings shown in the help bar.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

// For returns the bindings that do something under overlay o.
func (k KeyMap) For(o Overlay, rewardedReady bool) helpKeys {
	switch o {
	case OverlayAd:
		click := k.Watch
		click.SetHelp("enter", "click ad")
		return helpKeys{click, k.Skip, k.Quit}
	case OverlayOffer:
		return helpKeys{k.Watch, k.NoThanks, k.Continue, k.Quit}
	case OverlayGameOver:
		keys := helpKeys{k.Restart}
		if rewardedReady {
			keys = append(keys, k.Revive)
		}
		return append(keys, k.GoAdFree, k.Quit)
	}
	return helpKeys{k.Flap, k.Pause, k.GoAdFree, k.Quit}
}
