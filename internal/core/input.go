package core

// Action is a semantic input, decoupled from the physical key that produced it.
type Action int

const (
	ActionNone Action = iota
	ActionFlap
	ActionPause
	ActionRestart
	ActionWatchAd  // watch an ad towards the ad-free period
	ActionNoThanks // dismiss the ad offer
	ActionRewarded // show the rewarded ad
	ActionGoAdFree // open the ad offer screen
	ActionContinue // close the offer screen and keep playing
	ActionBack
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:     "None",
	ActionFlap:     "Flap",
	ActionPause:    "Pause",
	ActionRestart:  "Restart",
	ActionWatchAd:  "WatchAd",
	ActionNoThanks: "NoThanks",
	ActionRewarded: "Rewarded",
	ActionGoAdFree: "GoAdFree",
	ActionContinue: "Continue",
	ActionBack:     "Back",
	ActionQuit:     "Quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame is the set of actions triggered during one tick.
type InputFrame struct {
	actions map[Action]bool
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{actions: make(map[Action]bool)}
}

// Set marks a as triggered.
func (f *InputFrame) Set(a Action) {
	if f.actions == nil {
		f.actions = make(map[Action]bool)
	}
	f.actions[a] = true
}

// Has reports whether a was triggered.
func (f InputFrame) Has(a Action) bool {
	return f.actions[a]
}

// Clear drops every action, keeping the allocation.
func (f *InputFrame) Clear() {
	clear(f.actions)
}
