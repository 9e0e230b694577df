package core

// RuntimeConfig is what the platform hands a game when it (re)starts.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in cells
	ScreenH  int   // Screen height in cells
	TickRate int   // Simulation ticks per second
	Seed     int64 // RNG seed; 0 lets the platform pick one
}

// DefaultConfig returns an 80x24 screen at 60 ticks per second.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TickSeconds returns the duration of one tick in seconds.
func (c RuntimeConfig) TickSeconds() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(c.TickRate)
}

// GameState is the externally visible status of a game.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
}

// EventKind identifies a domain event raised during a step.
type EventKind int

const (
	// EventScored fires when the bird passes through a pipe gap.
	EventScored EventKind = iota + 1
	// EventGameOver fires once when the bird dies.
	EventGameOver
)

// Event is raised by the game and consumed by the bookkeeping layer.
type Event struct {
	Kind   EventKind
	Amount int // points for EventScored
}

// StepResult is returned from every simulation step.
type StepResult struct {
	State  GameState
	Events []Event
}
