// Package flappy implements the Flappy Bird game loop: a bird under gravity,
// pipes scrolling from the right, a score trigger in every gap.
package flappy

import (
	"fmt"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Visual characters for rendering
const (
	BirdChar      = '●'
	BirdBeakChar  = '▶'
	PipeChar      = '█'
	PipeCapTop    = '▄'
	PipeCapBottom = '▀'
	GroundChar    = '═'
)

// Game holds one run of the bird through the pipes.
type Game struct {
	cfg        config.FlappyConfig
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig

	birdY     float64 // Top of the hitbox
	birdVel   float64 // Positive is down
	alive     bool
	pipes     *PipeManager
	score     int
	gameOver  bool
	paused    bool
	revived   bool
	tickCount int
}

// New creates a game with the given tuning.
func New(cfg config.FlappyConfig) *Game {
	return &Game{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Difficulty),
	}
}

// ID returns the identifier used for score records.
func (g *Game) ID() string { return "flappy" }

// Reset starts a new run.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.runtime = rc
	g.birdY = float64(g.groundY()) / 2
	g.birdVel = 0
	g.alive = true
	g.score = 0
	g.gameOver = false
	g.paused = false
	g.revived = false
	g.tickCount = 0

	if g.pipes == nil {
		g.pipes = NewPipeManager(rc.Seed, rc.ScreenW, g.groundY(), g.cfg, g.difficulty)
	} else {
		g.pipes.Resize(rc.ScreenW, g.groundY())
		g.pipes.Reset(rc.Seed)
	}
}

// Resize adapts the playfield without restarting the run.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW = w
	g.runtime.ScreenH = h
	g.pipes.Resize(w, g.groundY())
	g.birdY = core.ClampF(g.birdY, 0, float64(g.groundY()-g.cfg.Player.Height))
}

// groundY is the row of the ground line.
func (g *Game) groundY() int { return g.runtime.ScreenH - 1 }

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	var events []core.Event

	// Flap sets upward velocity
	if in.Has(core.ActionFlap) && g.alive {
		g.birdVel = g.cfg.Physics.FlapImpulse
	}

	// Apply gravity, capped at terminal velocity
	g.birdVel = min(g.birdVel+g.cfg.Physics.Gravity, g.cfg.Physics.MaxFallSpeed)
	g.birdY += g.birdVel

	// Move pipes and count the ones the bird passed
	if n := g.pipes.Update(g.cfg.Player.X, g.score, g.tickCount); n > 0 {
		g.score += n
		events = append(events, core.Event{Kind: core.EventScored, Amount: n})
	}

	if g.collided() {
		g.alive = false
		g.gameOver = true
		events = append(events, core.Event{Kind: core.EventGameOver})
	}

	return core.StepResult{State: g.State(), Events: events}
}

// collided clamps the bird to the playfield and reports a hit on the
// ceiling, the ground or a pipe.
func (g *Game) collided() bool {
	hit := false

	// Ceiling
	if g.birdY < 0 {
		g.birdY = 0
		hit = true
	}
	// Ground
	if floor := g.groundY() - g.cfg.Player.Height; g.birdY > float64(floor) {
		g.birdY = float64(floor)
		hit = true
	}

	return hit || g.pipes.CheckCollision(g.birdRect())
}

func (g *Game) birdRect() core.Rect {
	return core.NewRect(g.cfg.Player.X, int(g.birdY), g.cfg.Player.Width, g.cfg.Player.Height)
}

// Revive brings a dead bird back once per run: pipes around the bird are
// cleared and it restarts mid-air. It reports whether the bird was revived.
func (g *Game) Revive() bool {
	if !g.gameOver || g.revived {
		return false
	}

	g.pipes.ClearBefore(g.cfg.Player.X + g.cfg.Obstacles.PipeSpacing/2)
	g.birdY = float64(g.groundY()) / 2
	g.birdVel = 0
	g.alive = true
	g.gameOver = false
	g.paused = false
	g.revived = true
	return true
}

// Revived reports whether this run already used its revive.
func (g *Game) Revived() bool { return g.revived }

// Render draws the world and the score to dst.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	// Draw ground
	ground := dst.Height() - 1
	dst.DrawHLine(0, ground, dst.Width(), GroundChar, core.ColorGreen)

	for _, p := range g.pipes.Pipes() {
		g.drawPipe(dst, p, ground)
	}

	// Draw bird, red once it has crashed
	color := core.ColorBrightYellow
	if !g.alive {
		color = core.ColorRed
	}
	x, y := g.cfg.Player.X, int(g.birdY)
	for dy := 0; dy < g.cfg.Player.Height; dy++ {
		for dx := 0; dx < g.cfg.Player.Width; dx++ {
			ch := BirdChar
			if dx == g.cfg.Player.Width-1 && dy == 0 {
				ch = BirdBeakChar
			}
			dst.SetColored(x+dx, y+dy, ch, color)
		}
	}

	// Draw score
	dst.DrawTextColored(2, 0, fmt.Sprintf(" Score: %d ", g.score), core.ColorWhite)

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

func (g *Game) drawPipe(dst *core.Screen, p Pipe, ground int) {
	width := g.cfg.Obstacles.PipeWidth
	left := p.Left()

	// Top pipe
	for y := 0; y < p.GapY; y++ {
		ch := PipeChar
		if y == p.GapY-1 {
			ch = PipeCapTop
		}
		dst.DrawHLine(left, y, width, ch, core.ColorBrightGreen)
	}

	// Bottom pipe
	bottom := p.GapY + p.GapHeight
	for y := bottom; y < ground; y++ {
		ch := PipeChar
		if y == bottom {
			ch = PipeCapBottom
		}
		dst.DrawHLine(left, y, width, ch, core.ColorBrightGreen)
	}
}

func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ') // Clear background
	dst.DrawBox(box, core.ColorWhite)
	dst.DrawTextCentered(box.Y+1, title, core.ColorBrightYellow)
	dst.DrawTextCentered(box.Y+3, subtitle, core.ColorDefault)
}

// State returns the externally visible status.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}
