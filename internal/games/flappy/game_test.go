package flappy

import (
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

func newTestGame(seed int64) *Game {
	g := New(config.DefaultFlappyConfig())
	g.Reset(testRuntime(seed))
	return g
}

func countEvents(events []core.Event, kind core.EventKind) int {
	n := 0
	for _, e := range events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func TestGameDeterminism(t *testing.T) {
	// Flap every 8 ticks to try to stay airborne
	inputs := make([]core.InputFrame, 400)
	for i := range inputs {
		inputs[i] = core.NewInputFrame()
		if i%8 == 0 {
			inputs[i].Set(core.ActionFlap)
		}
	}

	run := func() (*Game, core.GameState) {
		g := newTestGame(12345)
		var state core.GameState
		for _, in := range inputs {
			state = g.Step(in).State
			if state.GameOver {
				break
			}
		}
		return g, state
	}

	g1, s1 := run()
	g2, s2 := run()

	if s1 != s2 {
		t.Errorf("Determinism failed: %+v vs %+v", s1, s2)
	}
	if g1.tickCount != g2.tickCount || len(g1.pipes.Pipes()) != len(g2.pipes.Pipes()) {
		t.Errorf("Determinism failed: ticks %d/%d, pipes %d/%d",
			g1.tickCount, g2.tickCount, len(g1.pipes.Pipes()), len(g2.pipes.Pipes()))
	}
}

func TestGameReset(t *testing.T) {
	g := newTestGame(42)

	for i := 0; i < 50; i++ {
		in := core.NewInputFrame()
		if i%10 == 0 {
			in.Set(core.ActionFlap)
		}
		g.Step(in)
	}

	g.Reset(testRuntime(42))

	if g.score != 0 || g.gameOver || g.paused || g.revived || g.tickCount != 0 {
		t.Errorf("Reset left state behind: score=%d over=%v paused=%v revived=%v ticks=%d",
			g.score, g.gameOver, g.paused, g.revived, g.tickCount)
	}
	if len(g.pipes.Pipes()) != 0 {
		t.Error("Reset should clear pipes")
	}
}

func TestGameFlapPhysics(t *testing.T) {
	g := newTestGame(1)
	initialY := g.birdY

	in := core.NewInputFrame()
	in.Set(core.ActionFlap)
	g.Step(in)

	if g.birdY >= initialY {
		t.Errorf("Flap should move the bird up, was %f, now %f", initialY, g.birdY)
	}
	if g.birdVel >= 0 {
		t.Errorf("Flap velocity should be negative, got %f", g.birdVel)
	}
}

func TestGameGravity(t *testing.T) {
	g := newTestGame(1)
	g.birdY = 10
	g.birdVel = 0

	g.Step(core.NewInputFrame())

	if g.birdY <= 10 || g.birdVel <= 0 {
		t.Errorf("Gravity should pull the bird down: y=%f vel=%f", g.birdY, g.birdVel)
	}

	// Terminal velocity
	for i := 0; i < 5; i++ {
		g.birdY = 5
		g.birdVel = 100
		g.Step(core.NewInputFrame())
	}
	if g.birdVel != g.cfg.Physics.MaxFallSpeed {
		t.Errorf("velocity %f should cap at %f", g.birdVel, g.cfg.Physics.MaxFallSpeed)
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(1)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	g.Step(pause)
	if !g.paused {
		t.Fatal("Game should be paused")
	}

	yBefore := g.birdY
	g.Step(core.NewInputFrame())
	if g.birdY != yBefore {
		t.Errorf("bird moved while paused: %f -> %f", yBefore, g.birdY)
	}

	g.Step(pause)
	if g.paused {
		t.Error("Game should be unpaused")
	}
}

func TestGameOverFiresOnce(t *testing.T) {
	g := newTestGame(1)
	g.birdY = 21
	g.birdVel = 3

	result := g.Step(core.NewInputFrame())
	if !result.State.GameOver {
		t.Fatal("Game should be over when the bird hits the ground")
	}
	if countEvents(result.Events, core.EventGameOver) != 1 {
		t.Errorf("expected one game-over event, got %v", result.Events)
	}

	flap := core.NewInputFrame()
	flap.Set(core.ActionFlap)
	for i := 0; i < 10; i++ {
		if r := g.Step(flap); len(r.Events) != 0 {
			t.Fatalf("dead bird raised events: %v", r.Events)
		}
	}
}

func TestGameCeiling(t *testing.T) {
	g := newTestGame(1)
	g.birdY = 0.5
	g.birdVel = -3

	result := g.Step(core.NewInputFrame())
	if !result.State.GameOver || g.birdY != 0 {
		t.Errorf("ceiling hit: over=%v y=%f", result.State.GameOver, g.birdY)
	}
}

func TestPipeCollision(t *testing.T) {
	g := newTestGame(1)

	// Pipe on top of the bird with the gap far above it
	g.pipes.pipes = append(g.pipes.pipes, Pipe{
		X:         float64(g.cfg.Player.X),
		GapY:      0,
		GapHeight: 5,
	})
	g.birdY = 15

	result := g.Step(core.NewInputFrame())
	if !result.State.GameOver {
		t.Error("Game should be over when the bird hits a pipe")
	}
}

func TestScoreTrigger(t *testing.T) {
	g := newTestGame(1)

	// Gap spans the bird; the middle crosses the bird this tick.
	g.pipes.pipes = append(g.pipes.pipes, Pipe{X: 8, GapY: 5, GapHeight: 15})

	result := g.Step(core.NewInputFrame())
	if result.State.GameOver {
		t.Fatal("bird inside the gap should survive")
	}
	if countEvents(result.Events, core.EventScored) != 1 || result.State.Score != 1 {
		t.Errorf("expected one score event, got %v (score %d)", result.Events, result.State.Score)
	}

	// The trigger fires once per pipe
	result = g.Step(core.NewInputFrame())
	if countEvents(result.Events, core.EventScored) != 0 {
		t.Error("score trigger fired twice for the same pipe")
	}
}

func TestPipesSpawnAndDespawn(t *testing.T) {
	g := newTestGame(3)

	g.Step(core.NewInputFrame())
	if len(g.pipes.Pipes()) != 1 || g.pipes.Pipes()[0].Left() != 80 {
		t.Fatalf("first pipe should spawn at the right edge: %+v", g.pipes.Pipes())
	}

	g.pipes.pipes = append(g.pipes.pipes[:0], Pipe{X: -4.5, GapY: 5, GapHeight: 10, Scored: true})
	g.pipes.Update(g.cfg.Player.X, 0, 1)
	for _, p := range g.pipes.Pipes() {
		if p.X+float64(g.cfg.Obstacles.PipeWidth) <= 0 {
			t.Errorf("pipe past the left edge not removed: %+v", p)
		}
	}
}

func TestRevive(t *testing.T) {
	g := newTestGame(1)

	if g.Revive() {
		t.Fatal("live bird should not revive")
	}

	g.pipes.pipes = append(g.pipes.pipes, Pipe{X: 10, GapY: 0, GapHeight: 3}, Pipe{X: 70, GapY: 5, GapHeight: 10})
	g.birdY = 15
	g.Step(core.NewInputFrame())
	if !g.State().GameOver {
		t.Fatal("setup: bird should be dead")
	}

	if !g.Revive() {
		t.Fatal("first revive should succeed")
	}
	if g.State().GameOver || !g.alive {
		t.Error("revived bird should be alive")
	}
	for _, p := range g.pipes.Pipes() {
		if p.Left() < g.cfg.Player.X+g.cfg.Obstacles.PipeSpacing/2 {
			t.Errorf("pipe near the bird not cleared: %+v", p)
		}
	}

	g.birdY = 21
	g.birdVel = 3
	g.Step(core.NewInputFrame())
	if g.Revive() {
		t.Error("second revive in the same run should fail")
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(1)

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if screen.Get(0, 23) != GroundChar {
		t.Errorf("Ground should be drawn at bottom, got %q", screen.Get(0, 23))
	}
	if cell := screen.GetCell(g.cfg.Player.X+1, int(g.birdY)); cell.Rune != BirdBeakChar || cell.Color != core.ColorBrightYellow {
		t.Errorf("bird not drawn: %+v", cell)
	}
}
