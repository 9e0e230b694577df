package flappy

import (
	"math/rand"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Pipe is a vertical obstacle with a gap for the bird to pass through.
type Pipe struct {
	X         float64 // Left edge; fractional so slow speeds still move
	GapY      int     // Top row of the gap
	GapHeight int     // Height of the passable gap
	Scored    bool    // Whether the middle trigger already fired
}

// Left returns the pipe's left column.
func (p Pipe) Left() int { return int(p.X) }

// TopRect returns the collision rectangle above the gap.
func (p Pipe) TopRect(pipeWidth int) core.Rect {
	return core.NewRect(p.Left(), 0, pipeWidth, p.GapY)
}

// BottomRect returns the collision rectangle below the gap.
func (p Pipe) BottomRect(pipeWidth, groundY int) core.Rect {
	bottomY := p.GapY + p.GapHeight
	return core.NewRect(p.Left(), bottomY, pipeWidth, groundY-bottomY)
}

// PipeManager spawns pipes at the right edge, moves them left and
// despawns them past the left edge.
type PipeManager struct {
	pipes      []Pipe
	rng        *rand.Rand
	screenW    int
	groundY    int
	cfg        config.FlappyObstacles
	baseSpeed  float64
	difficulty *config.DifficultyManager
}

// NewPipeManager creates a pipe manager with the given RNG seed.
func NewPipeManager(seed int64, screenW, groundY int, cfg config.FlappyConfig, diff *config.DifficultyManager) *PipeManager {
	pm := &PipeManager{
		pipes:      make([]Pipe, 0, 8),
		screenW:    screenW,
		groundY:    groundY,
		cfg:        cfg.Obstacles,
		baseSpeed:  cfg.Physics.BaseSpeed,
		difficulty: diff,
	}
	pm.Reset(seed)
	return pm
}

// Reset clears all pipes and reseeds the RNG.
func (pm *PipeManager) Reset(seed int64) {
	pm.pipes = pm.pipes[:0]
	pm.rng = rand.New(rand.NewSource(seed))
}

// Resize updates the playfield dimensions.
func (pm *PipeManager) Resize(screenW, groundY int) {
	pm.screenW = screenW
	pm.groundY = groundY
}

// Update moves pipes and spawns new ones. It returns how many pipe middles
// crossed triggerX this tick.
func (pm *PipeManager) Update(triggerX, score, ticks int) int {
	speed := pm.difficulty.Speed(pm.baseSpeed, score, ticks)
	width := pm.cfg.PipeWidth

	// Move pipes left; a pipe scores once when its middle passes the bird
	scored := 0
	for i := range pm.pipes {
		p := &pm.pipes[i]
		p.X -= speed
		if !p.Scored && p.X+float64(width)/2 <= float64(triggerX) {
			p.Scored = true
			scored++
		}
	}

	// Dead zone: anything fully past the left edge is dropped.
	kept := pm.pipes[:0]
	for _, p := range pm.pipes {
		if p.X+float64(width) > 0 {
			kept = append(kept, p)
		}
	}
	pm.pipes = kept

	// Spawn a new pipe once the last one has moved far enough
	spacing := pm.difficulty.Spacing(pm.cfg.PipeSpacing, score, ticks)
	if len(pm.pipes) == 0 || pm.pipes[len(pm.pipes)-1].X < float64(pm.screenW-spacing) {
		pm.spawn(score, ticks)
	}

	return scored
}

func (pm *PipeManager) spawn(score, ticks int) {
	minGap := pm.cfg.MinGapSize
	currentGap := max(pm.difficulty.GapSize(pm.cfg.MaxGapSize, score, ticks), minGap)

	// Random gap height between min and the current difficulty's gap
	gapHeight := minGap
	if r := currentGap - minGap; r > 0 {
		gapHeight += pm.rng.Intn(r + 1)
	}

	// Gap position keeps clear of the top and the ground
	minGapY := pm.cfg.TopMargin
	maxGapY := max(pm.groundY-pm.cfg.BottomMargin-gapHeight, minGapY)

	gapY := minGapY
	if maxGapY > minGapY {
		gapY += pm.rng.Intn(maxGapY - minGapY + 1)
	}

	pm.pipes = append(pm.pipes, Pipe{
		X:         float64(pm.screenW),
		GapY:      gapY,
		GapHeight: gapHeight,
	})
}

// ClearBefore removes every pipe whose left edge is before x.
func (pm *PipeManager) ClearBefore(x int) {
	kept := pm.pipes[:0]
	for _, p := range pm.pipes {
		if p.Left() >= x {
			kept = append(kept, p)
		}
	}
	pm.pipes = kept
}

// Pipes returns the live pipes, left to right.
func (pm *PipeManager) Pipes() []Pipe {
	return pm.pipes
}

// CheckCollision reports whether r overlaps any pipe.
func (pm *PipeManager) CheckCollision(r core.Rect) bool {
	for _, p := range pm.pipes {
		if r.Intersects(p.TopRect(pm.cfg.PipeWidth)) || r.Intersects(p.BottomRect(pm.cfg.PipeWidth, pm.groundY)) {
			return true
		}
	}
	return false
}
