package config

// Minimum values that keep the game passable at maximum difficulty.
const (
	minPlayableGap     = 4
	minPlayableSpacing = 15
)

// DifficultyManager derives pipe speed, gap and spacing from progress.
type DifficultyManager struct {
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		initialLevel: clampUnit(cfg.InitialLevel),
	}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.Progression.Type != "none"
}

// Level returns the difficulty in [0, 1]. It starts at the initial level
// and reaches 1.0 when score (or ticks, for time progression) hits MaxAt.
func (d *DifficultyManager) Level(score, ticks int) float64 {
	if !d.IsEnabled() {
		return d.initialLevel
	}

	maxAt := float64(d.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1 // Prevent division by zero
	}

	var progress float64
	switch d.cfg.Progression.Type {
	case "score":
		progress = float64(score) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return d.initialLevel
	}

	// Clamp progress to [0, 1], then interpolate from initial level to 1.0
	return d.initialLevel + clampUnit(progress)*(1.0-d.initialLevel)
}

// Speed scales baseSpeed up to baseSpeed*(1+SpeedMultiplier).
func (d *DifficultyManager) Speed(baseSpeed float64, score, ticks int) float64 {
	return baseSpeed * (1.0 + d.Level(score, ticks)*d.cfg.Scaling.SpeedMultiplier)
}

// GapSize shrinks baseGap by up to GapReduction.
func (d *DifficultyManager) GapSize(baseGap, score, ticks int) int {
	// Gap decreases as difficulty increases
	reduction := int(d.Level(score, ticks) * float64(d.cfg.Scaling.GapReduction))
	return max(baseGap-reduction, minPlayableGap)
}

// Spacing shrinks baseSpacing by up to SpacingReduction.
func (d *DifficultyManager) Spacing(baseSpacing, score, ticks int) int {
	// Spacing decreases as difficulty increases
	reduction := int(d.Level(score, ticks) * float64(d.cfg.Scaling.SpacingReduction))
	return max(baseSpacing-reduction, minPlayableSpacing)
}

func clampUnit(v float64) float64 {
	return min(max(v, 0), 1)
}
