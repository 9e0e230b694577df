package ads

import (
	"github.com/charmbracelet/log"
)

// Rewarded wraps the rewarded surface behind a button that is only enabled
// while an ad is loaded. Load and show failures reload immediately.
type Rewarded struct {
	unitID   string
	view     View
	provider Provider
	logger   *log.Logger
	metrics  *Metrics

	interactable bool
	onReward     func()
}

// NewRewarded creates the wrapper with its button disabled.
func NewRewarded(p Provider, view View, unitID string, logger *log.Logger, m *Metrics) *Rewarded {
	return &Rewarded{
		unitID:   unitID,
		view:     view,
		provider: p,
		logger:   logger.WithPrefix("rewarded"),
		metrics:  m,
	}
}

// OnReward sets the hook run when an ad is watched to completion.
func (r *Rewarded) OnReward(fn func()) { r.onReward = fn }

// Interactable reports whether the show button can be pressed.
func (r *Rewarded) Interactable() bool { return r.interactable }

// UnitID returns the resolved unit id.
func (r *Rewarded) UnitID() string { return r.unitID }

// Start disables the button and loads unless the gate is ad-free.
func (r *Rewarded) Start() {
	r.interactable = false
	r.Load()
}

// Load requests an ad unless the gate is ad-free.
func (r *Rewarded) Load() {
	if r.view.AdFree() {
		r.logger.Debug("ad-free period active, skipping load")
		r.metrics.skipped(SurfaceRewarded, "load")
		return
	}
	r.logger.Debug("loading ad", "unit", r.unitID)
	r.metrics.request(SurfaceRewarded, "load")
	r.provider.Load(r.unitID, r)
}

// Show is the button press. The button is disabled until the next load.
func (r *Rewarded) Show() {
	if !r.interactable {
		return
	}
	r.interactable = false
	if r.view.AdFree() {
		r.logger.Debug("ad-free period active, skipping show")
		r.metrics.skipped(SurfaceRewarded, "show")
		return
	}
	r.logger.Info("showing ad", "unit", r.unitID)
	r.metrics.request(SurfaceRewarded, "show")
	r.provider.Show(r.unitID, r)
}

// OnModeChange drops the button during a period and reloads when ads return.
func (r *Rewarded) OnModeChange(m Mode) {
	if m == ModeAdFree {
		r.interactable = false
		return
	}
	r.Load()
}

func (r *Rewarded) OnAdLoaded(unitID string) {
	if unitID != r.unitID {
		return
	}
	r.logger.Info("ad loaded", "unit", unitID)
	r.metrics.event(SurfaceRewarded, "loaded")
	if r.view.AdFree() {
		return
	}
	r.interactable = true
}

func (r *Rewarded) OnAdFailedToLoad(unitID string, err LoadError, message string) {
	if unitID != r.unitID {
		return
	}
	r.logger.Error("ad failed to load", "unit", unitID, "error", err, "message", message)
	r.metrics.event(SurfaceRewarded, "load_failed")
	r.Load()
}

func (r *Rewarded) OnShowStart(unitID string) {
	r.logger.Info("ad started showing", "unit", unitID)
	r.metrics.event(SurfaceRewarded, "shown")
}

func (r *Rewarded) OnShowClick(unitID string) {
	r.logger.Info("ad clicked", "unit", unitID)
	r.metrics.event(SurfaceRewarded, "clicked")
}

func (r *Rewarded) OnShowComplete(unitID string, state CompletionState) {
	if unitID != r.unitID {
		return
	}
	if state == Completed {
		r.logger.Info("rewarded ad completed")
		r.metrics.event(SurfaceRewarded, "completed")
		if r.onReward != nil {
			r.onReward()
		}
	} else {
		r.metrics.event(SurfaceRewarded, "skipped")
	}
	r.Load()
}

func (r *Rewarded) OnShowFailure(unitID string, err ShowError, message string) {
	if unitID != r.unitID {
		return
	}
	r.logger.Error("ad failed to show", "unit", unitID, "error", err, "message", message)
	r.metrics.event(SurfaceRewarded, "show_failed")
	r.Load()
}
