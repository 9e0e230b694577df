package ads

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// Interstitial wraps the interstitial surface. Loads and shows are dropped
// while the gate is ad-free. Every show outcome reloads; a load failure
// only reloads when retry is enabled.
type Interstitial struct {
	unitID   string
	view     View
	provider Provider
	sched    *Scheduler
	logger   *log.Logger
	metrics  *Metrics

	loaded bool

	retry      backoff.BackOff
	retryToken Token
	retrying   bool
}

// NewInterstitial creates the wrapper. A nil scheduler disables retry.
func NewInterstitial(p Provider, view View, unitID string, cfg config.InterstitialConfig, sched *Scheduler, logger *log.Logger, m *Metrics) *Interstitial {
	i := &Interstitial{
		unitID:   unitID,
		view:     view,
		provider: p,
		sched:    sched,
		logger:   logger.WithPrefix("interstitial"),
		metrics:  m,
	}
	if cfg.RetryLoadFailures && sched != nil {
		i.retry = newRetryBackOff(cfg)
	}
	return i
}

func newRetryBackOff(cfg config.InterstitialConfig) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = seconds(cfg.RetryInitialSeconds)
	b.MaxInterval = seconds(cfg.RetryMaxSeconds)
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	if cfg.RetryMaxAttempts > 0 {
		return backoff.WithMaxRetries(b, uint64(cfg.RetryMaxAttempts))
	}
	return b
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// UnitID returns the resolved unit id.
func (i *Interstitial) UnitID() string { return i.unitID }

// Loaded reports whether an ad is ready to show.
func (i *Interstitial) Loaded() bool { return i.loaded }

// Load requests an ad unless the gate is ad-free.
func (i *Interstitial) Load() {
	if i.view.AdFree() {
		i.logger.Debug("ad-free period active, skipping load")
		i.metrics.skipped(SurfaceInterstitial, "load")
		return
	}
	i.logger.Debug("loading ad", "unit", i.unitID)
	i.metrics.request(SurfaceInterstitial, "load")
	i.provider.Load(i.unitID, i)
}

// Show presents the loaded ad. It does nothing while ad-free or before a
// load has succeeded.
func (i *Interstitial) Show() {
	if i.view.AdFree() {
		i.logger.Debug("ad-free period active, skipping show")
		i.metrics.skipped(SurfaceInterstitial, "show")
		return
	}
	if !i.loaded {
		i.logger.Info("interstitial not ready")
		return
	}
	i.logger.Info("showing ad", "unit", i.unitID)
	i.metrics.request(SurfaceInterstitial, "show")
	i.provider.Show(i.unitID, i)
}

// OnModeChange reloads when ads come back.
func (i *Interstitial) OnModeChange(m Mode) {
	if m == ModeAdsActive && !i.loaded {
		i.Load()
	}
}

// Close cancels a pending retry.
func (i *Interstitial) Close() {
	if i.retrying {
		i.sched.Cancel(i.retryToken)
		i.retrying = false
	}
}

func (i *Interstitial) OnAdLoaded(unitID string) {
	if unitID != i.unitID {
		return
	}
	i.logger.Info("ad loaded", "unit", unitID)
	i.metrics.event(SurfaceInterstitial, "loaded")
	i.loaded = true
	if i.retry != nil {
		i.retry.Reset()
	}
}

func (i *Interstitial) OnAdFailedToLoad(unitID string, err LoadError, message string) {
	if unitID != i.unitID {
		return
	}
	i.logger.Error("ad failed to load", "unit", unitID, "error", err, "message", message)
	i.metrics.event(SurfaceInterstitial, "load_failed")
	i.loaded = false
	i.scheduleRetry()
}

func (i *Interstitial) scheduleRetry() {
	if i.retry == nil || i.retrying {
		return
	}
	next := i.retry.NextBackOff()
	if next == backoff.Stop {
		i.logger.Warn("giving up on load retries", "unit", i.unitID)
		return
	}
	i.logger.Debug("retrying load", "unit", i.unitID, "in", next)
	i.retrying = true
	i.retryToken = i.sched.After(next.Seconds(), func() {
		i.retrying = false
		i.Load()
	})
}

func (i *Interstitial) OnShowStart(unitID string) {
	i.logger.Info("ad started showing", "unit", unitID)
	i.metrics.event(SurfaceInterstitial, "shown")
}

func (i *Interstitial) OnShowClick(unitID string) {
	i.logger.Info("ad clicked", "unit", unitID)
	i.metrics.event(SurfaceInterstitial, "clicked")
}

func (i *Interstitial) OnShowComplete(unitID string, state CompletionState) {
	if unitID != i.unitID {
		return
	}
	switch state {
	case Completed:
		i.logger.Info("ad completed")
		i.metrics.event(SurfaceInterstitial, "completed")
	case Skipped:
		i.logger.Info("ad skipped")
		i.metrics.event(SurfaceInterstitial, "skipped")
	}
	i.loaded = false
	i.Load()
}

func (i *Interstitial) OnShowFailure(unitID string, err ShowError, message string) {
	if unitID != i.unitID {
		return
	}
	i.logger.Error("ad failed to show", "unit", unitID, "error", err, "message", message)
	i.metrics.event(SurfaceInterstitial, "show_failed")
	i.loaded = false
	i.Load()
}
