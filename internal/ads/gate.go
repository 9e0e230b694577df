package ads

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/prefs"
)

// Mode is the gate state.
type Mode int

const (
	ModeAdsActive Mode = iota
	ModeAdFree
)

func (m Mode) String() string {
	if m == ModeAdFree {
		return "ad_free"
	}
	return "ads_active"
}

// Confirmation messages shown on the offer panel.
const (
	MsgAdFreeStarted = "Ad-free period started!"
	MsgAdFreeEnded   = "Ad-free period has ended. Ads are back!"
	MsgOfferDismiss  = "Ad offer dismissed."
)

// View is the read-only side of the gate that ad wrappers depend on.
type View interface {
	AdFree() bool
}

// Watcher is a View that also reports transitions.
type Watcher interface {
	View
	Subscribe(fn func(Mode)) (unsubscribe func())
}

// Store is the subset of prefs the gate persists through.
type Store interface {
	Float(key string) (float64, bool, error)
	SetFloat(key string, v float64) error
	Delete(key string) error
	Save() error
}

// Shower shows a full-screen ad.
type Shower interface {
	Show()
}

// Affordances is the state of the offer panel widgets.
type Affordances struct {
	WatchEnabled    bool
	NoThanksEnabled bool
	OfferVisible    bool
	GoAdFreeVisible bool
	ContinueVisible bool
	Confirmation    string
	Timer           string
	Progress        int
	ProgressMax     int
}

// Gate owns the ad-free period and the watch-to-earn progress.
type Gate struct {
	cfg     config.AdFreeConfig
	store   Store
	sched   *Scheduler
	logger  *log.Logger
	metrics *Metrics
	watchAd Shower

	adFree       atomic.Bool
	remaining    float64
	adsWatched   int
	timesWatched int
	sinceSave    float64

	watchToken Token
	watching   bool

	ui     Affordances
	subs   map[int]func(Mode)
	nextID int
	closed bool
}

// NewGate returns a gate in AdsActive. Call Restore to resume a persisted
// period.
func NewGate(cfg config.AdFreeConfig, store Store, sched *Scheduler, logger *log.Logger, m *Metrics) *Gate {
	return &Gate{
		cfg:     cfg,
		store:   store,
		sched:   sched,
		logger:  logger,
		metrics: m,
		subs:    make(map[int]func(Mode)),
		ui: Affordances{
			WatchEnabled:    true,
			NoThanksEnabled: true,
			GoAdFreeVisible: true,
			ContinueVisible: true,
			ProgressMax:     cfg.AdsRequired,
		},
	}
}

// SetWatchAd sets the ad shown when the player asks to watch one. The
// interstitial wrapper depends on the gate, so it is attached afterwards.
func (g *Gate) SetWatchAd(s Shower) { g.watchAd = s }

// AdFree reports whether an ad-free period is running. Safe from any goroutine.
func (g *Gate) AdFree() bool { return g.adFree.Load() }

// Mode returns the current state.
func (g *Gate) Mode() Mode {
	if g.AdFree() {
		return ModeAdFree
	}
	return ModeAdsActive
}

// Remaining returns the seconds left in the period, never negative.
func (g *Gate) Remaining() float64 { return max(g.remaining, 0) }

// AdsWatched returns the watch progress.
func (g *Gate) AdsWatched() int { return g.adsWatched }

// TimesWatched returns how many watch requests were accepted this session.
func (g *Gate) TimesWatched() int { return g.timesWatched }

// Watching reports whether a watch is in progress.
func (g *Gate) Watching() bool { return g.watching }

// Affordances returns a snapshot of the offer panel state.
func (g *Gate) Affordances() Affordances { return g.ui }

// Subscribe registers fn for mode transitions.
func (g *Gate) Subscribe(fn func(Mode)) func() {
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	return func() { delete(g.subs, id) }
}

// Restore resumes a period persisted by a previous run without resetting it.
func (g *Gate) Restore() {
	v, ok, err := g.store.Float(prefs.KeyRemainingAdFreeTime)
	if err != nil {
		g.logger.Warn("cannot read remaining ad-free time", "error", err)
		return
	}
	if !ok {
		return
	}
	if v <= 0 {
		g.deleteRemaining()
		return
	}

	g.logger.Info("resuming ad-free period", "remaining", v)
	g.remaining = v
	g.start(false, true)
}

// StartAdFreePeriod enters AdFree. With reset the countdown restarts at the
// configured duration; otherwise the current remaining time is kept.
func (g *Gate) StartAdFreePeriod(reset bool) {
	g.start(reset, false)
}

func (g *Gate) start(reset, restored bool) {
	was := g.adFree.Swap(true)
	if g.watching {
		// The pending watch would re-enable the buttons mid-period.
		g.sched.Cancel(g.watchToken)
		g.watching = false
	}
	if reset {
		g.remaining = g.cfg.DurationSeconds
	}
	g.remaining = max(g.remaining, 0)

	g.ui.Confirmation = MsgAdFreeStarted
	g.ui.WatchEnabled = false
	g.ui.NoThanksEnabled = false
	g.ui.OfferVisible = false
	g.ui.GoAdFreeVisible = false
	g.ui.ContinueVisible = false
	g.ui.Timer = FormatTimer(g.remaining)

	g.sinceSave = 0
	g.persist()

	if !was {
		g.logger.Info("ad-free period started", "remaining", g.remaining, "restored", restored)
		g.metrics.periodStarted(restored)
		g.notify(ModeAdFree)
	}
}

// EndAdFreePeriod returns to AdsActive and clears the persisted time.
// Calling it again has no further effect.
func (g *Gate) EndAdFreePeriod() {
	if !g.adFree.Swap(false) {
		g.deleteRemaining()
		return
	}

	g.remaining = 0
	g.adsWatched = 0
	g.ui.Progress = 0
	g.ui.Confirmation = MsgAdFreeEnded
	g.ui.WatchEnabled = true
	g.ui.NoThanksEnabled = true
	g.ui.OfferVisible = true
	g.ui.GoAdFreeVisible = true
	g.ui.ContinueVisible = true
	g.ui.Timer = ""
	g.deleteRemaining()

	g.logger.Info("ad-free period ended")
	g.metrics.periodLeft(true)
	g.notify(ModeAdsActive)
}

// Tick advances the countdown by dt seconds. It must run once per frame.
func (g *Gate) Tick(dt float64) {
	if !g.AdFree() {
		return
	}
	if dt < 0 {
		dt = 0
	}

	g.remaining = max(g.remaining-dt, 0)
	g.ui.Timer = FormatTimer(g.remaining)

	if g.remaining <= 0 {
		g.EndAdFreePeriod()
		return
	}

	g.sinceSave += dt
	if g.cfg.PersistIntervalSeconds <= 0 || g.sinceSave >= g.cfg.PersistIntervalSeconds {
		g.sinceSave = 0
		g.persist()
	}
}

// RecordAdWatched counts one watched ad and starts a fresh period once
// enough have been watched.
func (g *Gate) RecordAdWatched() {
	g.adsWatched++
	g.ui.Progress = min(g.adsWatched, g.cfg.AdsRequired)
	g.metrics.watched()

	if g.adsWatched >= g.cfg.AdsRequired {
		g.StartAdFreePeriod(true)
		return
	}
	g.ui.Confirmation = fmt.Sprintf("Ad %d/%d watched!", g.adsWatched, g.cfg.AdsRequired)
}

// OnWatchRequested handles the watch button: show an ad, then count it once
// the simulated watch delay has passed.
func (g *Gate) OnWatchRequested() {
	if g.AdFree() {
		g.logger.Debug("watch ignored during ad-free period")
		return
	}
	if g.closed || g.watching || !g.ui.WatchEnabled {
		return
	}
	if g.timesWatched > g.cfg.MaxWatchAttempts {
		g.ui.OfferVisible = false
		return
	}

	g.timesWatched++
	g.logger.Debug("watch requested", "times", g.timesWatched)
	if g.watchAd != nil {
		g.watchAd.Show()
	}

	g.ui.WatchEnabled = false
	g.ui.NoThanksEnabled = false
	g.watching = true
	g.watchToken = g.sched.After(g.cfg.WatchDelaySeconds, g.finishWatch)
}

func (g *Gate) finishWatch() {
	g.watching = false
	g.ui.WatchEnabled = true
	g.ui.NoThanksEnabled = true
	g.RecordAdWatched()
}

// NoThanks dismisses the offer.
func (g *Gate) NoThanks() {
	if !g.ui.NoThanksEnabled {
		return
	}
	g.ui.Confirmation = MsgOfferDismiss
	g.ui.OfferVisible = false
}

// OpenOffer shows the offer panel. There is nothing to offer while ad-free.
func (g *Gate) OpenOffer() {
	if g.AdFree() {
		return
	}
	g.ui.OfferVisible = true
}

// OfferVisible reports whether the offer panel is up.
func (g *Gate) OfferVisible() bool { return g.ui.OfferVisible }

// CloseOffer hides the offer panel.
func (g *Gate) CloseOffer() {
	g.ui.OfferVisible = false
}

// Close cancels a pending watch and flushes the remaining time. The gate
// ignores watch requests afterwards.
func (g *Gate) Close() {
	if g.closed {
		return
	}
	g.closed = true

	if g.watching {
		g.sched.Cancel(g.watchToken)
		g.watching = false
	}
	if g.AdFree() {
		g.persist()
		g.metrics.periodLeft(false)
	}
	clear(g.subs)
}

func (g *Gate) notify(m Mode) {
	for _, fn := range g.subs {
		fn(m)
	}
}

// persist writes the remaining time. Failures are logged only.
func (g *Gate) persist() {
	if err := g.store.SetFloat(prefs.KeyRemainingAdFreeTime, g.remaining); err != nil {
		g.logger.Warn("cannot persist ad-free time", "error", err)
		return
	}
	if err := g.store.Save(); err != nil {
		g.logger.Warn("cannot save prefs", "error", err)
	}
}

func (g *Gate) deleteRemaining() {
	if err := g.store.Delete(prefs.KeyRemainingAdFreeTime); err != nil {
		g.logger.Warn("cannot clear ad-free time", "error", err)
	}
}

// FormatTimer renders seconds as "Ad-Free Time: mm:ss".
func FormatTimer(seconds float64) string {
	s := int(max(seconds, 0))
	return fmt.Sprintf("Ad-Free Time: %02d:%02d", s/60, s%60)
}
