package ads

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// Showing describes the full-screen ad currently on screen.
type Showing struct {
	UnitID    string
	Remaining float64
	Duration  float64
}

// Simulator is an in-process ad network. Requests are answered after
// configurable latencies; every callback is delivered from Advance, which
// the host calls once per frame.
type Simulator struct {
	cfg    config.SimulatorConfig
	rng    *rand.Rand
	clock  *Scheduler
	logger *log.Logger

	initialized  bool
	initializing bool
	deferred     []func()

	loaded map[string]bool

	show      *activeShow
	bannerPos BannerPosition
	banner    bannerState
}

type activeShow struct {
	unitID   string
	listener ShowListener
	ends     float64
	token    Token
}

type bannerState struct {
	unitID   string
	listener BannerListener
	loaded   bool
	visible  bool
}

// NewSimulator creates a simulator. A zero seed seeds from the clock.
func NewSimulator(cfg config.SimulatorConfig, logger *log.Logger) *Simulator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(seed)),
		clock:     NewScheduler(),
		logger:    logger.WithPrefix("sim"),
		loaded:    make(map[string]bool),
		bannerPos: BannerBottomCenter,
	}
}

// Advance moves simulated time and delivers due callbacks.
func (s *Simulator) Advance(dt float64) { s.clock.Advance(dt) }

// Showing returns the ad on screen, if any.
func (s *Simulator) Showing() (Showing, bool) {
	if s.show == nil {
		return Showing{}, false
	}
	return Showing{
		UnitID:    s.show.unitID,
		Remaining: max(s.show.ends-s.clock.Now(), 0),
		Duration:  s.cfg.ShowDurationSeconds,
	}, true
}

// Banner returns the banner unit and anchor while it is visible.
func (s *Simulator) Banner() (unitID string, pos BannerPosition, visible bool) {
	return s.banner.unitID, s.bannerPos, s.banner.visible
}

// Skip ends the ad on screen early with a SKIPPED outcome.
func (s *Simulator) Skip() {
	a := s.show
	if a == nil {
		return
	}
	s.clock.Cancel(a.token)
	a.token = s.clock.After(0, func() { s.finish(a, Skipped) })
}

// Click reports a click on the ad on screen.
func (s *Simulator) Click() {
	if a := s.show; a != nil {
		s.clock.After(0, func() { a.listener.OnShowClick(a.unitID) })
	}
}

// Close drops every pending callback.
func (s *Simulator) Close() {
	s.clock.CancelAll()
	s.deferred = nil
	s.show = nil
}

func (s *Simulator) Initialize(gameID string, testMode bool, l InitListener) {
	if s.initialized || s.initializing {
		return
	}
	if gameID == "" {
		s.clock.After(0, func() { l.OnInitializationFailed(InitInvalidArgument, "empty game id") })
		return
	}

	s.initializing = true
	s.logger.Debug("initializing", "game_id", gameID, "test_mode", testMode)
	s.clock.After(s.cfg.InitLatencySeconds, func() {
		s.initializing = false
		s.initialized = true
		l.OnInitializationComplete()

		pending := s.deferred
		s.deferred = nil
		for _, fn := range pending {
			fn()
		}
	})
}

func (s *Simulator) IsInitialized() bool { return s.initialized }

func (s *Simulator) IsSupported() bool { return s.cfg.Supported }

func (s *Simulator) Load(unitID string, l LoadListener) {
	if s.initializing {
		// Loads issued during initialization start once it completes.
		s.deferred = append(s.deferred, func() { s.Load(unitID, l) })
		return
	}
	if !s.initialized {
		s.clock.After(s.cfg.LoadLatencySeconds, func() {
			l.OnAdFailedToLoad(unitID, LoadInitializeFailed, "ads not initialized")
		})
		return
	}

	filled := s.rng.Float64() < s.cfg.FillRate
	s.clock.After(s.cfg.LoadLatencySeconds, func() {
		if !filled {
			l.OnAdFailedToLoad(unitID, LoadNoFill, "no ad available")
			return
		}
		s.loaded[unitID] = true
		l.OnAdLoaded(unitID)
	})
}

func (s *Simulator) Show(unitID string, l ShowListener) {
	fail := func(err ShowError, msg string) {
		s.clock.After(0, func() { l.OnShowFailure(unitID, err, msg) })
	}

	switch {
	case !s.initialized:
		fail(ShowNotInitialized, "ads not initialized")
		return
	case s.show != nil:
		fail(ShowAlreadyShowing, "another ad is showing")
		return
	case !s.loaded[unitID]:
		fail(ShowNotReady, "ad not loaded")
		return
	}

	delete(s.loaded, unitID)
	if s.rng.Float64() < s.cfg.ShowFailureRate {
		fail(ShowVideoPlayerError, "video player error")
		return
	}

	skipped := s.rng.Float64() < s.cfg.SkipRate
	a := &activeShow{unitID: unitID, listener: l, ends: s.clock.Now() + s.cfg.ShowDurationSeconds}
	s.show = a
	s.clock.After(0, func() { l.OnShowStart(unitID) })
	a.token = s.clock.After(s.cfg.ShowDurationSeconds, func() {
		state := Completed
		if skipped {
			state = Skipped
		}
		s.finish(a, state)
	})
}

func (s *Simulator) finish(a *activeShow, state CompletionState) {
	if s.show == a {
		s.show = nil
	}
	a.listener.OnShowComplete(a.unitID, state)
}

func (s *Simulator) SetBannerPosition(pos BannerPosition) { s.bannerPos = pos }

func (s *Simulator) LoadBanner(unitID string, l BannerListener) {
	s.banner.unitID = unitID
	s.banner.listener = l

	if !s.initialized && !s.initializing {
		s.clock.After(s.cfg.LoadLatencySeconds, func() { l.OnBannerError(unitID, "ads not initialized") })
		return
	}
	if s.initializing {
		s.deferred = append(s.deferred, func() { s.LoadBanner(unitID, l) })
		return
	}

	filled := s.rng.Float64() < s.cfg.FillRate
	s.clock.After(s.cfg.LoadLatencySeconds, func() {
		if !filled {
			l.OnBannerError(unitID, "no fill")
			return
		}
		s.banner.loaded = true
		l.OnBannerLoaded(unitID)
	})
}

func (s *Simulator) ShowBanner(unitID string, l BannerListener) {
	if !s.banner.loaded || s.banner.unitID != unitID {
		s.clock.After(0, func() { l.OnBannerError(unitID, "banner not loaded") })
		return
	}
	s.banner.listener = l
	s.banner.visible = true
	s.clock.After(0, func() { l.OnBannerShown(unitID) })
}

func (s *Simulator) HideBanner() {
	if !s.banner.visible {
		return
	}
	s.banner.visible = false
	if l := s.banner.listener; l != nil {
		unitID := s.banner.unitID
		s.clock.After(0, func() { l.OnBannerHidden(unitID) })
	}
}
