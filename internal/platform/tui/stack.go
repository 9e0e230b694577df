package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/ads"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/logic"
	"github.com/vovakirdan/tui-flappy/internal/prefs"
)

// Rows reserved below the playfield: the banner strip and the status bar.
const chromeRows = 2

// ScoreRecorder keeps finished runs for the scoreboard.
type ScoreRecorder interface {
	SaveScore(profile string, score int) (int64, error)
	UpdateScore(id int64, score int) error
}

// StackOptions configures one player's game and ad layer.
type StackOptions struct {
	Flappy  config.FlappyConfig
	Ads     config.AdsConfig
	Prefs   *prefs.Prefs
	Scores  ScoreRecorder // may be nil
	Profile string
	Metrics *ads.Metrics // shared across sessions; may be nil
	Logger  *log.Logger
}

// Overlay is what covers the playfield.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayAd
	OverlayOffer
	OverlayGameOver
)

// Stack is the composition root of one session: the game, the bookkeeping
// and the ad layer, all driven from a single frame loop.
type Stack struct {
	Game         *flappy.Game
	Session      *logic.Session
	Gate         *ads.Gate
	Sim          *ads.Simulator
	Sched        *ads.Scheduler
	Interstitial *ads.Interstitial
	Rewarded     *ads.Rewarded
	Banner       *ads.Banner
	Ads          *ads.Initializer

	scores    ScoreRecorder
	profile   string
	logger    *log.Logger
	runtime   core.RuntimeConfig
	fixedSeed bool

	runScoreID int64
	unsubs     []func()
	closed     bool
}

// NewStack builds every component for one session. rc is the full terminal
// size; the playfield leaves room for the banner and status rows.
func NewStack(opts StackOptions, rc core.RuntimeConfig) (*Stack, error) {
	platform, err := ads.ParsePlatform(opts.Ads.Platform)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	pos, err := ads.ParseBannerPosition(opts.Ads.BannerPosition)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	logger := opts.Logger
	if opts.Profile != "" {
		logger = logger.With("profile", opts.Profile)
	}

	s := &Stack{
		scores:    opts.Scores,
		profile:   opts.Profile,
		logger:    logger,
		fixedSeed: rc.Seed != 0,
	}
	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}
	s.runtime = rc

	s.Sched = ads.NewScheduler()
	s.Sim = ads.NewSimulator(opts.Ads.Simulator, logger)
	s.Gate = ads.NewGate(opts.Ads.AdFree, opts.Prefs, s.Sched, logger.WithPrefix("gate"), opts.Metrics)

	units := opts.Ads.Units
	s.Interstitial = ads.NewInterstitial(s.Sim, s.Gate, ads.FromConfig(units.Interstitial).Resolve(platform),
		opts.Ads.Interstitial, s.Sched, logger, opts.Metrics)
	s.Rewarded = ads.NewRewarded(s.Sim, s.Gate, ads.FromConfig(units.Rewarded).Resolve(platform), logger, opts.Metrics)
	s.Banner = ads.NewBanner(s.Sim, s.Gate, ads.FromConfig(units.Banner).Resolve(platform), pos, logger, opts.Metrics)
	s.Ads = ads.NewInitializer(s.Sim, opts.Ads, platform, logger.WithPrefix("ads"), opts.Metrics)
	s.Gate.SetWatchAd(s.Interstitial)

	s.Game = flappy.New(opts.Flappy)
	s.Session = logic.New(logic.Deps{
		Store:        opts.Prefs,
		Ads:          s.Ads,
		Rewarded:     s.Rewarded,
		Interstitial: s.Interstitial,
		Offer:        s.Gate,
		Game:         s.Game,
		Logger:       logger.WithPrefix("logic"),
	}, opts.Ads.Interstitial.GameOverThreshold)
	s.Rewarded.OnReward(func() { s.Session.ResumeAfterReward() })

	s.unsubs = subscribeAll(s.Gate, s.Interstitial.OnModeChange, s.Rewarded.OnModeChange, s.Banner.OnModeChange)
	return s, nil
}

func subscribeAll(w ads.Watcher, observers ...func(ads.Mode)) []func() {
	unsubs := make([]func(), 0, len(observers))
	for _, fn := range observers {
		unsubs = append(unsubs, w.Subscribe(fn))
	}
	return unsubs
}

// Start restores a persisted ad-free period, starts the run and requests
// the first ads.
func (s *Stack) Start() {
	s.Gate.Restore()
	s.Game.Reset(s.playfield())
	s.Session.Start()
	s.Interstitial.Load()
	s.Banner.Start()
}

func (s *Stack) playfield() core.RuntimeConfig {
	rc := s.runtime
	rc.ScreenH = max(rc.ScreenH-chromeRows, 4)
	return rc
}

// Resize adapts the playfield to a new terminal size.
func (s *Stack) Resize(w, h int) {
	s.runtime.ScreenW = w
	s.runtime.ScreenH = h
	pf := s.playfield()
	s.Game.Resize(pf.ScreenW, pf.ScreenH)
}

// Runtime returns the full terminal configuration.
func (s *Stack) Runtime() core.RuntimeConfig { return s.runtime }

// Overlay reports what is drawn over the playfield.
func (s *Stack) Overlay() Overlay {
	if _, ok := s.Sim.Showing(); ok {
		return OverlayAd
	}
	if s.Session.OfferVisible() {
		return OverlayOffer
	}
	if s.Session.GameOverVisible() {
		return OverlayGameOver
	}
	return OverlayNone
}

// Frame runs one tick: deferred tasks, provider callbacks, the ad-free
// countdown, then input and the game step.
func (s *Stack) Frame(dt float64, in core.InputFrame) {
	if s.closed {
		return
	}

	s.Sched.Advance(dt)
	s.Sim.Advance(dt)
	s.Gate.Tick(dt)

	switch s.Overlay() {
	case OverlayAd:
		switch {
		case in.Has(core.ActionBack):
			s.Sim.Skip()
		case in.Has(core.ActionWatchAd):
			s.Sim.Click()
		}

	case OverlayOffer:
		switch {
		case in.Has(core.ActionWatchAd):
			s.Gate.OnWatchRequested()
		case in.Has(core.ActionNoThanks):
			s.Gate.NoThanks()
		case in.Has(core.ActionContinue), in.Has(core.ActionBack):
			s.Session.GoBackToAds()
		}

	case OverlayGameOver:
		switch {
		case in.Has(core.ActionRestart):
			s.Restart()
		case in.Has(core.ActionRewarded):
			s.Rewarded.Show()
		case in.Has(core.ActionGoAdFree):
			s.Session.GoAdFree()
		}

	default:
		if in.Has(core.ActionGoAdFree) {
			s.Session.GoAdFree()
			return
		}
		s.step(in)
	}
}

func (s *Stack) step(in core.InputFrame) {
	result := s.Game.Step(in)
	for _, e := range result.Events {
		switch e.Kind {
		case core.EventScored:
			s.Session.AddScore(e.Amount)
		case core.EventGameOver:
			s.Session.GameOver()
			s.recordScore()
		}
	}
}

// recordScore saves the run once; a revived run updates its record.
func (s *Stack) recordScore() {
	score := s.Session.Score()
	if s.scores == nil || score <= 0 {
		return
	}

	if s.runScoreID != 0 {
		if err := s.scores.UpdateScore(s.runScoreID, score); err != nil {
			s.logger.Warn("cannot update score", "error", err)
		}
		return
	}

	id, err := s.scores.SaveScore(s.profile, score)
	if err != nil {
		s.logger.Warn("cannot save score", "error", err)
		return
	}
	s.runScoreID = id
}

// Restart begins a new run.
func (s *Stack) Restart() {
	if s.fixedSeed {
		s.runtime.Seed++
	} else {
		s.runtime.Seed = time.Now().UnixNano()
	}
	s.runScoreID = 0
	s.Game.Reset(s.playfield())
	s.Session.Restart()
}

// Close tears the session down: pending continuations are cancelled, the
// remaining ad-free time is flushed and the banner hidden.
func (s *Stack) Close() {
	if s.closed {
		return
	}
	s.closed = true

	for _, unsub := range s.unsubs {
		unsub()
	}
	s.Gate.Close()
	s.Interstitial.Close()
	s.Banner.Destroy()
	s.Sim.Close()
	s.Sched.CancelAll()
}
