// Package logic keeps the score and the persisted game-over count, and
// decides when a game over earns an interstitial.
package logic

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/prefs"
)

// Counter is the subset of prefs the session persists through.
type Counter interface {
	Int(key string) (int, bool, error)
	SetInt(key string, v int) error
	Save() error
}

// Initializer starts the ad provider.
type Initializer interface {
	Initialize()
}

// RewardedLoader requests the rewarded ad behind the continue button.
type RewardedLoader interface {
	Start()
}

// Shower shows a full-screen ad.
type Shower interface {
	Show()
}

// OfferPanel opens and closes the ad-free offer. It owns the offer's
// visibility, which also changes when a watch is refused or a period ends.
type OfferPanel interface {
	OpenOffer()
	CloseOffer()
	OfferVisible() bool
}

// Reviver brings the bird back after a rewarded ad.
type Reviver interface {
	Revive() bool
}

// Deps wires a session to the ad layer and the game.
type Deps struct {
	Store        Counter
	Ads          Initializer
	Rewarded     RewardedLoader
	Interstitial Shower
	Offer        OfferPanel
	Game         Reviver
	Logger       *log.Logger
}

// Session is the bookkeeping for one player.
type Session struct {
	deps      Deps
	threshold int

	score           int
	gameOverCount   int
	gameOverVisible bool
	revived         bool
}

// New creates a session showing an interstitial every threshold game overs.
func New(deps Deps, threshold int) *Session {
	if threshold < 1 {
		threshold = 1
	}
	return &Session{deps: deps, threshold: threshold}
}

// Start loads the game-over count, initializes ads and requests the
// rewarded ad.
func (s *Session) Start() {
	count, _, err := s.deps.Store.Int(prefs.KeyGameOverCount)
	if err != nil {
		s.deps.Logger.Warn("cannot read game over count", "error", err)
	}
	s.gameOverCount = count
	s.deps.Logger.Debug("loaded game over count", "count", count)

	s.startAds()
}

func (s *Session) startAds() {
	s.deps.Ads.Initialize()
	s.deps.Rewarded.Start()
}

// AddScore adds n points.
func (s *Session) AddScore(n int) { s.score += n }

// Score returns the current score.
func (s *Session) Score() int { return s.score }

// GameOverCount returns the persisted game-over count.
func (s *Session) GameOverCount() int { return s.gameOverCount }

// GameOverVisible reports whether the game-over screen is up.
func (s *Session) GameOverVisible() bool { return s.gameOverVisible }

// OfferVisible reports whether the ad-free screen is up.
func (s *Session) OfferVisible() bool { return s.deps.Offer.OfferVisible() }

// GameOver shows the game-over screen and counts it. Every threshold-th
// game over shows an interstitial and resets the count.
func (s *Session) GameOver() {
	s.gameOverVisible = true
	s.gameOverCount++
	s.persistCount()
	s.deps.Logger.Info("game over", "score", s.score, "count", s.gameOverCount)

	if s.gameOverCount >= s.threshold {
		s.deps.Logger.Info("showing interstitial")
		s.deps.Interstitial.Show()
		s.gameOverCount = 0
		s.persistCount()
	}
}

func (s *Session) persistCount() {
	if err := s.deps.Store.SetInt(prefs.KeyGameOverCount, s.gameOverCount); err != nil {
		s.deps.Logger.Warn("cannot persist game over count", "error", err)
		return
	}
	if err := s.deps.Store.Save(); err != nil {
		s.deps.Logger.Warn("cannot save prefs", "error", err)
	}
}

// Restart clears the run and asks for ads again. The caller resets the game.
func (s *Session) Restart() {
	s.score = 0
	s.gameOverVisible = false
	s.revived = false
	s.startAds()
}

// GoAdFree opens the ad-free screen.
func (s *Session) GoAdFree() {
	s.deps.Offer.OpenOffer()
}

// GoBackToAds closes the ad-free screen.
func (s *Session) GoBackToAds() {
	s.deps.Offer.CloseOffer()
}

// ResumeAfterReward revives the bird once per run. It is the rewarded ad's
// completion hook.
func (s *Session) ResumeAfterReward() bool {
	if s.revived || !s.gameOverVisible {
		return false
	}
	if !s.deps.Game.Revive() {
		return false
	}
	s.revived = true
	s.gameOverVisible = false
	s.deps.Logger.Info("revived after rewarded ad", "score", s.score)
	return true
}
