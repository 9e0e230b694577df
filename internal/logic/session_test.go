package logic

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/prefs"
)

type recorder struct {
	inits, rewardedStarts, shows int
	opens, closes               int
	offerOpen                   bool
	revives                     int
	reviveOK                    bool
}

func (r *recorder) Initialize() { r.inits++ }
func (r *recorder) Start()      { r.rewardedStarts++ }
func (r *recorder) Show()       { r.shows++ }
func (r *recorder) OpenOffer() {
	r.opens++
	r.offerOpen = true
}

func (r *recorder) CloseOffer() {
	r.closes++
	r.offerOpen = false
}

func (r *recorder) OfferVisible() bool { return r.offerOpen }
func (r *recorder) Revive() bool {
	r.revives++
	return r.reviveOK
}

func newSession(t *testing.T, store *prefs.Prefs) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{reviveOK: true}
	s := New(Deps{
		Store:        store,
		Ads:          rec,
		Rewarded:     rec,
		Interstitial: rec,
		Offer:        rec,
		Game:         rec,
		Logger:       log.New(io.Discard),
	}, 3)
	return s, rec
}

func TestStartLoadsCountAndAds(t *testing.T) {
	store := prefs.New(prefs.NewMemory())
	if err := store.SetInt(prefs.KeyGameOverCount, 2); err != nil {
		t.Fatal(err)
	}

	s, rec := newSession(t, store)
	s.Start()

	if s.GameOverCount() != 2 {
		t.Errorf("count = %d, want 2", s.GameOverCount())
	}
	if rec.inits != 1 || rec.rewardedStarts != 1 {
		t.Errorf("inits=%d rewarded=%d, want 1 each", rec.inits, rec.rewardedStarts)
	}
}

func TestStartDefaultsToZero(t *testing.T) {
	s, _ := newSession(t, prefs.New(prefs.NewMemory()))
	s.Start()
	if s.GameOverCount() != 0 {
		t.Errorf("count = %d, want 0", s.GameOverCount())
	}
}

func TestGameOverThreshold(t *testing.T) {
	store := prefs.New(prefs.NewMemory())
	if err := store.SetInt(prefs.KeyGameOverCount, 2); err != nil {
		t.Fatal(err)
	}

	s, rec := newSession(t, store)
	s.Start()
	s.GameOver()

	if rec.shows != 1 {
		t.Errorf("interstitial shows = %d, want 1", rec.shows)
	}
	if s.GameOverCount() != 0 {
		t.Errorf("count = %d, want 0", s.GameOverCount())
	}
	if got := store.IntOr(prefs.KeyGameOverCount, -1); got != 0 {
		t.Errorf("persisted count = %d, want 0", got)
	}
	if !s.GameOverVisible() {
		t.Error("game over screen should be visible")
	}
}

func TestGameOverCounts(t *testing.T) {
	tests := []struct {
		name      string
		gameOvers int
		wantShows int
		wantCount int
	}{
		{"one", 1, 0, 1},
		{"two", 2, 0, 2},
		{"three", 3, 1, 0},
		{"seven", 7, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := prefs.New(prefs.NewMemory())
			s, rec := newSession(t, store)
			s.Start()
			for i := 0; i < tt.gameOvers; i++ {
				s.GameOver()
				s.Restart()
			}
			if rec.shows != tt.wantShows {
				t.Errorf("shows = %d, want %d", rec.shows, tt.wantShows)
			}
			if got := store.IntOr(prefs.KeyGameOverCount, -1); got != tt.wantCount {
				t.Errorf("persisted count = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestScoreAndRestart(t *testing.T) {
	s, rec := newSession(t, prefs.New(prefs.NewMemory()))
	s.Start()

	s.AddScore(1)
	s.AddScore(2)
	if s.Score() != 3 {
		t.Errorf("score = %d, want 3", s.Score())
	}

	s.GameOver()
	s.Restart()
	if s.Score() != 0 || s.GameOverVisible() {
		t.Errorf("restart left score=%d visible=%v", s.Score(), s.GameOverVisible())
	}
	if rec.inits != 2 || rec.rewardedStarts != 2 {
		t.Errorf("restart should re-request ads: inits=%d rewarded=%d", rec.inits, rec.rewardedStarts)
	}
}

func TestOfferScreen(t *testing.T) {
	s, rec := newSession(t, prefs.New(prefs.NewMemory()))

	s.GoAdFree()
	if !s.OfferVisible() || rec.opens != 1 {
		t.Errorf("GoAdFree: visible=%v opens=%d", s.OfferVisible(), rec.opens)
	}
	s.GoBackToAds()
	if s.OfferVisible() || rec.closes != 1 {
		t.Errorf("GoBackToAds: visible=%v closes=%d", s.OfferVisible(), rec.closes)
	}

	// The panel can hide itself, e.g. after No Thanks.
	s.GoAdFree()
	rec.offerOpen = false
	if s.OfferVisible() {
		t.Error("OfferVisible should follow the panel")
	}
}

func TestResumeAfterReward(t *testing.T) {
	s, rec := newSession(t, prefs.New(prefs.NewMemory()))
	s.Start()

	if s.ResumeAfterReward() {
		t.Fatal("nothing to resume while alive")
	}

	s.GameOver()
	if !s.ResumeAfterReward() {
		t.Fatal("first reward should revive")
	}
	if s.GameOverVisible() {
		t.Error("game over screen should close on revive")
	}

	s.GameOver()
	if s.ResumeAfterReward() {
		t.Error("second reward in one run should not revive")
	}
	if rec.revives != 1 {
		t.Errorf("revives = %d, want 1", rec.revives)
	}

	s.Restart()
	s.GameOver()
	if !s.ResumeAfterReward() {
		t.Error("a new run gets a new revive")
	}
}
