package tui

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/ads"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/prefs"
)

const frameDT = 0.25

type savedScore struct {
	profile string
	score   int
}

type scoreLog struct {
	saved   []savedScore
	updates map[int64]int
}

func (l *scoreLog) SaveScore(profile string, score int) (int64, error) {
	l.saved = append(l.saved, savedScore{profile, score})
	return int64(len(l.saved)), nil
}

func (l *scoreLog) UpdateScore(id int64, score int) error {
	if l.updates == nil {
		l.updates = map[int64]int{}
	}
	l.updates[id] = score
	return nil
}

func testAdsConfig() config.AdsConfig {
	cfg := config.DefaultAdsConfig()
	cfg.Simulator = config.SimulatorConfig{
		Seed:                1,
		Supported:           true,
		FillRate:            1,
		InitLatencySeconds:  0.2,
		LoadLatencySeconds:  0.5,
		ShowDurationSeconds: 3,
	}
	return cfg
}

func newTestStack(t *testing.T, store *prefs.Prefs, scores ScoreRecorder) *Stack {
	t.Helper()
	s := buildTestStack(t, store, scores)
	s.Start()
	return s
}

func buildTestStack(t *testing.T, store *prefs.Prefs, scores ScoreRecorder) *Stack {
	t.Helper()
	s, err := NewStack(StackOptions{
		Flappy:  config.DefaultFlappyConfig(),
		Ads:     testAdsConfig(),
		Prefs:   store,
		Scores:  scores,
		Profile: "alice",
		Logger:  log.New(io.Discard),
	}, core.RuntimeConfig{ScreenW: 80, ScreenH: 26, TickRate: 60, Seed: 7})
	if err != nil {
		t.Fatalf("NewStack() failed: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

// settle lets the simulated network answer without stepping the game.
func settle(s *Stack) {
	for range 8 {
		s.Sim.Advance(frameDT)
	}
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func runFrames(s *Stack, n int) {
	for range n {
		s.Frame(frameDT, core.NewInputFrame())
	}
}

// fallToGameOver steps until the bird dies.
func fallToGameOver(t *testing.T, s *Stack) {
	t.Helper()
	for range 200 {
		s.Frame(frameDT, core.NewInputFrame())
		if s.Session.GameOverVisible() {
			return
		}
	}
	t.Fatal("bird never died")
}

func TestNewStackRejectsBadConfig(t *testing.T) {
	cfg := testAdsConfig()
	cfg.BannerPosition = "sideways"
	_, err := NewStack(StackOptions{
		Flappy: config.DefaultFlappyConfig(),
		Ads:    cfg,
		Prefs:  prefs.New(prefs.NewMemory()),
		Logger: log.New(io.Discard),
	}, core.DefaultConfig())
	if err == nil {
		t.Error("expected an error for an unknown banner position")
	}
}

func TestStackStartLoadsAds(t *testing.T) {
	s := newTestStack(t, prefs.New(prefs.NewMemory()), nil)
	settle(s)

	if !s.Interstitial.Loaded() {
		t.Error("interstitial should be loaded")
	}
	if !s.Rewarded.Interactable() {
		t.Error("rewarded button should be enabled")
	}
	if !s.Banner.Visible() {
		t.Error("banner should be visible")
	}
	if s.Game.State().GameOver || s.Overlay() != OverlayNone {
		t.Error("a fresh run should be playing")
	}
}

func TestStackThirdGameOverShowsInterstitial(t *testing.T) {
	store := prefs.New(prefs.NewMemory())
	if err := store.SetInt(prefs.KeyGameOverCount, 2); err != nil {
		t.Fatal(err)
	}

	s := newTestStack(t, store, nil)
	settle(s)
	fallToGameOver(t, s)

	showing, ok := s.Sim.Showing()
	if !ok || showing.UnitID != "Interstitial_Android" {
		t.Fatalf("expected the interstitial on screen, got %+v (%v)", showing, ok)
	}
	if s.Overlay() != OverlayAd {
		t.Errorf("overlay = %v, want ad", s.Overlay())
	}
	if got := store.IntOr(prefs.KeyGameOverCount, -1); got != 0 {
		t.Errorf("persisted count = %d, want 0", got)
	}

	runFrames(s, 16)
	if s.Overlay() != OverlayGameOver {
		t.Fatalf("overlay = %v after the ad, want game over", s.Overlay())
	}
	if !s.Interstitial.Loaded() {
		t.Error("interstitial should reload after completing")
	}

	s.Frame(frameDT, input(core.ActionRestart))
	if s.Overlay() != OverlayNone || s.Session.Score() != 0 || s.Game.State().GameOver {
		t.Error("restart should start a new run")
	}
}

func TestStackRecordsRevivedRunOnce(t *testing.T) {
	scores := &scoreLog{}
	s := newTestStack(t, prefs.New(prefs.NewMemory()), scores)
	settle(s)

	s.Session.AddScore(5)
	fallToGameOver(t, s)
	if len(scores.saved) != 1 || scores.saved[0] != (savedScore{"alice", 5}) {
		t.Fatalf("saved = %v, want one record for alice", scores.saved)
	}

	s.Frame(0, input(core.ActionRewarded))
	if s.Overlay() != OverlayAd {
		t.Fatalf("overlay = %v, want the rewarded ad", s.Overlay())
	}
	runFrames(s, 14)
	if s.Overlay() != OverlayNone || s.Game.State().GameOver {
		t.Fatal("completed rewarded ad should revive the bird")
	}

	s.Session.AddScore(3)
	fallToGameOver(t, s)
	if len(scores.saved) != 1 {
		t.Errorf("revived run saved twice: %v", scores.saved)
	}
	if scores.updates[1] != 8 {
		t.Errorf("updated score = %d, want 8", scores.updates[1])
	}
}

func TestStackWatchToEarnAdFree(t *testing.T) {
	store := prefs.New(prefs.NewMemory())
	s := newTestStack(t, store, nil)
	settle(s)

	s.Frame(0, input(core.ActionGoAdFree))
	if s.Overlay() != OverlayOffer || !s.Gate.Affordances().OfferVisible {
		t.Fatal("go ad-free should open the offer")
	}

	for i := range 3 {
		s.Frame(0, input(core.ActionWatchAd))
		if s.Overlay() != OverlayAd {
			t.Fatalf("watch %d: expected an ad on screen", i+1)
		}
		runFrames(s, 24)
		if s.Gate.AdsWatched() != (i+1)%3 && !s.Gate.AdFree() {
			t.Fatalf("watch %d: progress = %d", i+1, s.Gate.AdsWatched())
		}
	}

	if !s.Gate.AdFree() {
		t.Fatal("three watched ads should start the ad-free period")
	}
	if s.Banner.Visible() {
		t.Error("banner should hide during the ad-free period")
	}
	if s.Rewarded.Interactable() {
		t.Error("rewarded button should be disabled during the ad-free period")
	}
	if v := store.FloatOr(prefs.KeyRemainingAdFreeTime, 0); v < 1795 || v > 1800 {
		t.Errorf("persisted remaining = %v", v)
	}

	s.Frame(0, input(core.ActionContinue))
	if s.Overlay() != OverlayNone {
		t.Errorf("continue should close the offer, overlay = %v", s.Overlay())
	}

	// A new session resumes the period and never shows the banner.
	s.Close()
	resumed := newTestStack(t, store, nil)
	settle(resumed)
	if !resumed.Gate.AdFree() {
		t.Fatal("persisted period should resume")
	}
	if resumed.Banner.Visible() || resumed.Interstitial.Loaded() || resumed.Rewarded.Interactable() {
		t.Error("no ad surface should load during a resumed period")
	}
}

func TestStackNoThanksClosesOffer(t *testing.T) {
	s := newTestStack(t, prefs.New(prefs.NewMemory()), nil)
	settle(s)

	s.Frame(0, input(core.ActionGoAdFree))
	if s.Overlay() != OverlayOffer {
		t.Fatalf("overlay = %v, want offer", s.Overlay())
	}

	s.Frame(0, input(core.ActionNoThanks))
	if s.Overlay() != OverlayNone {
		t.Fatalf("no thanks should close the offer, overlay = %v", s.Overlay())
	}
	if got := s.Gate.Affordances().Confirmation; got != ads.MsgOfferDismiss {
		t.Errorf("confirmation = %q", got)
	}

	s.Frame(0, input(core.ActionWatchAd))
	if s.Overlay() == OverlayAd || s.Gate.TimesWatched() != 0 || s.Gate.Watching() {
		t.Error("watch must not start once the offer is dismissed")
	}
}

func TestStackPeriodEndShowsOffer(t *testing.T) {
	store := prefs.New(prefs.NewMemory())
	s := newTestStack(t, store, nil)
	settle(s)

	s.Gate.StartAdFreePeriod(true)
	if s.Overlay() != OverlayNone {
		t.Fatalf("overlay = %v during the period, want none", s.Overlay())
	}

	s.Frame(1801, core.NewInputFrame())
	if s.Gate.AdFree() {
		t.Fatal("period should have ended")
	}
	if s.Overlay() != OverlayOffer {
		t.Fatalf("overlay = %v after the period, want offer", s.Overlay())
	}
	if got := s.Gate.Affordances().Confirmation; got != ads.MsgAdFreeEnded {
		t.Errorf("confirmation = %q, want %q", got, ads.MsgAdFreeEnded)
	}
	if ok, _ := store.Has(prefs.KeyRemainingAdFreeTime); ok {
		t.Error("remaining time should be cleared")
	}

	s.Frame(0, input(core.ActionContinue))
	if s.Overlay() != OverlayNone {
		t.Errorf("continue should close the offer, overlay = %v", s.Overlay())
	}
}

func TestStackFrameAfterClose(t *testing.T) {
	s := newTestStack(t, prefs.New(prefs.NewMemory()), nil)
	s.Close()

	s.Frame(frameDT, input(core.ActionFlap))
	if s.Game.State().Score != 0 || s.Sched.Pending() != 0 {
		t.Error("closed stack should not advance")
	}
}

func TestStackResizeKeepsChrome(t *testing.T) {
	s := newTestStack(t, prefs.New(prefs.NewMemory()), nil)
	s.Resize(100, 40)

	if rc := s.Runtime(); rc.ScreenW != 100 || rc.ScreenH != 40 {
		t.Errorf("runtime = %+v", rc)
	}
	if pf := s.playfield(); pf.ScreenH != 40-chromeRows {
		t.Errorf("playfield height = %d, want %d", pf.ScreenH, 40-chromeRows)
	}
}
