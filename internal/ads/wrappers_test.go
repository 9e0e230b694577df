package ads

import (
	"testing"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

const (
	interUnit  = "Interstitial_Android"
	rewardUnit = "Rewarded_Android"
	bannerUnit = "Banner_Android"
)

func newTestInterstitial(p Provider, v View, cfg config.InterstitialConfig, s *Scheduler) *Interstitial {
	return NewInterstitial(p, v, interUnit, cfg, s, quietLogger(), nil)
}

func TestInterstitialShowCompleteReloadsOnce(t *testing.T) {
	for _, state := range []CompletionState{Completed, Skipped} {
		p := newFakeProvider()
		var adFree flag
		i := newTestInterstitial(p, &adFree, config.InterstitialConfig{}, NewScheduler())

		i.Load()
		i.OnAdLoaded(interUnit)
		if !i.Loaded() {
			t.Fatal("OnAdLoaded should mark the ad loaded")
		}

		i.Show()
		if p.shows[interUnit] != 1 {
			t.Fatalf("Show() did not reach the provider")
		}

		i.OnShowComplete(interUnit, state)
		if i.Loaded() {
			t.Errorf("%v: Loaded() should be false after completion", state)
		}
		if p.loads[interUnit] != 2 {
			t.Errorf("%v: loads = %d, expected exactly one reload", state, p.loads[interUnit])
		}
	}
}

func TestInterstitialGateAndReadiness(t *testing.T) {
	p := newFakeProvider()
	adFree := flag(true)
	i := newTestInterstitial(p, &adFree, config.InterstitialConfig{}, NewScheduler())

	i.Load()
	i.Show()
	if p.loads[interUnit] != 0 || p.shows[interUnit] != 0 {
		t.Error("ad-free gate should drop load and show")
	}

	adFree = false
	i.Show()
	if p.shows[interUnit] != 0 {
		t.Error("Show() before load should not reach the provider")
	}

	// Callbacks for other units are ignored
	i.OnAdLoaded("other")
	if i.Loaded() {
		t.Error("loaded flag set by another unit")
	}
}

func TestInterstitialLoadFailureNoRetryByDefault(t *testing.T) {
	p := newFakeProvider()
	var adFree flag
	s := NewScheduler()
	i := newTestInterstitial(p, &adFree, config.InterstitialConfig{}, s)

	i.Load()
	i.OnAdFailedToLoad(interUnit, LoadNoFill, "no fill")
	s.Advance(60)

	if p.loads[interUnit] != 1 || s.Pending() != 0 {
		t.Errorf("loads = %d, pending = %d; load failure must not retry by default", p.loads[interUnit], s.Pending())
	}
}

func TestInterstitialShowFailureReloads(t *testing.T) {
	p := newFakeProvider()
	var adFree flag
	i := newTestInterstitial(p, &adFree, config.InterstitialConfig{}, NewScheduler())

	i.OnAdLoaded(interUnit)
	i.Show()
	i.OnShowFailure(interUnit, ShowVideoPlayerError, "boom")

	if i.Loaded() || p.loads[interUnit] != 1 {
		t.Errorf("loaded = %v, loads = %d after show failure", i.Loaded(), p.loads[interUnit])
	}
}

func TestInterstitialRetryBackoff(t *testing.T) {
	p := newFakeProvider()
	var adFree flag
	s := NewScheduler()
	cfg := config.InterstitialConfig{
		RetryLoadFailures:   true,
		RetryMaxAttempts:    2,
		RetryInitialSeconds: 2,
		RetryMaxSeconds:     30,
	}
	i := newTestInterstitial(p, &adFree, cfg, s)

	i.Load()
	i.OnAdFailedToLoad(interUnit, LoadNoFill, "")
	s.Advance(1)
	if p.loads[interUnit] != 1 {
		t.Fatal("retry fired before the initial interval")
	}
	s.Advance(1)
	if p.loads[interUnit] != 2 {
		t.Fatalf("loads = %d, expected retry after 2s", p.loads[interUnit])
	}

	// Second failure waits longer (multiplier 1.5)
	i.OnAdFailedToLoad(interUnit, LoadNoFill, "")
	s.Advance(2)
	if p.loads[interUnit] != 2 {
		t.Fatal("second retry fired too early")
	}
	s.Advance(1)
	if p.loads[interUnit] != 3 {
		t.Fatalf("loads = %d, expected second retry at 3s", p.loads[interUnit])
	}

	// Attempts exhausted
	i.OnAdFailedToLoad(interUnit, LoadNoFill, "")
	s.Advance(100)
	if p.loads[interUnit] != 3 {
		t.Errorf("loads = %d, retries should stop after the max attempts", p.loads[interUnit])
	}

	// Success resets the schedule
	i.OnAdLoaded(interUnit)
	i.OnAdFailedToLoad(interUnit, LoadNoFill, "")
	s.Advance(2)
	if p.loads[interUnit] != 4 {
		t.Errorf("loads = %d, expected retries to resume after a success", p.loads[interUnit])
	}

	i.OnAdFailedToLoad(interUnit, LoadNoFill, "")
	i.Close()
	s.Advance(100)
	if p.loads[interUnit] != 4 {
		t.Error("Close should cancel the pending retry")
	}
}

func TestInterstitialReloadsWhenAdsReturn(t *testing.T) {
	p := newFakeProvider()
	var adFree flag
	i := newTestInterstitial(p, &adFree, config.InterstitialConfig{}, NewScheduler())

	i.OnModeChange(ModeAdsActive)
	if p.loads[interUnit] != 1 {
		t.Errorf("loads = %d, expected a load when ads return", p.loads[interUnit])
	}

	i.OnAdLoaded(interUnit)
	i.OnModeChange(ModeAdsActive)
	if p.loads[interUnit] != 1 {
		t.Error("already loaded ad should not reload")
	}
}

func TestRewardedButtonLifecycle(t *testing.T) {
	p := newFakeProvider()
	var adFree flag
	r := NewRewarded(p, &adFree, rewardUnit, quietLogger(), nil)

	rewards := 0
	r.OnReward(func() { rewards++ })

	r.Start()
	if r.Interactable() {
		t.Fatal("button should start disabled")
	}
	if p.loads[rewardUnit] != 1 {
		t.Fatalf("Start should load, loads = %d", p.loads[rewardUnit])
	}

	r.Show()
	if p.shows[rewardUnit] != 0 {
		t.Fatal("disabled button reached the provider")
	}

	r.OnAdLoaded(rewardUnit)
	if !r.Interactable() {
		t.Fatal("button should enable on load")
	}

	r.Show()
	r.Show()
	if p.shows[rewardUnit] != 1 {
		t.Errorf("shows = %d, double press should show once", p.shows[rewardUnit])
	}
	if r.Interactable() {
		t.Error("button should disable on show")
	}

	r.OnShowComplete(rewardUnit, Skipped)
	if rewards != 0 {
		t.Error("skipped ad granted a reward")
	}
	r.OnShowComplete(rewardUnit, Completed)
	if rewards != 1 {
		t.Errorf("rewards = %d, expected 1", rewards)
	}
}

func TestRewardedFailuresReloadImmediately(t *testing.T) {
	p := newFakeProvider()
	var adFree flag
	r := NewRewarded(p, &adFree, rewardUnit, quietLogger(), nil)

	r.OnAdFailedToLoad(rewardUnit, LoadNoFill, "")
	if p.loads[rewardUnit] != 1 {
		t.Errorf("load failure should reload, loads = %d", p.loads[rewardUnit])
	}
	r.OnShowFailure(rewardUnit, ShowNotReady, "")
	if p.loads[rewardUnit] != 2 {
		t.Errorf("show failure should reload, loads = %d", p.loads[rewardUnit])
	}
}

func TestRewardedWithoutHook(t *testing.T) {
	p := newFakeProvider()
	var adFree flag
	r := NewRewarded(p, &adFree, rewardUnit, quietLogger(), nil)

	// The default hook is a no-op.
	r.OnShowComplete(rewardUnit, Completed)
}

func TestRewardedSkipsDuringAdFree(t *testing.T) {
	p := newFakeProvider()
	adFree := flag(true)
	r := NewRewarded(p, &adFree, rewardUnit, quietLogger(), nil)

	r.Start()
	if p.loads[rewardUnit] != 0 {
		t.Error("rewarded loaded during an ad-free period")
	}

	adFree = false
	r.OnModeChange(ModeAdsActive)
	if p.loads[rewardUnit] != 1 {
		t.Error("rewarded should load when ads return")
	}
}

func TestBannerLifecycle(t *testing.T) {
	p := newFakeProvider()
	var adFree flag
	b := NewBanner(p, &adFree, bannerUnit, BannerTopCenter, quietLogger(), nil)

	b.Start()
	if p.position != BannerTopCenter || p.bannerLd != 1 {
		t.Fatalf("position = %q, loads = %d", p.position, p.bannerLd)
	}

	b.OnBannerLoaded(bannerUnit)
	if p.bannerSh != 1 {
		t.Fatal("banner should show on load")
	}
	b.OnBannerShown(bannerUnit)
	if !b.Visible() {
		t.Error("Visible() should follow the shown callback")
	}

	// Failures are logged only
	b.OnBannerError(bannerUnit, "no fill")
	if p.bannerLd != 1 {
		t.Error("banner error should not reload")
	}

	adFree = true
	b.OnModeChange(ModeAdFree)
	if p.bannerHid != 1 {
		t.Error("banner should hide when a period starts")
	}

	b.Destroy()
	if p.bannerHid != 2 {
		t.Error("Destroy should hide regardless of gate state")
	}
}

func TestBannerSkippedWhenAdFree(t *testing.T) {
	p := newFakeProvider()
	adFree := flag(true)
	b := NewBanner(p, &adFree, bannerUnit, BannerBottomCenter, quietLogger(), nil)

	b.Start()
	if p.bannerLd != 0 {
		t.Error("banner loaded during an ad-free period")
	}

	// A load that lands after a period started is not shown
	b.OnBannerLoaded(bannerUnit)
	if p.bannerSh != 0 {
		t.Error("banner shown during an ad-free period")
	}

	adFree = false
	b.OnModeChange(ModeAdsActive)
	if p.bannerLd != 1 {
		t.Error("banner should load when ads return")
	}
}

func TestInitializer(t *testing.T) {
	p := newFakeProvider()
	cfg := config.DefaultAdsConfig()
	cfg.GameID = config.PlatformIDs{Android: "and-1", IOS: "ios-1"}

	i := NewInitializer(p, cfg, PlatformEditor, quietLogger(), nil)
	if i.GameID() != "and-1" {
		t.Errorf("editor should resolve the Android id, got %q", i.GameID())
	}
	if NewInitializer(p, cfg, PlatformIOS, quietLogger(), nil).GameID() != "ios-1" {
		t.Error("iOS id not resolved")
	}

	i.Initialize()
	if p.inits != 1 {
		t.Fatalf("inits = %d", p.inits)
	}

	p.initialized = true
	i.Initialize()
	p.initialized = false
	p.supported = false
	i.Initialize()
	if p.inits != 1 {
		t.Errorf("inits = %d; initialized or unsupported providers must not re-initialize", p.inits)
	}
}

func TestParsers(t *testing.T) {
	if p, err := ParsePlatform("IOS"); err != nil || p != PlatformIOS {
		t.Errorf("ParsePlatform(IOS) = %q, %v", p, err)
	}
	if _, err := ParsePlatform("symbian"); err == nil {
		t.Error("unknown platform accepted")
	}
	if p, _ := ParseBannerPosition(""); p != BannerBottomCenter {
		t.Errorf("default banner position = %q", p)
	}
	if p, err := ParseBannerPosition("TOP_LEFT"); err != nil || !p.Top() {
		t.Errorf("ParseBannerPosition(TOP_LEFT) = %q, %v", p, err)
	}
	if _, err := ParseBannerPosition("middle"); err == nil {
		t.Error("unknown banner position accepted")
	}
}
