package ads

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/prefs"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// fakeProvider records requests; tests deliver callbacks by hand.
type fakeProvider struct {
	initialized bool
	supported   bool
	inits       int

	loads     map[string]int
	shows     map[string]int
	lastLoad  LoadListener
	lastShow  ShowListener
	position  BannerPosition
	bannerLd  int
	bannerSh  int
	bannerHid int
	bannerL   BannerListener
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{supported: true, loads: map[string]int{}, shows: map[string]int{}}
}

func (f *fakeProvider) Initialize(string, bool, InitListener) { f.inits++ }
func (f *fakeProvider) IsInitialized() bool                   { return f.initialized }
func (f *fakeProvider) IsSupported() bool                     { return f.supported }

func (f *fakeProvider) Load(unitID string, l LoadListener) {
	f.loads[unitID]++
	f.lastLoad = l
}

func (f *fakeProvider) Show(unitID string, l ShowListener) {
	f.shows[unitID]++
	f.lastShow = l
}

func (f *fakeProvider) SetBannerPosition(pos BannerPosition) { f.position = pos }

func (f *fakeProvider) LoadBanner(_ string, l BannerListener) {
	f.bannerLd++
	f.bannerL = l
}

func (f *fakeProvider) ShowBanner(_ string, l BannerListener) {
	f.bannerSh++
	f.bannerL = l
}

func (f *fakeProvider) HideBanner() { f.bannerHid++ }

// flag is a View the test flips directly.
type flag bool

func (f *flag) AdFree() bool { return bool(*f) }

func testAdFreeConfig() config.AdFreeConfig {
	return config.AdFreeConfig{
		DurationSeconds:   1800,
		AdsRequired:       3,
		MaxWatchAttempts:  3,
		WatchDelaySeconds: 5,
	}
}

type gateFixture struct {
	gate  *Gate
	sched *Scheduler
	store *prefs.Prefs
	shown int
}

func (f *gateFixture) Show() { f.shown++ }

func newGateFixture(cfg config.AdFreeConfig) *gateFixture {
	f := &gateFixture{sched: NewScheduler(), store: prefs.New(prefs.NewMemory())}
	f.gate = NewGate(cfg, f.store, f.sched, quietLogger(), nil)
	f.gate.SetWatchAd(f)
	return f
}
