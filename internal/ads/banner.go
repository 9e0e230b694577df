package ads

import (
	"github.com/charmbracelet/log"
)

// Banner wraps the banner surface. Failures are logged only.
type Banner struct {
	unitID   string
	position BannerPosition
	view     View
	provider Provider
	logger   *log.Logger
	metrics  *Metrics

	visible bool
}

// NewBanner creates the wrapper.
func NewBanner(p Provider, view View, unitID string, pos BannerPosition, logger *log.Logger, m *Metrics) *Banner {
	return &Banner{
		unitID:   unitID,
		position: pos,
		view:     view,
		provider: p,
		logger:   logger.WithPrefix("banner"),
		metrics:  m,
	}
}

// Visible reports whether the provider confirmed the banner is on screen.
func (b *Banner) Visible() bool { return b.visible }

// Position returns the configured anchor.
func (b *Banner) Position() BannerPosition { return b.position }

// Start positions the banner and loads it unless the gate is ad-free.
func (b *Banner) Start() {
	b.provider.SetBannerPosition(b.position)
	if b.view.AdFree() {
		b.logger.Debug("ad-free period active, skipping banner")
		b.metrics.skipped(SurfaceBanner, "load")
		return
	}
	b.load()
}

func (b *Banner) load() {
	b.logger.Debug("loading banner", "unit", b.unitID)
	b.metrics.request(SurfaceBanner, "load")
	b.provider.LoadBanner(b.unitID, b)
}

// OnModeChange hides the banner for a period and brings it back after.
func (b *Banner) OnModeChange(m Mode) {
	if m == ModeAdFree {
		b.provider.HideBanner()
		return
	}
	b.load()
}

// Destroy hides the banner whatever the gate state.
func (b *Banner) Destroy() {
	b.provider.HideBanner()
	b.visible = false
}

func (b *Banner) OnBannerLoaded(unitID string) {
	b.logger.Info("banner loaded", "unit", unitID)
	b.metrics.event(SurfaceBanner, "loaded")
	if b.view.AdFree() {
		return
	}
	b.metrics.request(SurfaceBanner, "show")
	b.provider.ShowBanner(b.unitID, b)
}

func (b *Banner) OnBannerError(unitID, message string) {
	b.logger.Error("banner error", "unit", unitID, "message", message)
	b.metrics.event(SurfaceBanner, "load_failed")
}

func (b *Banner) OnBannerShown(unitID string) {
	b.logger.Debug("banner visible", "unit", unitID)
	b.metrics.event(SurfaceBanner, "shown")
	b.visible = true
}

func (b *Banner) OnBannerHidden(unitID string) {
	b.logger.Debug("banner hidden", "unit", unitID)
	b.visible = false
}

func (b *Banner) OnBannerClicked(unitID string) {
	b.logger.Info("banner clicked", "unit", unitID)
	b.metrics.event(SurfaceBanner, "clicked")
}
