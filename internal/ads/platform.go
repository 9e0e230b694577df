package ads

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

// Platform selects which identifier of a pair is used.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformEditor  Platform = "editor"
)

// ParsePlatform accepts android, ios or editor. Empty means editor.
func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(s)); p {
	case PlatformAndroid, PlatformIOS, PlatformEditor:
		return p, nil
	case "":
		return PlatformEditor, nil
	}
	return "", fmt.Errorf("ads: unknown platform %q", s)
}

// UnitIDs is a per-platform pair of identifiers.
type UnitIDs struct {
	Android string
	IOS     string
}

// FromConfig converts a configured id pair.
func FromConfig(ids config.PlatformIDs) UnitIDs {
	return UnitIDs{Android: ids.Android, IOS: ids.IOS}
}

// Resolve picks the id for p. The editor uses the Android id.
func (u UnitIDs) Resolve(p Platform) string {
	if p == PlatformIOS {
		return u.IOS
	}
	return u.Android
}

// Initializer starts the provider once per process and logs the outcome.
type Initializer struct {
	provider Provider
	gameID   string
	testMode bool
	logger   *log.Logger
	metrics  *Metrics
}

// NewInitializer resolves the game id for platform.
func NewInitializer(p Provider, cfg config.AdsConfig, platform Platform, logger *log.Logger, m *Metrics) *Initializer {
	return &Initializer{
		provider: p,
		gameID:   FromConfig(cfg.GameID).Resolve(platform),
		testMode: cfg.TestMode,
		logger:   logger,
		metrics:  m,
	}
}

// GameID returns the resolved game id.
func (i *Initializer) GameID() string { return i.gameID }

// Initialize asks the provider to initialize unless it already is, or the
// platform is unsupported. Safe to call on every restart.
func (i *Initializer) Initialize() {
	if i.provider.IsInitialized() {
		return
	}
	if !i.provider.IsSupported() {
		i.logger.Warn("ads not supported on this platform")
		return
	}
	i.logger.Debug("initializing ads", "game_id", i.gameID, "test_mode", i.testMode)
	i.provider.Initialize(i.gameID, i.testMode, i)
}

func (i *Initializer) OnInitializationComplete() {
	i.logger.Info("ads initialization complete", "game_id", i.gameID)
	i.metrics.initialized(true)
}

func (i *Initializer) OnInitializationFailed(err InitError, message string) {
	i.logger.Error("ads initialization failed", "error", err, "message", message)
	i.metrics.initialized(false)
}
