// Package ads wraps an advertisement provider behind an ad-free gate.
//
// Everything here runs on the host frame loop: provider callbacks, deferred
// tasks and gate ticks are all delivered from the same goroutine, so the
// wrappers keep plain fields. Only the gate's ad-free flag is atomic, so
// other goroutines (metrics, rendering) can read it.
package ads

import (
	"fmt"
	"strings"
)

// CompletionState is the terminal outcome of a shown ad.
type CompletionState int

const (
	CompletionUnknown CompletionState = iota
	Completed
	Skipped
)

func (c CompletionState) String() string {
	switch c {
	case Completed:
		return "COMPLETED"
	case Skipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

// InitError classifies provider initialization failures.
type InitError int

const (
	InitInternalError InitError = iota
	InitInvalidArgument
	InitAdBlockerDetected
)

func (e InitError) String() string {
	switch e {
	case InitInvalidArgument:
		return "INVALID_ARGUMENT"
	case InitAdBlockerDetected:
		return "AD_BLOCKER_DETECTED"
	default:
		return "INTERNAL_ERROR"
	}
}

// LoadError classifies load failures.
type LoadError int

const (
	LoadInitializeFailed LoadError = iota
	LoadInternalError
	LoadInvalidArgument
	LoadNoFill
	LoadTimeout
)

func (e LoadError) String() string {
	switch e {
	case LoadInitializeFailed:
		return "INITIALIZE_FAILED"
	case LoadInvalidArgument:
		return "INVALID_ARGUMENT"
	case LoadNoFill:
		return "NO_FILL"
	case LoadTimeout:
		return "TIMEOUT"
	default:
		return "INTERNAL_ERROR"
	}
}

// ShowError classifies show failures.
type ShowError int

const (
	ShowNotInitialized ShowError = iota
	ShowNotReady
	ShowVideoPlayerError
	ShowInvalidArgument
	ShowNoConnection
	ShowAlreadyShowing
	ShowInternalError
)

func (e ShowError) String() string {
	switch e {
	case ShowNotInitialized:
		return "NOT_INITIALIZED"
	case ShowNotReady:
		return "NOT_READY"
	case ShowVideoPlayerError:
		return "VIDEO_PLAYER_ERROR"
	case ShowInvalidArgument:
		return "INVALID_ARGUMENT"
	case ShowNoConnection:
		return "NO_CONNECTION"
	case ShowAlreadyShowing:
		return "ALREADY_SHOWING"
	default:
		return "INTERNAL_ERROR"
	}
}

// BannerPosition anchors the banner on screen.
type BannerPosition string

const (
	BannerTopLeft      BannerPosition = "top_left"
	BannerTopCenter    BannerPosition = "top_center"
	BannerTopRight     BannerPosition = "top_right"
	BannerBottomLeft   BannerPosition = "bottom_left"
	BannerBottomCenter BannerPosition = "bottom_center"
	BannerBottomRight  BannerPosition = "bottom_right"
	BannerCenter       BannerPosition = "center"
)

// ParseBannerPosition accepts the names above in any case. Empty means
// bottom center.
func ParseBannerPosition(s string) (BannerPosition, error) {
	if s == "" {
		return BannerBottomCenter, nil
	}
	p := BannerPosition(strings.ToLower(s))
	switch p {
	case BannerTopLeft, BannerTopCenter, BannerTopRight,
		BannerBottomLeft, BannerBottomCenter, BannerBottomRight, BannerCenter:
		return p, nil
	}
	return "", fmt.Errorf("ads: unknown banner position %q", s)
}

// Top reports whether the banner is anchored to the top edge.
func (p BannerPosition) Top() bool {
	return strings.HasPrefix(string(p), "top")
}

// InitListener receives initialization outcomes.
type InitListener interface {
	OnInitializationComplete()
	OnInitializationFailed(err InitError, message string)
}

// LoadListener receives load outcomes for full-screen ads.
type LoadListener interface {
	OnAdLoaded(unitID string)
	OnAdFailedToLoad(unitID string, err LoadError, message string)
}

// ShowListener receives show lifecycle events for full-screen ads.
type ShowListener interface {
	OnShowStart(unitID string)
	OnShowClick(unitID string)
	OnShowComplete(unitID string, state CompletionState)
	OnShowFailure(unitID string, err ShowError, message string)
}

// BannerListener receives banner load and display events.
type BannerListener interface {
	OnBannerLoaded(unitID string)
	OnBannerError(unitID string, message string)
	OnBannerShown(unitID string)
	OnBannerHidden(unitID string)
	OnBannerClicked(unitID string)
}

// Provider is the advertisement SDK. Calls return immediately; outcomes
// arrive later through the listeners, on the host loop.
type Provider interface {
	Initialize(gameID string, testMode bool, l InitListener)
	IsInitialized() bool
	IsSupported() bool

	Load(unitID string, l LoadListener)
	Show(unitID string, l ShowListener)

	SetBannerPosition(pos BannerPosition)
	LoadBanner(unitID string, l BannerListener)
	ShowBanner(unitID string, l BannerListener)
	HideBanner()
}
