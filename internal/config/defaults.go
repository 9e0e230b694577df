package config

import (
	_ "embed"
)

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

//go:embed defaults/ads.yaml
var defaultAdsYAML []byte

// DefaultFlappyConfig returns the default Flappy Bird configuration.
func DefaultFlappyConfig() FlappyConfig {
	return FlappyConfig{
		Physics: FlappyPhysics{
			Gravity:      0.25,
			FlapImpulse:  -1.8,
			MaxFallSpeed: 3.0,
			BaseSpeed:    0.8,
		},
		Obstacles: FlappyObstacles{
			PipeWidth:    5,
			PipeSpacing:  40,
			MinGapSize:   8,
			MaxGapSize:   12,
			TopMargin:    3,
			BottomMargin: 3,
		},
		Player: FlappyPlayer{
			X:      10,
			Width:  2,
			Height: 2,
		},
		Difficulty: DifficultyConfig{
			Enabled: true,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 50,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:  1.0,
				GapReduction:     4,
				SpacingReduction: 15,
			},
		},
	}
}

// DefaultAdsConfig returns the default ad layer configuration: 30 minute
// ad-free period earned by watching 3 ads, interstitial every 3 game overs.
func DefaultAdsConfig() AdsConfig {
	return AdsConfig{
		Platform:       "android",
		TestMode:       true,
		GameID:         PlatformIDs{Android: "5712345", IOS: "5712344"},
		BannerPosition: "bottom_center",
		Units: AdUnits{
			Banner:       PlatformIDs{Android: "Banner_Android", IOS: "Banner_iOS"},
			Interstitial: PlatformIDs{Android: "Interstitial_Android", IOS: "Interstitial_iOS"},
			Rewarded:     PlatformIDs{Android: "Rewarded_Android", IOS: "Rewarded_iOS"},
		},
		AdFree: AdFreeConfig{
			DurationSeconds:        30 * 60,
			AdsRequired:            3,
			MaxWatchAttempts:       3,
			WatchDelaySeconds:      5,
			PersistIntervalSeconds: 1,
		},
		Interstitial: InterstitialConfig{
			GameOverThreshold:   3,
			RetryMaxAttempts:    5,
			RetryInitialSeconds: 2,
			RetryMaxSeconds:     60,
		},
		Simulator: SimulatorConfig{
			Supported:           true,
			FillRate:            0.9,
			ShowFailureRate:     0.05,
			SkipRate:            0.2,
			InitLatencySeconds:  0.2,
			LoadLatencySeconds:  0.5,
			ShowDurationSeconds: 3,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for "flappy" or "ads".
func GetDefaultYAML(name string) []byte {
	switch name {
	case "flappy":
		return defaultFlappyYAML
	case "ads":
		return defaultAdsYAML
	default:
		return nil
	}
}
