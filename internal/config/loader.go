package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// loadYAML fills dst from the first source that parses.
// Search order: customPath -> ~/.flappy/configs/<name>.yaml -> ./configs/<name>.yaml -> embedded.
// A custom path that cannot be read or parsed is an error; the other
// locations are optional and skipped on failure.
func loadYAML(customPath, name string, embedded []byte, dst any) error {
	// 1. Custom path (if specified)
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return nil
	}

	// 2. User config, then 3. local configs directory
	filename := name + ".yaml"
	candidates := []string{userConfigPath(filename), filepath.Join("configs", filename)}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, dst); err == nil {
			return nil
		}
	}

	// 4. Embedded defaults
	return yaml.Unmarshal(embedded, dst)
}

// LoadFlappy loads the game configuration.
func LoadFlappy(customPath string) (FlappyConfig, error) {
	var cfg FlappyConfig
	if err := loadYAML(customPath, "flappy", defaultFlappyYAML, &cfg); err != nil {
		if customPath != "" {
			return cfg, err
		}
		return DefaultFlappyConfig(), nil
	}
	return cfg, nil
}

// LoadAds loads the ad layer configuration, applies FLAPPY_ADS_* overrides
// from the environment (and an optional .env file) and validates the result.
func LoadAds(customPath string) (AdsConfig, error) {
	cfg := DefaultAdsConfig()
	if err := loadYAML(customPath, "ads", defaultAdsYAML, &cfg); err != nil {
		if customPath != "" {
			return cfg, err
		}
		cfg = DefaultAdsConfig()
	}

	if err := loadDotEnv(); err != nil {
		return cfg, err
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "FLAPPY_ADS_"}); err != nil {
		return cfg, fmt.Errorf("failed to parse ads config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadPrefs reads the preference backend selection from the environment.
func LoadPrefs() (PrefsConfig, error) {
	var cfg PrefsConfig
	if err := loadDotEnv(); err != nil {
		return cfg, err
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse prefs config from environment: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads ./.env when present. Existing variables win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Validate rejects configurations the ad layer cannot run with.
func (c *AdsConfig) Validate() error {
	switch strings.ToLower(c.Platform) {
	case "android", "ios", "editor":
	default:
		return fmt.Errorf("invalid ads platform %q (must be android, ios or editor)", c.Platform)
	}
	if c.AdFree.DurationSeconds <= 0 {
		return fmt.Errorf("ad_free.duration_seconds must be positive, got %v", c.AdFree.DurationSeconds)
	}
	if c.AdFree.AdsRequired < 1 {
		return fmt.Errorf("ad_free.ads_required must be at least 1, got %d", c.AdFree.AdsRequired)
	}
	if c.AdFree.WatchDelaySeconds < 0 || c.AdFree.PersistIntervalSeconds < 0 {
		return errors.New("ad_free delays must not be negative")
	}
	if c.Interstitial.GameOverThreshold < 1 {
		return fmt.Errorf("interstitial.game_over_threshold must be at least 1, got %d", c.Interstitial.GameOverThreshold)
	}
	for name, rate := range map[string]float64{
		"fill_rate":         c.Simulator.FillRate,
		"show_failure_rate": c.Simulator.ShowFailureRate,
		"skip_rate":         c.Simulator.SkipRate,
	} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("simulator.%s must be within [0, 1], got %v", name, rate)
		}
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".flappy", "configs", filename)
}

// ApplyFlappyPreset modifies the config based on a difficulty preset.
func ApplyFlappyPreset(cfg *FlappyConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
