// Package config provides YAML-based configuration for the game and the ad
// layer, difficulty management, and environment overrides.
package config

// FlappyConfig contains all configuration for the Flappy Bird game.
type FlappyConfig struct {
	Physics    FlappyPhysics    `yaml:"physics"`
	Obstacles  FlappyObstacles  `yaml:"obstacles"`
	Player     FlappyPlayer     `yaml:"player"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FlappyPhysics defines physics parameters for Flappy Bird.
type FlappyPhysics struct {
	Gravity      float64 `yaml:"gravity"`
	FlapImpulse  float64 `yaml:"flap_impulse"`
	MaxFallSpeed float64 `yaml:"max_fall_speed"`
	BaseSpeed    float64 `yaml:"base_speed"` // cells per tick
}

// FlappyObstacles defines pipe parameters.
type FlappyObstacles struct {
	PipeWidth    int `yaml:"pipe_width"`
	PipeSpacing  int `yaml:"pipe_spacing"`
	MinGapSize   int `yaml:"min_gap_size"`
	MaxGapSize   int `yaml:"max_gap_size"`
	TopMargin    int `yaml:"top_margin"`
	BottomMargin int `yaml:"bottom_margin"`
}

// FlappyPlayer defines the bird's hitbox.
type FlappyPlayer struct {
	X      int `yaml:"x"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`
	GapReduction     int     `yaml:"gap_reduction"`
	SpacingReduction int     `yaml:"spacing_reduction"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// AdsConfig configures the ad provider, the three ad surfaces and the
// ad-free period. Every field can be overridden from FLAPPY_ADS_* variables.
type AdsConfig struct {
	Platform       string             `yaml:"platform" env:"PLATFORM"` // android, ios or editor
	TestMode       bool               `yaml:"test_mode" env:"TEST_MODE"`
	GameID         PlatformIDs        `yaml:"game_id" envPrefix:"GAME_ID_"`
	BannerPosition string             `yaml:"banner_position" env:"BANNER_POSITION"`
	Units          AdUnits            `yaml:"units" envPrefix:"UNIT_"`
	AdFree         AdFreeConfig       `yaml:"ad_free" envPrefix:"FREE_"`
	Interstitial   InterstitialConfig `yaml:"interstitial" envPrefix:"INTERSTITIAL_"`
	Simulator      SimulatorConfig    `yaml:"simulator" envPrefix:"SIM_"`
}

// PlatformIDs holds one identifier per mobile platform.
type PlatformIDs struct {
	Android string `yaml:"android" env:"ANDROID"`
	IOS     string `yaml:"ios" env:"IOS"`
}

// AdUnits lists the unit ids of every ad surface.
type AdUnits struct {
	Banner       PlatformIDs `yaml:"banner" envPrefix:"BANNER_"`
	Interstitial PlatformIDs `yaml:"interstitial" envPrefix:"INTERSTITIAL_"`
	Rewarded     PlatformIDs `yaml:"rewarded" envPrefix:"REWARDED_"`
}

// AdFreeConfig tunes the watch-to-earn offer and the ad-free countdown.
type AdFreeConfig struct {
	DurationSeconds        float64 `yaml:"duration_seconds" env:"DURATION_SECONDS"`
	AdsRequired            int     `yaml:"ads_required" env:"ADS_REQUIRED"`
	MaxWatchAttempts       int     `yaml:"max_watch_attempts" env:"MAX_WATCH_ATTEMPTS"`
	WatchDelaySeconds      float64 `yaml:"watch_delay_seconds" env:"WATCH_DELAY_SECONDS"`
	PersistIntervalSeconds float64 `yaml:"persist_interval_seconds" env:"PERSIST_INTERVAL_SECONDS"` // 0 = every tick
}

// InterstitialConfig controls when interstitials are shown and whether a
// failed load is retried automatically.
type InterstitialConfig struct {
	GameOverThreshold   int     `yaml:"game_over_threshold" env:"GAME_OVER_THRESHOLD"`
	RetryLoadFailures   bool    `yaml:"retry_load_failures" env:"RETRY_LOAD_FAILURES"`
	RetryMaxAttempts    int     `yaml:"retry_max_attempts" env:"RETRY_MAX_ATTEMPTS"`
	RetryInitialSeconds float64 `yaml:"retry_initial_seconds" env:"RETRY_INITIAL_SECONDS"`
	RetryMaxSeconds     float64 `yaml:"retry_max_seconds" env:"RETRY_MAX_SECONDS"`
}

// SimulatorConfig drives the built-in simulated ad network.
type SimulatorConfig struct {
	Seed                int64   `yaml:"seed" env:"SEED"`
	FillRate            float64 `yaml:"fill_rate" env:"FILL_RATE"`
	ShowFailureRate     float64 `yaml:"show_failure_rate" env:"SHOW_FAILURE_RATE"`
	SkipRate            float64 `yaml:"skip_rate" env:"SKIP_RATE"`
	InitLatencySeconds  float64 `yaml:"init_latency_seconds" env:"INIT_LATENCY_SECONDS"`
	LoadLatencySeconds  float64 `yaml:"load_latency_seconds" env:"LOAD_LATENCY_SECONDS"`
	ShowDurationSeconds float64 `yaml:"show_duration_seconds" env:"SHOW_DURATION_SECONDS"`
	Supported           bool    `yaml:"supported" env:"SUPPORTED"`
}

// PrefsConfig selects where player preferences are persisted.
// It is read from the environment only.
type PrefsConfig struct {
	Backend       string `env:"FLAPPY_PREFS_BACKEND" envDefault:"sqlite"` // sqlite, redis or memory
	Profile       string `env:"FLAPPY_PREFS_PROFILE" envDefault:"local"`
	RedisAddr     string `env:"FLAPPY_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"FLAPPY_REDIS_PASSWORD"`
	RedisDB       int    `env:"FLAPPY_REDIS_DB" envDefault:"0"`
	RedisRetries  int    `env:"FLAPPY_REDIS_MAX_RETRIES" envDefault:"5"`
}
