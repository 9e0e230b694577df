// flappy is a terminal Flappy Bird with a simulated ad layer: banners,
// interstitials, rewarded revives and a watch-to-earn ad-free period.
//
// Usage:
//
//	flappy play              - Play in this terminal
//	flappy serve             - Start SSH server for remote play
//	flappy scores            - Show high scores
//	flappy prefs show|reset  - Inspect or clear saved ad preferences
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.flappy/scores.db)
//	--config <path>       - Custom game config YAML
//	--ads-config <path>   - Custom ads config YAML
//	--prefs <backend>     - Preference backend: sqlite, redis or memory
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagAdsConfig  string
	flagDifficulty string
	flagPrefs      string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappy",
	Short: "Flappy Bird in your terminal, ads included",
	Long: `Flappy is a terminal Flappy Bird with a simulated ad network.

Every third game over shows an interstitial, a rewarded ad revives the
bird once per run, and watching three ads in a row earns a period of
ad-free play that survives restarts.

Available commands:
  play     - Play in this terminal
  serve    - Start SSH server for remote play
  scores   - View high scores
  prefs    - Inspect or reset saved ad preferences

Examples:
  flappy play
  flappy play --difficulty hard
  flappy serve --ssh :2222 --metrics-addr :9100
  flappy scores --profile alice
  FLAPPY_PREFS_BACKEND=redis flappy play`,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.flappy/scores.db", "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagAdsConfig, "ads-config", "", "Path to custom ads config YAML")
	pf.StringVar(&flagPrefs, "prefs", "", "Preference backend override: sqlite, redis or memory")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Log file (play defaults to ~/.flappy/flappy.log)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(prefsCmd)
}

// fail prints err and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// newLogger builds a logger at the configured level writing to w.
func newLogger(w io.Writer, prefix string, timestamps bool) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: timestamps,
	}), nil
}

// openLogFile opens path for appending, defaulting to ~/.flappy/flappy.log.
// The terminal belongs to the game while playing.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".flappy", "flappy.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}

// loadConfigs reads the game and ads configuration and applies the
// difficulty preset.
func loadConfigs() (config.FlappyConfig, config.AdsConfig, error) {
	flappyCfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return flappyCfg, config.AdsConfig{}, err
	}
	if flagDifficulty != "" {
		preset := config.DifficultyPreset(flagDifficulty)
		switch preset {
		case config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
			config.ApplyFlappyPreset(&flappyCfg, preset)
		default:
			return flappyCfg, config.AdsConfig{}, fmt.Errorf("unknown difficulty %q", flagDifficulty)
		}
	}

	adsCfg, err := config.LoadAds(flagAdsConfig)
	if err != nil {
		return flappyCfg, adsCfg, err
	}
	return flappyCfg, adsCfg, nil
}

// loadPrefsConfig reads the preference backend settings, honouring --prefs.
func loadPrefsConfig() (config.PrefsConfig, error) {
	cfg, err := config.LoadPrefs()
	if err != nil {
		return cfg, err
	}
	if flagPrefs != "" {
		cfg.Backend = flagPrefs
	}
	return cfg, nil
}
