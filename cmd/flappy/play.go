package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/prefs"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Space/Up/W  - Flap
  P           - Pause
  R           - Restart (after game over)
  V           - Watch an ad to revive (after game over)
  A           - Go ad-free: watch ads to earn ad-free play
  Enter/Y     - Watch ad (offer) or click ad (while showing)
  Esc/B       - Skip ad / close the offer
  Ctrl+S      - Save screenshot
  Q/Ctrl+C    - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Logs go to ~/.flappy/flappy.log unless --log-file is given.

Examples:
  flappy play
  flappy play --difficulty hard
  flappy play --seed 42 --prefs memory
  flappy play --ads-config ./ads.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(_ *cobra.Command, _ []string) {
	if err := play(); err != nil {
		fail("%v", err)
	}
}

func play() error {
	logFile, err := openLogFile(flagLogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	logger, err := newLogger(logFile, "flappy", true)
	if err != nil {
		return err
	}

	flappyCfg, adsCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	prefsCfg, err := loadPrefsConfig()
	if err != nil {
		return err
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("playing without score storage", "error", err)
		store = nil
		// Continue without storage - game still works
		if prefsCfg.Backend == "sqlite" || prefsCfg.Backend == "" {
			prefsCfg.Backend = "memory"
		}
	} else {
		defer store.Close()
	}

	opener, err := prefs.Open(context.Background(), prefsCfg, store, logger)
	if err != nil {
		return err
	}
	defer opener.Close()

	opts := tui.StackOptions{
		Flappy:  flappyCfg,
		Ads:     adsCfg,
		Prefs:   opener.For(""),
		Profile: prefsCfg.Profile,
		Logger:  logger,
	}
	if store != nil {
		opts.Scores = store
	}

	stack, err := tui.NewStack(opts, core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	})
	if err != nil {
		return err
	}

	if err := tui.Run(stack, adsCfg.AdFree.DurationSeconds); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}
