package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagScoresProfile string
	flagScoresLimit   int
	flagScoresTUI     bool
	flagScoresClear   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top high scores, for everyone or for one player.

Examples:
  flappy scores
  flappy scores --profile alice
  flappy scores --tui
  flappy scores --profile alice --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresProfile, "profile", "", "Only show this player's scores")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores interactively")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the selected scores")
}

func runScores(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer store.Close()

	switch {
	case flagScoresClear:
		err = clearScores(store)
	case flagScoresTUI:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		profile := flagScoresProfile
		if profile == "" {
			if cfg, cfgErr := loadPrefsConfig(); cfgErr == nil {
				profile = cfg.Profile
			}
		}
		err = tui.RunScoreboard(store, profile, width, height)
	default:
		err = printScores(store)
	}
	if err != nil {
		store.Close()
		fail("%v", err)
	}
}

func printScores(store *storage.Store) error {
	scores, err := store.TopScores(flagScoresProfile, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	title := "everyone"
	if flagScoresProfile != "" {
		title = flagScoresProfile
	}
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'flappy play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-16s  %-8s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-16s  %-8d  %s\n", i+1, entry.Profile, entry.Score, dateStr)
	}

	stats, err := store.Stats(flagScoresProfile)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Games: %d  Average: %.1f\n", stats.HighScore, stats.Games, stats.AvgScore)
	if !stats.LastPlayed.IsZero() {
		fmt.Printf("Last played: %s\n", stats.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func clearScores(store *storage.Store) error {
	if err := store.ClearScores(flagScoresProfile); err != nil {
		return err
	}
	if flagScoresProfile == "" {
		fmt.Println("Cleared every score.")
	} else {
		fmt.Printf("Cleared scores of %s.\n", flagScoresProfile)
	}
	return nil
}
