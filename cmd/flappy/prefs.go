package main

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/ads"
	"github.com/vovakirdan/tui-flappy/internal/prefs"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var flagPrefsProfile string

var prefsCmd = &cobra.Command{
	Use:   "prefs <show|reset>",
	Short: "Inspect or reset saved ad preferences",
	Long: `Show or clear the values the ad layer persists for a player:
the remaining ad-free time and the game over counter.

The profile defaults to FLAPPY_PREFS_PROFILE ("local"). Players on the
SSH server use their SSH user name.

Examples:
  flappy prefs show
  flappy prefs show --profile alice --prefs redis
  flappy prefs reset`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"show", "reset"},
	Run:       runPrefs,
}

func init() {
	prefsCmd.Flags().StringVar(&flagPrefsProfile, "profile", "", "Player profile (default from FLAPPY_PREFS_PROFILE)")
}

func runPrefs(_ *cobra.Command, args []string) {
	if err := managePrefs(args[0]); err != nil {
		fail("%v", err)
	}
}

func managePrefs(op string) error {
	if !slices.Contains([]string{"show", "reset"}, op) {
		return fmt.Errorf("unknown prefs command %q (want show or reset)", op)
	}

	logger, err := newLogger(os.Stderr, "flappy", false)
	if err != nil {
		return err
	}
	prefsCfg, err := loadPrefsConfig()
	if err != nil {
		return err
	}

	var store *storage.Store
	if prefsCfg.Backend == "sqlite" || prefsCfg.Backend == "" {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()
	}

	opener, err := prefs.Open(context.Background(), prefsCfg, store, logger)
	if err != nil {
		return err
	}
	defer opener.Close()

	profile := flagPrefsProfile
	if profile == "" {
		profile = prefsCfg.Profile
	}
	p := opener.For(profile)

	if op == "reset" {
		for _, k := range []string{prefs.KeyRemainingAdFreeTime, prefs.KeyGameOverCount} {
			if err := p.Delete(k); err != nil {
				return err
			}
		}
		if err := p.Save(); err != nil {
			return err
		}
		fmt.Printf("Reset ad preferences of %s (%s).\n", profile, opener.Backend())
		return nil
	}

	fmt.Printf("Preferences of %s (%s)\n\n", profile, opener.Backend())
	if remaining, ok, err := p.Float(prefs.KeyRemainingAdFreeTime); err != nil {
		return err
	} else if ok {
		fmt.Printf("  %s\n", ads.FormatTimer(remaining))
	} else {
		fmt.Println("  No ad-free period")
	}
	fmt.Printf("  Game overs since last interstitial: %d\n", p.IntOr(prefs.KeyGameOverCount, 0))

	if store != nil {
		all, err := store.Prefs(profile).All(context.Background())
		if err != nil {
			return err
		}
		keys := slices.Sorted(maps.Keys(all))
		if len(keys) > 0 {
			fmt.Println("\nStored keys:")
			for _, k := range keys {
				fmt.Printf("  %-24s %s\n", k, all[k])
			}
		}
	}
	return nil
}
