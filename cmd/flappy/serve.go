package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/ads"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/prefs"
	"github.com/vovakirdan/tui-flappy/internal/storage"
	"github.com/vovakirdan/tui-flappy/internal/telemetry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the flappy SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own game. Ad preferences (the ad-free timer
and the game over counter) are kept per SSH user name; the scoreboard is
shared by everyone on the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.flappy/host_key

Metrics:
  Prometheus metrics are served on --metrics-addr at /metrics.
  Pass an empty address to disable them.

Examples:
  flappy serve                           # Listen on :23234 with auto-generated key
  flappy serve --ssh :2222               # Listen on port 2222
  flappy serve --host-key ./my_host_key  # Use specific host key
  flappy serve --prefs redis             # Share preferences through Redis

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", ":9100", "Prometheus metrics address (empty disables)")
	serveCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runServe(_ *cobra.Command, _ []string) {
	if err := serve(); err != nil {
		fail("%v", err)
	}
}

func serve() error {
	logger, err := newLogger(os.Stderr, "flappy-ssh", true)
	if err != nil {
		return err
	}
	if flagLogFile != "" {
		logFile, err := openLogFile(flagLogFile)
		if err != nil {
			return err
		}
		defer logFile.Close()
		logger.SetOutput(logFile)
	}

	flappyCfg, adsCfg, err := loadConfigs()
	if err != nil {
		return err
	}
	prefsCfg, err := loadPrefsConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	opener, err := prefs.Open(ctx, prefsCfg, store, logger)
	if err != nil {
		return err
	}
	defer opener.Close()

	var metrics *ads.Metrics
	if flagMetricsAddr != "" {
		telem := telemetry.NewServer(flagMetricsAddr, logger)
		metrics = ads.NewMetrics(telem.Registry())
		telem.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := telem.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", "error", err)
			}
		}()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	server, err := tui.NewSSHServer(cfg, tui.ServerDeps{
		Flappy:  flappyCfg,
		Ads:     adsCfg,
		Scores:  store,
		Prefs:   opener,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	logger.Info("ready",
		"ssh", cfg.Address,
		"prefs", opener.Backend(),
		"platform", adsCfg.Platform,
	)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// portOf returns the port part of a host:port address.
func portOf(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return port
}
