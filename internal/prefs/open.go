package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-redis/redis/v8"

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// Opener hands out per-profile Prefs over one shared backend connection.
// The SSH server calls For once per session user.
type Opener struct {
	cfg    config.PrefsConfig
	db     *storage.Store
	client *redis.Client

	mu  sync.Mutex
	mem map[string]*Memory
}

// Open connects the backend selected by cfg.Backend. db is required for the
// sqlite backend and ignored otherwise.
func Open(ctx context.Context, cfg config.PrefsConfig, db *storage.Store, logger *log.Logger) (*Opener, error) {
	o := &Opener{cfg: cfg, db: db}

	switch cfg.Backend {
	case "sqlite", "":
		if db == nil {
			return nil, errors.New("prefs: sqlite backend needs an open store")
		}
	case "redis":
		client, err := ConnectRedis(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		o.client = client
	case "memory":
		o.mem = make(map[string]*Memory)
	default:
		return nil, fmt.Errorf("prefs: unknown backend %q", cfg.Backend)
	}

	logger.Debug("prefs backend ready", "backend", o.Backend(), "profile", cfg.Profile)
	return o, nil
}

// Backend returns the name of the active backend.
func (o *Opener) Backend() string {
	switch {
	case o.client != nil:
		return "redis"
	case o.mem != nil:
		return "memory"
	default:
		return "sqlite"
	}
}

// For returns the Prefs of profile. An empty profile uses the configured one.
func (o *Opener) For(profile string) *Prefs {
	if profile == "" {
		profile = o.cfg.Profile
	}

	switch {
	case o.client != nil:
		return New(NewRedis(o.client, profile))
	case o.mem != nil:
		o.mu.Lock()
		defer o.mu.Unlock()

		m, ok := o.mem[profile]
		if !ok {
			m = NewMemory()
			o.mem[profile] = m
		}
		return New(m)
	default:
		return New(o.db.Prefs(profile))
	}
}

// Close releases the Redis connection if one was opened. The sqlite store
// is owned by the caller.
func (o *Opener) Close() error {
	if o.client != nil {
		return o.client.Close()
	}
	return nil
}
