// Package prefs is a small scalar key-value preference store in the spirit
// of a game engine's player prefs: typed float/int accessors over a string
// backend, with memory, Redis and SQLite backends.
package prefs

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// Well-known keys.
const (
	KeyRemainingAdFreeTime = "RemainingAdFreeTime"
	KeyGameOverCount       = "gameOverCount"
)

// Backend stores raw string values for a single profile.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Save flushes buffered writes. Backends that write through may no-op.
	Save(ctx context.Context) error
}

// Prefs adds typed accessors on top of a Backend. Calls are synchronous and
// bounded by a per-call timeout so a slow backend cannot stall a frame forever.
type Prefs struct {
	backend Backend
	timeout time.Duration
}

// New wraps a backend.
func New(backend Backend) *Prefs {
	return &Prefs{backend: backend, timeout: 2 * time.Second}
}

func (p *Prefs) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), p.timeout)
}

// Has reports whether key is present.
func (p *Prefs) Has(key string) (bool, error) {
	ctx, cancel := p.ctx()
	defer cancel()

	_, ok, err := p.backend.Get(ctx, key)
	return ok, err
}

// Float returns the float stored under key; ok is false when absent.
func (p *Prefs) Float(key string) (float64, bool, error) {
	ctx, cancel := p.ctx()
	defer cancel()

	raw, ok, err := p.backend.Get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("prefs: %s is not a float: %w", key, err)
	}
	return v, true, nil
}

// FloatOr returns the float under key, or def when absent or unreadable.
func (p *Prefs) FloatOr(key string, def float64) float64 {
	v, ok, err := p.Float(key)
	if err != nil || !ok {
		return def
	}
	return v
}

// SetFloat stores v under key.
func (p *Prefs) SetFloat(key string, v float64) error {
	ctx, cancel := p.ctx()
	defer cancel()

	return p.backend.Set(ctx, key, strconv.FormatFloat(v, 'g', -1, 64))
}

// Int returns the int stored under key; ok is false when absent.
func (p *Prefs) Int(key string) (int, bool, error) {
	ctx, cancel := p.ctx()
	defer cancel()

	raw, ok, err := p.backend.Get(ctx, key)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("prefs: %s is not an int: %w", key, err)
	}
	return v, true, nil
}

// IntOr returns the int under key, or def when absent or unreadable.
func (p *Prefs) IntOr(key string, def int) int {
	v, ok, err := p.Int(key)
	if err != nil || !ok {
		return def
	}
	return v
}

// SetInt stores v under key.
func (p *Prefs) SetInt(key string, v int) error {
	ctx, cancel := p.ctx()
	defer cancel()

	return p.backend.Set(ctx, key, strconv.Itoa(v))
}

// Delete removes key. Deleting a missing key is not an error.
func (p *Prefs) Delete(key string) error {
	ctx, cancel := p.ctx()
	defer cancel()

	return p.backend.Delete(ctx, key)
}

// Save flushes the backend.
func (p *Prefs) Save() error {
	ctx, cancel := p.ctx()
	defer cancel()

	return p.backend.Save(ctx)
}
