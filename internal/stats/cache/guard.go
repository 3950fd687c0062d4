package cache

import (
	"context"
	"log/slog"

	"etatcivil/pkg/platform/circuit"
)

// Backend is the cache the guard protects.
type Backend interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Invalidate(ctx context.Context) error
}

// Guarded skips an unreachable backend. While the breaker is open reads are
// misses and writes are dropped, apart from one trial call per cooldown. When the
// breaker closes again the backend is invalidated, since writes made during
// the outage never reached it.
type Guarded struct {
	backend Backend
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewGuarded(backend Backend, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{backend: backend, breaker: breaker, logger: logger}
}

func (g *Guarded) Get(ctx context.Context, key string, dst any) (bool, error) {
	if !g.breaker.Allow() {
		return false, nil
	}
	hit, err := g.backend.Get(ctx, key, dst)
	g.record(ctx, err)
	return hit, err
}

func (g *Guarded) Set(ctx context.Context, key string, v any) error {
	if !g.breaker.Allow() {
		return nil
	}
	err := g.backend.Set(ctx, key, v)
	g.record(ctx, err)
	return err
}

// Invalidate always reaches the backend so a recovered cache cannot serve a
// generation older than the last write.
func (g *Guarded) Invalidate(ctx context.Context) error {
	err := g.backend.Invalidate(ctx)
	g.record(ctx, err)
	return err
}

func (g *Guarded) record(ctx context.Context, err error) {
	if err != nil {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "report cache unavailable, bypassing", "breaker", g.breaker.Name(), "error", err)
		}
		return
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "report cache recovered", "breaker", g.breaker.Name())
		if err := g.backend.Invalidate(ctx); err != nil {
			g.logger.WarnContext(ctx, "report cache invalidation after recovery failed", "error", err)
		}
	}
}
