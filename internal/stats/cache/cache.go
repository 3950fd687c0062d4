// Package cache stores computed report bundles.
//
// Keys are namespaced by a generation counter. Invalidate bumps the counter,
// which orphans every bundle written before it; orphans expire with their TTL.
// Redis serves multi-instance deployments and Memory single-process runs.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a bundle may be served after a missed
// invalidation.
const DefaultTTL = 5 * time.Minute

const defaultPrefix = "etatcivil:report"

type settings struct {
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*settings)

// WithTTL sets the lifetime of cached bundles. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithPrefix namespaces the keys, e.g. per environment sharing one Redis.
func WithPrefix(prefix string) Option {
	return func(s *settings) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithClock sets the clock used for expiry by Memory.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

func newSettings(opts []Option) settings {
	s := settings{prefix: defaultPrefix, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

func (s settings) key(generation int64, key string) string {
	return fmt.Sprintf("%s:g%d:%s", s.prefix, generation, key)
}

// Redis caches bundles as JSON strings.
type Redis struct {
	client *redis.Client
	settings
}

// NewRedis constructs a Redis-backed cache. The client lifecycle is managed
// by the caller.
func NewRedis(client *redis.Client, opts ...Option) *Redis {
	return &Redis{client: client, settings: newSettings(opts)}
}

func (c *Redis) generationKey() string {
	return c.prefix + ":generation"
}

func (c *Redis) generation(ctx context.Context) (int64, error) {
	raw, err := c.client.Get(ctx, c.generationKey()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Get decodes the bundle under key into dst. A missing key is a miss, not
// an error.
func (c *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return false, fmt.Errorf("reading cache generation: %w", err)
	}
	raw, err := c.client.Get(ctx, c.key(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decoding cached %s: %w", key, err)
	}
	return true, nil
}

// Set stores v under key with the configured TTL.
func (c *Redis) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return fmt.Errorf("reading cache generation: %w", err)
	}
	return c.client.Set(ctx, c.key(gen, key), raw, c.ttl).Err()
}

// Invalidate starts a new generation; INCR is atomic across instances.
func (c *Redis) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

// Memory is the in-process cache. Entries are JSON encoded so a hit never
// shares memory with the caller.
type Memory struct {
	mu         sync.Mutex
	generation int64
	entries    map[string]memoryEntry
	settings
}

type memoryEntry struct {
	raw       []byte
	expiresAt time.Time
}

func NewMemory(opts ...Option) *Memory {
	return &Memory{entries: make(map[string]memoryEntry), settings: newSettings(opts)}
}

func (c *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	k := c.key(c.generation, key)
	e, ok := c.entries[k]
	if ok && !c.now().Before(e.expiresAt) {
		delete(c.entries, k)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(e.raw, dst); err != nil {
		return false, fmt.Errorf("decoding cached %s: %w", key, err)
	}
	return true, nil
}

func (c *Memory) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[c.key(c.generation, key)] = memoryEntry{raw: raw, expiresAt: c.now().Add(c.ttl)}
	return nil
}

// Invalidate drops every entry; nothing else can reach the old generation.
func (c *Memory) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	clear(c.entries)
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
