package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryCache - потокобезопасный in-memory кэш с TTL и LRU-вытеснением.
// Фоновая горутина периодически выбрасывает просроченные записи, чтобы
// долгоживущий пакетный прогон не накапливал мусор между обращениями.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*memEntry

	defaultTTL time.Duration
	maxEntries int

	hits   atomic.Int64
	misses atomic.Int64

	closed atomic.Bool
	stopCh chan struct{}
	wg     sync.WaitGroup
}

type memEntry struct {
	value      []byte
	expiresAt  time.Time // нулевое время - бессрочно
	accessedAt time.Time
}

func (e *memEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

func (e *memEntry) remainingTTL(now time.Time) time.Duration {
	if e.expiresAt.IsZero() {
		return -1
	}
	if ttl := e.expiresAt.Sub(now); ttl > 0 {
		return ttl
	}
	return 0
}

// NewMemoryCache создаёт in-memory кэш и запускает фоновую очистку.
func NewMemoryCache(opts *Options) *MemoryCache {
	if opts == nil {
		opts = DefaultOptions()
	}

	maxEntries := opts.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}
	interval := opts.CleanupInterval
	if interval <= 0 {
		interval = 1 * time.Minute
	}

	c := &MemoryCache{
		entries:    make(map[string]*memEntry),
		defaultTTL: opts.DefaultTTL,
		maxEntries: maxEntries,
		stopCh:     make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop(interval)

	return c
}

// lookup достаёт живую запись, обновляет LRU-метку и счётчики.
func (c *MemoryCache) lookup(key string) (*memEntry, bool) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired(now) {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	c.mu.Lock()
	e.accessedAt = now
	c.mu.Unlock()
	return e, true
}

func cloneValue(v []byte) []byte {
	out := make([]byte, len(v))
	copy(out, v)
	return out
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	e, ok := c.lookup(key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return cloneValue(e.value), nil
}

func (c *MemoryCache) GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, error) {
	if c.closed.Load() {
		return nil, 0, ErrCacheClosed
	}

	e, ok := c.lookup(key)
	if !ok {
		return nil, 0, ErrKeyNotFound
	}
	return cloneValue(e.value), e.remainingTTL(time.Now()), nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	now := time.Now()
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}

	e := &memEntry{
		value:      cloneValue(value),
		expiresAt:  expiresAt,
		accessedAt: now,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = e

	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.closed.Load() {
		return false, ErrCacheClosed
	}

	now := time.Now()
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	return ok && !e.expired(now), nil
}

func (c *MemoryCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	var keys []string
	for key, e := range c.entries {
		if !e.expired(now) && matchPattern(pattern, key) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (c *MemoryCache) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	if c.closed.Load() {
		return 0, ErrCacheClosed
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var count int64
	for key := range c.entries {
		if matchPattern(pattern, key) {
			delete(c.entries, key)
			count++
		}
	}
	return count, nil
}

func (c *MemoryCache) Stats(ctx context.Context) (*Stats, error) {
	if c.closed.Load() {
		return nil, ErrCacheClosed
	}

	now := time.Now()
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := &Stats{
		TotalKeys: int64(len(c.entries)),
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Backend:   BackendMemory,
	}
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	for _, e := range c.entries {
		if !e.expired(now) {
			stats.MemoryBytes += int64(len(e.value))
		}
	}
	return stats, nil
}

func (c *MemoryCache) Clear(ctx context.Context) error {
	if c.closed.Load() {
		return ErrCacheClosed
	}

	c.mu.Lock()
	c.entries = make(map[string]*memEntry)
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.stopCh)
	c.wg.Wait()

	c.mu.Lock()
	c.entries = nil
	c.mu.Unlock()

	return nil
}

func (c *MemoryCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.removeExpired()
		}
	}
}

func (c *MemoryCache) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}

// evictOldest выбрасывает запись с самым старым временем доступа.
// Вызывается под write-блокировкой.
func (c *MemoryCache) evictOldest() {
	var victim string
	var victimAccess time.Time

	for key, e := range c.entries {
		if victim == "" || e.accessedAt.Before(victimAccess) {
			victim = key
			victimAccess = e.accessedAt
		}
	}
	if victim != "" {
		delete(c.entries, victim)
	}
}

// matchPattern - единственный wildcard "*": "prefix*", "*suffix",
// "prefix*suffix" или точное совпадение без звёздочки.
func matchPattern(pattern, key string) bool {
	if pattern == "*" {
		return true
	}

	star := strings.Index(pattern, "*")
	if star == -1 {
		return pattern == key
	}

	prefix, suffix := pattern[:star], pattern[star+1:]
	if len(key) < len(prefix)+len(suffix) {
		return false
	}
	return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, suffix)
}
