// Package cache stores solved crew schedules keyed by a canonical instance
// hash. Two drivers share one interface: an in-memory LRU for single-process
// batch runs and Redis for shared deployments.
package cache

import (
	"context"
	"errors"
	"time"

	"crewsched/pkg/config"
)

// Поддерживаемые драйверы.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

var (
	// ErrKeyNotFound - ключ отсутствует или просрочен.
	ErrKeyNotFound = errors.New("key not found")
	// ErrCacheClosed - операция над закрытым кэшем.
	ErrCacheClosed = errors.New("cache is closed")
)

// Cache - общий интерфейс драйверов кэша. Значения - непрозрачные байты;
// типизацию поверх даёт ScheduleCache.
type Cache interface {
	// Get возвращает значение ключа или ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set записывает значение с TTL; ttl <= 0 означает TTL по умолчанию.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete удаляет ключ; отсутствие ключа не считается ошибкой.
	Delete(ctx context.Context, key string) error
	// Exists проверяет наличие непросроченного ключа.
	Exists(ctx context.Context, key string) (bool, error)
	// GetWithTTL возвращает значение и оставшийся TTL.
	GetWithTTL(ctx context.Context, key string) (value []byte, ttl time.Duration, err error)

	// Keys возвращает ключи по паттерну ("prefix*", "*suffix", "*").
	// Дорогая операция, используется только для инвалидации.
	Keys(ctx context.Context, pattern string) ([]string, error)
	// DeleteByPattern удаляет ключи по паттерну, возвращает число удалённых.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)

	// Stats возвращает статистику кэша.
	Stats(ctx context.Context) (*Stats, error)
	// Clear удаляет все ключи.
	Clear(ctx context.Context) error
	// Close освобождает ресурсы драйвера.
	Close() error
}

// Stats - статистика работы кэша.
type Stats struct {
	TotalKeys   int64
	Hits        int64
	Misses      int64
	HitRate     float64
	MemoryBytes int64
	Backend     string
}

// Options - параметры создания кэша.
type Options struct {
	Backend    string
	DefaultTTL time.Duration

	// Memory driver
	MaxEntries      int
	CleanupInterval time.Duration

	// Redis driver
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
}

// DefaultOptions - in-memory кэш с разумными лимитами.
func DefaultOptions() *Options {
	return &Options{
		Backend:         BackendMemory,
		DefaultTTL:      5 * time.Minute,
		MaxEntries:      10000,
		CleanupInterval: 1 * time.Minute,
		RedisAddr:       "localhost:6379",
		RedisDB:         0,
		RedisPoolSize:   10,
	}
}

// FromConfig создаёт опции из конфигурации
func FromConfig(cfg *config.CacheConfig) *Options {
	return &Options{
		Backend:       cfg.Driver,
		DefaultTTL:    cfg.DefaultTTL,
		MaxEntries:    cfg.MaxEntries,
		RedisAddr:     cfg.Address(),
		RedisPassword: cfg.Password,
		RedisDB:       cfg.DB,
		RedisPoolSize: 10,
	}
}

// New создаёт кэш выбранного драйвера. Неизвестный драйвер откатывается
// на in-memory: для пакетного прогона это безопасный дефолт.
func New(opts *Options) (Cache, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if opts.Backend == BackendRedis {
		return NewRedisCache(opts)
	}
	return NewMemoryCache(opts), nil
}

// MustNew создаёт кэш или паникует
func MustNew(opts *Options) Cache {
	c, err := New(opts)
	if err != nil {
		panic(err)
	}
	return c
}
