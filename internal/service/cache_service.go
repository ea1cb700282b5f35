package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

const cachePrefix = "lms"

// Cache key families, one per entity listing.
const (
	familyUniversities = "universities"
	familyStudents     = "students"
	familyCourses      = "courses"
	familyAdmins       = "admins"
)

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService is an optional read-through cache. A nil or disabled service is a no-op.
type CacheService struct {
	repo       CacheRepository
	metrics    *MetricsService
	defaultTTL time.Duration
	logger     *zap.Logger
	enabled    bool

	// generations counts invalidations per family; fills started under an
	// older generation are dropped.
	mu          sync.Mutex
	generations map[string]uint64
}

// NewCacheService constructs a cache service.
func NewCacheService(repo CacheRepository, metrics *MetricsService, defaultTTL time.Duration, logger *zap.Logger, enabled bool) *CacheService {
	if defaultTTL <= 0 {
		defaultTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		repo:        repo,
		metrics:     metrics,
		defaultTTL:  defaultTTL,
		logger:      logger,
		enabled:     enabled,
		generations: map[string]uint64{},
	}
}

// Enabled indicates whether caching is active.
func (s *CacheService) Enabled() bool {
	return s != nil && s.enabled && s.repo != nil
}

// Get attempts to retrieve a cached entry. It returns true when the cache was hit.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return false, nil
		}
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

// Set stores the value in cache.
func (s *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, ttl)
	s.metrics.ObserveCacheWrite(time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Invalidate drops every cached view belonging to the given families.
func (s *CacheService) Invalidate(ctx context.Context, families ...string) {
	if !s.Enabled() {
		return
	}
	for _, family := range families {
		s.mu.Lock()
		s.generations[family]++
		s.mu.Unlock()
		pattern := fmt.Sprintf("%s:%s:*", cachePrefix, family)
		if err := s.repo.DeleteByPattern(ctx, pattern); err != nil {
			s.logger.Warn("cache invalidate failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

func listKey(family string) string {
	return fmt.Sprintf("%s:%s:list", cachePrefix, family)
}

func entityKey(family string, id int64) string {
	return fmt.Sprintf("%s:%s:%d", cachePrefix, family, id)
}

func (s *CacheService) generation(family string) uint64 {
	if !s.Enabled() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[family]
}

// fill stores value only if family was not invalidated since gen was read.
// Invalidate bumps under the same lock before deleting, so a fill that wins
// the race is removed by that delete. Other instances can still race; their
// stale entries live at most one TTL.
func (s *CacheService) fill(ctx context.Context, family string, gen uint64, key string, value interface{}) {
	if !s.Enabled() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[family] != gen {
		s.logger.Debug("cache fill skipped after invalidation", zap.String("key", key))
		return
	}
	_ = s.Set(ctx, key, value, 0)
}

// readThrough serves key from cache when possible, otherwise loads and stores it.
// Cache errors never fail the read.
func readThrough[T any](ctx context.Context, cache *CacheService, family, key string, load func() (T, error)) (T, error) {
	var cached T
	if hit, _ := cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}
	gen := cache.generation(family)
	value, err := load()
	if err != nil {
		return value, err
	}
	cache.fill(ctx, family, gen, key, value)
	return value, nil
}
