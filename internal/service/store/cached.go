package store

import (
	"context"
	"fmt"
	"time"

	"github.com/kapu/zenith-go/internal/constants"
	"github.com/kapu/zenith-go/internal/domain"
	"github.com/kapu/zenith-go/internal/util"
	"go.uber.org/zap"
)

// SnapshotCache is the key/value cache holding creator snapshots; *cache.CacheService
// satisfies it.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedStore serves reads from a Redis snapshot before the backing store and drops
// the snapshot on every save. Cache failures fall through to the backing store.
type CachedStore struct {
	backing Store
	cache   SnapshotCache
	ttl     time.Duration
	logger  *zap.Logger
}

func NewCachedStore(backing Store, cache SnapshotCache, ttl time.Duration, logger *zap.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = constants.CacheTTL.CreatorSnapshot
	}
	return &CachedStore{
		backing: backing,
		cache:   cache,
		ttl:     ttl,
		logger:  util.OrNop(logger),
	}
}

func snapshotKey(handle string) string {
	return fmt.Sprintf("creator:%s", handle)
}

func (s *CachedStore) GetCreator(ctx context.Context, handle string) (*domain.CreatorRecord, error) {
	key := snapshotKey(handle)

	var snapshot domain.CreatorRecord
	found, err := s.cache.Get(ctx, key, &snapshot)
	if err != nil {
		s.logger.Debug("Creator snapshot read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		return &snapshot, nil
	}

	rec, err := s.backing.GetCreator(ctx, handle)
	if err != nil || rec == nil {
		return rec, err
	}

	if err := s.cache.Set(ctx, key, rec, s.ttl); err != nil {
		s.logger.Debug("Creator snapshot write failed", zap.String("key", key), zap.Error(err))
	}
	return rec, nil
}

func (s *CachedStore) SaveAnalysis(ctx context.Context, handle string, result *domain.AnalysisResult) (int64, error) {
	id, err := s.backing.SaveAnalysis(ctx, handle, result)
	if delErr := s.cache.Del(ctx, snapshotKey(handle)); delErr != nil {
		s.logger.Warn("Creator snapshot invalidation failed", zap.String("handle", handle), zap.Error(delErr))
	}
	return id, err
}
