package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/elvinq/branchfeedback/backend/internal/domain/entities"
	"github.com/elvinq/branchfeedback/backend/internal/domain/providers"
	"github.com/elvinq/branchfeedback/backend/internal/domain/repositories"
)

// Cache TTLs in seconds. Branch rows change only on sync or recategorization,
// so reads tolerate short staleness; stats aggregate feedback and expire
// faster.
const (
	branchTTLSeconds = 300
	listTTLSeconds   = 60
	statsTTLSeconds  = 30

	cacheWriteTimeout = 2 * time.Second
)

// CachedBranchAdapter wraps a BranchRepository with a read-through cache.
// Writes invalidate affected keys and delegate to the inner repository.
type CachedBranchAdapter struct {
	inner repositories.BranchRepository
	cache providers.CacheProvider
}

// NewCachedBranchAdapter creates a caching decorator around a branch repository.
func NewCachedBranchAdapter(inner repositories.BranchRepository, cache providers.CacheProvider) repositories.BranchRepository {
	return &CachedBranchAdapter{
		inner: inner,
		cache: cache,
	}
}

func branchKey(id string) string {
	return "branch:" + id
}

func listKey(filter repositories.BranchFilter) string {
	return fmt.Sprintf("branches:list:%s:%s:%s:%s:%d:%d",
		filter.Type, filter.TypeContains, filter.Query, filter.SortBy, filter.Limit, filter.Offset)
}

const statsKey = "branches:stats"

// Create delegates and invalidates list/stats keys.
func (a *CachedBranchAdapter) Create(ctx context.Context, branch *entities.Branch) error {
	if err := a.inner.Create(ctx, branch); err != nil {
		return err
	}
	a.invalidateAggregates(ctx)
	return nil
}

// GetByID reads through the cache.
func (a *CachedBranchAdapter) GetByID(ctx context.Context, id string) (*entities.Branch, error) {
	key := branchKey(id)
	if data, err := a.cache.Get(ctx, key); err == nil {
		branch := &entities.Branch{}
		if err := json.Unmarshal(data, branch); err == nil {
			return branch, nil
		}
	}

	branch, err := a.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.storeAsync(key, branch, branchTTLSeconds)
	return branch, nil
}

// Upsert delegates and invalidates the branch plus aggregate keys.
func (a *CachedBranchAdapter) Upsert(ctx context.Context, branch *entities.Branch) (bool, error) {
	created, err := a.inner.Upsert(ctx, branch)
	if err != nil {
		return false, err
	}
	if err := a.cache.Delete(ctx, branchKey(branch.ID)); err != nil {
		log.Warn().Err(err).Str("branch_id", branch.ID).Msg("failed to invalidate branch cache")
	}
	a.invalidateAggregates(ctx)
	return created, nil
}

// List reads through the cache keyed on the filter.
func (a *CachedBranchAdapter) List(ctx context.Context, filter repositories.BranchFilter) ([]*entities.Branch, error) {
	key := listKey(filter)
	if data, err := a.cache.Get(ctx, key); err == nil {
		var branches []*entities.Branch
		if err := json.Unmarshal(data, &branches); err == nil {
			return branches, nil
		}
	}

	branches, err := a.inner.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.storeAsync(key, branches, listTTLSeconds)
	return branches, nil
}

// UpdateType delegates and invalidates the branch plus aggregate keys.
func (a *CachedBranchAdapter) UpdateType(ctx context.Context, id, branchType string) error {
	if err := a.inner.UpdateType(ctx, id, branchType); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, branchKey(id)); err != nil {
		log.Warn().Err(err).Str("branch_id", id).Msg("failed to invalidate branch cache")
	}
	a.invalidateAggregates(ctx)
	return nil
}

// Stats reads through the cache.
func (a *CachedBranchAdapter) Stats(ctx context.Context) (*repositories.BranchStats, error) {
	if data, err := a.cache.Get(ctx, statsKey); err == nil {
		stats := &repositories.BranchStats{}
		if err := json.Unmarshal(data, stats); err == nil {
			return stats, nil
		}
	}

	stats, err := a.inner.Stats(ctx)
	if err != nil {
		return nil, err
	}

	a.storeAsync(statsKey, stats, statsTTLSeconds)
	return stats, nil
}

// storeAsync writes to the cache off the request path. A failed write only
// costs a future cache miss.
func (a *CachedBranchAdapter) storeAsync(key string, value interface{}, ttlSeconds int) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := a.cache.Set(ctx, key, data, ttlSeconds); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("cache write failed")
		}
	}()
}

func (a *CachedBranchAdapter) invalidateAggregates(ctx context.Context) {
	if err := a.cache.Delete(ctx, statsKey); err != nil {
		log.Debug().Err(err).Msg("failed to invalidate stats cache")
	}
	// List keys are filter-shaped and not enumerable here; they expire on
	// their own short TTL instead.
}
