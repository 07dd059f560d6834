package cache

import (
	"context"
	"encoding/json"
	"time"

	"ThreadNest.com/cmd/model"
	"ThreadNest.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/redis/go-redis/v9"
)

// ThreadCacheManager caches the rendered forest and the derived thread
// statistics. The mutation coordinator invalidates it on every optimistic
// transition and guards every fill with a generation check, so a fill
// racing a mutation is suppressed or dropped rather than served stale.
type ThreadCacheManager struct {
	client       *redis.Client
	forestExpire time.Duration
	statsExpire  time.Duration
}

func NewThreadCacheManager(client *redis.Client) *ThreadCacheManager {
	return &ThreadCacheManager{
		client:       client,
		forestExpire: 10 * time.Minute,
		statsExpire:  1 * time.Hour,
	}
}

const (
	// rendered forest cache key
	ThreadForestKey = "thread:forest"
	// derived stats cache key
	ThreadStatsKey = "thread:stats"
)

// ThreadStats is the cached form of the derived statistics.
type ThreadStats struct {
	TotalComments int `json:"total_comments"`
	MaxDepth      int `json:"max_depth"`
}

// CacheForest caches the current forest.
func (tcm *ThreadCacheManager) CacheForest(ctx context.Context, forest []*model.CommentNode) error {
	data, err := json.Marshal(forest)
	if err != nil {
		return errno.CacheErr.WithMessage("failed to marshal forest: " + err.Error())
	}
	if err := tcm.client.Set(ctx, ThreadForestKey, data, tcm.forestExpire).Err(); err != nil {
		return errno.CacheErr.WithMessage("failed to cache forest: " + err.Error())
	}
	return nil
}

// GetCachedForest returns the cached forest, or nil on a cache miss.
func (tcm *ThreadCacheManager) GetCachedForest(ctx context.Context) ([]*model.CommentNode, error) {
	data, err := tcm.client.Get(ctx, ThreadForestKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, errno.CacheErr.WithMessage("failed to get cached forest: " + err.Error())
	}

	var forest []*model.CommentNode
	if err := json.Unmarshal([]byte(data), &forest); err != nil {
		return nil, errno.CacheErr.WithMessage("failed to unmarshal forest: " + err.Error())
	}
	return forest, nil
}

// CacheStats caches the derived statistics.
func (tcm *ThreadCacheManager) CacheStats(ctx context.Context, stats *ThreadStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return errno.CacheErr.WithMessage("failed to marshal stats: " + err.Error())
	}
	if err := tcm.client.Set(ctx, ThreadStatsKey, data, tcm.statsExpire).Err(); err != nil {
		return errno.CacheErr.WithMessage("failed to cache stats: " + err.Error())
	}
	return nil
}

// GetCachedStats returns the cached statistics, or nil on a cache miss.
func (tcm *ThreadCacheManager) GetCachedStats(ctx context.Context) (*ThreadStats, error) {
	data, err := tcm.client.Get(ctx, ThreadStatsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, errno.CacheErr.WithMessage("failed to get cached stats: " + err.Error())
	}

	var stats ThreadStats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, errno.CacheErr.WithMessage("failed to unmarshal stats: " + err.Error())
	}
	return &stats, nil
}

// Invalidate drops every thread-level cache entry. Called after each
// optimistic transition and each confirm/rollback.
func (tcm *ThreadCacheManager) Invalidate(ctx context.Context) {
	keys := []string{ThreadForestKey, ThreadStatsKey}
	if err := tcm.client.Del(ctx, keys...).Err(); err != nil {
		hlog.Warnf("Failed to invalidate thread cache: %v", err)
	}
}
