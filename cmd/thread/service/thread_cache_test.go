package service

import (
	"context"
	"sync"
	"testing"

	"ThreadNest.com/cmd/model"
	"ThreadNest.com/pkg/cache"
)

// fakeThreadCache is an in-memory ThreadCache recording writes and
// invalidations. onCacheForest lets a test interleave a mutation with the
// write itself.
type fakeThreadCache struct {
	mu            sync.Mutex
	forest        []*model.CommentNode
	stats         *cache.ThreadStats
	forestWrites  int
	invalidations int
	onCacheForest func()
}

func (f *fakeThreadCache) CacheForest(ctx context.Context, forest []*model.CommentNode) error {
	if f.onCacheForest != nil {
		f.onCacheForest()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forest = forest
	f.forestWrites++
	return nil
}

func (f *fakeThreadCache) GetCachedForest(ctx context.Context) ([]*model.CommentNode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forest, nil
}

func (f *fakeThreadCache) CacheStats(ctx context.Context, stats *cache.ThreadStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = stats
	return nil
}

func (f *fakeThreadCache) GetCachedStats(ctx context.Context) (*cache.ThreadStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, nil
}

func (f *fakeThreadCache) Invalidate(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.forest = nil
	f.stats = nil
	f.invalidations++
}

func (f *fakeThreadCache) snapshotForest() []*model.CommentNode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.forest
}

func TestForestCacheLifecycle(t *testing.T) {
	store := newStubStore(sampleThread())
	svc, _ := newTestService(t, store)
	fake := &fakeThreadCache{}
	svc.SetCache(fake)
	ctx := context.Background()

	forest := svc.Forest(ctx)
	if CountNodes(forest) != 7 {
		t.Fatalf("expected 7 nodes, got %d", CountNodes(forest))
	}
	if fake.snapshotForest() == nil {
		t.Fatal("first Forest call should fill the cache")
	}

	svc.Forest(ctx)
	fake.mu.Lock()
	writes := fake.forestWrites
	fake.mu.Unlock()
	if writes != 1 {
		t.Errorf("warm cache should serve the second call, saw %d writes", writes)
	}

	if err := svc.Reply(ctx, "6", "fresh reply", "Grace"); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	svc.Wait()

	forest = svc.Forest(ctx)
	if CountNodes(forest) != 8 {
		t.Fatalf("post-reply forest has %d nodes, want 8", CountNodes(forest))
	}
}

// An optimistic record must be visible in the very next derived tree even
// with a cache wired and the store still holding the add open.
func TestOptimisticReplyVisibleWithCache(t *testing.T) {
	store := newStubStore(sampleThread())
	store.blockAdd = make(chan struct{})
	svc, _ := newTestService(t, store)
	fake := &fakeThreadCache{}
	svc.SetCache(fake)
	ctx := context.Background()

	svc.Forest(ctx) // warm the cache with the pre-mutation view

	if err := svc.Reply(ctx, "1", "instant", "Grace"); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}

	forest := svc.Forest(ctx)
	if CountNodes(forest) != 8 {
		t.Fatalf("optimistic reply not visible through the cached path, got %d nodes", CountNodes(forest))
	}

	close(store.blockAdd)
	svc.Wait()
}

// A forest built from a pre-mutation snapshot must never be written back
// after the mutation invalidated the cache.
func TestStaleForestWriteSuppressed(t *testing.T) {
	store := newStubStore(sampleThread())
	svc, _ := newTestService(t, store)
	fake := &fakeThreadCache{}
	svc.SetCache(fake)
	ctx := context.Background()

	// a reader captures the collection, then a mutation lands before the
	// reader gets to publish its result
	comments, gen := svc.snapshot()
	stale := BuildTree(comments)

	if err := svc.Reply(ctx, "6", "raced past the reader", "Grace"); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	svc.Wait()

	svc.fillForestCache(ctx, gen, stale)
	if fake.snapshotForest() != nil {
		t.Fatal("pre-mutation forest re-cached after invalidation")
	}

	forest := svc.Forest(ctx)
	if CountNodes(forest) != 8 {
		t.Fatalf("expected the fresh 8-node view, got %d nodes", CountNodes(forest))
	}
}

// An invalidation landing while the cache write is in flight drops the
// entry again instead of leaving the stale view behind.
func TestCacheFillRacingInvalidationDropsEntry(t *testing.T) {
	store := newStubStore(sampleThread())
	svc, _ := newTestService(t, store)
	fake := &fakeThreadCache{}
	svc.SetCache(fake)
	ctx := context.Background()

	comments, gen := svc.snapshot()
	forest := BuildTree(comments)

	fake.onCacheForest = func() {
		fake.onCacheForest = nil
		if err := svc.Reply(ctx, "6", "mid-write", "Grace"); err != nil {
			t.Errorf("Reply failed: %v", err)
		}
	}
	svc.fillForestCache(ctx, gen, forest)
	svc.Wait()

	if fake.snapshotForest() != nil {
		t.Fatal("stale forest entry survived a racing invalidation")
	}
}

func TestStatsCacheLifecycle(t *testing.T) {
	store := newStubStore(sampleThread())
	svc, _ := newTestService(t, store)
	fake := &fakeThreadCache{}
	svc.SetCache(fake)
	ctx := context.Background()

	if total, maxDepth := svc.Stats(ctx); total != 7 || maxDepth != 4 {
		t.Fatalf("stats = (%d,%d), want (7,4)", total, maxDepth)
	}
	fake.mu.Lock()
	cached := fake.stats
	fake.mu.Unlock()
	if cached == nil || cached.TotalComments != 7 || cached.MaxDepth != 4 {
		t.Fatalf("stats not cached: %+v", cached)
	}

	if err := svc.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	svc.Wait()

	if total, maxDepth := svc.Stats(ctx); total != 2 || maxDepth != 1 {
		t.Errorf("post-delete stats = (%d,%d), want (2,1)", total, maxDepth)
	}
}
