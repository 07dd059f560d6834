package service

import (
	"context"
	"testing"
	"time"

	"ThreadNest.com/cmd/thread/dal/db"
)

// Exercises the coordinator against the simulated record store, latency
// included: seed, optimistic reply, cascade delete, and store/local
// convergence.
func TestThreadServiceWithMemoryStore(t *testing.T) {
	store := db.NewMemoryStore(5*time.Millisecond, 0, true)
	svc := NewThreadService(store)
	ctx := context.Background()

	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if total, maxDepth := svc.Stats(ctx); total != 7 || maxDepth != 4 {
		t.Fatalf("seeded stats = (%d,%d), want (7,4)", total, maxDepth)
	}

	if err := svc.Reply(ctx, "6", "hello from the side branch", "Grace"); err != nil {
		t.Fatalf("Reply failed: %v", err)
	}
	svc.Wait()

	if total, _ := svc.Stats(ctx); total != 8 {
		t.Fatalf("expected 8 comments after confirmed reply, got %d", total)
	}

	if err := svc.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	svc.Wait()

	total, maxDepth := svc.Stats(ctx)
	if total != 3 || maxDepth != 1 {
		t.Fatalf("post-delete stats = (%d,%d), want (3,1)", total, maxDepth)
	}

	// local collection and backing store converge
	persisted, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	local := svc.Comments()
	if len(persisted) != len(local) {
		t.Fatalf("store has %d records, local has %d", len(persisted), len(local))
	}
	localIds := make(map[string]bool, len(local))
	for _, comment := range local {
		localIds[comment.CommentId] = true
	}
	for _, comment := range persisted {
		if !localIds[comment.CommentId] {
			t.Errorf("store record %s missing locally", comment.CommentId)
		}
	}
}
