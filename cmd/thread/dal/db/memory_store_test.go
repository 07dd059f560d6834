package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"ThreadNest.com/cmd/model"
)

func TestMemoryStoreSeedsOnFirstList(t *testing.T) {
	store := NewMemoryStore(0, 0, true)
	ctx := context.Background()

	comments, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(comments) != 7 {
		t.Fatalf("expected 7 seeded comments, got %d", len(comments))
	}

	roots := 0
	for _, comment := range comments {
		if comment.ParentId == "" {
			roots++
		}
	}
	if roots != 2 {
		t.Errorf("sample dataset should have 2 roots, got %d", roots)
	}

	t.Run("NoReseedAfterClear", func(t *testing.T) {
		if err := store.Clear(ctx); err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		comments, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(comments) != 0 {
			t.Errorf("store reseeded after explicit clear")
		}
	})
}

func TestMemoryStoreAddAssignsDurableIdentity(t *testing.T) {
	store := NewMemoryStore(0, 0, false)
	ctx := context.Background()

	confirmed, err := store.Add(ctx, &model.CommentFields{
		ParentId: "",
		Content:  "  hello  ",
		Author:   "Grace",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if confirmed.CommentId == "" {
		t.Error("store must assign a durable id")
	}
	if confirmed.Optimistic {
		t.Error("store-confirmed comment must not be optimistic")
	}
	if confirmed.Content != "hello" {
		t.Errorf("content not trimmed: %q", confirmed.Content)
	}
	if confirmed.CreatedAt == "" {
		t.Error("store must assign a creation timestamp")
	}
}

func TestMemoryStoreCascadeDelete(t *testing.T) {
	store := NewMemoryStore(0, 0, true)
	ctx := context.Background()

	if _, err := store.List(ctx); err != nil { // trigger seeding
		t.Fatalf("List failed: %v", err)
	}

	if err := store.Delete(ctx, "1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	comments, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("cascade delete of root 1 should leave {6,7}, got %d records", len(comments))
	}
	for _, comment := range comments {
		if comment.CommentId != "6" && comment.CommentId != "7" {
			t.Errorf("unexpected survivor %s", comment.CommentId)
		}
	}
}

func TestMemoryStoreFailureInjection(t *testing.T) {
	store := NewMemoryStore(0, 1, false)
	ctx := context.Background()

	if _, err := store.Add(ctx, &model.CommentFields{Content: "x", Author: "y"}); !errors.Is(err, ErrStoreFailure) {
		t.Errorf("expected ErrStoreFailure, got %v", err)
	}
	if err := store.Delete(ctx, "1"); !errors.Is(err, ErrStoreFailure) {
		t.Errorf("expected ErrStoreFailure, got %v", err)
	}

	store.SetFailureRate(0)
	if _, err := store.Add(ctx, &model.CommentFields{Content: "x", Author: "y"}); err != nil {
		t.Errorf("expected success with failure injection off, got %v", err)
	}
}

func TestMemoryStoreLatencyRespectsContext(t *testing.T) {
	store := NewMemoryStore(time.Second, 0, false)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := store.List(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("List did not honor context cancellation, took %v", elapsed)
	}
}
