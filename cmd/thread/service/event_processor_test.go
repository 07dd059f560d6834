package service

import (
	"context"
	"testing"

	"ThreadNest.com/cmd/model"
	"ThreadNest.com/pkg/mq"
)

func TestThreadEventProcessorDispatch(t *testing.T) {
	tep := NewThreadEventProcessor()
	ctx := context.Background()

	events := []*mq.ThreadEvent{
		{Type: mq.EventCommentAdded, Comment: &model.Comment{CommentId: "8", Author: "Grace"}, CommentId: "8"},
		{Type: mq.EventCommentDeleted, CommentId: "1"},
		{Type: mq.EventMutationRolledBack, CommentId: "tmp-abc", Reason: "store rejected add"},
		{Type: mq.EventCommentDeleted, CommentId: "6"},
	}
	for _, event := range events {
		if err := tep.HandleThreadEvent(ctx, event); err != nil {
			t.Fatalf("HandleThreadEvent(%s) failed: %v", event.Type, err)
		}
	}

	stats := tep.ProcessingStats()
	if stats["comments_added"].(int64) != 1 {
		t.Errorf("comments_added = %v, want 1", stats["comments_added"])
	}
	if stats["comments_deleted"].(int64) != 2 {
		t.Errorf("comments_deleted = %v, want 2", stats["comments_deleted"])
	}
	if stats["rolled_back"].(int64) != 1 {
		t.Errorf("rolled_back = %v, want 1", stats["rolled_back"])
	}

	t.Run("AddedWithoutPayload", func(t *testing.T) {
		err := tep.HandleThreadEvent(ctx, &mq.ThreadEvent{Type: mq.EventCommentAdded, CommentId: "9"})
		if err == nil {
			t.Error("comment_added without comment data should error for requeue")
		}
	})

	t.Run("UnknownTypeAcked", func(t *testing.T) {
		if err := tep.HandleThreadEvent(ctx, &mq.ThreadEvent{Type: "comment_liked"}); err != nil {
			t.Errorf("unknown event type should be dropped without error, got %v", err)
		}
	})
}
