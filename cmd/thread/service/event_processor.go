package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ThreadNest.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// ThreadEventProcessor is the downstream handler for thread mutation
// events: it logs each terminal outcome and keeps running totals per
// event type. It runs in the consumer binary, off the serving path.
type ThreadEventProcessor struct {
	mu            sync.Mutex
	added         int64
	deleted       int64
	rolledBack    int64
	lastProcessed int64
}

func NewThreadEventProcessor() *ThreadEventProcessor {
	return &ThreadEventProcessor{}
}

// HandleThreadEvent dispatches one consumed event. Unknown event types are
// logged and acked rather than requeued.
func (tep *ThreadEventProcessor) HandleThreadEvent(ctx context.Context, event *mq.ThreadEvent) error {
	switch event.Type {
	case mq.EventCommentAdded:
		return tep.handleCommentAdded(ctx, event)
	case mq.EventCommentDeleted:
		return tep.handleCommentDeleted(ctx, event)
	case mq.EventMutationRolledBack:
		return tep.handleMutationRolledBack(ctx, event)
	default:
		hlog.Warnf("Unknown thread event type: %s", event.Type)
		return nil
	}
}

func (tep *ThreadEventProcessor) handleCommentAdded(ctx context.Context, event *mq.ThreadEvent) error {
	if event.Comment == nil {
		return fmt.Errorf("comment data is nil in %s event %s", event.Type, event.EventID)
	}

	tep.count(&tep.added)
	hlog.Infof("Comment confirmed: comment_id=%s, author=%s", event.Comment.CommentId, event.Comment.Author)
	return nil
}

func (tep *ThreadEventProcessor) handleCommentDeleted(ctx context.Context, event *mq.ThreadEvent) error {
	tep.count(&tep.deleted)
	hlog.Infof("Comment subtree deleted: comment_id=%s", event.CommentId)
	return nil
}

func (tep *ThreadEventProcessor) handleMutationRolledBack(ctx context.Context, event *mq.ThreadEvent) error {
	tep.count(&tep.rolledBack)
	hlog.Infof("Mutation rolled back: comment_id=%s, reason=%s", event.CommentId, event.Reason)
	return nil
}

func (tep *ThreadEventProcessor) count(counter *int64) {
	tep.mu.Lock()
	*counter++
	tep.lastProcessed = time.Now().Unix()
	tep.mu.Unlock()
}

// ProcessingStats reports the running totals.
func (tep *ThreadEventProcessor) ProcessingStats() map[string]interface{} {
	tep.mu.Lock()
	defer tep.mu.Unlock()
	return map[string]interface{}{
		"comments_added":   tep.added,
		"comments_deleted": tep.deleted,
		"rolled_back":      tep.rolledBack,
		"last_processed":   tep.lastProcessed,
	}
}
