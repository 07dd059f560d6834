package mq

import "ThreadNest.com/cmd/model"

// Thread event types.
const (
	EventCommentAdded       = "comment_added"
	EventCommentDeleted     = "comment_deleted"
	EventMutationRolledBack = "mutation_rolled_back"
)

// ThreadEvent describes a terminal mutation outcome: a confirmed add, a
// confirmed delete, or a rollback.
type ThreadEvent struct {
	Type      string         `json:"type"`              // comment_added, comment_deleted, mutation_rolled_back
	Comment   *model.Comment `json:"comment,omitempty"` // affected comment (confirmed record for adds)
	CommentId string         `json:"comment_id"`        // affected comment id
	Reason    string         `json:"reason,omitempty"`  // rollback reason
	Timestamp int64          `json:"timestamp"`         // unix millis
	EventID   string         `json:"event_id"`          // unique event id
}

const (
	// exchange name
	ThreadEventExchange = "thread_events"
	// queue name
	ThreadEventQueue = "thread_event_queue"
)
