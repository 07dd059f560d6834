package service

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"ThreadNest.com/cmd/model"
	"ThreadNest.com/pkg/cache"
	"ThreadNest.com/pkg/constants"
	"ThreadNest.com/pkg/errno"
	"ThreadNest.com/pkg/mq"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/google/uuid"
)

// RecordStore is the durable backing collection the coordinator reconciles
// against. Any transport with these semantics qualifies; Add assigns the
// durable id and timestamp itself and Delete re-derives the cascade on its
// own side.
type RecordStore interface {
	List(ctx context.Context) ([]*model.Comment, error)
	Add(ctx context.Context, fields *model.CommentFields) (*model.Comment, error)
	Delete(ctx context.Context, commentId string) error
	Clear(ctx context.Context) error
}

// ThreadCache caches the derived views. The coordinator invalidates it on
// every transition and guards its fills with a generation check.
type ThreadCache interface {
	CacheForest(ctx context.Context, forest []*model.CommentNode) error
	GetCachedForest(ctx context.Context) ([]*model.CommentNode, error)
	CacheStats(ctx context.Context, stats *cache.ThreadStats) error
	GetCachedStats(ctx context.Context) (*cache.ThreadStats, error)
	Invalidate(ctx context.Context)
}

var _ ThreadCache = (*cache.ThreadCacheManager)(nil)

// Notifier surfaces user-visible mutation failures to the presentation
// layer.
type Notifier func(message string)

// ThreadService owns the authoritative in-memory flat collection and
// mediates every reply/delete intent through an optimistic-apply /
// confirm-or-rollback protocol against the record store.
//
// Every state transition that touches the flat collection happens
// synchronously under the mutex; only the store round trip runs
// asynchronously, and its continuation reconciles elements by id alone.
type ThreadService struct {
	mu       sync.Mutex
	comments []*model.Comment
	cacheGen uint64 // bumped on every invalidation, guards cache fills

	store        RecordStore
	storeTimeout time.Duration

	cache    ThreadCache
	producer mq.MessageProducer
	notifier Notifier

	inflight sync.WaitGroup
}

func NewThreadService(store RecordStore) *ThreadService {
	return &ThreadService{
		comments:     make([]*model.Comment, 0),
		store:        store,
		storeTimeout: constants.DefaultStoreTimeout * time.Millisecond,
	}
}

// SetNotifier installs the failure notification sink.
func (s *ThreadService) SetNotifier(notifier Notifier) {
	s.mu.Lock()
	s.notifier = notifier
	s.mu.Unlock()
}

// SetCache wires an optional thread cache; nil disables caching.
func (s *ThreadService) SetCache(c ThreadCache) {
	s.mu.Lock()
	s.cache = c
	s.mu.Unlock()
}

// SetProducer wires an optional event producer; nil disables events.
func (s *ThreadService) SetProducer(p mq.MessageProducer) {
	s.mu.Lock()
	s.producer = p
	s.mu.Unlock()
}

// SetStoreTimeout overrides the per-call store timeout. A store call that
// exceeds it counts as a failure and rolls back, so a hung store can never
// leave an optimistic record visible forever.
func (s *ThreadService) SetStoreTimeout(d time.Duration) {
	s.mu.Lock()
	s.storeTimeout = d
	s.mu.Unlock()
}

func (s *ThreadService) timeout() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeTimeout
}

func (s *ThreadService) threadCache() ThreadCache {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache
}

// Load replaces the flat collection with the store's current contents.
func (s *ThreadService) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	comments, err := s.store.List(ctx)
	if err != nil {
		return errno.StoreErr.WithMessage("Failed to load comments from record store: " + err.Error())
	}

	s.mu.Lock()
	s.comments = make([]*model.Comment, len(comments))
	copy(s.comments, comments)
	s.mu.Unlock()

	s.invalidateCache()
	return nil
}

// snapshot returns a copy of the flat collection together with the cache
// generation it belongs to.
func (s *ThreadService) snapshot() ([]*model.Comment, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	comments := make([]*model.Comment, len(s.comments))
	copy(comments, s.comments)
	return comments, s.cacheGen
}

// cacheCurrent reports whether no invalidation has happened since gen was
// observed.
func (s *ThreadService) cacheCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cacheGen == gen
}

// Comments returns a snapshot of the flat collection.
func (s *ThreadService) Comments() []*model.Comment {
	comments, _ := s.snapshot()
	return comments
}

// Forest returns the derived tree view, served from the cache when one is
// wired and warm.
func (s *ThreadService) Forest(ctx context.Context) []*model.CommentNode {
	if c := s.threadCache(); c != nil {
		if forest, err := c.GetCachedForest(ctx); err == nil && forest != nil {
			return forest
		}
	}

	comments, gen := s.snapshot()
	forest := BuildTree(comments)
	s.fillForestCache(ctx, gen, forest)
	return forest
}

// fillForestCache publishes a freshly built forest unless a mutation has
// invalidated the collection state it was built from. The recheck after
// the write catches an invalidation racing the write itself; that entry
// is dropped again instead of being left to serve a pre-mutation view.
func (s *ThreadService) fillForestCache(ctx context.Context, gen uint64, forest []*model.CommentNode) {
	c := s.threadCache()
	if c == nil || !s.cacheCurrent(gen) {
		return
	}
	if err := c.CacheForest(ctx, forest); err != nil {
		hlog.Warnf("Failed to cache forest: %v", err)
		return
	}
	if !s.cacheCurrent(gen) {
		c.Invalidate(ctx)
	}
}

func (s *ThreadService) fillStatsCache(ctx context.Context, gen uint64, stats *cache.ThreadStats) {
	c := s.threadCache()
	if c == nil || !s.cacheCurrent(gen) {
		return
	}
	if err := c.CacheStats(ctx, stats); err != nil {
		hlog.Warnf("Failed to cache stats: %v", err)
		return
	}
	if !s.cacheCurrent(gen) {
		c.Invalidate(ctx)
	}
}

// Stats returns the total comment count and the maximum depth of the
// current forest.
func (s *ThreadService) Stats(ctx context.Context) (total int, maxDepth int) {
	if c := s.threadCache(); c != nil {
		if stats, err := c.GetCachedStats(ctx); err == nil && stats != nil {
			return stats.TotalComments, stats.MaxDepth
		}
	}

	comments, gen := s.snapshot()
	forest := BuildTree(comments)
	total = CountNodes(forest)
	maxDepth = GetMaxDepth(forest)

	s.fillStatsCache(ctx, gen, &cache.ThreadStats{TotalComments: total, MaxDepth: maxDepth})
	return total, maxDepth
}

// validateReply rejects a reply before any optimistic state change is made.
func (s *ThreadService) validateReply(content, author string) error {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < constants.MinContentLength {
		return errno.ParamErr.WithMessage("Comment content cannot be empty")
	}
	if utf8.RuneCountInString(content) > constants.MaxContentLength {
		return errno.ParamErr.WithMessage("Comment too long, maximum 500 characters allowed")
	}
	if strings.TrimSpace(author) == "" {
		return errno.ParamErr.WithMessage("Comment author cannot be empty")
	}
	return nil
}

// Reply appends an optimistic comment and issues the asynchronous store
// add. The optimistic record is observable in the very next derived tree;
// the store outcome is observed through subsequent state (and the notifier
// on failure). parentId may be empty for a new root comment.
func (s *ThreadService) Reply(ctx context.Context, parentId, content, author string) error {
	if err := s.validateReply(content, author); err != nil {
		return err
	}

	temp := &model.Comment{
		CommentId:  constants.TempIdPrefix + uuid.NewString(),
		ParentId:   parentId,
		Content:    strings.TrimSpace(content),
		Author:     strings.TrimSpace(author),
		CreatedAt:  time.Now().Format(constants.TimeLayout),
		Optimistic: true,
	}

	s.mu.Lock()
	if parentId != "" && findComment(s.comments, parentId) == nil {
		s.mu.Unlock()
		return errno.CommentNotExistErr.WithMessage("Reply target does not exist")
	}
	s.comments = append(s.comments, temp)
	s.mu.Unlock()

	s.invalidateCache()

	fields := &model.CommentFields{
		ParentId: temp.ParentId,
		Content:  temp.Content,
		Author:   temp.Author,
	}

	s.inflight.Add(1)
	go s.confirmAdd(temp.CommentId, fields)
	return nil
}

// confirmAdd resolves a pending add: replace the temporary record with the
// store's confirmed one, or remove it entirely on failure.
func (s *ThreadService) confirmAdd(tempId string, fields *model.CommentFields) {
	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()

	confirmed, err := s.store.Add(ctx, fields)
	if err != nil {
		s.mu.Lock()
		s.comments = removeComment(s.comments, tempId)
		s.mu.Unlock()

		s.invalidateCache()
		s.notify("failed to post comment")
		s.publishEvent(&mq.ThreadEvent{
			Type:      mq.EventMutationRolledBack,
			CommentId: tempId,
			Reason:    err.Error(),
		})
		hlog.Warnf("Comment add rejected by record store, rolled back: %v", err)
		return
	}

	s.mu.Lock()
	replaced := false
	for i, comment := range s.comments {
		if comment.CommentId == tempId {
			// position in the collection is preserved
			s.comments[i] = confirmed
			replaced = true
			break
		}
	}
	s.mu.Unlock()

	if !replaced {
		// The optimistic record was swept away by a concurrent cascade
		// delete before the store answered. The durable record exists but
		// is not resurrected locally; snapshot semantics, see Delete.
		hlog.Warnf("Confirmed comment %s has no local counterpart, dropping", confirmed.CommentId)
		return
	}

	s.invalidateCache()
	s.publishEvent(&mq.ThreadEvent{
		Type:      mq.EventCommentAdded,
		Comment:   confirmed,
		CommentId: confirmed.CommentId,
	})
}

// removedComment retains one member of a delete closure together with its
// position in the pre-mutation collection, so a rollback restores both the
// record and its place.
type removedComment struct {
	comment *model.Comment
	index   int
}

// Delete removes the target and its transitive descendants optimistically
// and issues the asynchronous store delete. The closure is computed against
// the collection state at delete time: a reply that lands after this
// snapshot survives the delete. That is intended behavior, not a bug.
func (s *ThreadService) Delete(ctx context.Context, commentId string) error {
	if commentId == "" {
		return errno.ParamErr.WithMessage("Comment id is required")
	}

	s.mu.Lock()
	if findComment(s.comments, commentId) == nil {
		s.mu.Unlock()
		return errno.CommentNotExistErr
	}

	closure := collectClosure(s.comments, commentId)
	ids := make(map[string]struct{}, len(closure))
	for _, rc := range closure {
		ids[rc.comment.CommentId] = struct{}{}
	}

	kept := make([]*model.Comment, 0, len(s.comments)-len(closure))
	for _, comment := range s.comments {
		if _, gone := ids[comment.CommentId]; !gone {
			kept = append(kept, comment)
		}
	}
	s.comments = kept
	s.mu.Unlock()

	s.invalidateCache()

	s.inflight.Add(1)
	go s.confirmDelete(commentId, closure)
	return nil
}

// confirmDelete resolves a pending delete: nothing further on success, full
// positional re-insertion of the retained closure on failure.
func (s *ThreadService) confirmDelete(commentId string, closure []removedComment) {
	defer s.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()

	if err := s.store.Delete(ctx, commentId); err != nil {
		s.mu.Lock()
		// ascending index order keeps every saved position valid
		for _, rc := range closure {
			at := rc.index
			if at > len(s.comments) {
				at = len(s.comments)
			}
			s.comments = append(s.comments, nil)
			copy(s.comments[at+1:], s.comments[at:])
			s.comments[at] = rc.comment
		}
		s.mu.Unlock()

		s.invalidateCache()
		s.notify("failed to delete comment")
		s.publishEvent(&mq.ThreadEvent{
			Type:      mq.EventMutationRolledBack,
			CommentId: commentId,
			Reason:    err.Error(),
		})
		hlog.Warnf("Comment delete rejected by record store, rolled back: %v", err)
		return
	}

	s.publishEvent(&mq.ThreadEvent{
		Type:      mq.EventCommentDeleted,
		CommentId: commentId,
	})
}

// Clear empties the store and the local collection. Test/reset utility.
func (s *ThreadService) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	if err := s.store.Clear(ctx); err != nil {
		return errno.StoreErr.WithMessage("Failed to clear record store: " + err.Error())
	}

	s.mu.Lock()
	s.comments = make([]*model.Comment, 0)
	s.mu.Unlock()

	s.invalidateCache()
	return nil
}

// Wait blocks until every in-flight mutation has been confirmed or rolled
// back. Used by tests and graceful shutdown.
func (s *ThreadService) Wait() {
	s.inflight.Wait()
}

func (s *ThreadService) notify(message string) {
	s.mu.Lock()
	notifier := s.notifier
	s.mu.Unlock()
	if notifier != nil {
		notifier(message)
	}
}

func (s *ThreadService) publishEvent(event *mq.ThreadEvent) {
	s.mu.Lock()
	producer := s.producer
	timeout := s.storeTimeout
	s.mu.Unlock()
	if producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := producer.PublishThreadEvent(ctx, event); err != nil {
		hlog.Warnf("Failed to publish thread event: %v", err)
	}
}

// invalidateCache bumps the generation under the mutex first, so a cache
// fill built from an older snapshot can never land after this point.
func (s *ThreadService) invalidateCache() {
	s.mu.Lock()
	s.cacheGen++
	c := s.cache
	s.mu.Unlock()
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	c.Invalidate(ctx)
}

func findComment(comments []*model.Comment, commentId string) *model.Comment {
	for _, comment := range comments {
		if comment.CommentId == commentId {
			return comment
		}
	}
	return nil
}

func removeComment(comments []*model.Comment, commentId string) []*model.Comment {
	for i, comment := range comments {
		if comment.CommentId == commentId {
			return append(comments[:i], comments[i+1:]...)
		}
	}
	return comments
}

// collectClosure returns the target and all of its transitive descendants,
// each with its index in the pre-mutation collection, in ascending index
// order. It walks the collection as it is at call time; descendants are
// discovered through a children index built over that same snapshot.
func collectClosure(comments []*model.Comment, rootId string) []removedComment {
	children := make(map[string][]string, len(comments))
	for _, comment := range comments {
		if comment.ParentId != "" {
			children[comment.ParentId] = append(children[comment.ParentId], comment.CommentId)
		}
	}

	member := map[string]struct{}{rootId: {}}
	stack := []string{rootId}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, childId := range children[id] {
			if _, seen := member[childId]; seen {
				continue
			}
			member[childId] = struct{}{}
			stack = append(stack, childId)
		}
	}

	closure := make([]removedComment, 0, len(member))
	for i, comment := range comments {
		if _, ok := member[comment.CommentId]; ok {
			closure = append(closure, removedComment{comment: comment, index: i})
		}
	}
	return closure
}
