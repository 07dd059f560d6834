package db

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"ThreadNest.com/cmd/model"
	"ThreadNest.com/pkg/constants"
	"ThreadNest.com/pkg/utils"
)

// ErrStoreFailure is the simulated transport failure returned by
// MemoryStore when its failure injection fires.
var ErrStoreFailure = errors.New("record store request failed")

// MemoryStore is an in-process record store with injected latency and
// failure, used in standalone mode and by tests. It honors the same
// contract as CommentStore, including server-side cascade on delete and
// sample-data seeding on first List.
type MemoryStore struct {
	mu       sync.Mutex
	comments []*model.Comment

	latency     time.Duration
	failureRate float64
	rnd         *rand.Rand

	seedOnEmpty bool
	seedOnce    sync.Once
}

func NewMemoryStore(latency time.Duration, failureRate float64, seedOnEmpty bool) *MemoryStore {
	return &MemoryStore{
		comments:    make([]*model.Comment, 0),
		latency:     latency,
		failureRate: failureRate,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		seedOnEmpty: seedOnEmpty,
	}
}

// SetLatency adjusts the simulated round-trip latency.
func (ms *MemoryStore) SetLatency(d time.Duration) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.latency = d
}

// SetFailureRate adjusts the failure injection probability; 1 makes every
// subsequent call fail, 0 makes every call succeed.
func (ms *MemoryStore) SetFailureRate(rate float64) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.failureRate = rate
}

// simulate applies the configured latency and failure injection.
func (ms *MemoryStore) simulate(ctx context.Context) error {
	ms.mu.Lock()
	latency := ms.latency
	failureRate := ms.failureRate
	fail := failureRate > 0 && ms.rnd.Float64() < failureRate
	ms.mu.Unlock()

	if latency > 0 {
		select {
		case <-time.After(latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if fail {
		return ErrStoreFailure
	}
	return nil
}

func (ms *MemoryStore) List(ctx context.Context) ([]*model.Comment, error) {
	if err := ms.simulate(ctx); err != nil {
		return nil, err
	}

	if ms.seedOnEmpty {
		ms.seedOnce.Do(func() {
			ms.mu.Lock()
			if len(ms.comments) == 0 {
				ms.comments = append(ms.comments, SampleComments()...)
			}
			ms.mu.Unlock()
		})
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	list := make([]*model.Comment, len(ms.comments))
	for i, comment := range ms.comments {
		c := *comment
		list[i] = &c
	}
	return list, nil
}

func (ms *MemoryStore) Add(ctx context.Context, fields *model.CommentFields) (*model.Comment, error) {
	if err := ms.simulate(ctx); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		CommentId: utils.GenerateCommentID(),
		ParentId:  fields.ParentId,
		Content:   strings.TrimSpace(fields.Content),
		Author:    strings.TrimSpace(fields.Author),
		CreatedAt: time.Now().Format(constants.TimeLayout),
	}

	ms.mu.Lock()
	ms.comments = append(ms.comments, comment)
	ms.mu.Unlock()

	confirmed := *comment
	return &confirmed, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, commentId string) error {
	if err := ms.simulate(ctx); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	// re-derive the cascade over the backing collection
	children := make(map[string][]string, len(ms.comments))
	for _, comment := range ms.comments {
		if comment.ParentId != "" {
			children[comment.ParentId] = append(children[comment.ParentId], comment.CommentId)
		}
	}

	closure := map[string]struct{}{commentId: {}}
	stack := []string{commentId}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, childId := range children[id] {
			if _, seen := closure[childId]; !seen {
				closure[childId] = struct{}{}
				stack = append(stack, childId)
			}
		}
	}

	kept := make([]*model.Comment, 0, len(ms.comments))
	for _, comment := range ms.comments {
		if _, gone := closure[comment.CommentId]; !gone {
			kept = append(kept, comment)
		}
	}
	ms.comments = kept
	return nil
}

func (ms *MemoryStore) Clear(ctx context.Context) error {
	if err := ms.simulate(ctx); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.comments = make([]*model.Comment, 0)
	return nil
}
