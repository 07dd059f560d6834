package db

import (
	"context"
	"strings"
	"sync"
	"time"

	"ThreadNest.com/cmd/model"
	"ThreadNest.com/pkg/constants"
	"ThreadNest.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CommentStore is the durable MySQL-backed record store. It assigns
// snowflake ids and creation timestamps itself and enforces the cascade on
// delete server-side.
type CommentStore struct {
	db          *gorm.DB
	seedOnEmpty bool
	seedOnce    sync.Once
}

func NewCommentStore(db *gorm.DB, seedOnEmpty bool) *CommentStore {
	return &CommentStore{db: db, seedOnEmpty: seedOnEmpty}
}

// List returns the full flat collection ordered by creation time. On the
// first call it seeds the sample dataset if the table is empty.
func (cs *CommentStore) List(ctx context.Context) ([]*model.Comment, error) {
	if cs.seedOnEmpty {
		cs.seedOnce.Do(func() {
			if err := cs.seedIfEmpty(ctx); err != nil {
				hlog.Warnf("Failed to seed sample comments: %v", err)
			}
		})
	}

	comments := make([]*model.Comment, 0)
	if err := cs.db.WithContext(ctx).Model(&model.Comment{}).
		Order("created_at asc").Find(&comments).Error; err != nil {
		return nil, errors.WithMessage(err, "Failed to list comments")
	}
	return comments, nil
}

// Add assigns a durable id and timestamp, persists the record and returns
// the confirmed comment.
func (cs *CommentStore) Add(ctx context.Context, fields *model.CommentFields) (*model.Comment, error) {
	comment := &model.Comment{
		CommentId: utils.GenerateCommentID(),
		ParentId:  fields.ParentId,
		Content:   strings.TrimSpace(fields.Content),
		Author:    strings.TrimSpace(fields.Author),
		CreatedAt: time.Now().Format(constants.TimeLayout),
	}
	if err := cs.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, errors.WithMessage(err, "Failed to create comment")
	}
	return comment, nil
}

// Delete removes the identified comment and everything depending on it.
// The cascade is re-derived here, layer by layer over parent_id, and the
// whole closure is removed in one transaction.
func (cs *CommentStore) Delete(ctx context.Context, commentId string) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		closure := []string{commentId}
		frontier := []string{commentId}
		for len(frontier) > 0 {
			next := make([]string, 0)
			if err := tx.Model(&model.Comment{}).
				Where("parent_id IN ?", frontier).
				Pluck("comment_id", &next).Error; err != nil {
				return err
			}
			closure = append(closure, next...)
			frontier = next
		}

		return tx.Where("comment_id IN ?", closure).Delete(&model.Comment{}).Error
	})
}

// Clear empties the backing collection.
func (cs *CommentStore) Clear(ctx context.Context) error {
	return cs.db.WithContext(ctx).Where("1 = 1").Delete(&model.Comment{}).Error
}

func (cs *CommentStore) seedIfEmpty(ctx context.Context) error {
	var count int64
	if err := cs.db.WithContext(ctx).Model(&model.Comment{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hlog.Info("Comments table empty, seeding sample dataset")
	return cs.db.WithContext(ctx).Create(SampleComments()).Error
}
