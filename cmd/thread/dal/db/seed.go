package db

import (
	"time"

	"ThreadNest.com/cmd/model"
	"ThreadNest.com/pkg/constants"
)

// SampleComments is the bootstrap dataset seeded on a store's first List
// when no prior data exists: a 5-level chain under one root plus a 2-level
// side branch. Convenience only, not part of the store contract.
func SampleComments() []*model.Comment {
	base := time.Now().Add(-7 * time.Minute)
	at := func(i int) string {
		return base.Add(time.Duration(i) * time.Minute).Format(constants.TimeLayout)
	}

	return []*model.Comment{
		{CommentId: "1", ParentId: "", Content: "This is a great thread, thanks for sharing!", Author: "Alice", CreatedAt: at(0)},
		{CommentId: "2", ParentId: "1", Content: "Agreed, very helpful.", Author: "Bob", CreatedAt: at(1)},
		{CommentId: "3", ParentId: "2", Content: "What part did you find most useful?", Author: "Charlie", CreatedAt: at(2)},
		{CommentId: "4", ParentId: "3", Content: "The section on rollbacks, definitely.", Author: "Bob", CreatedAt: at(3)},
		{CommentId: "5", ParentId: "4", Content: "Same here.", Author: "David", CreatedAt: at(4)},
		{CommentId: "6", ParentId: "", Content: "Has anyone tried this in production?", Author: "Eve", CreatedAt: at(5)},
		{CommentId: "7", ParentId: "6", Content: "We have, works fine so far.", Author: "Frank", CreatedAt: at(6)},
	}
}
