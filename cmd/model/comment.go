package model

// Comment is a single flat record of the thread. Comments relate to each
// other only through ParentId; the tree shape is derived, never stored.
type Comment struct {
	CommentId string `json:"id" gorm:"column:comment_id;primaryKey;type:varchar(64)"`
	ParentId  string `json:"parent_id,omitempty" gorm:"column:parent_id;type:varchar(64);index"`
	Content   string `json:"content" gorm:"column:content;type:varchar(500)"`
	Author    string `json:"author" gorm:"column:author;type:varchar(64)"`
	CreatedAt string `json:"created_at" gorm:"column:created_at;type:varchar(32);index"`
	// Optimistic marks a locally created comment the record store has not
	// confirmed yet. It never reaches the store.
	Optimistic bool `json:"optimistic,omitempty" gorm:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

// CommentFields carries the caller-supplied part of an add request. The
// record store assigns the id and the creation timestamp itself.
type CommentFields struct {
	ParentId string `json:"parent_id"`
	Content  string `json:"content"`
	Author   string `json:"author"`
}

// CommentNode is the derived tree view of a Comment. Nodes are ephemeral:
// rebuilt from the flat collection on every change and never mutated in
// place.
type CommentNode struct {
	Comment
	Children []*CommentNode `json:"children"`
	Depth    int            `json:"depth"`
}
