package entities

import "github.com/google/uuid"

// Comment is a message posted on a deal. ParentID is set for replies.
type Comment struct {
	ID       uuid.UUID
	DealID   uuid.UUID
	AuthorID uuid.UUID
	Content  string
	ParentID *uuid.UUID
	Audit
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil && *c.ParentID != uuid.Nil
}
