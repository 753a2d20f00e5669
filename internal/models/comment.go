package models

// Comment is a remark on a post. ParentID is nil for top-level comments and
// otherwise references an existing comment on the same post; parents always
// exist before their children, so the relation cannot form cycles.
type Comment struct {
	Base
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	Body     string `gorm:"type:text;not null" json:"body"`
	ParentID *uint  `gorm:"index" json:"parent_id"`
}

// TopLevel reports whether the comment starts a thread.
func (c *Comment) TopLevel() bool {
	return c.ParentID == nil
}
