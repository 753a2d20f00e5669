package models

// Post is a blog entry owned by a user.
type Post struct {
	Base
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Title    string `gorm:"size:50;not null" json:"title"`
	Body     string `gorm:"type:text" json:"body"`
}
