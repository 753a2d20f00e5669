package models

import "strings"

// Tag is a label attachable to posts. Names are stored normalized
// (upper-cased) so uniqueness is case-insensitive.
type Tag struct {
	Base
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// NormalizeTagName maps a raw tag name to its stored form.
func NormalizeTagName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// PostTag is a row of the post-tag association table. The pair of foreign
// keys is the identity; join rows carry no soft-delete envelope and are
// physically removed on detach.
type PostTag struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	TagID  uint `gorm:"primaryKey;autoIncrement:false" json:"tag_id"`
}

// TableName keeps the conventional join table name.
func (PostTag) TableName() string { return "post_tags" }
