package repository

import (
	"context"

	"gorm.io/gorm"
)

// Set bundles every repository over one gorm handle so services receive a
// single dependency and multi-entity writes can share a transaction.
type Set struct {
	db       *gorm.DB
	Users    UserRepository
	Posts    PostRepository
	Tags     TagRepository
	Comments CommentRepository
	Reviews  ReviewRepository
	PostTags PostTagRepository
}

// NewSet builds a repository set bound to db.
func NewSet(db *gorm.DB) *Set {
	return &Set{
		db:       db,
		Users:    NewUserRepository(db),
		Posts:    NewPostRepository(db),
		Tags:     NewTagRepository(db),
		Comments: NewCommentRepository(db),
		Reviews:  NewReviewRepository(db),
		PostTags: NewPostTagRepository(db),
	}
}

// InTx runs fn against a set bound to a single transaction. A non-nil error
// from fn rolls everything back, so multi-step aggregate writes (post plus
// tag associations, tag-set replacement) never leave partial state.
func (s *Set) InTx(ctx context.Context, fn func(tx *Set) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewSet(tx))
	})
}
