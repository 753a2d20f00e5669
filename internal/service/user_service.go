package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/credentials"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// UserService manages accounts and the authentication flow. Passwords cross
// this boundary only as plaintext inputs to the hasher; they are never
// stored, logged, or returned.
type UserService struct {
	repos  *repository.Set
	hasher credentials.Hasher
}

// NewUserService returns a new UserService.
func NewUserService(repos *repository.Set, hasher credentials.Hasher) *UserService {
	return &UserService{repos: repos, hasher: hasher}
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// UpdateProfileInput carries the mutable profile fields.
type UpdateProfileInput struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// Register validates the signup, hashes the password, and creates the user.
// A taken username or email surfaces as a Conflict the caller can map to a
// field-level message.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login authenticates by username. The returned user has its password hash
// cleared; a failed lookup and a failed verify are indistinguishable to the
// caller.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repos.Users.FindOneBy(ctx, repository.UserColumnUsername, username, false)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewUnauthorizedError("invalid username or password")
		}
		return nil, err
	}
	if !s.hasher.Verify(password, user.Password) {
		return nil, models.NewUnauthorizedError("invalid username or password")
	}
	user.Password = ""
	return user, nil
}

// Get returns a live user by id, through the cache.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.CacheAside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		u, err := s.repos.Users.Get(ctx, id)
		if err != nil {
			return err
		}
		user = *u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetAny returns the user even if soft-deleted, for audit or recovery.
func (s *UserService) GetAny(ctx context.Context, id uint) (*models.User, error) {
	return s.repos.Users.GetAny(ctx, id)
}

// List returns one page of live users, newest first.
func (s *UserService) List(ctx context.Context, page, pageSize int) ([]models.User, error) {
	return s.repos.Users.List(ctx, page, pageSize)
}

// UpdateProfile overwrites the profile fields, keeping the stored password.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in UpdateProfileInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	current, err := s.repos.Users.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.repos.Users.Update(ctx, id, &models.User{
		Username:  in.Username,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  current.Password,
	})
	if err != nil {
		return nil, err
	}
	cache.InvalidateUser(ctx, id)
	return updated, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *UserService) ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) error {
	if err := validation.ValidatePassword(newPassword); err != nil {
		return models.NewValidationError(err.Error())
	}
	user, err := s.repos.Users.Get(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, user.Password) {
		return models.NewUnauthorizedError("current password is incorrect")
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return models.NewInternalError(err)
	}
	user.Password = hash
	if _, err := s.repos.Users.Update(ctx, id, user); err != nil {
		return err
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

// Delete soft-deletes a user. Their content stays attributed to the id.
func (s *UserService) Delete(ctx context.Context, id uint) (bool, error) {
	deleted, err := s.repos.Users.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		cache.InvalidateUser(ctx, id)
	}
	return deleted, nil
}

// Stats counts the user's live posts, comments, and reviews.
func (s *UserService) Stats(ctx context.Context, id uint) (*models.UserStats, error) {
	if _, err := s.repos.Users.Get(ctx, id); err != nil {
		return nil, err
	}
	posts, err := s.repos.Posts.CountByAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.repos.Comments.CountByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.repos.Reviews.CountByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserStats{
		PostCount:     posts,
		CommentsCount: comments,
		ReviewsCount:  reviews,
	}, nil
}
