// Package seed fills a development database with plausible content. It goes
// through the service layer rather than raw inserts, so seeded data obeys
// the same validation and uniqueness rules as real traffic.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"inkwell/internal/credentials"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options controls how much content Run produces.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	Seed            int64
}

// DefaultOptions is a small but fully connected data set.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		PostsPerUser:    3,
		CommentsPerPost: 4,
		Seed:            1,
	}
}

var tagPool = []string{
	"go", "databases", "testing", "tooling", "performance",
	"design", "career", "opinion", "release", "debugging",
}

// SeedPassword is the shared credential for all seeded accounts.
const SeedPassword = "password"

// Run populates the database. It expects the schema to exist already.
func Run(ctx context.Context, db *gorm.DB, opts Options) error {
	faker := gofakeit.New(opts.Seed)
	rng := rand.New(rand.NewSource(opts.Seed))

	repos := repository.NewSet(db)
	users := service.NewUserService(repos, credentials.NewHasher())
	posts := service.NewPostService(repos)
	comments := service.NewCommentService(repos)
	reviews := service.NewReviewService(repos)

	seeded := make([]*models.User, 0, opts.Users)
	for i := 0; i < opts.Users; i++ {
		username := fmt.Sprintf("%.8s%03d", strings.ToLower(faker.Username()), i)
		user, err := users.Register(ctx, service.RegisterInput{
			Username:  username,
			FirstName: faker.FirstName(),
			LastName:  faker.LastName(),
			Email:     fmt.Sprintf("%s@%s", username, faker.DomainName()),
			Password:  SeedPassword,
		})
		if err != nil {
			return fmt.Errorf("seed user %d: %w", i, err)
		}
		seeded = append(seeded, user)
	}

	for _, author := range seeded {
		for i := 0; i < opts.PostsPerUser; i++ {
			title := faker.Sentence(4)
			if len(title) > 50 {
				title = title[:50]
			}
			nTags := 1 + rng.Intn(3)
			names := make([]string, 0, nTags)
			for j := 0; j < nTags; j++ {
				names = append(names, tagPool[rng.Intn(len(tagPool))])
			}
			post, err := posts.Create(ctx, service.CreatePostInput{
				AuthorID: author.ID,
				Title:    title,
				Body:     faker.Paragraph(3, 4, 12, "\n\n"),
				Tags:     names,
			})
			if err != nil {
				return fmt.Errorf("seed post for user %d: %w", author.ID, err)
			}

			if err := seedDiscussion(ctx, comments, reviews, rng, faker, post.ID, seeded, opts.CommentsPerPost); err != nil {
				return err
			}
		}
	}

	observability.GlobalLogger.Info("seed complete")
	return nil
}

// seedDiscussion attaches comments (some threaded) and ratings to a post.
func seedDiscussion(
	ctx context.Context,
	comments *service.CommentService,
	reviews *service.ReviewService,
	rng *rand.Rand,
	faker *gofakeit.Faker,
	postID uint,
	users []*models.User,
	n int,
) error {
	var created []*models.Comment
	for i := 0; i < n; i++ {
		commenter := users[rng.Intn(len(users))]
		input := service.CreateCommentInput{
			PostID: postID,
			UserID: commenter.ID,
			Body:   faker.Sentence(8),
		}
		// Roughly half the comments past the first reply to an earlier one.
		if len(created) > 0 && rng.Intn(2) == 0 {
			input.ParentID = &created[rng.Intn(len(created))].ID
		}
		comment, err := comments.Create(ctx, input)
		if err != nil {
			return fmt.Errorf("seed comment on post %d: %w", postID, err)
		}
		created = append(created, comment)
	}

	ratings := []models.Rating{
		models.RatingOne, models.RatingTwo, models.RatingThree,
		models.RatingFour, models.RatingFive,
	}
	for _, reviewer := range users {
		if rng.Intn(3) != 0 {
			continue
		}
		_, err := reviews.Rate(ctx, service.RateInput{
			PostID: postID,
			UserID: reviewer.ID,
			Rate:   ratings[rng.Intn(len(ratings))],
		})
		if err != nil {
			return fmt.Errorf("seed review on post %d: %w", postID, err)
		}
	}
	return nil
}
