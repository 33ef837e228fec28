// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"time"

	"threadline/internal/middleware"
	"threadline/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password every seeded user can log in with.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	NumPosts        int
	CommentsPerPost int
	LikesPerPost    int
	ShouldClean     bool
	// Seed makes the generated data reproducible; zero means random.
	Seed       int64
	BcryptCost int
	// MaxDays spreads post timestamps over the last MaxDays days.
	MaxDays int
}

// Summary counts the rows written by Seed.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
}

var visibilities = []models.Visibility{
	models.VisibilityPublic, models.VisibilityPublic, models.VisibilityPublic,
	models.VisibilityPrivate, models.VisibilityFriends,
}

// Seed populates the database with fake users, posts, comments and likes.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	if opts.NumUsers <= 0 {
		return nil, fmt.Errorf("at least one user is required")
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 30
	}

	faker := gofakeit.New(opts.Seed)
	db = db.WithContext(ctx)
	log := middleware.Logger

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("failed to clear data: %w", err)
		}
		log.InfoContext(ctx, "cleared existing data")
	}

	summary := &Summary{}

	users, err := createUsers(db, faker, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	summary.Users = len(users)
	log.InfoContext(ctx, "seeded users", "count", summary.Users)

	posts, err := createPosts(db, faker, users, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create posts: %w", err)
	}
	summary.Posts = len(posts)
	log.InfoContext(ctx, "seeded posts", "count", summary.Posts)

	for _, post := range posts {
		comments, likes, err := engage(db, faker, users, post, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to seed engagement for post %d: %w", post.ID, err)
		}
		summary.Comments += comments
		summary.Likes += likes
	}
	log.InfoContext(ctx, "seeded engagement", "comments", summary.Comments, "likes", summary.Likes)

	return summary, nil
}

// clearData deletes every user; foreign keys cascade to everything else.
func clearData(db *gorm.DB) error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.User{}).Error
}

func createUsers(db *gorm.DB, faker *gofakeit.Faker, opts Options) ([]*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), opts.BcryptCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		first, last := faker.FirstName(), faker.LastName()
		users = append(users, &models.User{
			FirstName: first,
			LastName:  last,
			// The index keeps addresses unique even when names repeat.
			Email:    fmt.Sprintf("%s.%s.%d@example.com", faker.Username(), faker.LetterN(4), i),
			Password: string(hash),
		})
	}
	if err := db.CreateInBatches(users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createPosts(db *gorm.DB, faker *gofakeit.Faker, users []*models.User, opts Options) ([]*models.Post, error) {
	now := time.Now().UTC()
	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[faker.Number(0, len(users)-1)]
		createdAt := now.Add(-time.Duration(faker.Number(0, opts.MaxDays*24*60)) * time.Minute)

		post := &models.Post{
			Text:       truncate(faker.Paragraph(1, faker.Number(1, 4), 12, " "), 1000),
			Visibility: visibilities[faker.Number(0, len(visibilities)-1)],
			UserID:     author.ID,
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
		}
		if faker.Bool() {
			url := fmt.Sprintf("https://picsum.photos/seed/%s/800/800", faker.UUID())
			post.ImageURL = &url
		}
		posts = append(posts, post)
	}
	if len(posts) == 0 {
		return posts, nil
	}
	if err := db.CreateInBatches(posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func engage(db *gorm.DB, faker *gofakeit.Faker, users []*models.User, post *models.Post, opts Options) (int, int, error) {
	comments := make([]*models.PostComment, 0, opts.CommentsPerPost)
	for i := 0; i < opts.CommentsPerPost; i++ {
		author := users[faker.Number(0, len(users)-1)]
		createdAt := post.CreatedAt.Add(time.Duration(i+1) * time.Minute)
		comments = append(comments, &models.PostComment{
			CommentText: truncate(faker.Sentence(faker.Number(3, 15)), 1000),
			PostID:      post.ID,
			UserID:      author.ID,
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		})
	}
	if len(comments) > 0 {
		if err := db.Create(&comments).Error; err != nil {
			return 0, 0, err
		}
	}

	likers := faker.Number(0, min(opts.LikesPerPost, len(users)))
	likes := make([]*models.PostLike, 0, likers)
	for _, idx := range faker.Rand.Perm(len(users))[:likers] {
		likes = append(likes, &models.PostLike{PostID: post.ID, UserID: users[idx].ID})
	}
	if len(likes) > 0 {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&likes).Error; err != nil {
			return 0, 0, err
		}
	}

	return len(comments), len(likes), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
