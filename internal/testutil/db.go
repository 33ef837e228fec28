// Package testutil provides shared fixtures for backend tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"threadline/internal/database"
	"threadline/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated SQLite database in the test's temp dir with
// foreign keys enforced, so ON DELETE CASCADE behaves as in PostgreSQL.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "threadline.db") + "?_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// CreateUser inserts a user with a cheap bcrypt hash of password.
func CreateUser(t *testing.T, db *gorm.DB, email, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  string(hash),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePost inserts a post with an explicit creation time.
func CreatePost(t *testing.T, db *gorm.DB, userID uint, visibility models.Visibility, createdAt time.Time) *models.Post {
	t.Helper()

	post := &models.Post{
		Text:       "post at " + createdAt.Format(time.RFC3339),
		Visibility: visibility,
		UserID:     userID,
		CreatedAt:  createdAt.UTC(),
		UpdatedAt:  createdAt.UTC(),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

// CreateComment inserts a comment with an explicit creation time.
func CreateComment(t *testing.T, db *gorm.DB, postID, userID uint, text string, createdAt time.Time) *models.PostComment {
	t.Helper()

	comment := &models.PostComment{
		CommentText: text,
		PostID:      postID,
		UserID:      userID,
		CreatedAt:   createdAt.UTC(),
		UpdatedAt:   createdAt.UTC(),
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
