package repository

import (
	"context"
	"errors"

	"threadline/internal/models"

	"gorm.io/gorm"
)

// Per-parent limits for the nested collections attached to each feed post.
const (
	FeedLikesPerPost        = 10
	FeedCommentsPerPost     = 5
	FeedLikesPerComment     = 10
	postTotalsSelect        = "posts.*, (SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = posts.id) AS total_likes, (SELECT COUNT(*) FROM post_comments pc WHERE pc.post_id = posts.id) AS total_comments"
	commentTotalLikesSelect = "(SELECT COUNT(*) FROM comment_likes cl WHERE cl.comment_id = post_comments.id) AS total_likes"
)

// FeedQuery selects one page of the feed for a viewer.
type FeedQuery struct {
	ViewerID uint
	Limit    int
	Cursor   *Cursor
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Feed(ctx context.Context, q FeedQuery) ([]*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// Feed returns posts the viewer may see, newest first, each with its author,
// full like and comment totals, and per-post truncated likes and comments.
func (r *postRepository) Feed(ctx context.Context, q FeedQuery) ([]*models.Post, error) {
	var posts []*models.Post

	tx := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select(postTotalsSelect).
		Preload("User", omitPassword).
		Where("(posts.user_id = ? OR posts.visibility = ?)", q.ViewerID, models.VisibilityPublic)
	tx = q.Cursor.Apply(tx, "posts")

	err := tx.Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(q.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if len(posts) == 0 {
		return posts, nil
	}

	if err := r.attachLikes(ctx, posts); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := r.attachComments(ctx, posts); err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// attachLikes loads the most recent likes of every post, at most
// FeedLikesPerPost each, with a single windowed query.
func (r *postRepository) attachLikes(ctx context.Context, posts []*models.Post) error {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	ranked := r.db.Model(&models.PostLike{}).
		Select("post_likes.*, ROW_NUMBER() OVER (PARTITION BY post_likes.post_id ORDER BY post_likes.created_at DESC, post_likes.id DESC) AS rn").
		Where("post_likes.post_id IN ?", ids)

	var likes []models.PostLike
	err := r.db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Where("ranked.rn <= ?", FeedLikesPerPost).
		Order("ranked.post_id, ranked.created_at DESC, ranked.id DESC").
		Find(&likes).Error
	if err != nil {
		return err
	}

	byPost := make(map[uint][]models.PostLike, len(posts))
	for _, like := range likes {
		byPost[like.PostID] = append(byPost[like.PostID], like)
	}
	for _, p := range posts {
		p.Likes = byPost[p.ID]
	}
	return nil
}

// attachComments loads the newest FeedCommentsPerPost comments of every post
// with their authors, like totals and up to FeedLikesPerComment likes each.
func (r *postRepository) attachComments(ctx context.Context, posts []*models.Post) error {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	ranked := r.db.Model(&models.PostComment{}).
		Select("post_comments.*, "+commentTotalLikesSelect+", ROW_NUMBER() OVER (PARTITION BY post_comments.post_id ORDER BY post_comments.id DESC) AS rn").
		Where("post_comments.post_id IN ?", ids)

	var comments []models.PostComment
	err := r.db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Preload("User", omitPassword).
		Where("ranked.rn <= ?", FeedCommentsPerPost).
		Order("ranked.post_id, ranked.id DESC").
		Find(&comments).Error
	if err != nil {
		return err
	}

	if err := attachCommentLikes(ctx, r.db, comments, FeedLikesPerComment); err != nil {
		return err
	}

	byPost := make(map[uint][]models.PostComment, len(posts))
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], c)
	}
	for _, p := range posts {
		p.Comments = byPost[p.ID]
	}
	return nil
}

// attachCommentLikes fills Likes on each comment with its newest likes, at most perComment each.
func attachCommentLikes(ctx context.Context, db *gorm.DB, comments []models.PostComment, perComment int) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]uint, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}

	ranked := db.Model(&models.CommentLike{}).
		Select("comment_likes.*, ROW_NUMBER() OVER (PARTITION BY comment_likes.comment_id ORDER BY comment_likes.created_at DESC, comment_likes.id DESC) AS rn").
		Where("comment_likes.comment_id IN ?", ids)

	var likes []models.CommentLike
	err := db.WithContext(ctx).
		Table("(?) AS ranked", ranked).
		Where("ranked.rn <= ?", perComment).
		Order("ranked.comment_id, ranked.created_at DESC, ranked.id DESC").
		Find(&likes).Error
	if err != nil {
		return err
	}

	byComment := make(map[uint][]models.CommentLike, len(comments))
	for _, like := range likes {
		byComment[like.CommentID] = append(byComment[like.CommentID], like)
	}
	for i := range comments {
		comments[i].Likes = byComment[comments[i].ID]
	}
	return nil
}
