package models

import "time"

// PostLike records a user's like on a post.
// The combination of PostID and UserID is unique.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_post_user" json:"postId"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_post_user;index" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentLike records a user's like on a comment.
// The combination of CommentID and UserID is unique.
type CommentLike struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	CommentID uint         `gorm:"not null;uniqueIndex:idx_comment_likes_comment_user" json:"commentId"`
	Comment   *PostComment `gorm:"foreignKey:CommentID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint         `gorm:"not null;uniqueIndex:idx_comment_likes_comment_user;index" json:"userId"`
	User      *User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time    `json:"createdAt"`
}

// LikeState is returned by like and unlike operations.
type LikeState struct {
	Liked      bool  `json:"liked"`
	TotalLikes int64 `json:"totalLikes"`
}
