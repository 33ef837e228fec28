package models

import "time"

// PostComment is a comment left on a post.
type PostComment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommentText string    `gorm:"type:text;not null" json:"commentText"`
	ImageURL    *string   `gorm:"size:255" json:"imageUrl"`
	PostID      uint      `gorm:"not null;index" json:"postId"`
	Post        *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID      uint      `gorm:"not null;index" json:"userId"`
	User        *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	TotalLikes int64         `gorm:"->;-:migration" json:"totalLikes"`
	Likes      []CommentLike `gorm:"-" json:"likes,omitempty"`
}
