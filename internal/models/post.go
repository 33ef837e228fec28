package models

import "time"

// Visibility is the access level of a post.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
	// VisibilityFriends is accepted and stored, but there is no friendship
	// model yet, so the feed treats it like private.
	VisibilityFriends Visibility = "friends"
)

// Post is a user-authored entry in the feed.
type Post struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Text     string  `gorm:"type:text" json:"text"`
	ImageURL *string `gorm:"size:255" json:"imageUrl"`
	VideoURL *string `gorm:"size:255" json:"videoUrl"`
	// LikesCount and CommentsCount are persisted but never maintained.
	// Readers use TotalLikes and TotalComments.
	LikesCount    int        `gorm:"not null;default:0" json:"likesCount"`
	CommentsCount int        `gorm:"not null;default:0" json:"commentsCount"`
	IsPublished   bool       `gorm:"not null;default:true" json:"isPublished"`
	Visibility    Visibility `gorm:"size:10;not null;default:'public';check:chk_posts_visibility,visibility IN ('public','private','friends')" json:"visibility"`
	UserID        uint       `gorm:"not null;index" json:"userId"`
	User          *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Computed at query time
	TotalLikes    int64 `gorm:"->;-:migration" json:"totalLikes"`
	TotalComments int64 `gorm:"->;-:migration" json:"totalComments"`

	// Filled by the feed read model with per-post limits
	Likes    []PostLike    `gorm:"-" json:"likes,omitempty"`
	Comments []PostComment `gorm:"-" json:"comments,omitempty"`
}

// Valid reports whether v is one of the known visibility levels.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityFriends:
		return true
	}
	return false
}
