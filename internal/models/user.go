// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FirstName string    `gorm:"size:50;not null" json:"firstName"`
	LastName  string    `gorm:"size:50;not null" json:"lastName"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:'user'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the public projection of a user returned by the profile endpoint.
type Profile struct {
	ID        uint      `json:"_id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToProfile projects the user onto its public profile.
func (u *User) ToProfile() Profile {
	return Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
