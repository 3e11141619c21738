package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMember    UserRole = "member"
	RoleModerator UserRole = "moderator"
)

// User is the shared users row. Identity columns belong to the auth service;
// the reputation counters are only written by the matching engine.
type User struct {
	ID            string    `gorm:"type:uuid;primary_key" json:"id"`
	Username      string    `gorm:"uniqueIndex;not null" json:"username"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone         string    `gorm:"type:varchar(32);not null;default:''" json:"phone"`
	PasswordHash  string    `gorm:"not null;default:''" json:"-"`
	Role          UserRole  `gorm:"type:varchar(16);default:'member'" json:"role"`
	DonationCount int       `gorm:"not null;default:0" json:"donation_count"`
	TotalRating   int       `gorm:"not null;default:0" json:"total_rating"`
	RatingCount   int       `gorm:"not null;default:0" json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
