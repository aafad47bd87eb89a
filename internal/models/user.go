package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         Role           `gorm:"size:16;not null;default:'PLAIN'" json:"role"`
	Allergens    []Allergen     `gorm:"foreignKey:UserID" json:"allergens"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// AllergenSet returns the user's allergens as an exclusion filter.
func (u *User) AllergenSet() []AllergenType {
	set := make([]AllergenType, 0, len(u.Allergens))
	seen := make(map[AllergenType]bool, len(u.Allergens))
	for _, a := range u.Allergens {
		if seen[a.AllergenType] {
			continue
		}
		seen[a.AllergenType] = true
		set = append(set, a.AllergenType)
	}
	return set
}

// Allergen represents an allergen entry for a user.
type Allergen struct {
	UserID        uuid.UUID    `gorm:"type:varchar(36);primaryKey" json:"user_id"`
	AllergenType  AllergenType `gorm:"size:16;primaryKey" json:"allergen_type"`
	SeverityLevel int          `gorm:"not null;default:1;check:severity_level >= 1 AND severity_level <= 5" json:"severity_level"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (Allergen) TableName() string {
	return "allergens"
}

// UserFollow records that FollowerID follows FolloweeID.
type UserFollow struct {
	FollowerID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"type:varchar(36);primaryKey;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (UserFollow) TableName() string {
	return "user_follows"
}
