package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review represents a single user's review of a movie.
// The composite unique index on (movie_id, user_id) is the source of truth
// for the one-review-per-user-per-movie rule; concurrent submissions that
// slip past the application-level check are rejected by the database.
type Review struct {
	ID         uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	MovieID    uuid.UUID `json:"movie_id" gorm:"type:char(36);not null;uniqueIndex:idx_reviews_movie_user;index"`
	UserID     uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_reviews_movie_user;index"`
	Rating     int       `json:"rating" gorm:"not null"`
	Comment    string    `json:"comment,omitempty" gorm:"size:2000"`
	ReviewDate time.Time `json:"review_date" gorm:"not null;index"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Relations
	Movie Movie `json:"-" gorm:"foreignKey:MovieID"`
	User  User  `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID and the server-assigned review timestamp.
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ReviewDate.IsZero() {
		r.ReviewDate = time.Now().UTC()
	}
	return nil
}

// MinRating and MaxRating bound the star scale.
const (
	MinRating = 1
	MaxRating = 5
)
