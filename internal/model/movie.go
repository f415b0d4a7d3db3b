package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Movie represents an entry in the movie catalog.
// AverageRating is derived from reviews at read time and is deliberately
// not a column here; see service.ReviewService.GetAverageRatingForMovie.
type Movie struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null;index"`
	Description string    `json:"description,omitempty" gorm:"size:5000"`
	ReleaseDate time.Time `json:"release_date"`
	Director    string    `json:"director,omitempty" gorm:"size:255"`
	Genre       string    `json:"genre,omitempty" gorm:"size:100;index"`
	PosterURL   string    `json:"poster_url,omitempty" gorm:"size:512"`
	Duration    int       `json:"duration,omitempty"` // minutes
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
