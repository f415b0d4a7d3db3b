package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"moviereview/internal/model"
)

// MovieRepository defines movie persistence operations.
type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	Update(ctx context.Context, movie *model.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	List(ctx context.Context) ([]model.Movie, error)
	Search(ctx context.Context, term string) ([]model.Movie, error)
	// DeleteWithReviews removes a movie's reviews and then the movie row
	// inside a single transaction, so a failure leaves both untouched.
	DeleteWithReviews(ctx context.Context, id uuid.UUID) error
}

type movieRepository struct {
	db *gorm.DB
}

// NewMovieRepository builds a GORM-backed repository.
func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *movieRepository) Update(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Save(movie).Error
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) List(ctx context.Context) ([]model.Movie, error) {
	var movies []model.Movie
	if err := r.db.WithContext(ctx).Order("title ASC").Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

// Search matches the term as a case-insensitive substring of title or genre.
func (r *movieRepository) Search(ctx context.Context, term string) ([]model.Movie, error) {
	var movies []model.Movie
	pattern := "%" + term + "%"
	if err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(genre) LIKE LOWER(?)", pattern, pattern).
		Order("title ASC").
		Find(&movies).Error; err != nil {
		return nil, err
	}
	return movies, nil
}

func (r *movieRepository) DeleteWithReviews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("movie_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.Movie{}).Error
	})
}
