package repository

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "moviereview/internal/errors"
	"moviereview/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	ExistsByMovieAndUser(ctx context.Context, movieID, userID uuid.UUID) (bool, error)
	FindByMovie(ctx context.Context, movieID uuid.UUID) ([]model.Review, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error)
	FindRecent(ctx context.Context, limit int) ([]model.Review, error)
	AverageRating(ctx context.Context, movieID uuid.UUID) (float64, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository builds a GORM-backed repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review. The unique index on (movie_id, user_id) settles
// concurrent duplicate submissions; a duplicate-key failure is translated to
// the domain conflict error so racing callers still see a clean 409.
func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	err := r.db.WithContext(ctx).Create(review).Error
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return apperrors.ErrDuplicateReview
	}
	return err
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{}).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Preload("Movie").Preload("User").
		Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ExistsByMovieAndUser(ctx context.Context, movieID, userID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("movie_id = ? AND user_id = ?", movieID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reviewRepository) FindByMovie(ctx context.Context, movieID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).
		Preload("Movie").Preload("User").
		Where("movie_id = ?", movieID).
		Order("review_date DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).
		Preload("Movie").Preload("User").
		Where("user_id = ?", userID).
		Order("review_date DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindRecent returns the newest reviews across all movies. The secondary
// order on id keeps the feed deterministic when timestamps tie.
func (r *reviewRepository) FindRecent(ctx context.Context, limit int) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).
		Preload("Movie").Preload("User").
		Order("review_date DESC, id DESC").
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// AverageRating computes the unrounded mean rating and review count for a
// movie directly in SQL; both are zero when the movie has no reviews.
func (r *reviewRepository) AverageRating(ctx context.Context, movieID uuid.UUID) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	if err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("movie_id = ?", movieID).
		Scan(&result).Error; err != nil {
		return 0, 0, err
	}
	return result.Avg, result.Count, nil
}
