package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"moviereview/internal/cache"
	apperrors "moviereview/internal/errors"
	"moviereview/internal/model"
	"moviereview/internal/repository"
)

const (
	// DefaultRecentLimit applies when the caller does not specify a limit.
	DefaultRecentLimit = 10
	// MaxRecentLimit caps the recent-reviews feed regardless of the caller's limit.
	MaxRecentLimit = 50

	ratingCacheTTL = 5 * time.Minute
)

// ReviewService is the review engine: all state-changing review operations,
// ownership checks, and derived-rating maintenance.
type ReviewService interface {
	SubmitReview(ctx context.Context, movieID, authorID uuid.UUID, rating int, comment string) (*model.Review, error)
	UpdateReview(ctx context.Context, reviewID, callerID uuid.UUID, rating int, comment string) (*model.Review, error)
	DeleteReview(ctx context.Context, reviewID, callerID uuid.UUID, callerIsAdmin bool) error
	GetReviewsForMovie(ctx context.Context, movieID uuid.UUID) ([]model.Review, error)
	GetReviewsByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error)
	GetRecentReviews(ctx context.Context, limit int) ([]model.Review, error)
	GetAverageRatingForMovie(ctx context.Context, movieID uuid.UUID) (float64, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	movieRepo  repository.MovieRepository
	userRepo   repository.UserRepository
	auditRepo  repository.ReviewAuditRepository
	cache      *cache.Client
	// Channel for async audit logging
	auditChannel chan model.ReviewAuditLog
}

// NewReviewService creates a new review service and starts its audit worker.
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	movieRepo repository.MovieRepository,
	userRepo repository.UserRepository,
	auditRepo repository.ReviewAuditRepository,
	cache *cache.Client,
) ReviewService {
	service := &reviewService{
		reviewRepo:   reviewRepo,
		movieRepo:    movieRepo,
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		cache:        cache,
		auditChannel: make(chan model.ReviewAuditLog, 100),
	}

	go service.auditWorker(context.Background())

	return service
}

func ratingCacheKey(movieID uuid.UUID) string {
	return fmt.Sprintf("movie_rating:%s", movieID)
}

// auditWorker drains audit entries in batches off the request path.
func (s *reviewService) auditWorker(ctx context.Context) {
	batch := make([]model.ReviewAuditLog, 0, 10)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-s.auditChannel:
			if !ok {
				if len(batch) > 0 {
					_ = s.auditRepo.CreateBatch(ctx, batch)
				}
				return
			}
			batch = append(batch, entry)
			if len(batch) >= 10 {
				_ = s.auditRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				_ = s.auditRepo.CreateBatch(ctx, batch)
				batch = batch[:0]
			}
		case <-ctx.Done():
			return
		}
	}
}

// audit records a review mutation without blocking the request.
func (s *reviewService) audit(ctx context.Context, review *model.Review, action model.ReviewAuditAction, detail string) {
	entry := model.ReviewAuditLog{
		ReviewID: review.ID,
		MovieID:  review.MovieID,
		UserID:   review.UserID,
		Action:   action,
		Detail:   detail,
	}

	select {
	case s.auditChannel <- entry:
	default:
		// Channel full, write synchronously as fallback
		_ = s.auditRepo.Create(ctx, &entry)
	}
}

func validateRating(rating int) error {
	if rating < model.MinRating || rating > model.MaxRating {
		return apperrors.ErrInvalidRating
	}
	return nil
}

// SubmitReview creates a review for (movie, author). The repository's unique
// index is the source of truth for duplicates; the existence pre-check only
// produces a clean conflict error without waiting for the insert to fail.
func (s *reviewService) SubmitReview(ctx context.Context, movieID, authorID uuid.UUID, rating int, comment string) (*model.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	if _, err := s.movieRepo.FindByID(ctx, movieID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if _, err := s.userRepo.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("find author: %w", err)
	}

	exists, err := s.reviewRepo.ExistsByMovieAndUser(ctx, movieID, authorID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, apperrors.ErrDuplicateReview
	}

	review := &model.Review{
		MovieID: movieID,
		UserID:  authorID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, ratingCacheKey(movieID))
	s.audit(ctx, review, model.ReviewAuditSubmit, "")

	created, err := s.reviewRepo.FindByID(ctx, review.ID)
	if err != nil {
		return review, nil
	}
	return created, nil
}

// UpdateReview overwrites rating and comment. Only the author may update;
// there is no admin override for edits.
func (s *reviewService) UpdateReview(ctx context.Context, reviewID, callerID uuid.UUID, rating int, comment string) (*model.Review, error) {
	if err := validateRating(rating); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReviewNotFound
		}
		return nil, fmt.Errorf("find review: %w", err)
	}

	if review.UserID != callerID {
		return nil, apperrors.ErrNotReviewOwner
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}

	_ = s.cache.Delete(ctx, ratingCacheKey(review.MovieID))
	s.audit(ctx, review, model.ReviewAuditUpdate, "")

	return review, nil
}

// DeleteReview removes a review. The author may always delete their own;
// an admin may delete any review for moderation.
func (s *reviewService) DeleteReview(ctx context.Context, reviewID, callerID uuid.UUID, callerIsAdmin bool) error {
	review, err := s.reviewRepo.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrReviewNotFound
		}
		return fmt.Errorf("find review: %w", err)
	}

	if !callerIsAdmin && review.UserID != callerID {
		return apperrors.ErrNotReviewOwner
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}

	_ = s.cache.Delete(ctx, ratingCacheKey(review.MovieID))
	s.audit(ctx, review, model.ReviewAuditDelete, "")

	return nil
}

// GetReviewsForMovie returns the movie's reviews newest-first. An unknown
// movie yields an empty list, not an error.
func (s *reviewService) GetReviewsForMovie(ctx context.Context, movieID uuid.UUID) ([]model.Review, error) {
	return s.reviewRepo.FindByMovie(ctx, movieID)
}

// GetReviewsByUser returns the user's reviews newest-first. An unknown user
// yields an empty list, not an error.
func (s *reviewService) GetReviewsByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error) {
	return s.reviewRepo.FindByUser(ctx, userID)
}

// GetRecentReviews returns the newest reviews across all movies. The limit
// defaults to 10 and is clamped to 50.
func (s *reviewService) GetRecentReviews(ctx context.Context, limit int) ([]model.Review, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.reviewRepo.FindRecent(ctx, limit)
}

// GetAverageRatingForMovie returns the mean rating rounded to two decimal
// places, or 0.0 when the movie has no reviews or does not exist. The value
// is cached briefly; every review mutation invalidates the cache so reads
// stay consistent with live review data.
func (s *reviewService) GetAverageRatingForMovie(ctx context.Context, movieID uuid.UUID) (float64, error) {
	key := ratingCacheKey(movieID)
	if data, _ := s.cache.Get(ctx, key); data != nil {
		if avg, err := decimal.NewFromString(string(data)); err == nil {
			return avg.InexactFloat64(), nil
		}
	}

	avg, count, err := s.reviewRepo.AverageRating(ctx, movieID)
	if err != nil {
		return 0, fmt.Errorf("average rating: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	rounded := decimal.NewFromFloat(avg).Round(2)
	_ = s.cache.Set(ctx, key, []byte(rounded.String()), ratingCacheTTL)
	return rounded.InexactFloat64(), nil
}
