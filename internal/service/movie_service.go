package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"moviereview/internal/cache"
	apperrors "moviereview/internal/errors"
	"moviereview/internal/model"
	"moviereview/internal/repository"
)

const movieCacheTTL = 5 * time.Minute

// MovieService exposes catalog operations.
type MovieService interface {
	CreateMovie(ctx context.Context, movie *model.Movie) (*model.Movie, error)
	UpdateMovie(ctx context.Context, id uuid.UUID, updated *model.Movie) (*model.Movie, error)
	DeleteMovie(ctx context.Context, id uuid.UUID) error
	GetMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error)
	ListMovies(ctx context.Context) ([]model.Movie, error)
	SearchMovies(ctx context.Context, term string) ([]model.Movie, error)
}

type movieService struct {
	repo  repository.MovieRepository
	cache *cache.Client
}

// NewMovieService builds a MovieService with repository and cache.
func NewMovieService(repo repository.MovieRepository, cache *cache.Client) MovieService {
	return &movieService{repo: repo, cache: cache}
}

func (s *movieService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("movie:%s", id)
}

func (s *movieService) CreateMovie(ctx context.Context, movie *model.Movie) (*model.Movie, error) {
	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	return movie, nil
}

// UpdateMovie overwrites the mutable catalog fields; the id is immutable.
func (s *movieService) UpdateMovie(ctx context.Context, id uuid.UUID, updated *model.Movie) (*model.Movie, error) {
	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}

	movie.Title = updated.Title
	movie.Description = updated.Description
	movie.ReleaseDate = updated.ReleaseDate
	movie.Director = updated.Director
	movie.Genre = updated.Genre
	movie.PosterURL = updated.PosterURL
	movie.Duration = updated.Duration

	if err := s.repo.Update(ctx, movie); err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return movie, nil
}

// DeleteMovie removes the movie and all of its reviews in one transaction.
func (s *movieService) DeleteMovie(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrMovieNotFound
		}
		return fmt.Errorf("find movie: %w", err)
	}

	if err := s.repo.DeleteWithReviews(ctx, id); err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	_ = s.cache.Delete(ctx, ratingCacheKey(id))
	return nil
}

func (s *movieService) GetMovie(ctx context.Context, id uuid.UUID) (*model.Movie, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Movie
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	movie, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMovieNotFound
		}
		return nil, fmt.Errorf("find movie: %w", err)
	}

	if payload, err := json.Marshal(movie); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, movieCacheTTL)
	}
	return movie, nil
}

func (s *movieService) ListMovies(ctx context.Context) ([]model.Movie, error) {
	return s.repo.List(ctx)
}

func (s *movieService) SearchMovies(ctx context.Context, term string) ([]model.Movie, error) {
	return s.repo.Search(ctx, term)
}
