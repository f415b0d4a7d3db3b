package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"moviereview/internal/errors"
	"moviereview/internal/model"
	"moviereview/internal/service"
)

// MovieHandler handles catalog endpoints.
type MovieHandler struct {
	movieService  service.MovieService
	reviewService service.ReviewService
}

// NewMovieHandler creates a new movie handler.
func NewMovieHandler(movieService service.MovieService, reviewService service.ReviewService) *MovieHandler {
	return &MovieHandler{movieService: movieService, reviewService: reviewService}
}

// MovieRequest represents a movie create/update request.
type MovieRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
	ReleaseDate string `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Director    string `json:"director" validate:"max=255"`
	Genre       string `json:"genre" validate:"max=100"`
	PosterURL   string `json:"poster_url" validate:"omitempty,url,max=512"`
	Duration    int    `json:"duration" validate:"omitempty,min=1"`
}

// MovieResponse represents a movie with its derived average rating.
type MovieResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	ReleaseDate   string  `json:"release_date,omitempty"`
	Director      string  `json:"director,omitempty"`
	Genre         string  `json:"genre,omitempty"`
	PosterURL     string  `json:"poster_url,omitempty"`
	Duration      int     `json:"duration,omitempty"`
	AverageRating float64 `json:"average_rating"`
}

// RatingResponse carries a movie's aggregate rating.
type RatingResponse struct {
	MovieID       string  `json:"movie_id"`
	AverageRating float64 `json:"average_rating"`
}

func (r *MovieRequest) toModel() *model.Movie {
	movie := &model.Movie{
		Title:       r.Title,
		Description: r.Description,
		Director:    r.Director,
		Genre:       r.Genre,
		PosterURL:   r.PosterURL,
		Duration:    r.Duration,
	}
	if r.ReleaseDate != "" {
		if parsed, err := time.Parse("2006-01-02", r.ReleaseDate); err == nil {
			movie.ReleaseDate = parsed
		}
	}
	return movie
}

func (h *MovieHandler) toResponse(c echo.Context, movie *model.Movie) (MovieResponse, error) {
	resp := MovieResponse{
		ID:          movie.ID.String(),
		Title:       movie.Title,
		Description: movie.Description,
		Director:    movie.Director,
		Genre:       movie.Genre,
		PosterURL:   movie.PosterURL,
		Duration:    movie.Duration,
	}
	if !movie.ReleaseDate.IsZero() {
		resp.ReleaseDate = movie.ReleaseDate.Format("2006-01-02")
	}
	avg, err := h.reviewService.GetAverageRatingForMovie(c.Request().Context(), movie.ID)
	if err != nil {
		return resp, err
	}
	resp.AverageRating = avg
	return resp, nil
}

// toResponses is best effort on ratings: a movie whose aggregate cannot be
// read at that moment is listed with average_rating 0 rather than failing
// the whole listing.
func (h *MovieHandler) toResponses(c echo.Context, movies []model.Movie) []MovieResponse {
	responses := make([]MovieResponse, 0, len(movies))
	for i := range movies {
		resp, _ := h.toResponse(c, &movies[i])
		responses = append(responses, resp)
	}
	return responses
}

// ListMovies godoc
// @Summary List all movies
// @Tags movies
// @Produce json
// @Success 200 {array} MovieResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /movies [get]
func (h *MovieHandler) ListMovies(c echo.Context) error {
	movies, err := h.movieService.ListMovies(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, h.toResponses(c, movies))
}

// GetMovie godoc
// @Summary Get a movie by ID
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} MovieResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{id} [get]
func (h *MovieHandler) GetMovie(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}

	movie, err := h.movieService.GetMovie(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	resp, err := h.toResponse(c, movie)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, resp)
}

// SearchMovies godoc
// @Summary Search movies by title or genre
// @Tags movies
// @Produce json
// @Param query query string true "Search term"
// @Success 200 {array} MovieResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /movies/search [get]
func (h *MovieHandler) SearchMovies(c echo.Context) error {
	term := c.QueryParam("query")
	movies, err := h.movieService.SearchMovies(c.Request().Context(), term)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, h.toResponses(c, movies))
}

// GetMovieRating godoc
// @Summary Get a movie's average rating
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} RatingResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /movies/{id}/rating [get]
func (h *MovieHandler) GetMovieRating(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}

	avg, err := h.reviewService.GetAverageRatingForMovie(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, RatingResponse{MovieID: id.String(), AverageRating: avg})
}

// CreateMovie godoc
// @Summary Create a movie (admin only)
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MovieRequest true "Movie data"
// @Success 201 {object} MovieResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /movies [post]
func (h *MovieHandler) CreateMovie(c echo.Context) error {
	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	movie, err := h.movieService.CreateMovie(c.Request().Context(), req.toModel())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	resp, err := h.toResponse(c, movie)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, resp)
}

// UpdateMovie godoc
// @Summary Update a movie (admin only)
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param request body MovieRequest true "Movie data"
// @Success 200 {object} MovieResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}

	var req MovieRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	movie, err := h.movieService.UpdateMovie(c.Request().Context(), id, req.toModel())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	resp, err := h.toResponse(c, movie)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, resp)
}

// DeleteMovie godoc
// @Summary Delete a movie and its reviews (admin only)
// @Tags movies
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}

	if err := h.movieService.DeleteMovie(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
