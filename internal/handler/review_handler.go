package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"moviereview/internal/errors"
	"moviereview/internal/model"
	"moviereview/internal/service"
)

// ReviewHandler handles review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ReviewRequest represents a review submit/update request.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// ReviewResponse is the denormalized review projection: it carries the movie
// title and username so clients need no second lookup.
type ReviewResponse struct {
	ID         string `json:"id"`
	MovieID    string `json:"movie_id"`
	MovieTitle string `json:"movie_title,omitempty"`
	UserID     string `json:"user_id"`
	Username   string `json:"username,omitempty"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment,omitempty"`
	ReviewDate string `json:"review_date"`
}

func toReviewResponse(review *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID.String(),
		MovieID:    review.MovieID.String(),
		MovieTitle: review.Movie.Title,
		UserID:     review.UserID.String(),
		Username:   review.User.Username,
		Rating:     review.Rating,
		Comment:    review.Comment,
		ReviewDate: review.ReviewDate.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toReviewResponses(reviews []model.Review) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, toReviewResponse(&reviews[i]))
	}
	return responses
}

// GetReviewsForMovie godoc
// @Summary List reviews for a movie, newest first
// @Tags reviews
// @Produce json
// @Param movieId path string true "Movie ID"
// @Success 200 {array} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /reviews/movie/{movieId} [get]
func (h *ReviewHandler) GetReviewsForMovie(c echo.Context) error {
	movieID, err := uuid.Parse(c.Param("movieId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}

	reviews, err := h.reviewService.GetReviewsForMovie(c.Request().Context(), movieID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, toReviewResponses(reviews))
}

// GetRecentReviews godoc
// @Summary List the most recent reviews across all movies
// @Tags reviews
// @Produce json
// @Param limit query int false "Maximum reviews to return (default 10, max 50)"
// @Success 200 {array} ReviewResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reviews/recent [get]
func (h *ReviewHandler) GetRecentReviews(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	reviews, err := h.reviewService.GetRecentReviews(c.Request().Context(), limit)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, toReviewResponses(reviews))
}

// GetMyReviews godoc
// @Summary List the caller's own reviews
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ReviewResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /reviews/my-reviews [get]
func (h *ReviewHandler) GetMyReviews(c echo.Context) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return err
	}

	reviews, err := h.reviewService.GetReviewsByUser(c.Request().Context(), principal.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, toReviewResponses(reviews))
}

// SubmitReview godoc
// @Summary Submit a review for a movie
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param movieId path string true "Movie ID"
// @Param request body ReviewRequest true "Review data"
// @Success 201 {object} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reviews/movie/{movieId} [post]
func (h *ReviewHandler) SubmitReview(c echo.Context) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return err
	}

	movieID, err := uuid.Parse(c.Param("movieId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid movie id")
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.SubmitReview(c.Request().Context(), movieID, principal.UserID, req.Rating, req.Comment)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// UpdateReview godoc
// @Summary Update the caller's own review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewId path string true "Review ID"
// @Param request body ReviewRequest true "Review data"
// @Success 200 {object} ReviewResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{reviewId} [put]
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return err
	}

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	review, err := h.reviewService.UpdateReview(c.Request().Context(), reviewID, principal.UserID, req.Rating, req.Comment)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, toReviewResponse(review))
}

// DeleteReview godoc
// @Summary Delete a review (owner, or any review for admins)
// @Tags reviews
// @Security BearerAuth
// @Param reviewId path string true "Review ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{reviewId} [delete]
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	principal, err := PrincipalFromContext(c)
	if err != nil {
		return err
	}

	reviewID, err := uuid.Parse(c.Param("reviewId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid review id")
	}

	if err := h.reviewService.DeleteReview(c.Request().Context(), reviewID, principal.UserID, principal.IsAdmin()); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.NoContent(http.StatusNoContent)
}
