package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"moviereview/internal/auth"
	apperrors "moviereview/internal/errors"
	"moviereview/internal/model"
)

// MockReviewService is a mock implementation of service.ReviewService.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) SubmitReview(ctx context.Context, movieID, authorID uuid.UUID, rating int, comment string) (*model.Review, error) {
	args := m.Called(ctx, movieID, authorID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) UpdateReview(ctx context.Context, reviewID, callerID uuid.UUID, rating int, comment string) (*model.Review, error) {
	args := m.Called(ctx, reviewID, callerID, rating, comment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) DeleteReview(ctx context.Context, reviewID, callerID uuid.UUID, callerIsAdmin bool) error {
	args := m.Called(ctx, reviewID, callerID, callerIsAdmin)
	return args.Error(0)
}

func (m *MockReviewService) GetReviewsForMovie(ctx context.Context, movieID uuid.UUID) ([]model.Review, error) {
	args := m.Called(ctx, movieID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewService) GetReviewsByUser(ctx context.Context, userID uuid.UUID) ([]model.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewService) GetRecentReviews(ctx context.Context, limit int) ([]model.Review, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewService) GetAverageRatingForMovie(ctx context.Context, movieID uuid.UUID) (float64, error) {
	args := m.Called(ctx, movieID)
	return args.Get(0).(float64), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

// withPrincipal simulates the JWT middleware placing verified claims in the
// request context.
func withPrincipal(c echo.Context, userID uuid.UUID, role model.Role) {
	c.Set("user", &auth.Claims{UserID: userID.String(), Username: "alice", Role: role})
}

func TestReviewHandler_GetRecentReviews(t *testing.T) {
	t.Run("invalid limit is a 400", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/reviews/recent?limit=abc", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		h := NewReviewHandler(new(MockReviewService))
		err := h.GetRecentReviews(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("limit is forwarded to the service", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/reviews/recent?limit=25", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		svc := new(MockReviewService)
		svc.On("GetRecentReviews", mock.Anything, 25).Return([]model.Review{}, nil)

		h := NewReviewHandler(svc)
		assert.NoError(t, h.GetRecentReviews(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("missing limit forwards zero for the service default", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodGet, "/api/reviews/recent", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		svc := new(MockReviewService)
		svc.On("GetRecentReviews", mock.Anything, 0).Return([]model.Review{}, nil)

		h := NewReviewHandler(svc)
		assert.NoError(t, h.GetRecentReviews(c))
		svc.AssertExpectations(t)
	})
}

func TestReviewHandler_SubmitReview(t *testing.T) {
	movieID := uuid.New()
	userID := uuid.New()

	t.Run("without token is a 401", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":4}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("movieId")
		c.SetParamValues(movieID.String())

		h := NewReviewHandler(new(MockReviewService))
		err := h.SubmitReview(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("duplicate review maps to 409", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":4,"comment":"again"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("movieId")
		c.SetParamValues(movieID.String())
		withPrincipal(c, userID, model.RoleUser)

		svc := new(MockReviewService)
		svc.On("SubmitReview", mock.Anything, movieID, userID, 4, "again").Return(nil, apperrors.ErrDuplicateReview)

		h := NewReviewHandler(svc)
		err := h.SubmitReview(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
	})

	t.Run("rating outside range fails validation", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":6}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("movieId")
		c.SetParamValues(movieID.String())
		withPrincipal(c, userID, model.RoleUser)

		svc := new(MockReviewService)
		h := NewReviewHandler(svc)
		err := h.SubmitReview(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		svc.AssertNotCalled(t, "SubmitReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("created review is returned denormalized", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":5,"comment":"great"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("movieId")
		c.SetParamValues(movieID.String())
		withPrincipal(c, userID, model.RoleUser)

		review := &model.Review{
			ID:      uuid.New(),
			MovieID: movieID,
			UserID:  userID,
			Rating:  5,
			Comment: "great",
			Movie:   model.Movie{ID: movieID, Title: "Inception"},
			User:    model.User{ID: userID, Username: "alice"},
		}
		svc := new(MockReviewService)
		svc.On("SubmitReview", mock.Anything, movieID, userID, 5, "great").Return(review, nil)

		h := NewReviewHandler(svc)
		assert.NoError(t, h.SubmitReview(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"movie_title":"Inception"`)
		assert.Contains(t, rec.Body.String(), `"username":"alice"`)
	})
}

func TestReviewHandler_DeleteReview(t *testing.T) {
	reviewID := uuid.New()
	userID := uuid.New()

	t.Run("admin flag is forwarded from the verified role", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("reviewId")
		c.SetParamValues(reviewID.String())
		withPrincipal(c, userID, model.RoleAdmin)

		svc := new(MockReviewService)
		svc.On("DeleteReview", mock.Anything, reviewID, userID, true).Return(nil)

		h := NewReviewHandler(svc)
		assert.NoError(t, h.DeleteReview(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("forbidden delete maps to 403", func(t *testing.T) {
		e := newTestEcho()
		req := httptest.NewRequest(http.MethodDelete, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("reviewId")
		c.SetParamValues(reviewID.String())
		withPrincipal(c, userID, model.RoleUser)

		svc := new(MockReviewService)
		svc.On("DeleteReview", mock.Anything, reviewID, userID, false).Return(apperrors.ErrNotReviewOwner)

		h := NewReviewHandler(svc)
		err := h.DeleteReview(c)

		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusForbidden, httpErr.Code)
	})
}
