package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"moviereview/internal/auth"
	apperrors "moviereview/internal/errors"
	"moviereview/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	authHandler *handler.AuthHandler,
	movieHandler *handler.MovieHandler,
	reviewHandler *handler.ReviewHandler,
	userHandler *handler.UserHandler,
	seedHandler *handler.SeedHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/seed/movies", seedHandler.SeedMovies)

	// Public catalog and review feeds
	api.GET("/movies", movieHandler.ListMovies)
	api.GET("/movies/search", movieHandler.SearchMovies)
	api.GET("/movies/:id", movieHandler.GetMovie)
	api.GET("/movies/:id/rating", movieHandler.GetMovieRating)
	api.GET("/reviews/movie/:movieId", reviewHandler.GetReviewsForMovie)
	api.GET("/reviews/recent", reviewHandler.GetRecentReviews)

	// Secured routes (require JWT authentication)
	tokenAuth := newJWTMiddleware(jwtService)
	secured := api.Group("", tokenAuth)

	secured.GET("/users/me", userHandler.Me)
	secured.GET("/reviews/my-reviews", reviewHandler.GetMyReviews)
	secured.POST("/reviews/movie/:movieId", reviewHandler.SubmitReview)
	secured.PUT("/reviews/:reviewId", reviewHandler.UpdateReview)
	secured.DELETE("/reviews/:reviewId", reviewHandler.DeleteReview)

	// Admin routes: movie management and user moderation
	admin := api.Group("", tokenAuth, RequireAdmin)
	admin.POST("/movies", movieHandler.CreateMovie)
	admin.PUT("/movies/:id", movieHandler.UpdateMovie)
	admin.DELETE("/movies/:id", movieHandler.DeleteMovie)
	admin.DELETE("/users/:id", userHandler.DeleteUser)
}

// newJWTMiddleware verifies bearer tokens through the HS256 token service
// and stores the typed claims in the request context, where
// handler.PrincipalFromContext reads them back. Verification is delegated
// to auth.JWTService so the middleware and the refresh flow agree on what
// a valid token is.
func newJWTMiddleware(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			return jwtService.ValidateToken(tokenString)
		},
	})
}

// RequireAdmin rejects authenticated callers without the ADMIN role.
// It runs after JWT verification, so the role claim is already trusted.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := handler.PrincipalFromContext(c)
		if err != nil {
			return err
		}
		if !principal.IsAdmin() {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
