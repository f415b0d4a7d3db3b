package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"moviereview/internal/seed"
	"moviereview/internal/service"
)

// SeedHandler exposes development-only seeding of the sample catalog.
type SeedHandler struct {
	movieService service.MovieService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(movieService service.MovieService) *SeedHandler {
	return &SeedHandler{movieService: movieService}
}

// SeedMovies godoc
// @Summary Seed the sample movie catalog (development only)
// @Tags seed
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/movies [get]
func (h *SeedHandler) SeedMovies(c echo.Context) error {
	ctx := c.Request().Context()

	existing, err := h.movieService.ListMovies(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list movies")
	}
	if len(existing) > 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"message": "catalog already seeded",
			"movies":  len(existing),
		})
	}

	created := 0
	for _, movie := range seed.Movies() {
		m := movie
		if _, err := h.movieService.CreateMovie(ctx, &m); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to seed movies")
		}
		created++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "catalog seeded",
		"movies":  created,
	})
}
