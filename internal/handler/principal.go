package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"moviereview/internal/auth"
)

// PrincipalFromContext resolves the verified claims placed in the context by
// the JWT middleware into a typed principal.
func PrincipalFromContext(c echo.Context) (auth.Principal, error) {
	claims, ok := c.Get("user").(*auth.Claims)
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}
	principal, err := claims.Principal()
	if err != nil {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return principal, nil
}
