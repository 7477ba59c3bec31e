package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/domain"
)

// principalFrom builds the service-layer Principal from the claims injected
// by the Auth middleware, with a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - client role requires a non-empty client_id; without it the JWT is
//     structurally valid but operationally unusable, so reject with 401.
func principalFrom(c echo.Context) (domain.Principal, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	clientID, _ := c.Get("client_id").(string)
	if role == domain.RoleClient && clientID == "" {
		return domain.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "token missing client identity")
	}

	userID, _ := c.Get("user_id").(string)
	return domain.Principal{ID: userID, Role: role, ClientID: clientID}, nil
}
