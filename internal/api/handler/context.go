package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxUserID extracts the authenticated user ID injected by the Auth
// middleware. Presence proves the middleware ran; a protected handler reached
// without it is a wiring bug, rejected with the same 403 the gate uses.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get("userId").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusForbidden, "Authentication failed!")
	}
	return userID, nil
}
