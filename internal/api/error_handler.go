package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/placesdir/places-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Message string `json:"message"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound {
			return he.Code, "Could not find this route."
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrPlaceNotFound):
		return http.StatusNotFound, "Could not find a place for the provided id."
	case errors.Is(err, domain.ErrNoPlacesForUser):
		return http.StatusNotFound, "Could not find places for the provided user id."
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "Could not find user for the provided id."
	case errors.Is(err, domain.ErrEditForbidden):
		return http.StatusUnauthorized, "You are not allowed to edit this place."
	case errors.Is(err, domain.ErrDeleteForbidden):
		return http.StatusUnauthorized, "You are not allowed to delete this place."
	case errors.Is(err, domain.ErrAuthentication):
		return http.StatusForbidden, "Authentication failed!"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials, could not log you in."
	case errors.Is(err, domain.ErrWrongPassword):
		return http.StatusForbidden, "Invalid credentials, could not log you in."
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusUnprocessableEntity, "User exists already, please login instead."
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data."
	case errors.Is(err, domain.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType, "Invalid mime type!"
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "Uploaded file is too large."
	case errors.Is(err, domain.ErrLinkFailed):
		return http.StatusInternalServerError, "Creating place failed, please try again."
	case errors.Is(err, domain.ErrUnlinkFailed):
		return http.StatusInternalServerError, "Deleting place failed, please try again."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "An unknown error occurred!"
}
