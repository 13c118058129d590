package domain

import "errors"

// Sentinel errors surfaced by the core. The API layer maps each one to a
// deterministic HTTP status; see internal/api/error_handler.go.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPlaceNotFound   = errors.New("place not found")
	ErrNoPlacesForUser = errors.New("no places found for user")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("wrong password")
	ErrAuthentication     = errors.New("authentication failed")
	ErrEditForbidden      = errors.New("not allowed to edit this place")
	ErrDeleteForbidden    = errors.New("not allowed to delete this place")

	ErrInvalidInput = errors.New("invalid inputs passed")

	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrPayloadTooLarge  = errors.New("payload too large")

	// Transaction-level failures: the dual-entity write was aborted and
	// nothing was committed.
	ErrLinkFailed   = errors.New("could not create place link")
	ErrUnlinkFailed = errors.New("could not remove place link")
)
