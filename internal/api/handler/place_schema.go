package handler

import "github.com/placesdir/places-api/internal/core/domain"

// createPlaceRequest binds the non-file fields of the multipart create-place
// form. The image arrives as a separate file part. Coordinates are pointers
// so an omitted field is rejected while (0,0) stays a valid location.
type createPlaceRequest struct {
	Title       string   `form:"title"       validate:"required"`
	Description string   `form:"description" validate:"required,min=5"`
	Address     string   `form:"address"     validate:"required"`
	Lat         *float64 `form:"lat"         validate:"required,latitude"`
	Lng         *float64 `form:"lng"         validate:"required,longitude"`
}

type updatePlaceRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
}

// Response envelopes; error responses use the {"message": ...} envelope
// rendered by the central error handler.

type placeEnvelope struct {
	Place *domain.Place `json:"place"`
}

type placesEnvelope struct {
	Places []*domain.Place `json:"places"`
}

type messageResponse struct {
	Message string `json:"message"`
}
