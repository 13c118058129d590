package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/placesdir/places-api/internal/api/metrics"
	"github.com/placesdir/places-api/internal/core/ports"
)

// PlaceHandler handles HTTP requests for place operations.
type PlaceHandler struct {
	service ports.PlaceService
	files   ports.FileStore
}

func NewPlaceHandler(service ports.PlaceService, files ports.FileStore) *PlaceHandler {
	return &PlaceHandler{service: service, files: files}
}

// GetByID handles GET /api/places/:pid.
//
// @Summary      Get a place by id
// @Tags         places
// @Produce      json
// @Param        pid  path      string  true  "Place id"
// @Success      200  {object}  placeEnvelope
// @Failure      404  {object}  errorResponse
// @Router       /api/places/{pid} [get]
func (h *PlaceHandler) GetByID(c echo.Context) error {
	place, err := h.service.GetPlaceByID(c.Request().Context(), c.Param("pid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, placeEnvelope{Place: place})
}

// GetByUser handles GET /api/places/user/:uid.
//
// @Summary      List the places created by a user
// @Tags         places
// @Produce      json
// @Param        uid  path      string  true  "User id"
// @Success      200  {object}  placesEnvelope
// @Failure      404  {object}  errorResponse
// @Router       /api/places/user/{uid} [get]
func (h *PlaceHandler) GetByUser(c echo.Context) error {
	places, err := h.service.GetPlacesByUser(c.Request().Context(), c.Param("uid"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, placesEnvelope{Places: places})
}

// Create handles POST /api/places (multipart, authenticated).
//
// The image is accepted into the file store before the database mutation;
// when the create-and-link transaction fails, the stored file is rolled back
// here so no orphaned file survives a failed creation.
//
// @Summary      Create a place
// @Tags         places
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image        formData  file    true  "Place image (png/jpeg, max 500000 bytes)"
// @Param        title        formData  string  true  "Title"
// @Param        description  formData  string  true  "Description (min 5 chars)"
// @Param        address      formData  string  true  "Address"
// @Param        lat          formData  number  true  "Latitude"
// @Param        lng          formData  number  true  "Longitude"
// @Success      201  {object}  placeEnvelope
// @Failure      403  {object}  errorResponse
// @Failure      413  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/places [post]
func (h *PlaceHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createPlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "image file is required")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	path, err := h.files.Save(src, file.Header.Get("Content-Type"))
	if err != nil {
		return err
	}

	place, err := h.service.CreatePlaceAndLink(c.Request().Context(), userID, ports.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Lat:         *req.Lat,
		Lng:         *req.Lng,
		ImagePath:   path,
	})
	if err != nil {
		h.files.Remove(path)
		return err
	}

	metrics.PlacesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, placeEnvelope{Place: place})
}

// Update handles PATCH /api/places/:pid (authenticated, creator only).
//
// @Summary      Update a place's title and description
// @Tags         places
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        pid   path      string              true  "Place id"
// @Param        body  body      updatePlaceRequest  true  "Fields to update"
// @Success      200   {object}  placeEnvelope
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/places/{pid} [patch]
func (h *PlaceHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req updatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	place, err := h.service.UpdatePlace(c.Request().Context(), c.Param("pid"), userID, ports.UpdatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, placeEnvelope{Place: place})
}

// Delete handles DELETE /api/places/:pid (authenticated, creator only).
//
// @Summary      Delete a place
// @Tags         places
// @Produce      json
// @Security     BearerAuth
// @Param        pid  path      string  true  "Place id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/places/{pid} [delete]
func (h *PlaceHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePlaceAndUnlink(c.Request().Context(), c.Param("pid"), userID); err != nil {
		return err
	}

	metrics.PlacesDeletedTotal.Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Deleted Place."})
}
