package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/placesdir/places-api/internal/core/domain"
	"github.com/placesdir/places-api/internal/core/ports"
)

// UserHandler handles signup, login, and user listing.
type UserHandler struct {
	auth  ports.AuthService
	files ports.FileStore
}

func NewUserHandler(auth ports.AuthService, files ports.FileStore) *UserHandler {
	return &UserHandler{auth: auth, files: files}
}

type signupRequest struct {
	Name     string `form:"name"     validate:"required"`
	Email    string `form:"email"    validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type credentialsResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

type usersEnvelope struct {
	Users []*domain.User `json:"users"`
}

// List handles GET /api/users.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Success      200  {object}  usersEnvelope
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.auth.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, usersEnvelope{Users: users})
}

// Signup handles POST /api/users/signup (multipart with an avatar image).
// The avatar is stored before the account write; if signup fails the stored
// file is rolled back.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Param        image     formData  file    true  "Avatar image (png/jpeg, max 500000 bytes)"
// @Param        name      formData  string  true  "Display name"
// @Param        email     formData  string  true  "Email (unique)"
// @Param        password  formData  string  true  "Password (min 6 chars)"
// @Success      201  {object}  credentialsResponse
// @Failure      413  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /api/users/signup [post]
func (h *UserHandler) Signup(c echo.Context) error {
	var req signupRequest
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

	creds, err := h.auth.Signup(c.Request().Context(), ports.SignupInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		ImagePath: path,
	})
	if err != nil {
		h.files.Remove(path)
		return err
	}

	return c.JSON(http.StatusCreated, credentialsResponse{
		UserID: creds.UserID,
		Email:  creds.Email,
		Token:  creds.Token,
	})
}

// Login handles POST /api/users/login.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  credentialsResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "Invalid inputs passed, please check your data.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	creds, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, credentialsResponse{
		UserID: creds.UserID,
		Email:  creds.Email,
		Token:  creds.Token,
	})
}
