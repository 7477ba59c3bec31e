package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// AuthHandler handles login and invite acceptance. Both routes are public;
// everything else sits behind the Auth middleware.
type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Profile *domain.Profile `json:"profile"`
}

type acceptInviteRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type acceptInviteResponse struct {
	Email string `json:"email"`
}

// Login handles POST /auth/login.
//
// @Summary      Log in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, profile, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, Profile: profile})
}

// AcceptInvite handles POST /auth/accept-invite. It consumes the invite
// token and sets the account's first credential.
//
// @Summary      Accept an invite and set a password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      acceptInviteRequest  true  "Invite token and new password"
// @Success      200   {object}  acceptInviteResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/accept-invite [post]
func (h *AuthHandler) AcceptInvite(c echo.Context) error {
	var req acceptInviteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	identity, err := h.service.AcceptInvite(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, acceptInviteResponse{Email: identity.Email})
}
