package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/ports"
)

// AccountHandler handles the composite account lifecycle: provisioning a new
// client account and deleting an existing one. Routing restricts both to
// staff/admin.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type provisionAccountRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
}

type provisionAccountResponse struct {
	IdentityID string `json:"identity_id"`
	ProfileID  string `json:"profile_id"`
	ClientID   string `json:"client_id"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	// InviteToken is returned once at provisioning time; the invite email
	// flow is out of scope, so operators relay it to the end user.
	InviteToken string `json:"invite_token"`
}

// Provision handles POST /v1/accounts.
//
// @Summary      Provision a client account
// @Description  Creates the auth identity, base profile and client profile as
// @Description  an ordered sequence with compensating cleanup on failure.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      provisionAccountRequest  true  "Account details"
// @Success      201   {object}  provisionAccountResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/accounts [post]
func (h *AccountHandler) Provision(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req provisionAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	acct, err := h.service.Provision(c.Request().Context(), ports.ProvisionAccountInput{
		Email:    req.Email,
		FullName: req.FullName,
		Company:  req.Company,
		Phone:    req.Phone,
	}, actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, provisionAccountResponse{
		IdentityID:  acct.Identity.ID,
		ProfileID:   acct.Profile.ID,
		ClientID:    acct.Client.ID,
		Email:       acct.Identity.Email,
		FullName:    acct.Profile.FullName,
		InviteToken: acct.Identity.InviteToken,
	})
}

// Delete handles DELETE /v1/accounts/:client_id. The auth identity is
// removed first; if that fails the profile rows stay intact so the delete
// can be retried.
//
// @Summary      Delete a client account
// @Tags         accounts
// @Security     BearerAuth
// @Param        client_id  path  string  true  "Client profile id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{client_id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("client_id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
