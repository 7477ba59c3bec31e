package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// RegistrationHandler handles HTTP requests for service registrations.
type RegistrationHandler struct {
	service ports.RegistrationService
}

func NewRegistrationHandler(service ports.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

type createRegistrationRequest struct {
	ClientID    string `json:"client_id"`
	ServiceCode string `json:"service_code" validate:"required"`
	Details     string `json:"details"`
}

type updateRegistrationRequest struct {
	ServiceCode domain.Optional[string] `json:"service_code"`
	Details     domain.Optional[string] `json:"details"`
	Status      domain.Optional[string] `json:"status"`
}

type listRegistrationsResponse struct {
	Data       []domain.ServiceRegistration `json:"data"`
	Pagination ports.PageMeta               `json:"pagination"`
}

// Create handles POST /v1/registrations.
//
// @Summary      Open a service registration
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createRegistrationRequest  true  "Registration details"
// @Success      201   {object}  domain.ServiceRegistration
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/registrations [post]
func (h *RegistrationHandler) Create(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req createRegistrationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ClientID == "" {
		req.ClientID = actor.ClientID
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateRegistrationInput{
		ClientID:    req.ClientID,
		ServiceCode: req.ServiceCode,
		Details:     req.Details,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Get handles GET /v1/registrations/:id.
//
// @Summary      Get a service registration by id
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Registration id"
// @Success      200  {object}  domain.ServiceRegistration
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/registrations/{id} [get]
func (h *RegistrationHandler) Get(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	found, err := h.service.Get(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, found)
}

// List handles GET /v1/registrations.
//
// @Summary      List service registrations
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        page          query     int     false  "Page (1-based)"
// @Param        limit         query     int     false  "Page size (max 100)"
// @Param        sort          query     string  false  "Sort column"
// @Param        order         query     string  false  "asc or desc"
// @Param        client_id     query     string  false  "Filter by owning client"
// @Param        status        query     string  false  "Filter by status"
// @Param        service_code  query     string  false  "Filter by service code"
// @Param        q             query     string  false  "Search in details and registration number"
// @Success      200  {object}  listRegistrationsResponse
// @Router       /v1/registrations [get]
func (h *RegistrationHandler) List(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListRegistrationsInput{
		Page:        pageFromQuery(c),
		Sort:        sortFromQuery(c),
		ClientID:    c.QueryParam("client_id"),
		Status:      c.QueryParam("status"),
		ServiceCode: c.QueryParam("service_code"),
		Search:      c.QueryParam("q"),
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listRegistrationsResponse{Data: page.Items, Pagination: page.Meta})
}

// Update handles PATCH /v1/registrations/:id.
//
// @Summary      Update a service registration
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Registration id"
// @Param        body  body      updateRegistrationRequest  true  "Sparse patch"
// @Success      200   {object}  domain.ServiceRegistration
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/registrations/{id} [patch]
func (h *RegistrationHandler) Update(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req updateRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateRegistrationInput{
		ServiceCode: req.ServiceCode,
		Details:     req.Details,
		Status:      req.Status,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/registrations/:id. Routing restricts it to
// staff/admin.
//
// @Summary      Delete a service registration
// @Tags         registrations
// @Security     BearerAuth
// @Param        id  path  string  true  "Registration id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/registrations/{id} [delete]
func (h *RegistrationHandler) Delete(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Timeline handles GET /v1/registrations/:id/activity.
//
// @Summary      List a registration's activity timeline
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Registration id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200  {object}  activityPageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/registrations/{id}/activity [get]
func (h *RegistrationHandler) Timeline(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	page, err := h.service.Timeline(c.Request().Context(), c.Param("id"), pageFromQuery(c), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityPageResponse{Data: page.Items, Pagination: page.Meta})
}
