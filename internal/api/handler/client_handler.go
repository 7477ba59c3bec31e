package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// ClientHandler handles HTTP requests for client profiles. Creation and
// deletion go through the account handler instead.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

type updateClientRequest struct {
	FullName domain.Optional[string] `json:"full_name"`
	Company  domain.Optional[string] `json:"company"`
	Phone    domain.Optional[string] `json:"phone"`
	Status   domain.Optional[string] `json:"status"`
}

type listClientsResponse struct {
	Data       []domain.Client `json:"data"`
	Pagination ports.PageMeta  `json:"pagination"`
}

// Get handles GET /v1/clients/:id.
//
// @Summary      Get a client profile by id
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Client profile id"
// @Success      200  {object}  domain.Client
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
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

// List handles GET /v1/clients. Client-role callers only ever see their own
// profile regardless of filters.
//
// @Summary      List client profiles
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        sort    query     string  false  "Sort column"
// @Param        order   query     string  false  "asc or desc"
// @Param        status  query     string  false  "Filter by status"
// @Param        q       query     string  false  "Search in name, email and company"
// @Success      200  {object}  listClientsResponse
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListClientsInput{
		Page:   pageFromQuery(c),
		Sort:   sortFromQuery(c),
		Status: c.QueryParam("status"),
		Search: c.QueryParam("q"),
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listClientsResponse{Data: page.Items, Pagination: page.Meta})
}

// Update handles PATCH /v1/clients/:id.
//
// @Summary      Update a client profile
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client profile id"
// @Param        body  body      updateClientRequest  true  "Sparse patch"
// @Success      200   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req updateClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateClientInput{
		FullName: req.FullName,
		Company:  req.Company,
		Phone:    req.Phone,
		Status:   req.Status,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Timeline handles GET /v1/clients/:id/activity.
//
// @Summary      List a client's activity timeline
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Client profile id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200  {object}  activityPageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/clients/{id}/activity [get]
func (h *ClientHandler) Timeline(c echo.Context) error {
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
