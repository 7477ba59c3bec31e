package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// CaseHandler handles HTTP requests for the case family.
type CaseHandler struct {
	service ports.CaseService
}

func NewCaseHandler(service ports.CaseService) *CaseHandler {
	return &CaseHandler{service: service}
}

type createCaseRequest struct {
	ClientID         string `json:"client_id"`
	Title            string `json:"title"       validate:"required"`
	Description      string `json:"description"`
	Category         string `json:"category"    validate:"required"`
	AssignedAttorney string `json:"assigned_attorney"`
}

// updateCaseRequest is a sparse patch: absent fields are untouched, literal
// nulls clear the column.
type updateCaseRequest struct {
	Title            domain.Optional[string]    `json:"title"`
	Description      domain.Optional[string]    `json:"description"`
	Category         domain.Optional[string]    `json:"category"`
	Status           domain.Optional[string]    `json:"status"`
	AssignedAttorney domain.Optional[string]    `json:"assigned_attorney"`
	ClosingDate      domain.Optional[time.Time] `json:"closing_date"`
}

type listCasesResponse struct {
	Data       []domain.Case  `json:"data"`
	Pagination ports.PageMeta `json:"pagination"`
}

type activityPageResponse struct {
	Data       []domain.ActivityRecord `json:"data"`
	Pagination ports.PageMeta          `json:"pagination"`
}

// Create handles POST /v1/cases.
//
// @Summary      Open a new case
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCaseRequest  true  "Case details"
// @Success      201   {object}  domain.Case
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/cases [post]
func (h *CaseHandler) Create(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req createCaseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	// Client callers may omit client_id; it defaults to their own profile.
	if req.ClientID == "" {
		req.ClientID = actor.ClientID
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateCaseInput{
		ClientID:         req.ClientID,
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		AssignedAttorney: req.AssignedAttorney,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Get handles GET /v1/cases/:id.
//
// @Summary      Get a case by id
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Case id"
// @Success      200  {object}  domain.Case
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cases/{id} [get]
func (h *CaseHandler) Get(c echo.Context) error {
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

// List handles GET /v1/cases.
//
// @Summary      List cases
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Param        sort       query     string  false  "Sort column"
// @Param        order      query     string  false  "asc or desc"
// @Param        client_id  query     string  false  "Filter by owning client"
// @Param        status     query     string  false  "Filter by status"
// @Param        category   query     string  false  "Filter by category"
// @Param        q          query     string  false  "Search in title and case number"
// @Success      200  {object}  listCasesResponse
// @Router       /v1/cases [get]
func (h *CaseHandler) List(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListCasesInput{
		Page:             pageFromQuery(c),
		Sort:             sortFromQuery(c),
		ClientID:         c.QueryParam("client_id"),
		Status:           c.QueryParam("status"),
		Category:         c.QueryParam("category"),
		AssignedAttorney: c.QueryParam("assigned_attorney"),
		Search:           c.QueryParam("q"),
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listCasesResponse{Data: page.Items, Pagination: page.Meta})
}

// Update handles PATCH /v1/cases/:id.
//
// @Summary      Update a case
// @Tags         cases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Case id"
// @Param        body  body      updateCaseRequest  true  "Sparse patch"
// @Success      200   {object}  domain.Case
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/cases/{id} [patch]
func (h *CaseHandler) Update(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req updateCaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateCaseInput{
		Title:            req.Title,
		Description:      req.Description,
		Category:         req.Category,
		Status:           req.Status,
		AssignedAttorney: req.AssignedAttorney,
		ClosingDate:      req.ClosingDate,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/cases/:id. Routing restricts it to staff/admin.
//
// @Summary      Delete a case
// @Tags         cases
// @Security     BearerAuth
// @Param        id  path  string  true  "Case id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cases/{id} [delete]
func (h *CaseHandler) Delete(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Timeline handles GET /v1/cases/:id/activity.
//
// @Summary      List a case's activity timeline
// @Tags         cases
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Case id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200  {object}  activityPageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/cases/{id}/activity [get]
func (h *CaseHandler) Timeline(c echo.Context) error {
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
