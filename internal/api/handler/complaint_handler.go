package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// ComplaintHandler handles HTTP requests for the complaint family.
type ComplaintHandler struct {
	service ports.ComplaintService
}

func NewComplaintHandler(service ports.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{service: service}
}

type createComplaintRequest struct {
	ClientID    string `json:"client_id"`
	Subject     string `json:"subject"     validate:"required"`
	Description string `json:"description"`
}

type updateComplaintRequest struct {
	Subject         domain.Optional[string] `json:"subject"`
	Description     domain.Optional[string] `json:"description"`
	Status          domain.Optional[string] `json:"status"`
	ResolutionNotes domain.Optional[string] `json:"resolution_notes"`
}

type listComplaintsResponse struct {
	Data       []domain.Complaint `json:"data"`
	Pagination ports.PageMeta     `json:"pagination"`
}

// Create handles POST /v1/complaints.
//
// @Summary      File a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createComplaintRequest  true  "Complaint details"
// @Success      201   {object}  domain.Complaint
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/complaints [post]
func (h *ComplaintHandler) Create(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req createComplaintRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ClientID == "" {
		req.ClientID = actor.ClientID
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateComplaintInput{
		ClientID:    req.ClientID,
		Subject:     req.Subject,
		Description: req.Description,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Get handles GET /v1/complaints/:id.
//
// @Summary      Get a complaint by id
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Complaint id"
// @Success      200  {object}  domain.Complaint
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/complaints/{id} [get]
func (h *ComplaintHandler) Get(c echo.Context) error {
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

// List handles GET /v1/complaints.
//
// @Summary      List complaints
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Param        sort       query     string  false  "Sort column"
// @Param        order      query     string  false  "asc or desc"
// @Param        client_id  query     string  false  "Filter by owning client"
// @Param        status     query     string  false  "Filter by status"
// @Param        q          query     string  false  "Search in subject and complaint number"
// @Success      200  {object}  listComplaintsResponse
// @Router       /v1/complaints [get]
func (h *ComplaintHandler) List(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListComplaintsInput{
		Page:     pageFromQuery(c),
		Sort:     sortFromQuery(c),
		ClientID: c.QueryParam("client_id"),
		Status:   c.QueryParam("status"),
		Search:   c.QueryParam("q"),
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listComplaintsResponse{Data: page.Items, Pagination: page.Meta})
}

// Update handles PATCH /v1/complaints/:id.
//
// @Summary      Update a complaint
// @Tags         complaints
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Complaint id"
// @Param        body  body      updateComplaintRequest  true  "Sparse patch"
// @Success      200   {object}  domain.Complaint
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/complaints/{id} [patch]
func (h *ComplaintHandler) Update(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req updateComplaintRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateComplaintInput{
		Subject:         req.Subject,
		Description:     req.Description,
		Status:          req.Status,
		ResolutionNotes: req.ResolutionNotes,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/complaints/:id. Routing restricts it to
// staff/admin.
//
// @Summary      Delete a complaint
// @Tags         complaints
// @Security     BearerAuth
// @Param        id  path  string  true  "Complaint id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/complaints/{id} [delete]
func (h *ComplaintHandler) Delete(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Timeline handles GET /v1/complaints/:id/activity.
//
// @Summary      List a complaint's activity timeline
// @Tags         complaints
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Complaint id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200  {object}  activityPageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/complaints/{id}/activity [get]
func (h *ComplaintHandler) Timeline(c echo.Context) error {
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
