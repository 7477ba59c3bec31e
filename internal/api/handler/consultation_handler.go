package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// ConsultationHandler handles HTTP requests for the consultation family.
type ConsultationHandler struct {
	service ports.ConsultationService
}

func NewConsultationHandler(service ports.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: service}
}

type createConsultationRequest struct {
	ClientID     string     `json:"client_id"`
	Topic        string     `json:"topic" validate:"required"`
	Notes        string     `json:"notes"`
	ScheduledAt  *time.Time `json:"scheduled_at"`
	DurationMins int        `json:"duration_mins"`
	AttorneyID   string     `json:"attorney_id"`
}

type updateConsultationRequest struct {
	Topic        domain.Optional[string]    `json:"topic"`
	Notes        domain.Optional[string]    `json:"notes"`
	Status       domain.Optional[string]    `json:"status"`
	ScheduledAt  domain.Optional[time.Time] `json:"scheduled_at"`
	DurationMins domain.Optional[int]       `json:"duration_mins"`
	AttorneyID   domain.Optional[string]    `json:"attorney_id"`
}

type listConsultationsResponse struct {
	Data       []domain.Consultation `json:"data"`
	Pagination ports.PageMeta        `json:"pagination"`
}

// Create handles POST /v1/consultations.
//
// @Summary      Request a consultation
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createConsultationRequest  true  "Consultation details"
// @Success      201   {object}  domain.Consultation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/consultations [post]
func (h *ConsultationHandler) Create(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req createConsultationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ClientID == "" {
		req.ClientID = actor.ClientID
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateConsultationInput{
		ClientID:     req.ClientID,
		Topic:        req.Topic,
		Notes:        req.Notes,
		ScheduledAt:  req.ScheduledAt,
		DurationMins: req.DurationMins,
		AttorneyID:   req.AttorneyID,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Get handles GET /v1/consultations/:id.
//
// @Summary      Get a consultation by id
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Consultation id"
// @Success      200  {object}  domain.Consultation
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/consultations/{id} [get]
func (h *ConsultationHandler) Get(c echo.Context) error {
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

// List handles GET /v1/consultations.
//
// @Summary      List consultations
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Param        sort         query     string  false  "Sort column"
// @Param        order        query     string  false  "asc or desc"
// @Param        client_id    query     string  false  "Filter by owning client"
// @Param        status       query     string  false  "Filter by status"
// @Param        attorney_id  query     string  false  "Filter by assigned attorney"
// @Param        q            query     string  false  "Search in topic and consultation number"
// @Success      200  {object}  listConsultationsResponse
// @Router       /v1/consultations [get]
func (h *ConsultationHandler) List(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListConsultationsInput{
		Page:       pageFromQuery(c),
		Sort:       sortFromQuery(c),
		ClientID:   c.QueryParam("client_id"),
		Status:     c.QueryParam("status"),
		AttorneyID: c.QueryParam("attorney_id"),
		Search:     c.QueryParam("q"),
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listConsultationsResponse{Data: page.Items, Pagination: page.Meta})
}

// Update handles PATCH /v1/consultations/:id.
//
// @Summary      Update a consultation
// @Tags         consultations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Consultation id"
// @Param        body  body      updateConsultationRequest  true  "Sparse patch"
// @Success      200   {object}  domain.Consultation
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/consultations/{id} [patch]
func (h *ConsultationHandler) Update(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req updateConsultationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateConsultationInput{
		Topic:        req.Topic,
		Notes:        req.Notes,
		Status:       req.Status,
		ScheduledAt:  req.ScheduledAt,
		DurationMins: req.DurationMins,
		AttorneyID:   req.AttorneyID,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/consultations/:id. Routing restricts it to
// staff/admin.
//
// @Summary      Delete a consultation
// @Tags         consultations
// @Security     BearerAuth
// @Param        id  path  string  true  "Consultation id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/consultations/{id} [delete]
func (h *ConsultationHandler) Delete(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Timeline handles GET /v1/consultations/:id/activity.
//
// @Summary      List a consultation's activity timeline
// @Tags         consultations
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Consultation id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200  {object}  activityPageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/consultations/{id}/activity [get]
func (h *ConsultationHandler) Timeline(c echo.Context) error {
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
