package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/ports"
)

// SubscriptionHandler handles HTTP requests for subscriptions and their
// invoices.
type SubscriptionHandler struct {
	service ports.SubscriptionService
}

func NewSubscriptionHandler(service ports.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

type createSubscriptionRequest struct {
	ClientID string     `json:"client_id"`
	PlanCode string     `json:"plan_code" validate:"required"`
	RenewsAt *time.Time `json:"renews_at"`
}

type updateSubscriptionRequest struct {
	PlanCode domain.Optional[string]    `json:"plan_code"`
	Status   domain.Optional[string]    `json:"status"`
	RenewsAt domain.Optional[time.Time] `json:"renews_at"`
}

type createInvoiceRequest struct {
	AmountCents int64  `json:"amount_cents" validate:"required,gt=0"`
	Currency    string `json:"currency"     validate:"required,len=3"`
	Issue       bool   `json:"issue"`
}

type updateInvoiceRequest struct {
	Status domain.Optional[string] `json:"status"`
}

type listSubscriptionsResponse struct {
	Data       []domain.Subscription `json:"data"`
	Pagination ports.PageMeta        `json:"pagination"`
}

type listInvoicesResponse struct {
	Data       []domain.Invoice `json:"data"`
	Pagination ports.PageMeta   `json:"pagination"`
}

// Create handles POST /v1/subscriptions.
//
// @Summary      Open a subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createSubscriptionRequest  true  "Subscription details"
// @Success      201   {object}  domain.Subscription
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/subscriptions [post]
func (h *SubscriptionHandler) Create(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req createSubscriptionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ClientID == "" {
		req.ClientID = actor.ClientID
	}

	created, err := h.service.Create(c.Request().Context(), ports.CreateSubscriptionInput{
		ClientID: req.ClientID,
		PlanCode: req.PlanCode,
		RenewsAt: req.RenewsAt,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Get handles GET /v1/subscriptions/:id.
//
// @Summary      Get a subscription by id
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Subscription id"
// @Success      200  {object}  domain.Subscription
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/subscriptions/{id} [get]
func (h *SubscriptionHandler) Get(c echo.Context) error {
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

// List handles GET /v1/subscriptions.
//
// @Summary      List subscriptions
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page (1-based)"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Param        sort       query     string  false  "Sort column"
// @Param        order      query     string  false  "asc or desc"
// @Param        client_id  query     string  false  "Filter by owning client"
// @Param        status     query     string  false  "Filter by status"
// @Param        plan_code  query     string  false  "Filter by plan code"
// @Success      200  {object}  listSubscriptionsResponse
// @Router       /v1/subscriptions [get]
func (h *SubscriptionHandler) List(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListSubscriptionsInput{
		Page:     pageFromQuery(c),
		Sort:     sortFromQuery(c),
		ClientID: c.QueryParam("client_id"),
		Status:   c.QueryParam("status"),
		PlanCode: c.QueryParam("plan_code"),
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listSubscriptionsResponse{Data: page.Items, Pagination: page.Meta})
}

// Update handles PATCH /v1/subscriptions/:id.
//
// @Summary      Update a subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Subscription id"
// @Param        body  body      updateSubscriptionRequest  true  "Sparse patch"
// @Success      200   {object}  domain.Subscription
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/subscriptions/{id} [patch]
func (h *SubscriptionHandler) Update(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req updateSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateSubscriptionInput{
		PlanCode: req.PlanCode,
		Status:   req.Status,
		RenewsAt: req.RenewsAt,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /v1/subscriptions/:id. Routing restricts it to
// staff/admin. Invoices cascade with the subscription row.
//
// @Summary      Delete a subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Param        id  path  string  true  "Subscription id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/subscriptions/{id} [delete]
func (h *SubscriptionHandler) Delete(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), actor); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Timeline handles GET /v1/subscriptions/:id/activity.
//
// @Summary      List a subscription's activity timeline
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Subscription id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200  {object}  activityPageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/subscriptions/{id}/activity [get]
func (h *SubscriptionHandler) Timeline(c echo.Context) error {
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

// CreateInvoice handles POST /v1/subscriptions/:id/invoices.
//
// @Summary      Raise an invoice against a subscription
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Subscription id"
// @Param        body  body      createInvoiceRequest  true  "Invoice details"
// @Success      201   {object}  domain.Invoice
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/subscriptions/{id}/invoices [post]
func (h *SubscriptionHandler) CreateInvoice(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req createInvoiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	created, err := h.service.CreateInvoice(c.Request().Context(), c.Param("id"), ports.CreateInvoiceInput{
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Issue:       req.Issue,
	}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateInvoice handles PATCH /v1/subscriptions/:id/invoices/:invoice_id.
//
// @Summary      Update an invoice's status
// @Description  Issuing stamps issued_at once; payment stamps paid_at once.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id          path      string                true  "Subscription id"
// @Param        invoice_id  path      string                true  "Invoice id"
// @Param        body        body      updateInvoiceRequest  true  "Status patch"
// @Success      200   {object}  domain.Invoice
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/subscriptions/{id}/invoices/{invoice_id} [patch]
func (h *SubscriptionHandler) UpdateInvoice(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	var req updateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.UpdateInvoice(c.Request().Context(), c.Param("id"), c.Param("invoice_id"),
		ports.UpdateInvoiceInput{Status: req.Status}, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// ListInvoices handles GET /v1/subscriptions/:id/invoices.
//
// @Summary      List a subscription's invoices
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Subscription id"
// @Param        page   query     int     false  "Page (1-based)"
// @Param        limit  query     int     false  "Page size (max 100)"
// @Success      200  {object}  listInvoicesResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/subscriptions/{id}/invoices [get]
func (h *SubscriptionHandler) ListInvoices(c echo.Context) error {
	actor, err := principalFrom(c)
	if err != nil {
		return err
	}

	items, meta, err := h.service.ListInvoices(c.Request().Context(), c.Param("id"), pageFromQuery(c), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listInvoicesResponse{Data: items, Pagination: meta})
}
