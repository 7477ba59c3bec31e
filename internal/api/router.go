package api

import (
	"database/sql"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/lexhaven/backoffice/docs"
	"github.com/lexhaven/backoffice/internal/api/handler"
	"github.com/lexhaven/backoffice/internal/api/middleware"
	"github.com/lexhaven/backoffice/internal/core/domain"
	"github.com/lexhaven/backoffice/internal/core/service"
	"github.com/lexhaven/backoffice/internal/infrastructure/db/postgres"
	redisinfra "github.com/lexhaven/backoffice/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *sql.DB, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("backoffice"))

	// --- Repositories ---
	caseRepo := postgres.NewCaseRepository(db)
	clientRepo := postgres.NewClientRepository(db)
	complaintRepo := postgres.NewComplaintRepository(db)
	subscriptionRepo := postgres.NewSubscriptionRepository(db)
	consultationRepo := postgres.NewConsultationRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	activityRepo := postgres.NewActivityRepository(db)
	identityRepo := postgres.NewIdentityRepository(db)

	// --- Services ---
	recorder := service.NewRecorder(activityRepo, log)
	guard := redisinfra.NewProvisionGuard(rdb)

	caseService := service.NewCaseService(caseRepo, activityRepo, recorder, log)
	clientService := service.NewClientService(clientRepo, activityRepo, log)
	complaintService := service.NewComplaintService(complaintRepo, activityRepo, recorder, log)
	subscriptionService := service.NewSubscriptionService(subscriptionRepo, activityRepo, recorder, log)
	consultationService := service.NewConsultationService(consultationRepo, activityRepo, recorder, log)
	registrationService := service.NewRegistrationService(registrationRepo, activityRepo, recorder, log)
	accountService := service.NewAccountService(identityRepo, accountRepo, clientRepo, guard, recorder, log)
	authService := service.NewAuthService(identityRepo, jwtSecret, 24*time.Hour)

	// --- Handlers ---
	caseHandler := handler.NewCaseHandler(caseService)
	clientHandler := handler.NewClientHandler(clientService)
	complaintHandler := handler.NewComplaintHandler(complaintService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	consultationHandler := handler.NewConsultationHandler(consultationService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	accountHandler := handler.NewAccountHandler(accountService)
	authHandler := handler.NewAuthHandler(authService)

	// --- Public routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/accept-invite", authHandler.AcceptInvite)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	authMW := middleware.Auth(jwtSecret)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleStaff)

	v1 := e.Group("/v1", authMW)

	cases := v1.Group("/cases")
	cases.POST("", caseHandler.Create)
	cases.GET("", caseHandler.List)
	cases.GET("/:id", caseHandler.Get)
	cases.PATCH("/:id", caseHandler.Update)
	cases.DELETE("/:id", caseHandler.Delete, staffOnly)
	cases.GET("/:id/activity", caseHandler.Timeline)

	clients := v1.Group("/clients")
	clients.GET("", clientHandler.List)
	clients.GET("/:id", clientHandler.Get)
	clients.PATCH("/:id", clientHandler.Update)
	clients.GET("/:id/activity", clientHandler.Timeline)

	complaints := v1.Group("/complaints")
	complaints.POST("", complaintHandler.Create)
	complaints.GET("", complaintHandler.List)
	complaints.GET("/:id", complaintHandler.Get)
	complaints.PATCH("/:id", complaintHandler.Update)
	complaints.DELETE("/:id", complaintHandler.Delete, staffOnly)
	complaints.GET("/:id/activity", complaintHandler.Timeline)

	subscriptions := v1.Group("/subscriptions")
	subscriptions.POST("", subscriptionHandler.Create)
	subscriptions.GET("", subscriptionHandler.List)
	subscriptions.GET("/:id", subscriptionHandler.Get)
	subscriptions.PATCH("/:id", subscriptionHandler.Update)
	subscriptions.DELETE("/:id", subscriptionHandler.Delete, staffOnly)
	subscriptions.GET("/:id/activity", subscriptionHandler.Timeline)
	subscriptions.POST("/:id/invoices", subscriptionHandler.CreateInvoice, staffOnly)
	subscriptions.PATCH("/:id/invoices/:invoice_id", subscriptionHandler.UpdateInvoice, staffOnly)
	subscriptions.GET("/:id/invoices", subscriptionHandler.ListInvoices)

	consultations := v1.Group("/consultations")
	consultations.POST("", consultationHandler.Create)
	consultations.GET("", consultationHandler.List)
	consultations.GET("/:id", consultationHandler.Get)
	consultations.PATCH("/:id", consultationHandler.Update)
	consultations.DELETE("/:id", consultationHandler.Delete, staffOnly)
	consultations.GET("/:id/activity", consultationHandler.Timeline)

	registrations := v1.Group("/registrations")
	registrations.POST("", registrationHandler.Create)
	registrations.GET("", registrationHandler.List)
	registrations.GET("/:id", registrationHandler.Get)
	registrations.PATCH("/:id", registrationHandler.Update)
	registrations.DELETE("/:id", registrationHandler.Delete, staffOnly)
	registrations.GET("/:id/activity", registrationHandler.Timeline)

	accounts := v1.Group("/accounts", staffOnly)
	accounts.POST("", accountHandler.Provision)
	accounts.DELETE("/:client_id", accountHandler.Delete)

	return e
}
