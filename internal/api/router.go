package api

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/parkwise/parking-system/internal/api/handler"
	"github.com/parkwise/parking-system/internal/api/middleware"
	"github.com/parkwise/parking-system/internal/core/domain"
	"github.com/parkwise/parking-system/internal/core/ports"
	"github.com/parkwise/parking-system/internal/core/service"
	"github.com/parkwise/parking-system/internal/infrastructure/config"
	redisinfra "github.com/parkwise/parking-system/internal/infrastructure/db/redis"
	"github.com/parkwise/parking-system/internal/infrastructure/mail"
)

// storePrincipals adapts the aggregate store to the middleware's
// PrincipalResolver.
type storePrincipals struct {
	store ports.Store
}

func (p storePrincipals) ResolveUser(ctx context.Context, id string) (*domain.User, error) {
	return p.store.Users().FindByID(ctx, id)
}

func (p storePrincipals) ResolveAdmin(ctx context.Context, id string) (*domain.Admin, error) {
	return p.store.Admins().FindByID(ctx, id)
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, store ports.Store, pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("parking"))

	// --- Dependencies ---
	mailer := mail.NewLogMailer(cfg.SMTP.From, log)
	statsCache := redisinfra.NewStatsCache(rdb, 0)

	authService := service.NewAuthService(store, mailer, cfg.JWTSecret, cfg.JWTExpiry, log)
	userService := service.NewUserService(store, mailer, log)
	slotService := service.NewSlotService(store, log)
	requestService := service.NewRequestService(store, mailer, log)
	ticketService := service.NewTicketService(store, cfg.HourlyRate, log)
	notificationService := service.NewNotificationService(store)
	dashboardService := service.NewDashboardService(store, statsCache, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	slotHandler := handler.NewSlotHandler(slotService)
	requestHandler := handler.NewRequestHandler(requestService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)

	auth := middleware.Auth(cfg.JWTSecret, storePrincipals{store: store})
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	userOnly := middleware.RBAC(domain.RoleUser)
	anyRole := middleware.RBAC(domain.RoleAdmin, domain.RoleUser)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/verify-email", authHandler.VerifyEmail)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/reset-password", authHandler.ResetPassword)
	e.POST("/auth/admin/register", authHandler.RegisterAdmin)
	e.POST("/auth/admin/login", authHandler.LoginAdmin)
	e.POST("/auth/admin/verify-email", authHandler.VerifyAdminEmail)
	e.POST("/auth/admin/forgot-password", authHandler.ForgotAdminPassword)
	e.POST("/auth/admin/reset-password", authHandler.ResetAdminPassword)

	// --- Admin: user management ---
	adminUsers := e.Group("/admin/users", auth, adminOnly)
	adminUsers.GET("", userHandler.List)
	adminUsers.POST("/:id/approve", userHandler.Approve)
	adminUsers.POST("/:id/reject", userHandler.Reject)

	// --- Admin: slot inventory ---
	adminSlots := e.Group("/admin/parking-slots", auth, adminOnly)
	adminSlots.GET("", slotHandler.List)
	adminSlots.POST("", slotHandler.Create)
	adminSlots.PUT("/:id", slotHandler.Update)
	adminSlots.DELETE("/:id", slotHandler.Delete)
	adminSlots.POST("/:id/assign", slotHandler.Assign)
	adminSlots.POST("/release", slotHandler.Release)

	// --- Slots (user-facing views) ---
	slots := e.Group("/parking-slots", auth)
	slots.GET("/available", slotHandler.ListAvailable, anyRole)
	slots.GET("/occupied", slotHandler.ListOccupied, adminOnly)
	slots.GET("/my-slot", slotHandler.MySlot, userOnly)

	// --- Slot requests ---
	requests := e.Group("/slot-requests", auth)
	requests.POST("", requestHandler.Create, userOnly)
	requests.GET("", requestHandler.ListMine, userOnly)
	requests.GET("/admin/pending", requestHandler.ListPending, adminOnly)
	requests.GET("/admin/all", requestHandler.ListAll, adminOnly)
	requests.POST("/admin/:id/approve", requestHandler.Approve, adminOnly)
	requests.POST("/admin/:id/reject", requestHandler.Reject, adminOnly)

	// --- Tickets ---
	tickets := e.Group("/tickets", auth)
	tickets.POST("/request", ticketHandler.Create, userOnly)
	tickets.POST("/calculate", ticketHandler.Calculate, anyRole)
	tickets.GET("/my/active", ticketHandler.MyActive, userOnly)
	tickets.GET("/my/history", ticketHandler.MyHistory, userOnly)
	tickets.GET("/my/export", ticketHandler.MyExport, userOnly)
	tickets.GET("/admin/active", ticketHandler.ListActive, adminOnly)
	tickets.GET("/admin/all", ticketHandler.ListAll, adminOnly)
	tickets.GET("/admin/export", ticketHandler.AdminExport, adminOnly)
	tickets.POST("/admin/:id/activate", ticketHandler.Activate, adminOnly)
	tickets.POST("/admin/:id/complete", ticketHandler.Complete, adminOnly)

	// --- Notifications ---
	notifications := e.Group("/notifications", auth, anyRole)
	notifications.GET("", notificationHandler.List)
	notifications.POST("/:id/read", notificationHandler.MarkRead)
	notifications.POST("/read-all", notificationHandler.MarkAllRead)

	// --- Dashboards ---
	e.GET("/admin/dashboard", dashboardHandler.Admin, auth, adminOnly)
	e.GET("/admin/parking-stats", dashboardHandler.Stats, auth, adminOnly)
	e.GET("/user/dashboard", dashboardHandler.User, auth, userOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
