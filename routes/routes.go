package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/prateeks07/society-management-backend/config"
	"github.com/prateeks07/society-management-backend/database"
	"github.com/prateeks07/society-management-backend/internal/auditlog"
	"github.com/prateeks07/society-management-backend/internal/auth"
	"github.com/prateeks07/society-management-backend/internal/payment"
	"github.com/prateeks07/society-management-backend/internal/reports"
	"github.com/prateeks07/society-management-backend/internal/scope"
	"github.com/prateeks07/society-management-backend/internal/society"
	"github.com/prateeks07/society-management-backend/internal/visitor"
	"github.com/prateeks07/society-management-backend/middleware"
)

func Setup(r *gin.Engine, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())     // Global rate limit per IP
	api.Use(middleware.AuditMiddleware()) // Capture IP for audit logging

	// ========== Shared scope components ==========
	policy := scope.NewPolicy(database.DB)
	resolver := scope.NewResolver(database.DB)

	// ========== Audit Log Module ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc, policy)
	auditlog.StartKafkaConsumer(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc, policy, auditSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)

		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)

		authGroup.GET("/me", middleware.AuthMiddleware(cfg, authSvc), authHandler.Me)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	// ========== Societies, Buildings, Units ==========
	societyRepo := society.NewRepository(database.DB)
	societySvc := society.NewService(societyRepo, policy, resolver, auditSvc)
	societyHandler := society.NewHandler(societySvc, authSvc)

	societies := protected.Group("/societies")
	{
		societies.POST("", middleware.RBACMiddleware(middleware.RoleOwner), societyHandler.CreateSociety)
		societies.GET("", societyHandler.ListSocieties)
		societies.GET("/:id", societyHandler.GetSociety)

		societies.POST("/:id/buildings", middleware.RBACMiddleware(middleware.RoleOwner), societyHandler.CreateBuilding)
		societies.GET("/:id/buildings", societyHandler.ListBuildings)

		societies.POST("/:id/staff", middleware.RBACMiddleware(middleware.RoleOwner), authHandler.CreateStaff)
		societies.GET("/:id/staff", middleware.RBACMiddleware(middleware.RoleOwner, middleware.RoleStaff), authHandler.ListStaff)
		societies.PUT("/:id/staff/:staffId", middleware.RBACMiddleware(middleware.RoleOwner), authHandler.ReassignStaff)
	}

	buildings := protected.Group("/buildings")
	{
		buildings.POST("/:id/units", middleware.RBACMiddleware(middleware.RoleOwner), societyHandler.CreateUnit)
		buildings.GET("/:id/units", societyHandler.ListUnits)
	}

	paymentRepo := payment.NewRepository(database.DB)
	paymentSvc := payment.NewService(paymentRepo, policy, resolver, auditSvc)
	paymentHandler := payment.NewHandler(paymentSvc)

	units := protected.Group("/units")
	{
		units.POST("/:id/allocate", middleware.RBACMiddleware(middleware.RoleOwner), societyHandler.AllocateUnit)
		units.POST("/:id/deallocate", middleware.RBACMiddleware(middleware.RoleOwner), societyHandler.DeallocateUnit)

		units.POST("/:id/agreements", middleware.RBACMiddleware(middleware.RoleOwner), societyHandler.CreateAgreement)
		units.GET("/:id/agreements", societyHandler.ListAgreements)

		units.POST("/:id/parking-slots", middleware.RBACMiddleware(middleware.RoleOwner), societyHandler.CreateParkingSlot)
		units.GET("/:id/parking-slots", societyHandler.ListParkingSlots)

		units.GET("/:id/payments", paymentHandler.ListByUnit)
	}

	// ========== Visitors ==========
	visitorRepo := visitor.NewRepository(database.DB)
	visitorSvc := visitor.NewService(visitorRepo, policy, resolver, auditSvc)
	visitorHandler := visitor.NewHandler(visitorSvc)

	// Tenant self-service reads
	me := protected.Group("/me")
	{
		me.GET("/units", societyHandler.MyUnits)
		me.GET("/payments", paymentHandler.MyPayments)
		me.GET("/visitors", visitorHandler.MyVisitors)
	}

	visitors := protected.Group("/visitors")
	{
		visitors.POST("/check-in", middleware.RBACMiddleware(middleware.RoleOwner, middleware.RoleStaff), visitorHandler.CheckIn)
		visitors.POST("/:id/check-out", middleware.RBACMiddleware(middleware.RoleOwner, middleware.RoleStaff), visitorHandler.CheckOut)
		visitors.POST("/:id/flag", middleware.RBACMiddleware(middleware.RoleOwner, middleware.RoleStaff), visitorHandler.Flag)
		visitors.GET("/:id", visitorHandler.Get)
		visitors.GET("", visitorHandler.Search)
		visitors.GET("/daily-summary", middleware.RBACMiddleware(middleware.RoleStaff), visitorHandler.DailySummary)
	}

	// ========== Payments ==========
	payments := protected.Group("/payments")
	{
		payments.POST("", middleware.RBACMiddleware(middleware.RoleOwner), paymentHandler.CreatePayment)
		payments.POST("/:id/record", middleware.RBACMiddleware(middleware.RoleOwner), paymentHandler.RecordPayment)
		payments.GET("", paymentHandler.ListPayments)
		payments.GET("/summary", paymentHandler.Summary)
		payments.GET("/collection-summary", middleware.RBACMiddleware(middleware.RoleOwner, middleware.RoleStaff), paymentHandler.CollectionSummary)
	}

	// ========== Reports ==========
	reportsRepo := reports.NewRepository(database.DB)
	reportsSvc := reports.NewService(reportsRepo, policy)
	reportsHandler := reports.NewHandler(reportsSvc)

	reportRoutes := protected.Group("/reports")
	reportRoutes.Use(middleware.RBACMiddleware(middleware.RoleOwner, middleware.RoleStaff))
	{
		reportRoutes.GET("/society-overview", reportsHandler.SocietyOverview)
		reportRoutes.GET("/visitor-register", reportsHandler.VisitorRegister)
		reportRoutes.GET("/payment-collections", reportsHandler.PaymentCollections)
	}

	// ========== Audit Logs ==========
	auditRoutes := protected.Group("/auditlogs")
	auditRoutes.Use(middleware.RBACMiddleware(middleware.RoleOwner))
	{
		auditRoutes.GET("", auditHandler.GetAuditLogs)
	}
}
