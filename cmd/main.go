package main

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/prateeks07/society-management-backend/config"
	"github.com/prateeks07/society-management-backend/database"
	"github.com/prateeks07/society-management-backend/internal/auditlog"
	"github.com/prateeks07/society-management-backend/internal/auth"
	"github.com/prateeks07/society-management-backend/internal/payment"
	"github.com/prateeks07/society-management-backend/internal/society"
	"github.com/prateeks07/society-management-backend/internal/visitor"
	"github.com/prateeks07/society-management-backend/routes"
	"github.com/prateeks07/society-management-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis (optional; reset tokens and summary caches need it, reads
	// fall through to the database without it)
	if err := utils.InitRedis(); err != nil {
		log.Printf("⚠️ Redis unavailable, continuing without cache: %v", err)
	}

	// Init Kafka (optional; audit events go straight to the DB without it)
	utils.InitializeKafka()

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auth.UserRole{},
		&auth.User{},
		&society.Society{},
		&society.Building{},
		&society.Unit{},
		&society.Agreement{},
		&society.ParkingSlot{},
		&visitor.Visitor{},
		&payment.Payment{},
		&auditlog.AuditLog{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Seed roles & bootstrap owner
	if err := auth.SeedUserRoles(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed roles: %v", err))
	}
	if err := auth.SeedBootstrapOwner(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed bootstrap owner: %v", err))
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With", "Cache-Control", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
