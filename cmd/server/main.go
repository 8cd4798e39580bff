package main

import (
	"context"
	"log"
	"time"

	"sales_call_app_go/config"
	"sales_call_app_go/db"
	"sales_call_app_go/handlers"
	"sales_call_app_go/middleware"
	"sales_call_app_go/models"
	"sales_call_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Session{}, &models.AuditLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Customer and call-log files
	storage := services.InitializeStorage(cfg)
	store := services.NewRecordStore(storage, services.RecordStoreOptions{
		CustomersKey:     cfg.CustomersFile,
		CallLogKey:       cfg.CallLogFile,
		PersistCustomers: cfg.PersistCustomers,
	})
	if _, err := store.Load(context.Background()); err != nil {
		log.Fatalf("Failed to load records: %v", err)
	}

	gate, err := services.NewAccessGate(cfg.RMAccessCodes)
	if err != nil {
		log.Fatalf("Failed to configure access codes: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CSPNonce())
	e.Use(middleware.CSRF(cfg.Environment == "production"))

	// Make config and services available to handlers
	e.Use(middleware.Inject(middleware.AppServices{
		Config:  cfg,
		Store:   store,
		Storage: storage,
		Gate:    gate,
	}))

	// Static files
	middleware.InitAssetVersions()
	e.Static("/static", "static")

	// Public routes
	e.GET("/login", handlers.LoginHandler, middleware.RedirectIfAuthenticated("/customers"))
	e.POST("/login", handlers.LoginPostHandler, middleware.LoginRateLimiter.Middleware())

	// Dashboard routes (logged-in RM required)
	protected := e.Group("")
	protected.Use(middleware.RequireAuth())
	protected.Use(middleware.AuditContext())
	{
		protected.GET("/", handlers.HomeHandler)
		protected.POST("/logout", handlers.LogoutHandler)

		// Customer List tab
		protected.GET("/customers", handlers.CustomersHandler)
		protected.POST("/customers", handlers.CreateCustomerHandler)
		protected.GET("/customers/history", handlers.HistoryHandler)
		protected.POST("/customers/:id/history", handlers.SelectHistoryCustomerHandler)
		protected.POST("/customers/:id/calls", handlers.LogHistoryCallHandler)

		// Make Calls tab
		protected.GET("/calls", handlers.CallsHandler)
		protected.POST("/calls/select/:id", handlers.SelectCallHandler)
		protected.POST("/calls/cancel", handlers.CancelCallHandler)
		protected.POST("/calls/dial", handlers.DialHandler, middleware.DialRateLimiter.Middleware())
		protected.POST("/calls/log", handlers.LogCallHandler)

		// Performance tab
		protected.GET("/performance", handlers.PerformanceHandler)
		protected.GET("/performance/export", handlers.ExportPerformanceHandler)
	}

	// Start background cleanup job (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
