package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bravo6co-debug/SMS-solapi/environments"
	"github.com/bravo6co-debug/SMS-solapi/handlers"
	"github.com/bravo6co-debug/SMS-solapi/internal/middlewares"
	"github.com/bravo6co-debug/SMS-solapi/internal/repository"
	"github.com/bravo6co-debug/SMS-solapi/internal/service"
	"github.com/bravo6co-debug/SMS-solapi/pkg/database"
	"github.com/bravo6co-debug/SMS-solapi/pkg/logger"
	"github.com/bravo6co-debug/SMS-solapi/pkg/response"
	"github.com/bravo6co-debug/SMS-solapi/pkg/session"
	"github.com/bravo6co-debug/SMS-solapi/pkg/solapi"
	"github.com/bravo6co-debug/SMS-solapi/pkg/validator"
	"github.com/bravo6co-debug/SMS-solapi/routes"

	_ "github.com/bravo6co-debug/SMS-solapi/docs" // swagger docs
)

// @title SOLAPI SMS Dispatch API
// @version 1.0
// @description Campaign SMS dispatch backend with template management and send history

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @schemes http https
func main() {
	logger.Init()

	// Load config
	cfg := environments.Load()

	// Hard-fail if required secrets are missing
	if cfg.Solapi.APIKey == "" {
		logger.Fatalf("SOLAPI_API_KEY is required but not set")
	}
	if cfg.Solapi.APISecret == "" {
		logger.Fatalf("SOLAPI_API_SECRET is required but not set")
	}
	if cfg.Solapi.SenderPhone == "" {
		logger.Fatalf("SOLAPI_SENDER_PHONE is required but not set")
	}

	logger.Infof("Starting SOLAPI SMS dispatch service...")

	// Init DB
	db, err := database.NewMySQLDB(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}

	// Init session store
	sessionStore, err := session.NewStore(cfg.Session)
	if err != nil {
		logger.Fatalf("Failed to connect to session store: %v", err)
	}

	// Initialize provider client
	solapiClient := solapi.NewClient(cfg.Solapi)
	logger.Infof("Solapi client configured, sender: %s", solapiClient.SenderPhone())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo)
	companyService := service.NewCompanyService(companyRepo, historyRepo)
	templateService := service.NewTemplateService(templateRepo, historyRepo, cfg.Template)
	draftService := service.NewDraftService(draftRepo)
	sendService := service.NewSendService(companyRepo, templateRepo, historyRepo, solapiClient, cfg.Send)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, sessionStore)
	authHandler := handlers.NewAuthHandler(authService, sessionStore)
	companyHandler := handlers.NewCompanyHandler(companyService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	draftHandler := handlers.NewDraftHandler(draftService)
	sendHandler := handlers.NewSendHandler(sendService)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		AllowCredentials: true,
	}))

	// Setup routes
	authRequired := middlewares.SessionAuth(sessionStore, authService)
	routes.RegisterRoutes(e, authRequired,
		healthHandler, authHandler, companyHandler, templateHandler, draftHandler, sendHandler)

	// Serve a 404 JSON for unknown routes instead of echo's default HTML
	echo.NotFoundHandler = func(c echo.Context) error {
		return response.NotFound(c, "Route not found")
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Infof("Server starting on http://localhost%s", addr)
		logger.Infof("Swagger docs available at http://localhost%s/swagger/index.html", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down gracefully...")

	// Shutdown HTTP server (with timeout)
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	logger.Infof("Shutting down HTTP server...")
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	} else {
		logger.Infof("HTTP server stopped successfully")
	}

	// Close database connection
	logger.Infof("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Errorf("Error closing database: %v", err)
	}

	// Close session store
	logger.Infof("Closing session store...")
	if err := sessionStore.Close(); err != nil {
		logger.Errorf("Error closing session store: %v", err)
	}

	logger.Infof("Graceful shutdown completed")
}
