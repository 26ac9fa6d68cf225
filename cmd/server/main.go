package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hearthshare/hearthshare/internal/config"
	"github.com/hearthshare/hearthshare/internal/database"
	"github.com/hearthshare/hearthshare/internal/handlers"
	"github.com/hearthshare/hearthshare/internal/logging"
	"github.com/hearthshare/hearthshare/internal/middleware"
	"github.com/hearthshare/hearthshare/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	// Initialize logger
	logger := logging.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("Starting Hearthshare server...")

	// Connect to PostgreSQL
	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Run migrations
	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("Migrations completed")

	// Connect to Redis
	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	// Initialize services
	dbAdapter := services.NewPoolAdapter(db.Pool)
	redisAdapter := services.NewRedisAdapter(redisDB.Client)

	userService := services.NewUserService(dbAdapter)
	authService := services.NewAuthService(dbAdapter, redisAdapter)
	familyService := services.NewFamilyService(dbAdapter, services.FamilyConfig{
		InviteCodeLength: cfg.Invite.CodeLength,
		InviteTTL:        cfg.Invite.TTL,
		CreateCooldown:   cfg.Invite.CreateCooldown,
	})
	listService := services.NewListService(dbAdapter)
	expenseService := services.NewExpenseService(dbAdapter)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, redisDB)
	authHandler := handlers.NewAuthHandler(userService, authService, cfg.Server.Secure)
	familyHandler := handlers.NewFamilyHandler(familyService, authService)
	listHandler := handlers.NewListHandler(listService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	csrfMiddleware := middleware.NewCSRFMiddleware(cfg.Server.Secure)
	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	cacheControl := middleware.NewCacheControl()
	compress := middleware.NewCompress()
	requestLogger := middleware.NewRequestLogger(logger)
	authRateLimiter := middleware.NewAuthRateLimiter(redisDB.Client)

	requireAuth := authMiddleware.RequireAuth

	// Set up router
	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// CSRF token endpoint
	mux.Handle("GET /api/csrf", http.HandlerFunc(csrfMiddleware.GetToken))

	// Auth endpoints
	mux.Handle("POST /api/auth/register", authRateLimiter.Middleware(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", authRateLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/auth/logout", http.HandlerFunc(authHandler.Logout))
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/profile", requireAuth(http.HandlerFunc(authHandler.UpdateProfile)))

	// Family endpoints
	mux.Handle("POST /api/family", requireAuth(http.HandlerFunc(familyHandler.Create)))
	mux.Handle("GET /api/family", requireAuth(http.HandlerFunc(familyHandler.Get)))
	mux.Handle("DELETE /api/family", requireAuth(http.HandlerFunc(familyHandler.Disband)))
	mux.Handle("POST /api/family/join", requireAuth(http.HandlerFunc(familyHandler.Join)))
	mux.Handle("POST /api/family/invites", requireAuth(http.HandlerFunc(familyHandler.CreateInvite)))
	mux.Handle("POST /api/family/leave", requireAuth(http.HandlerFunc(familyHandler.Leave)))
	mux.Handle("DELETE /api/family/members/{id}", requireAuth(http.HandlerFunc(familyHandler.RemoveMember)))

	// List endpoints
	mux.Handle("POST /api/lists", requireAuth(http.HandlerFunc(listHandler.Create)))
	mux.Handle("GET /api/lists", requireAuth(http.HandlerFunc(listHandler.List)))
	mux.Handle("DELETE /api/lists/{id}", requireAuth(http.HandlerFunc(listHandler.Delete)))
	mux.Handle("POST /api/lists/{id}/items", requireAuth(http.HandlerFunc(listHandler.AddItem)))
	mux.Handle("GET /api/lists/{id}/items", requireAuth(http.HandlerFunc(listHandler.Items)))
	mux.Handle("PUT /api/items/{id}/name", requireAuth(http.HandlerFunc(listHandler.RenameItem)))
	mux.Handle("PUT /api/items/{id}/status", requireAuth(http.HandlerFunc(listHandler.SetItemStatus)))
	mux.Handle("PUT /api/items/{id}/assignee", requireAuth(http.HandlerFunc(listHandler.AssignItem)))
	mux.Handle("DELETE /api/items/{id}", requireAuth(http.HandlerFunc(listHandler.DeleteItem)))
	mux.Handle("GET /api/suggestions", requireAuth(http.HandlerFunc(listHandler.Suggestions)))

	// Expense endpoints
	mux.Handle("POST /api/expenses", requireAuth(http.HandlerFunc(expenseHandler.Add)))
	mux.Handle("GET /api/expenses", requireAuth(http.HandlerFunc(expenseHandler.List)))
	mux.Handle("GET /api/expenses/summary", requireAuth(http.HandlerFunc(expenseHandler.Summary)))
	mux.Handle("DELETE /api/expenses/{id}", requireAuth(http.HandlerFunc(expenseHandler.Delete)))
	mux.Handle("POST /api/categories", requireAuth(http.HandlerFunc(expenseHandler.AddCategory)))
	mux.Handle("GET /api/categories", requireAuth(http.HandlerFunc(expenseHandler.Categories)))
	mux.Handle("PUT /api/budgets", requireAuth(http.HandlerFunc(expenseHandler.UpsertBudget)))
	mux.Handle("GET /api/budgets", requireAuth(http.HandlerFunc(expenseHandler.Budgets)))
	mux.Handle("DELETE /api/budgets/{id}", requireAuth(http.HandlerFunc(expenseHandler.DeleteBudget)))

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = csrfMiddleware.Protect(handler)
	handler = cacheControl.Apply(handler)
	handler = compress.Apply(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
