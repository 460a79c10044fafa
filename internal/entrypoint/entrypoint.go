package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	auditsvc "github.com/cakesweet/storefront/internal/audit"
	"github.com/cakesweet/storefront/internal/auth"
	"github.com/cakesweet/storefront/internal/config"
	"github.com/cakesweet/storefront/internal/database"
	auditrepo "github.com/cakesweet/storefront/internal/database/audit"
	"github.com/cakesweet/storefront/internal/database/users"
	http_controllers "github.com/cakesweet/storefront/internal/http"
	"github.com/cakesweet/storefront/internal/scheduler"
	"github.com/cakesweet/storefront/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT/SIGTERM, then drain within the configured timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Cake Sweet storefront v%s", version)

	if cfg.Auth.JWTSecret == "" {
		log.Fatalf("JWT_SECRET is not set. Refusing to start without a signing secret.")
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	auditRepo := auditrepo.NewRepository(db.DB)
	auditService := auditsvc.NewService(auditRepo)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewCleanupLoginEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Authentication stack
	authService := auth.NewService(userRepo, auditService, cfg.Auth)
	tokenManager := auth.NewTokenManager(cfg.Auth)
	authMiddleware := auth.NewMiddleware(tokenManager)

	ipFilter := auth.NewIPFilter(cfg.Security.AllowedIPs)
	if ipFilter.Enabled() {
		log.Printf("IP filter enabled for %d address(es)", len(cfg.Security.AllowedIPs))
	} else {
		log.Printf("IP filter disabled (ALLOWED_IPS not set)")
	}

	var csrfSecret []byte
	if cfg.Auth.CSRFSecret != "" {
		csrfSecret = []byte(cfg.Auth.CSRFSecret)
	} else {
		log.Printf("AUTH_CSRF_SECRET not set, CSRF protection disabled for form posts")
	}

	// Periodic login event pruning
	cleanupScheduler := scheduler.NewAuditCleanupScheduler(taskClient, auditService, cfg.Audit)
	if err := cleanupScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: audit cleanup scheduler failed to start: %v", err)
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		AuthService:    authService,
		TokenManager:   tokenManager,
		AuthMiddleware: authMiddleware,
		IPFilter:       ipFilter,
		AuditService:   auditService,
		AuthConfig:     cfg.Auth,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
		CSRFSecret:     csrfSecret,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		cleanupScheduler.Stop()
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
