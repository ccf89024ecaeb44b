package main

import (
	// standard library
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// third-party
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	// internal
	"github.com/rmitchellscott/hass-render/internal/cache"
	"github.com/rmitchellscott/hass-render/internal/canvas"
	"github.com/rmitchellscott/hass-render/internal/config"
	"github.com/rmitchellscott/hass-render/internal/handlers"
	"github.com/rmitchellscott/hass-render/internal/homeassistant"
	"github.com/rmitchellscott/hass-render/internal/logging"
	"github.com/rmitchellscott/hass-render/internal/metrics"
	"github.com/rmitchellscott/hass-render/internal/middleware"
	"github.com/rmitchellscott/hass-render/internal/rendering"
	"github.com/rmitchellscott/hass-render/internal/style"
	"github.com/rmitchellscott/hass-render/internal/version"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel, cfg.NoColor)
	logging.InfoWithComponent(logging.ComponentStartup, "Starting Home Assistant status renderer", "version", version.String())

	// Fonts and theme are parsed once and shared by every render.
	fonts, err := canvas.LoadFonts()
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to load fonts", "error", err)
		os.Exit(1)
	}
	theme, err := loadTheme(cfg.ThemeFile)
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to load theme", "file", cfg.ThemeFile, "error", err)
		os.Exit(1)
	}
	engine, err := rendering.NewEngine(rendering.Config{Fonts: fonts, Theme: theme})
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to create render engine", "error", err)
		os.Exit(1)
	}

	pool := rendering.NewRenderWorkerPool(engine, cfg.RenderWorkers, cfg.RenderQueue)
	pool.SetObserver(metrics.ObserveRender)
	metrics.Init(pool)
	pool.Start()

	haClient, err := homeassistant.NewClient(cfg.HAURL, cfg.HAToken, cfg.HATimeout, cfg.HAMaxConcurrency)
	if err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Failed to create Home Assistant client", "error", err)
		os.Exit(1)
	}
	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.HATimeout)
	if err := haClient.Ping(pingCtx); err != nil {
		// Not fatal: entities render as unavailable until Home Assistant answers.
		logging.WarnWithComponent(logging.ComponentHomeAssistant, "Home Assistant not reachable", "url", cfg.HAURL, "error", err)
	} else {
		logging.InfoWithComponent(logging.ComponentHomeAssistant, "Connected to Home Assistant", "url", cfg.HAURL)
	}
	pingCancel()

	imageCache := openCache(cfg)
	defer imageCache.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go logPoolHealth(ctx, pool, 5*time.Minute)

	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.RequestID())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"X-Cache", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/health", handlers.HealthHandler(pool))
	router.GET("/version", handlers.VersionHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	images := router.Group("/")
	if cfg.RateLimitPerMinute > 0 {
		limiter := middleware.NewClientRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
		defer limiter.Stop()
		images.Use(limiter.RateLimit())
	}
	handlers.NewImageHandler(haClient, pool, imageCache, cfg.CacheMaxAge).RegisterRoutes(images)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logRoutes(addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithComponent(logging.ComponentStartup, "Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.InfoWithComponent(logging.ComponentStartup, "Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorWithComponent(logging.ComponentStartup, "Server forced to shutdown", "error", err)
	}
	pool.Stop()

	logging.InfoWithComponent(logging.ComponentStartup, "Server stopped")
}

func loadTheme(path string) (*style.Theme, error) {
	if path == "" {
		return style.DefaultTheme()
	}
	return style.LoadTheme(path)
}

// openCache returns the Redis cache when configured and reachable, otherwise
// a cache that stores nothing.
func openCache(cfg *config.Config) cache.Cache {
	if !cfg.CacheEnabled() {
		logging.InfoWithComponent(logging.ComponentCache, "Image cache disabled, REDIS_ADDR not set")
		return cache.Noop{}
	}

	rc := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		logging.WarnWithComponent(logging.ComponentCache, "Redis not available, image cache disabled",
			"addr", cfg.RedisAddr, "error", err)
		_ = rc.Close()
		return cache.Noop{}
	}

	logging.InfoWithComponent(logging.ComponentCache, "Image cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	return rc
}

func logPoolHealth(ctx context.Context, pool *rendering.RenderWorkerPool, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pool.LogHealthSummary()
		}
	}
}

func logRoutes(addr string) {
	logging.InfoWithComponent(logging.ComponentStartup, "Listening", "address", addr)
	for _, route := range []struct{ path, desc string }{
		{"GET /health", "Health check"},
		{"GET /status/{entity_id}", "Render entity status as a static image"},
		{"GET /multi-status?sensors={sensor1,sensor2}", "Render multiple sensors"},
		{"GET /trmnl?sensors={sensor1,sensor2}", "Render 1-bit 800x480 display"},
		{"GET /metrics", "Prometheus metrics"},
	} {
		logging.InfoWithComponent(logging.ComponentStartup, "Route available", "route", route.path, "description", route.desc)
	}
}
