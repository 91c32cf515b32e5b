package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Skufu/heartcheck/internal/assessment"
	"github.com/Skufu/heartcheck/internal/imagery"
	"github.com/Skufu/heartcheck/internal/prediction"
	"github.com/Skufu/heartcheck/internal/report"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Port         string
	DatabaseURL  string
	EnableDB     bool
	ModelPath    string
	SessionTTL   time.Duration
	ImageTimeout time.Duration
	LogLevel     zerolog.Level
}

func main() {
	gin.SetMode(getEnv("GIN_MODE", "release"))
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	predictor, err := prediction.Open(cfg.ModelPath)
	if err != nil {
		log.Fatal().Err(err).Str("model", cfg.ModelPath).Msg("load model failed")
	}
	compiler := report.NewCompiler()

	ctx := context.Background()
	var db HealthChecker
	if cfg.EnableDB {
		pool, err := connectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer pool.Close()
		db = pool
	}

	srv := &server{
		sessions: newSessionStore(cfg.SessionTTL, func() *assessment.Workflow {
			return assessment.New(predictor, compiler)
		}),
		images: imagery.NewFetcher(cfg.ImageTimeout),
		logger: log.Logger,
	}

	router := setupRouter(db, srv, detectStaticRoot())
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("model", cfg.ModelPath).Msg("server listening")
	waitForShutdown(httpServer)
}

func loadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		EnableDB:    strings.EqualFold(getEnv("ENABLE_DB", "false"), "true"),
		ModelPath:   getEnv("MODEL_PATH", filepath.Join("models", "heart_disease_model.yaml")),
	}

	if cfg.EnableDB && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when ENABLE_DB=true")
	}

	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "30m"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid SESSION_TTL %q", os.Getenv("SESSION_TTL"))
	}
	cfg.SessionTTL = ttl

	timeout, err := time.ParseDuration(getEnv("IMAGE_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid IMAGE_TIMEOUT %q", os.Getenv("IMAGE_TIMEOUT"))
	}
	cfg.ImageTimeout = timeout

	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

func connectDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, nil
}

func setupRouter(db HealthChecker, srv *server, staticRoot string) *gin.Engine {
	router := gin.New()
	router.Use(
		requestLogger(srv.logger),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type"},
			MaxAge:       12 * time.Hour,
		}),
	)

	// Serve a frontend only when one is checked out next to the binary.
	if fileExists(filepath.Join(staticRoot, "index.html")) {
		router.Static("/static", staticRoot)
		router.StaticFile("/", filepath.Join(staticRoot, "index.html"))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"db":     "ok",
		})
	})

	api := router.Group("/api")
	api.GET("/session", srv.getSession)
	api.POST("/session/submit", srv.submit)
	api.POST("/session/diet", srv.viewDiet)
	api.POST("/session/back", srv.back)
	api.POST("/session/start-over", srv.startOver)
	api.GET("/session/report", srv.downloadReport)
	api.GET("/imagery/:page", srv.pageImages)

	return router
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := logger.Info()
		if status >= http.StatusInternalServerError {
			evt = logger.Error()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

func waitForShutdown(hs *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := hs.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func detectStaticRoot() string {
	startDir, err := os.Getwd()
	if err != nil {
		return "."
	}

	candidates := []string{
		filepath.Join(startDir, "web"),
		startDir,
		filepath.Dir(startDir),
	}

	for _, dir := range candidates {
		if fileExists(filepath.Join(dir, "index.html")) {
			return dir
		}
	}

	return startDir
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
