package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"studentapi/docs"
	"studentapi/internal/config"
	"studentapi/internal/database"
	"studentapi/internal/database/migration"
	handlers "studentapi/internal/http/handler"
	"studentapi/internal/http/middleware"
	"studentapi/internal/logger"
	"studentapi/internal/otel"
	"studentapi/internal/repository/sqlrepo"
	"studentapi/internal/service"
	"studentapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Student Records API
// @version 1.0
// @description CRUD and search over student records.
// @BasePath /
func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n\nEnvironment variables:\n%s", os.Args[0], config.Usage())
	}
	flag.Parse()

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg, err := config.Load()
	if err != nil {
		boot := logger.NewStdout("prod", time.UTC)
		boot.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.NewStdout(cfg.Env, cfg.Location())
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg *config.AppConfig, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, cfg.Tracing, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	// Open the configured SQL backend (SQLite file by default, PostgreSQL optionally)
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, cfg.Database.Driver, log); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	// Initialize repositories and services
	studentRepo := sqlrepo.NewStudentSQL(db)
	studentSvc := service.NewStudentService(studentRepo)

	var exportSvc service.ExportService
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		exportSvc = service.NewExportService(objStore, studentRepo, cfg.MinIO.URLExpiry)
	} else {
		log.Info().Str("event", "roster_export_disabled").Msg("MINIO_ENDPOINT not set")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: cfg.Env != "dev",
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, studentSvc, exportSvc)
	app.Get("/metrics", handlers.Metrics(reg))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("event", "server_listening").Str("addr", addr).Send()
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Str("event", "shutdown_started").Send()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Str("event", "http_shutdown_failed").Send()
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Str("event", "tracing_shutdown_failed").Send()
	}

	log.Info().Str("event", "shutdown_complete").Send()
	return nil
}
