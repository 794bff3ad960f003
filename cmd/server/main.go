package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lectern/courseport-backend/internal/config"
	"github.com/lectern/courseport-backend/internal/database"
	"github.com/lectern/courseport-backend/internal/handler"
	"github.com/lectern/courseport-backend/internal/logger"
	"github.com/lectern/courseport-backend/internal/notify"
	"github.com/lectern/courseport-backend/internal/repository"
	"github.com/lectern/courseport-backend/internal/router"
	"github.com/lectern/courseport-backend/internal/service"
	"github.com/lectern/courseport-backend/internal/validator"
	"github.com/lectern/courseport-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Course Portal Backend")

	if cfg.InstructorPasswordHash == "" {
		log.Warn().Msg("INSTRUCTOR_PASSWORD_HASH is not set; instructor login is disabled")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	courseRepo := repository.NewCourseRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	dispatcher := notify.NewDispatcher(rdb, log)
	authService := service.NewAuthService(cfg, rdb)
	studentService := service.NewStudentService(studentRepo, authService)
	courseService := service.NewCourseService(courseRepo, log)
	storageService := service.NewStorageService(cfg)
	accessService := service.NewAccessService(courseRepo, enrollmentRepo, resourceRepo, cfg.RequireLoginForListing)
	enrollmentService := service.NewEnrollmentService(studentRepo, courseRepo, enrollmentRepo, dispatcher, log)
	resourceService := service.NewResourceService(courseRepo, enrollmentRepo, resourceRepo, storageService, dispatcher, log)

	// ─── Seed Default Course (single-course mode) ─────────────────────
	if cfg.DefaultCourseTitle != "" {
		if err := courseService.SeedDefault(ctx,
			cfg.DefaultCourseTitle,
			cfg.DefaultCourseInstructor,
			cfg.DefaultCourseDescription,
			cfg.DefaultCourseSubmissionURL,
		); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed default course")
		}
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, studentService),
		Course:     handler.NewCourseHandler(courseService, accessService),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService),
		Resource:   handler.NewResourceHandler(resourceService, accessService),
		Admin:      handler.NewAdminHandler(studentService),
	}

	// ─── Start Notifier Worker ────────────────────────────────────────
	var mailer notify.Mailer
	if cfg.SendGridAPIKey != "" {
		mailer = notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromAddress, log)
	} else {
		log.Warn().Msg("SENDGRID_API_KEY is not set; email delivery is disabled (console only)")
		mailer = notify.NewConsoleMailer(log)
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	notifierWorker := worker.NewNotifierWorker(rdb, mailer, cfg.NotifySendTimeout, log)
	go notifierWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the notifier worker and allow the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
