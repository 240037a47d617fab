package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/database"
	"github.com/examhall/examhall-backend/internal/handler"
	"github.com/examhall/examhall-backend/internal/logger"
	"github.com/examhall/examhall-backend/internal/repository"
	"github.com/examhall/examhall-backend/internal/router"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/examhall/examhall-backend/internal/validator"
	"github.com/examhall/examhall-backend/internal/worker"
	"github.com/rs/zerolog"
)

const workerDrainTimeout = 7 * time.Second

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting examhall backend")

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

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to create upload directory")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	responseRepo := repository.NewResponseRepository(pool)
	eventRepo := repository.NewAttemptEventRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)
	monitorRepo := repository.NewMonitorRepository(pool)

	// ─── Redis-backed stores ───────────────────────────────────────────
	sessions := service.NewRedisSessionRegistry(rdb)
	papers := service.NewRedisPaperCache(rdb)
	publisher := service.NewRedisMonitorPublisher(rdb)
	eventQueue := service.NewRedisEventQueue(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService, err := service.NewAuthService(cfg, sessions)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth")
	}
	if !authService.AdminLoginEnabled() {
		log.Warn().Msg("ADMIN_PASSWORD / ADMIN_PASSWORD_HASH not set, admin login is disabled")
	}

	examService := service.NewExamService(examRepo, questionRepo, papers, cfg.PaperCacheTTL, log)
	questionService := service.NewQuestionService(examRepo, questionRepo, examService, log)
	attemptService := service.NewAttemptService(examRepo, studentRepo, examService, authService, publisher, log)
	submissionService := service.NewSubmissionService(studentRepo, questionRepo, responseRepo, publisher, log)
	eventService := service.NewEventService(studentRepo, eventQueue, publisher, log)
	resultService := service.NewResultService(examRepo, responseRepo, log)
	studentService := service.NewStudentService(examRepo, studentRepo, eventRepo, authService, log)
	dashboardService := service.NewDashboardService(examRepo, dashboardRepo)
	monitorService := service.NewMonitorService(examRepo, studentRepo, monitorRepo, log)
	mediaService := service.NewMediaService(cfg)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, attemptService),
		ExamPortal:  handler.NewExamPortalHandler(attemptService, submissionService, eventService),
		Exam:        handler.NewExamHandler(examService),
		Question:    handler.NewQuestionHandler(questionService),
		StudentMgmt: handler.NewStudentManagementHandler(studentService),
		Result:      handler.NewResultHandler(resultService),
		Export:      handler.NewExportHandler(examService, resultService, studentService, time.Local, log),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Media:       handler.NewMediaHandler(mediaService),
		Monitor:     handler.NewMonitorHandler(rdb, monitorService, cfg.AllowedOrigins, log),
		System:      handler.NewSystemHandler(pool, rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	eventWorker := worker.NewEventWorker(eventRepo, rdb, log)
	go func() {
		defer close(workerDone)
		eventWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	// 2. Stop the event worker and let it flush its buffer.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(workerDrainTimeout):
		log.Warn().Msg("Event worker did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
