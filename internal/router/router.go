package router

import (
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/handler"
	"github.com/examhall/examhall-backend/internal/logger"
	"github.com/examhall/examhall-backend/internal/middleware"
	"github.com/examhall/examhall-backend/internal/response"
	"github.com/examhall/examhall-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	ExamPortal  *handler.ExamPortalHandler
	Exam        *handler.ExamHandler
	Question    *handler.QuestionHandler
	StudentMgmt *handler.StudentManagementHandler
	Result      *handler.ResultHandler
	Export      *handler.ExportHandler
	Dashboard   *handler.DashboardHandler
	Media       *handler.MediaHandler
	Monitor     *handler.MonitorHandler
	System      *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the request logger can read it.
	router.Use(response.RequestIDMiddleware())
	router.Use(logger.RequestLogger(log))
	router.Use(middleware.Brotli())

	// Uploaded question images are immutable (uuid names), cache for a year.
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	router.GET("/health", handlers.System.Health)

	// Everything under /api is bounded by the request timeout. The monitor
	// socket below is long-lived and deliberately outside this group.
	api := router.Group("/api")
	api.Use(middleware.RequestTimeout(cfg.RequestTimeout), middleware.NoStore())

	// ─── 1. Public auth ────────────────────────────────────────────────
	api.POST("/student/:examCode/login", handlers.Auth.StudentLogin)
	api.POST("/admin/login", handlers.Auth.AdminLogin)

	// ─── 2. Student exam portal (JWT + current session) ────────────────
	examAPI := api.Group("/exam")
	examAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckStudentSession(authService),
	)
	{
		examAPI.GET("/questions", handlers.ExamPortal.GetQuestions)
		examAPI.POST("/submit", handlers.ExamPortal.Submit)
		examAPI.POST("/events", handlers.ExamPortal.ReportEvent)
	}

	// ─── 3. Admin ──────────────────────────────────────────────────────
	adminAPI := api.Group("/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		adminAPI.GET("/dashboard", handlers.Dashboard.GetDashboardData)
		adminAPI.GET("/system/stats", handlers.System.Stats)
		adminAPI.POST("/media/upload", handlers.Media.UploadMedia)

		// Exams
		adminAPI.GET("/exams", handlers.Exam.ListExams)
		adminAPI.POST("/exams", handlers.Exam.CreateExam)
		adminAPI.GET("/exams/:id", handlers.Exam.GetExam)
		adminAPI.PUT("/exams/:id", handlers.Exam.UpdateExam)
		adminAPI.PATCH("/exams/:id/active", handlers.Exam.SetActive)
		adminAPI.DELETE("/exams/:id", handlers.Exam.DeleteExam)

		// Questions
		adminAPI.GET("/exams/:id/questions", handlers.Question.ListQuestions)
		adminAPI.POST("/exams/:id/questions", handlers.Question.AddQuestion)
		adminAPI.PUT("/questions/:id", handlers.Question.UpdateQuestion)
		adminAPI.DELETE("/questions/:id", handlers.Question.DeleteQuestion)

		// Students
		adminAPI.GET("/exams/:id/students", handlers.StudentMgmt.ListStudents)
		adminAPI.GET("/students/:id", handlers.StudentMgmt.GetStudent)
		adminAPI.DELETE("/students/:id", handlers.StudentMgmt.DeleteStudent)
		adminAPI.GET("/students/:id/events", handlers.StudentMgmt.ListEvents)

		// Results
		adminAPI.GET("/exams/:id/results", handlers.Result.ListResults)
		adminAPI.GET("/results/:id", handlers.Result.GetResult)
		adminAPI.DELETE("/results/:id", handlers.Result.DeleteResult)

		// Exports
		adminAPI.GET("/exams/:id/export/results", handlers.Export.ExportResults)
		adminAPI.GET("/exams/:id/export/students", handlers.Export.ExportStudents)

		// Live monitor snapshot
		adminAPI.GET("/exams/:id/monitor", handlers.Monitor.GetSnapshot)
	}

	// ─── 4. WebSocket (admin token in query) ───────────────────────────
	ws := router.Group("/ws/admin")
	ws.Use(middleware.RequireAdminWSAuth(authService))
	{
		ws.GET("/exams/:id/monitor", handlers.Monitor.MonitorExamWS)
	}

	return router
}
