package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lectern/courseport-backend/internal/config"
	"github.com/lectern/courseport-backend/internal/handler"
	"github.com/lectern/courseport-backend/internal/middleware"
	"github.com/lectern/courseport-backend/internal/response"
	"github.com/lectern/courseport-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Course     *handler.CourseHandler
	Enrollment *handler.EnrollmentHandler
	Resource   *handler.ResourceHandler
	Admin      *handler.AdminHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

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
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Every route resolves the caller's session once; handlers and core
	// services consume the tagged Session value, never raw headers.
	router.Use(middleware.ResolveSession(authService))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Rate Limited) ──────────────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/instructor/login", handlers.Auth.InstructorLogin)
		auth.POST("/student/register", handlers.Auth.StudentRegister)
		auth.POST("/student/login", handlers.Auth.StudentLogin)

		// Authenticated profile/session routes
		auth.POST("/logout", handlers.Auth.Logout)
		auth.GET("/student/me", middleware.RequireStudent(), handlers.Auth.StudentProfile)
	}

	// ─── 2. Courses (Access Control Engine decides visibility) ─────────
	courses := router.Group("/api/v1/courses")
	{
		courses.GET("", handlers.Course.ListCourses)
		courses.GET("/:id", handlers.Course.GetCourse)
		courses.POST("", middleware.RequireInstructor(), handlers.Course.CreateCourse)
		courses.DELETE("/:id", middleware.RequireInstructor(), handlers.Course.DeleteCourse)

		// Enrollment
		courses.POST("/:id/enroll", middleware.RequireStudent(), handlers.Enrollment.Enroll)

		// Resource uploads (instructor) and gated downloads
		courses.POST("/:id/lectures", middleware.RequireInstructor(), handlers.Resource.UploadLecture)
		courses.POST("/:id/assignments", middleware.RequireInstructor(), handlers.Resource.UploadAssignment)
		downloadCache := middleware.CacheControl(3600)
		courses.GET("/:id/lectures/:filename/download", downloadCache, handlers.Resource.DownloadLecture)
		courses.GET("/:id/assignments/:filename/download", downloadCache, handlers.Resource.DownloadAssignment)
	}

	// ─── 3. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireStudent())
	{
		studentAPI.GET("/dashboard", handlers.Enrollment.Dashboard)
	}

	// ─── 4. Instructor Group ───────────────────────────────────────────
	instructorAPI := router.Group("/api/v1/instructor")
	instructorAPI.Use(middleware.RequireInstructor())
	{
		instructorAPI.POST("/clear-students", handlers.Admin.ClearStudents)
	}

	return router
}
