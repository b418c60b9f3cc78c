// Package server contains the HTTP handlers of the forum.
package server

import (
	"context"
	"errors"
	"time"

	_ "quorum/docs" // swagger docs
	"quorum/internal/config"
	"quorum/internal/featureflags"
	"quorum/internal/middleware"
	"quorum/internal/models"
	"quorum/internal/repository"
	"quorum/internal/service"
	"quorum/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	sessions        *session.Manager
	featureFlags    *featureflags.Manager
	accountService  *service.AccountService
	questionService *service.QuestionService
	answerService   *service.AnswerService
	likeService     *service.LikeService
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// The bootstrap layer establishes DB/Redis and applies the schema; tests pass
// an in-memory database and miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil || db == nil {
		return nil, errors.New("server: config and database are required")
	}

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	flags := featureflags.NewManager(cfg.FeatureFlags)
	for _, name := range flags.Unknown() {
		middleware.Logger.Warn("unknown feature flag ignored", "flag", name)
	}

	ttl := time.Duration(cfg.SessionTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	sessions := session.NewManager(cfg.SessionSecret, ttl, cfg.SessionCookieSecure, redisClient)

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  middleware.InitMetrics("quorum"),
		sessions:        sessions,
		featureFlags:    flags,
		accountService:  service.NewAccountService(userRepo).WithSessionRevoker(sessions),
		questionService: service.NewQuestionService(questionRepo, answerRepo, likeRepo, flags),
		answerService:   service.NewAnswerService(answerRepo, questionRepo),
		likeService:     service.NewLikeService(likeRepo, answerRepo),
	}
	return server, nil
}

// NewApp builds the Fiber application with every middleware and route installed.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Quorum",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler renders errors that escaped a handler, including Fiber's own 404/405.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(models.ErrorResponse{Error: fe.Message})
	}
	status := models.StatusFor(err)
	if status >= fiber.StatusInternalServerError {
		middleware.Logger.ErrorContext(c.UserContext(), "unhandled error",
			"path", c.Path(), "error", err)
	}
	return models.RespondWithError(c, status, err)
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS runs before anything that can short-circuit so error responses keep their headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:8000,http://127.0.0.1:8000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	app.Use(cookieEncryption(s.config.SessionSecret))

	// Identify the user from the session cookie; never rejects.
	app.Use(middleware.LoadSession(s.sessions))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	loginRequired := middleware.LoginRequired()

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Quorum Metrics Dashboard",
	}))
	api.Get("/docs/*", swagger.HandlerDefault)
	api.Get("/feature-flags", loginRequired, s.GetFeatureFlags)

	app.Get("/", s.Home)

	accounts := app.Group("/accounts")
	accounts.Get("/register", s.RegisterForm)
	accounts.Post("/register", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "register"), s.Register)
	accounts.Get("/login", s.LoginForm)
	accounts.Post("/login", middleware.RateLimitWithPolicy(
		s.redis, 10, 5*time.Minute, s.loginLimitPolicy(), "login"), s.Login)
	accounts.Get("/logout", loginRequired, s.Logout)
	accounts.Post("/logout", loginRequired, s.Logout)
	accounts.Get("/profile", loginRequired, s.Profile)
	accounts.Post("/profile", loginRequired, s.UpdateProfile)

	questions := app.Group("/questions")
	questions.Get("/", s.ListQuestions)

	// Answer routes before the generic /:id routes
	answers := questions.Group("/answer")
	answers.Get("/:id/update", loginRequired, s.EditAnswerForm)
	answers.Post("/:id/update", loginRequired, s.UpdateAnswer)
	answers.Post("/:id/delete", loginRequired, s.DeleteAnswer)
	answers.Post("/:id/like", loginRequired, middleware.RateLimit(
		s.redis, 60, time.Minute, "toggle_like"), s.ToggleLike)

	questions.Get("/new", loginRequired, s.NewQuestionForm)
	questions.Post("/new", loginRequired, s.CreateQuestion)
	questions.Get("/:id/update", loginRequired, s.EditQuestionForm)
	questions.Post("/:id/update", loginRequired, s.UpdateQuestion)
	questions.Get("/:id/delete", loginRequired, s.ConfirmDeleteQuestion)
	questions.Post("/:id/delete", loginRequired, s.DeleteQuestion)
	questions.Get("/:id", s.QuestionDetail)
	questions.Post("/:id", loginRequired, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_answer"), s.CreateAnswer)
}

// loginLimitPolicy rejects logins while the limiter store is down in production.
func (s *Server) loginLimitPolicy() middleware.FailPolicy {
	if s.config.IsProduction() {
		return middleware.FailClosed
	}
	return middleware.FailOpen
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start builds the app and listens on the configured port. It blocks until shutdown.
func (s *Server) Start() error {
	s.app = s.NewApp()
	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
