// Package server contains the HTTP handlers for the API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"threadline/internal/auth"
	"threadline/internal/cache"
	"threadline/internal/config"
	"threadline/internal/database"
	"threadline/internal/keepalive"
	"threadline/internal/middleware"
	"threadline/internal/models"
	"threadline/internal/repository"
	"threadline/internal/service"
	"threadline/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// maxBodyBytes bounds JSON bodies and single-file uploads.
const maxBodyBytes = 10 * 1024 * 1024

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	tokens         *auth.Manager
	keepAlive      *keepalive.Job

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	likeRepo    repository.LikeRepository

	authService    *service.AuthService
	postService    *service.PostService
	commentService *service.CommentService
	likeService    *service.LikeService
	uploadService  *service.UploadService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, cache.InitRedis(cfg.RedisURL))
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// redisClient may be nil; token revocation and per-route rate limits are then skipped.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("threadline-api"),
		tokens:         auth.NewManager(cfg.JWTSecret, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL(), redisClient),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		likeRepo:       repository.NewLikeRepository(db),
	}

	s.authService = service.NewAuthService(s.userRepo, s.tokens, cfg.BcryptCost)
	s.postService = service.NewPostService(s.postRepo)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.likeService = service.NewLikeService(s.likeRepo, s.postRepo, s.commentRepo)
	s.uploadService = service.NewUploadService(storage.New(cfg))

	if cfg.IsProduction() {
		job, err := keepalive.New(cfg.KeepAliveSchedule)
		if err != nil {
			return nil, err
		}
		s.keepAlive = job
	}

	return s, nil
}

// NewApp builds the Fiber application with middleware and routes attached.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Threadline API",
		BodyLimit:    maxBodyBytes,
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// errorHandler renders anything a handler returned instead of writing a response.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, fe)
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New(helmet.Config{
		// Uploaded files are embedded by the web client from another origin.
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(middleware.StructuredLogger())

	// CORS runs before the limiter so rejected requests still carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

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
			return c.Status(fiber.StatusTooManyRequests).JSON(models.Response{
				Status:  "error",
				Message: "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/", s.HealthCheck)
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	if local, ok := s.uploadService.Provider().(*storage.LocalProvider); ok {
		app.Static("/uploads", local.Dir())
	}

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", s.routeLimit(5, 10*time.Minute, "register"), s.Register)
	authGroup.Post("/login", s.routeLimit(10, 5*time.Minute, "login"), s.Login)
	authGroup.Post("/refresh", s.Refresh)
	authGroup.Post("/logout", s.AuthRequired(), s.Logout)
	authGroup.Get("/profile", s.AuthRequired(), s.GetProfile)
	authGroup.Delete("/profile", s.AuthRequired(), s.DeleteProfile)

	posts := api.Group("/posts", s.AuthRequired())
	posts.Post("/create", s.CreatePost)
	posts.Get("/", s.GetFeed)
	posts.Get("/:postId/comments", s.GetComments)
	posts.Post("/:postId/create-comment", s.CreateComment)
	posts.Post("/:postId/like", s.LikePost)
	posts.Delete("/:postId/like", s.UnlikePost)
	posts.Post("/:postId/comments/:commentId/like", s.LikeComment)
	posts.Delete("/:postId/comments/:commentId/like", s.UnlikeComment)

	files := api.Group("/files", s.AuthRequired())
	files.Post("/upload-single", s.UploadSingle)
}

// routeLimit applies the Redis-backed per-route limiter outside development and test.
func (s *Server) routeLimit(limit int, window time.Duration, name string) fiber.Handler {
	if !s.config.RateLimitEnabled() {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.RateLimit(s.redis, limit, window, name)
}

// HealthCheck answers the root route.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "success",
		"message":   "Server is running!",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
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

	// A nil client means Redis is off. Only a configured client that stops
	// answering makes the instance unready.
	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "healthy"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
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

// AuthRequired returns the authentication middleware. It accepts an access
// token from the Authorization header or the "token" cookie.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if parts := strings.Fields(c.Get(fiber.HeaderAuthorization)); len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
		if tokenString == "" {
			tokenString = c.Cookies("token")
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.tokens.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			msg := "Invalid or expired token"
			if errors.Is(err, auth.ErrRevoked) {
				msg = "Token has been revoked"
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized, models.NewUnauthorizedError(msg))
		}

		userID, err := claims.UserID()
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		c.Locals("userID", userID)
		c.Locals("claims", claims)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), userID))

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := s.NewApp()

	if s.keepAlive != nil {
		s.keepAlive.Start()
	}

	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.keepAlive != nil {
		s.keepAlive.Stop(ctx)
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if err := database.Close(s.db); err != nil {
		middleware.Logger.Error("error closing database", "error", err)
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", "error", err)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}
