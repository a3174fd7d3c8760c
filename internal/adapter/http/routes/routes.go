package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"taskhub/internal/adapter/http/handler"
	"taskhub/internal/adapter/http/helper"
	"taskhub/internal/adapter/http/middleware"
	"taskhub/internal/core/telemetry"
	"taskhub/pkg/config"
	"taskhub/pkg/logger"
)

type HandlersConfig struct {
	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	FriendHandler *handler.FriendHandler
}

// Options carries what the router needs besides the handlers. Metrics and
// RateLimiter are optional.
type Options struct {
	Config      *config.Config
	Logger      *logger.Logger
	Metrics     *telemetry.AppMetrics
	Verifier    middleware.TokenVerifier
	RateLimiter *middleware.RateLimiter
}

func SetupRouter(handlers HandlersConfig, opts Options) *gin.Engine {
	cfg := opts.Config

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders(cfg.EnforceHTTPS))
	router.Use(middleware.NewHTTPSEnforcer(cfg.EnforceHTTPS, opts.Logger).HTTPSMiddleware())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.CurrentMiddleware())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.LoggingMiddleware(opts.Logger))

	if opts.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(opts.Metrics))
	}

	// runs last so its response is written before logging and metrics read it
	router.Use(middleware.ErrorResponder(opts.Logger, !cfg.IsProduction()))

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running...")
	})

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		helper.SendMessage(c, http.StatusOK, "Server is healthy!")
	})

	public := api.Group("/", limit(opts.RateLimiter)...)
	protected := api.Group("/", append([]gin.HandlerFunc{middleware.AuthMiddleware(opts.Verifier)}, limit(opts.RateLimiter)...)...)

	if handlers.AuthHandler != nil {
		setupUserRoutes(public, protected, handlers.AuthHandler)
	}

	if handlers.TaskHandler != nil {
		setupTaskRoutes(protected, handlers.TaskHandler)
	}

	if handlers.FriendHandler != nil {
		setupFriendRoutes(protected, handlers.FriendHandler)
	}

	router.NoRoute(func(c *gin.Context) {
		helper.SendNotFoundError(c, "Not Found - "+c.Request.URL.Path)
	})

	return router
}

func setupUserRoutes(public, protected *gin.RouterGroup, authHandler *handler.AuthHandler) {
	users := public.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/login", authHandler.Login)
		users.POST("/forgotpassword", authHandler.ForgotPassword)
		users.PUT("/resetpassword/:token", authHandler.ResetPassword)
	}

	protected.GET("/users/profile", authHandler.Profile)
}

func setupTaskRoutes(protected *gin.RouterGroup, taskHandler *handler.TaskHandler) {
	tasks := protected.Group("/tasks")
	{
		tasks.POST("", taskHandler.CreateTask)
		tasks.GET("", taskHandler.GetTasks)
		tasks.GET("/collaborative", taskHandler.GetCollaborativeTasks)
		tasks.GET("/:id", taskHandler.GetTask)
		tasks.PUT("/:id", taskHandler.UpdateTask)
		tasks.DELETE("/:id", taskHandler.DeleteTask)
	}
}

func setupFriendRoutes(protected *gin.RouterGroup, friendHandler *handler.FriendHandler) {
	friends := protected.Group("/friends")
	{
		friends.GET("/users", friendHandler.GetUsers)
		friends.POST("/request/:recipientId", friendHandler.SendRequest)
		friends.PUT("/accept/:requestId", friendHandler.AcceptRequest)
		friends.DELETE("/reject/:requestId", friendHandler.RejectRequest)
		friends.GET("/list", friendHandler.GetFriends)
		friends.GET("/requests", friendHandler.GetRequests)
	}
}

func limit(rl *middleware.RateLimiter) []gin.HandlerFunc {
	if rl == nil {
		return nil
	}

	return []gin.HandlerFunc{rl.RateLimitMiddleware()}
}
