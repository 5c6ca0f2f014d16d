package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"todo-hub-api/internal/client"
	"todo-hub-api/internal/handler"
	"todo-hub-api/internal/metrics"
	"todo-hub-api/internal/middleware"
	"todo-hub-api/internal/repository"
	"todo-hub-api/internal/response"
	"todo-hub-api/internal/service"
)

// Config holds the router dependencies
type Config struct {
	DB             *gorm.DB
	Logger         *zap.Logger
	JWTSecret      string
	AuthClient     middleware.TokenValidator
	Metrics        *metrics.Metrics
	S3Client       client.S3ClientInterface
	RedisClient    *redis.Client
	BasePath       string
	AllowedOrigins []string
}

// Setup builds the gin engine with all routes and middleware wired.
// Ops endpoints (health, metrics, swagger) are registered at the root and
// under BasePath so they work behind ingress path rewrites.
func Setup(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	registerOps(&r.RouterGroup, cfg)
	if cfg.BasePath != "" {
		registerOps(r.Group(cfg.BasePath), cfg)
	}

	// The DB can still be connecting on startup; keep the pod alive and
	// answer 503 until it is there
	if cfg.DB == nil {
		r.NoRoute(func(c *gin.Context) {
			response.SendError(c, http.StatusServiceUnavailable, response.ErrCodeInternal, "Service is starting up")
		})
		return r
	}

	projectRepo := repository.NewProjectRepository(cfg.DB)
	projectService := service.NewProjectService(projectRepo, cfg.Metrics, cfg.Logger)
	attachmentService := service.NewAttachmentService(projectRepo, cfg.S3Client, cfg.RedisClient, cfg.Metrics, cfg.Logger)

	projectHandler := handler.NewProjectHandler(projectService, cfg.Logger)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService, cfg.Logger)

	var auth gin.HandlerFunc
	if cfg.AuthClient != nil {
		auth = middleware.AuthWithValidator(cfg.AuthClient)
	} else {
		auth = middleware.Auth(cfg.JWTSecret)
	}

	registerAPI(r.Group("/api", auth), projectHandler, attachmentHandler)
	if cfg.BasePath != "" {
		registerAPI(r.Group(cfg.BasePath+"/api", auth), projectHandler, attachmentHandler)
	}

	return r
}

// registerAPI adds the authenticated board tree routes to a group
func registerAPI(api *gin.RouterGroup, projectHandler *handler.ProjectHandler, attachmentHandler *handler.AttachmentHandler) {
	project := api.Group("/project")
	{
		project.POST("", projectHandler.CreateProject)
		project.GET("", projectHandler.GetProjects)

		// Static siblings of :projectId; gin resolves these first
		project.POST("/upload", attachmentHandler.Upload)
		project.GET("/signed-url", attachmentHandler.GetSignedURL)

		project.GET("/:projectId", projectHandler.GetProject)
		project.PATCH("/:projectId", projectHandler.UpdateProject)
		project.DELETE("/:projectId", projectHandler.DeleteProject)

		project.POST("/:projectId/card", projectHandler.AddCard)
		project.PATCH("/:projectId/card/:cardId", projectHandler.UpdateCard)
		project.DELETE("/:projectId/card/:cardId", projectHandler.DeleteCard)

		project.POST("/:projectId/card/:cardId/section", projectHandler.AddSection)
		project.PATCH("/:projectId/card/:cardId/section/:sectionId", projectHandler.UpdateSection)
		project.DELETE("/:projectId/card/:cardId/section/:sectionId", projectHandler.DeleteSection)

		project.POST("/:projectId/card/:cardId/section/:sectionId/task", projectHandler.AddTask)

		project.PATCH("/:projectId/card/:cardId/section/:sectionId/task/:taskId", projectHandler.UpdateTask)
		project.DELETE("/:projectId/card/:cardId/section/:sectionId/task/:taskId", projectHandler.DeleteTask)
	}
}

// registerOps adds the unauthenticated operational endpoints to a group
func registerOps(g *gin.RouterGroup, cfg Config) {
	g.GET("/health", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if cfg.DB == nil {
			status["status"] = "degraded"
			status["database"] = "disconnected"
		}
		c.JSON(http.StatusOK, status)
	})
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))
	g.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
