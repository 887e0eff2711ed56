package handlers

import (
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/sreecharan-desu/echo.Ink/internal/logger"
	"github.com/sreecharan-desu/echo.Ink/internal/service"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Account endpoints
	router.POST("/signup", h.signUp)
	router.POST("/signin", h.signIn)
	router.GET("/me", h.authRequired, h.me)

	// Public reads — no token needed
	router.GET("/posts", h.listPosts)
	router.GET("/post/:id", h.getPost)
	router.GET("/profile/:username", h.getProfile)

	// Mutations are identity-scoped; the guard is per-route, not global
	router.POST("/post", h.authRequired, h.createPost)
	router.PUT("/post/:id", h.authRequired, h.updatePost)
	router.DELETE("/post/:id", h.authRequired, h.deletePost)

	// Live post feed (HTTP upgrade) — same port
	router.GET("/ws", h.wsFeed)

	return router
}
