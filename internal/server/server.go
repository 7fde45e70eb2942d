package server

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mixmateai/mixmate/config"
	"github.com/mixmateai/mixmate/internal/domain"
	"github.com/mixmateai/mixmate/internal/storage"
)

// PlanRequester turns a free-text prompt into a validated plan.
type PlanRequester interface {
	RequestPlan(ctx context.Context, prompt string) (*domain.MashupPlan, error)
}

// PlanExecutor renders a plan into an audio file at outputPath.
type PlanExecutor interface {
	Execute(ctx context.Context, plan *domain.MashupPlan, outputPath string) (string, error)
}

// Recommender returns the titles closest to the given one.
type Recommender interface {
	Recommend(title string, topN int) ([]string, error)
}

// Server handles HTTP requests for mashup creation and recommendations
type Server struct {
	cfg    *config.Config
	router *gin.Engine

	requester   PlanRequester
	executor    PlanExecutor
	recommender Recommender
	storage     storage.Storage
}

// New creates a new HTTP server instance. recommender may be nil when no
// dataset is loaded.
func New(cfg *config.Config, requester PlanRequester, executor PlanExecutor, recommender Recommender, store storage.Storage) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	server := &Server{
		cfg:         cfg,
		router:      router,
		requester:   requester,
		executor:    executor,
		recommender: recommender,
		storage:     store,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Add CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.router.GET("/", s.root)
	s.router.GET("/health", s.healthCheck)

	s.router.POST("/create-mashup", s.createMashup)
	s.router.GET("/recommend", s.recommend)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}
