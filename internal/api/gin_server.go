package api

import (
	"codeshift/internal/code_translator"
	"codeshift/internal/services"
	"codeshift/internal/sse"
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

type GinServer struct {
	router   *gin.Engine
	logger   *zap.Logger
	services *services.Services
	sseHub   *sse.Hub
	upgrader websocket.Upgrader

	// jobsCtx is the parent of every background job; Shutdown cancels it.
	jobsCtx    context.Context
	cancelJobs context.CancelFunc
	jobs       sync.WaitGroup
}

func NewGinServer(logger *zap.Logger, services *services.Services, allowedOrigins []string) *GinServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(GinLogger(logger))
	router.Use(cors.New(corsConfig(allowedOrigins)))

	// Initialize SSE Hub
	sseHub := sse.NewHub()
	sseHub.Run()

	jobsCtx, cancelJobs := context.WithCancel(context.Background())
	server := &GinServer{
		router:   router,
		logger:   logger,
		services: services,
		sseHub:   sseHub,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
		jobsCtx:    jobsCtx,
		cancelJobs: cancelJobs,
	}
	server.SetupRoutes()
	return server
}

// GetRouter returns the Gin router
func (s *GinServer) GetRouter() *gin.Engine {
	return s.router
}

func (s *GinServer) SetupRoutes() {
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	s.router.GET("/health", s.HealthCheck)
	s.router.GET("/languages", s.Languages)

	s.router.POST("/translate", s.TranslateCode)
	s.router.POST("/translate/stream", s.StartStream)
	s.router.GET("/translate/stream/:id", s.StreamHandler)
	s.router.POST("/translate/stream/:id/cancel", s.CancelStream)
	s.router.GET("/translate/ws", s.TranslateWS)

	s.router.GET("/translations", s.ListTranslations)
	s.router.GET("/translations/:id", s.GetTranslation)
}

// Shutdown cancels running jobs and waits for them to record their outcome.
func (s *GinServer) Shutdown(ctx context.Context) error {
	s.cancelJobs()
	defer s.sseHub.Stop()

	done := make(chan struct{})
	go func() {
		s.jobs.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func corsConfig(allowedOrigins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", requestIDHeader}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	return corsConfig
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*") {
		return func(r *http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowedOrigins, origin)
	}
}

// RequestID tags every request with an id, reusing the caller's X-Request-Id when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)
		c.Set("request_id", reqID)
		c.Next()
	}
}

// GinLogger returns a gin middleware for logging using zap
func GinLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// HealthCheck godoc
// @Summary Health check endpoint
// @Description Check if the API server is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (s *GinServer) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":   "healthy",
		"service":  "codeshift-api",
		"provider": s.services.CodeTranslatorService.ProviderName(),
		"history":  s.services.HistoryEnabled(),
	})
}

// Languages lists the language ids accepted by the translate endpoints.
func (s *GinServer) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": code_translator.SupportedLanguages()})
}
