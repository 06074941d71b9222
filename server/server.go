// Package server содержит HTTP API пайплайна каталога: предпросмотр
// нормализации бренда, очередь ручной проверки и сводка качества.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"foodpipeline/brands"
	"foodpipeline/database"
	"foodpipeline/quality"
	"foodpipeline/review"
)

// Server HTTP сервер пайплайна
type Server struct {
	port     string
	resolver *brands.Resolver
	reviews  *review.Store
	db       *database.CatalogDB
	gate     *quality.Gate
	logger   *slog.Logger

	httpServer *http.Server
}

// NewServer создает сервер. db и gate могут быть nil, тогда
// соответствующие эндпоинты возвращают 503.
func NewServer(port string, resolver *brands.Resolver, reviews *review.Store, db *database.CatalogDB, gate *quality.Gate) (*Server, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if reviews == nil {
		return nil, fmt.Errorf("review store is required")
	}
	if port == "" {
		port = "8090"
	}

	return &Server{
		port:     port,
		resolver: resolver,
		reviews:  reviews,
		db:       db,
		gate:     gate,
		logger:   slog.Default().With("component", "server"),
	}, nil
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/normalize", s.handleNormalizePreview)

		reviewGroup := api.Group("/review")
		{
			reviewGroup.GET("", s.handleReviewList)
			reviewGroup.POST("/:id/approve", s.handleReviewApprove)
			reviewGroup.POST("/:id/reject", s.handleReviewReject)
		}

		api.GET("/quality", s.handleQualitySummary)
	}

	return router
}

// Start запускает HTTP сервер и блокируется до его остановки
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.port,
		Handler:      s.buildRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.logger.Info("HTTP server starting", "port", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}

	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("HTTP server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}
