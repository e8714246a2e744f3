// Package api exposes the goal and analytics engines over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"goaltracker/internal/analytics"
	"goaltracker/internal/engine"
	"goaltracker/internal/logging"
)

type Server struct {
	goals     *engine.Service
	analytics *analytics.Engine
	logger    logging.Logger
	mu        sync.Mutex
}

func NewServer(goals *engine.Service, logger logging.Logger) *Server {
	return &Server{
		goals:     goals,
		analytics: analytics.New(goals),
		logger:    logger,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestIDMiddleware(), AccessLogMiddleware(s.logger), SerializeMiddleware(&s.mu))

	g := r.Group("/api")
	g.GET("/goals", s.listGoals)
	g.POST("/goals", s.createGoal)
	g.GET("/goals/:id", s.getGoal)
	g.PATCH("/goals/:id", s.updateGoal)
	g.DELETE("/goals/:id", s.deleteGoal)
	g.POST("/goals/:id/toggle", s.toggleDay)
	g.POST("/goals/:id/pause", s.toggleStatus)
	g.POST("/goals/:id/archive", s.archiveGoal)
	g.GET("/goals/:id/week", s.goalWeek)

	g.GET("/stats", s.stats)
	g.GET("/history", s.history)
	g.GET("/achievements", s.achievements)
	g.GET("/deadlines", s.deadlines)

	g.GET("/analytics", s.overallAnalytics)
	g.GET("/analytics/export", s.exportAnalytics)
	g.GET("/analytics/rates", s.completionRates)
	g.GET("/analytics/trend", s.consistencyTrend)
	g.GET("/report", s.report)

	g.GET("/settings", s.getSettings)
	g.PATCH("/settings", s.updateSettings)
	g.DELETE("/settings", s.resetSettings)
	g.GET("/profile", s.getProfile)
	g.PUT("/profile", s.updateProfile)

	g.GET("/export", s.exportData)
	g.POST("/import", s.importData)
	g.GET("/backups", s.listBackups)
	g.POST("/backups", s.createBackup)
	g.POST("/backups/:date/restore", s.restoreBackup)
	g.GET("/storage", s.storageUsage)
	g.POST("/reset", s.reset)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("api: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Infof("api: shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
