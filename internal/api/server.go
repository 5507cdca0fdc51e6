package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"web-assistant/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	handler    *Handler
	config     ServerConfig
	logger     logger.Logger
}

func NewServer(handler *Handler, config ServerConfig, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(RequestIDMiddleware())
	engine.Use(RecoveryMiddleware(log))
	engine.Use(LoggerMiddleware(log))
	engine.Use(MetricsMiddleware())

	s := &Server{
		engine:  engine,
		handler: handler,
		config:  config,
		logger:  log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/", s.handler.Index)
	s.engine.POST("/ask", s.handler.Ask)
	s.engine.GET("/history", s.handler.History)
	s.engine.GET("/health", s.handler.Health)
	s.engine.GET("/ready", s.handler.Ready)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start blocks until the server stops. A graceful Shutdown is not an error.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("http server listening", map[string]interface{}{"addr": s.config.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}
