package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/KNICEX/ai-tutor/internal/surface"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var _ surface.Surface = (*Server)(nil)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr   string
	engine *gin.Engine
	logger zerolog.Logger
}

func NewServer(addr string, handler *Handler, logger zerolog.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))
	handler.RegisterRoutes(engine)
	return &Server{addr: addr, engine: engine, logger: logger}
}

func (s *Server) Name() string {
	return "http chat server"
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("http request")
	}
}
