// Package inspect serves the decoder over HTTP for ad-hoc capture analysis.
package inspect

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/danmuck/nexrmc/internal/config"
	"github.com/danmuck/nexrmc/internal/observability"
	"github.com/danmuck/nexrmc/internal/protocol/dispatch"
)

const serviceName = "rmcinspect"

type Server struct {
	cfg        config.Config
	dispatcher *dispatch.Dispatcher
	logger     zerolog.Logger
	router     *gin.Engine
	started    time.Time
}

func New(cfg config.Config, d *dispatch.Dispatcher, logger zerolog.Logger) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestID())
	r.Use(observability.RequestLogger(logger))
	r.Use(observability.RequestMetricsMiddleware(serviceName))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  normalizeOrigins(cfg.Inspect.CorsOrigins),
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", observability.RequestIDHeader},
		ExposeHeaders: []string{observability.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		cfg:        cfg,
		dispatcher: d,
		logger:     logger,
		router:     r,
		started:    time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"service": serviceName,
			"version": "0.1.0",
		})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	v1.GET("/protocols", s.handleProtocols)
	v1.POST("/decode", s.handleDecode)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", strings.TrimSpace(s.cfg.Inspect.Addr))
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	tlsOn := s.cfg.Inspect.TLS()
	s.logger.Info().Str("addr", ln.Addr().String()).Bool("tls", tlsOn).Msg("inspect.Server listening")

	errc := make(chan error, 1)
	go func() {
		if tlsOn {
			errc <- srv.ServeTLS(ln, s.cfg.Inspect.TLSCertFile, s.cfg.Inspect.TLSKeyFile)
			return
		}
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info().Msg("inspect.Server stopped")
	return nil
}

func normalizeOrigins(in []string) []string {
	if len(in) == 0 {
		return []string{"http://localhost:3000"}
	}
	return in
}
