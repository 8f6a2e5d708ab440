package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/tsawler/sentiment"
	"github.com/tsawler/sentiment/internal/config"
	"github.com/tsawler/sentiment/internal/logging"
)

// SetupRoutes registers the service routes on a new gin engine.
func SetupRoutes(h *Handler, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(logger))

	r.GET("/test", h.Test)
	r.GET("/health", h.Health)
	r.POST("/predict", h.Predict)

	return r
}

// Server is the prediction HTTP service.
type Server struct {
	cfg    config.Config
	logger zerolog.Logger
	http   *http.Server
}

// New wires the handlers, CORS policy and timeouts from cfg around predictor.
func New(cfg config.Config, predictor *sentiment.Predictor, logger zerolog.Logger) *Server {
	h := NewHandler(predictor, logger, cfg.TextColumn, cfg.MaxUploadBytes())
	engine := SetupRoutes(h, logger)
	engine.MaxMultipartMemory = cfg.MaxUploadBytes()

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin"},
		ExposedHeaders: []string{HeaderGraphExists, HeaderGraphData, "Content-Disposition", logging.HeaderRequestID},
	})

	return &Server{
		cfg:    cfg,
		logger: logger,
		http: &http.Server{
			Addr:         cfg.Addr,
			Handler:      c.Handler(engine),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully within the
// configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("server listening")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
