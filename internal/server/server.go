// Package server exposes the pick engine over HTTP and WebSocket sessions.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-advisor/internal/logger"
	"github.com/yourusername/pick-advisor/internal/metrics"
	"github.com/yourusername/pick-advisor/internal/models"
	"github.com/yourusername/pick-advisor/internal/pick"
	"github.com/yourusername/pick-advisor/internal/predictor"
	"github.com/yourusername/pick-advisor/internal/threshold"
)

// Config holds everything the server needs
type Config struct {
	Addr           string
	AllowedOrigins []string
	Markets        []models.Market
	MetricsPath    string // empty disables the metrics route
	Engine         *pick.Engine
	Thresholds     *threshold.Table
	Provider       predictor.Provider
	Logger         *logrus.Logger
}

// Server is the pick advisor API server
type Server struct {
	addr       string
	origins    []string
	markets    []models.Market
	enabled    map[models.Market]bool
	metrics    string
	engine     *pick.Engine
	thresholds *threshold.Table
	provider   predictor.Provider
	base       *logrus.Logger
	logger     *logrus.Entry
	validate   *validator.Validate
	upgrader   websocket.Upgrader
	httpServer *http.Server
}

// New creates a server
func New(cfg Config) *Server {
	markets := cfg.Markets
	if len(markets) == 0 {
		markets = models.Markets
	}
	enabled := make(map[models.Market]bool, len(markets))
	for _, m := range markets {
		enabled[m] = true
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		addr:       cfg.Addr,
		origins:    origins,
		markets:    markets,
		enabled:    enabled,
		metrics:    cfg.MetricsPath,
		engine:     cfg.Engine,
		thresholds: cfg.Thresholds,
		provider:   cfg.Provider,
		base:       cfg.Logger,
		logger:     logger.Component(cfg.Logger, "server"),
		validate:   validator.New(),
	}
	corsCheck := cors.New(cors.Options{AllowedOrigins: origins})
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || corsCheck.OriginAllowed(r)
		},
	}
	return s
}

// Handler returns the routed handler wrapped in CORS
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/markets", s.handleMarkets).Methods(http.MethodGet)
	api.HandleFunc("/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	api.HandleFunc("/predict", s.handlePredict).Methods(http.MethodPost)
	api.HandleFunc("/thresholds", s.handleThresholds).Methods(http.MethodGet)

	router.HandleFunc("/ws", s.handleWebSocket)
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if s.metrics != "" {
		router.Handle(s.metrics, metrics.Handler()).Methods(http.MethodGet)
	}

	c := cors.New(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(router)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.WithField("addr", s.addr).Info("API server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("API server shutting down")
	return s.httpServer.Shutdown(ctx)
}
