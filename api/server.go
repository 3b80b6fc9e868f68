package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Shuixingchen/web3-compass/config"
	"github.com/Shuixingchen/web3-compass/database"
	"github.com/Shuixingchen/web3-compass/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(cfg *config.Config, db database.Database, submissions *services.SubmissionService) (Server, error) {
	startupTime := time.Now()

	router := newRouter(db, submissions, withConfig(cfg), withStartupTime(startupTime))

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  cfg.IdleTimeout(),
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      *config.Config
	startupTime time.Time
	metrics     *metrics
}

func withConfig(c *config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func withMetrics(m *metrics) func(*router) {
	return func(r *router) {
		r.metrics = m
	}
}

func newRouter(db database.Database, submissions *services.SubmissionService, opts ...func(*router)) *chi.Mux {
	router := router{config: &config.Config{}}
	for _, opt := range opts {
		opt(&router)
	}
	if router.metrics == nil {
		router.metrics = newMetrics()
	}
	cfg := router.config

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	if cfg.TrustProxy {
		chiRouter.Use(middleware.RealIP)
	}
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(HTTPLoggingMiddleware(log.With().Str("component", "http").Logger()))
	chiRouter.Use(router.metrics.instrument)
	chiRouter.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AcceptedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Service-Key"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize all handlers
	handlers := initializeHandlers(db, submissions)

	// Initialize auth middleware
	auth := newAuthMiddleware(cfg.AuthJWTSecret, cfg.ServiceKey)
	limiter := newRateLimiter(cfg.SubmitRatePerMinute, cfg.SubmitRateBurst)

	chiRouter.Handle("/metrics", router.metrics.handler())

	chiRouter.Group(func(r chi.Router) {
		r.Use(auth.identify)

		setupPublicRoutes(r, handlers)
		setupSubmissionRoutes(r, handlers, limiter)
		setupUserRoutes(r, handlers, auth)
	})
	setupInternalRoutes(chiRouter, handlers, auth)

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Dur("uptime", time.Since(s.startupTime)).Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
