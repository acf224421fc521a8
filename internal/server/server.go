package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"funds-transfer/internal/config"
	"funds-transfer/internal/dedup"
	"funds-transfer/internal/handler"
	"funds-transfer/internal/repository"
	"funds-transfer/internal/service"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Server represents the HTTP server
type Server struct {
	router *mux.Router
	server *http.Server
	pool   *repository.Pool
	redis  *redis.Client
	logger *slog.Logger
	port   string
}

// NewServer connects to the database, applies migrations when configured and
// wires the transfer stack behind a router.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.AutoMigrate {
		if err := repository.Migrate(cfg.GetDBConnectionString(), logger); err != nil {
			return nil, err
		}
	}

	pool, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		pool:   pool,
		logger: logger,
	}

	guard, err := s.newGuard(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, err
	}

	store := repository.NewStore(pool.DB(), logger)

	accountService := service.NewAccountService(store, logger)
	transferService := service.NewTransferService(guard, pool, logger)

	accountHandler := handler.NewAccountHandler(accountService)
	transferHandler := handler.NewTransferHandler(transferService)

	router := mux.NewRouter()
	router.Use(loggingMiddleware(logger))

	router.HandleFunc("/transfer", transferHandler.Transfer).Methods("POST")
	router.HandleFunc("/accounts", accountHandler.CreateAccount).Methods("POST")
	router.HandleFunc("/accounts/{account_id}", accountHandler.GetAccount).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := pool.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy", "error": "database unavailable"})
			return
		}

		json.NewEncoder(w).Encode(map[string]string{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}).Methods("GET")

	s.router = router
	return s, nil
}

func (s *Server) newGuard(ctx context.Context, cfg *config.Config) (service.Admitter, error) {
	if cfg.DedupBackend != config.DedupRedis {
		s.logger.Info("Using in-memory debounce guard", "window", cfg.DebounceWindow)
		return dedup.NewGuard(cfg.DebounceWindow), nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
	}
	s.redis = client

	s.logger.Info("Using redis debounce guard", "addr", cfg.RedisAddr, "window", cfg.DebounceWindow)
	return dedup.NewRedisGuard(client, cfg.DebounceWindow), nil
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port string) (string, error) {
	// Create listener first to get actual port
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return "", err
	}

	addr := listener.Addr().(*net.TCPAddr)
	s.port = strconv.Itoa(addr.Port)

	s.server = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server", "port", s.port)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server failed", "error", err)
		}
	}()

	return s.port, nil
}

// Stop drains in-flight requests before closing the pool they borrow from.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server")

	var shutdownErr error
	if s.server != nil {
		shutdownErr = s.server.Shutdown(ctx)
	}

	if s.redis != nil {
		s.redis.Close()
	}

	if s.pool != nil {
		s.pool.Close()
	}

	return shutdownErr
}

// GetPort returns the port the server is listening on
func (s *Server) GetPort() string {
	return s.port
}

// GetBaseURL returns the base URL for the server
func (s *Server) GetBaseURL() string {
	return "http://localhost:" + s.port
}

// NewLogger builds the JSON logger, or a discarding one when cfg asks for an
// ephemeral port as tests do.
func NewLogger(cfg *config.Config) *slog.Logger {
	if cfg.ServerPort == "0" {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
}

// StartServer builds the server with logger and starts it on cfg.ServerPort.
// The bound port is available from GetPort.
func StartServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	server, err := NewServer(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if _, err := server.Start(cfg.ServerPort); err != nil {
		server.Stop(ctx)
		return nil, err
	}

	return server, nil
}
