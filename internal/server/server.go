// internal/server/server.go
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/solsweep/dust-sweeper/internal/config"
	"github.com/solsweep/dust-sweeper/internal/sweep"
)

// Sweeper is the pipeline behind the action endpoint.
type Sweeper interface {
	Preview(ctx context.Context, owner solana.PublicKey) ([]sweep.DustToken, error)
	Sweep(ctx context.Context, owner solana.PublicKey) (*sweep.Result, error)
}

// Server exposes the dust sweeper as a Solana Actions HTTP endpoint.
type Server struct {
	cfg     *config.Config
	sweeper Sweeper
	logger  *zap.Logger
	router  *mux.Router
}

// New creates the server and registers its routes.
func New(cfg *config.Config, sweeper Sweeper, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		sweeper: sweeper,
		logger:  logger.Named("server"),
	}

	r := mux.NewRouter()
	r.Use(s.requestLogging)
	r.HandleFunc("/action", s.handleDescriptor).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/action", s.handleAction).Methods(http.MethodPost)
	s.router = r

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestLogger := s.logger.With(
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("correlation_id", uuid.New().String()),
		)
		next.ServeHTTP(w, r)
		requestLogger.Debug("Request handled", zap.Duration("duration", time.Since(start)))
	})
}
