package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/vitos/xau_money_management/internal/domain"
	"github.com/vitos/xau_money_management/internal/usecase"
	"go.uber.org/zap"
)

// StatusSource provides the latest monitored account status.
type StatusSource interface {
	Latest() (domain.Status, error)
}

// GateChecker evaluates the combined trade-entry gate against live state.
type GateChecker interface {
	Check(ctx context.Context) (domain.GateState, error)
}

type Server struct {
	router  *mux.Router
	server  *http.Server
	manager *usecase.MoneyManager
	status  StatusSource
	gate    GateChecker
	repo    domain.SnapshotRepository
	hub     *Hub
	logger  *zap.Logger
}

func NewServer(
	port int,
	manager *usecase.MoneyManager,
	status StatusSource,
	gate GateChecker,
	repo domain.SnapshotRepository,
	hub *Hub,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		manager: manager,
		status:  status,
		gate:    gate,
		repo:    repo,
		hub:     hub,
		logger:  logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()

	// Engine
	api.HandleFunc("/levels", s.handleLevels).Methods(http.MethodGet)
	api.HandleFunc("/tier", s.handleTier).Methods(http.MethodGet)
	api.HandleFunc("/progress", s.handleProgress).Methods(http.MethodGet)
	api.HandleFunc("/gate", s.handleGate).Methods(http.MethodGet)

	// Live account
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/trading-gate", s.handleTradingGate).Methods(http.MethodGet)

	// History
	api.HandleFunc("/snapshots", s.handleSnapshots).Methods(http.MethodGet)
	api.HandleFunc("/tier-changes", s.handleTierChanges).Methods(http.MethodGet)

	if s.hub != nil {
		s.router.HandleFunc("/ws", s.hub.ServeWS).Methods(http.MethodGet)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
