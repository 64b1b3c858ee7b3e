package http

// status endpoint of the job server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/jobfeed.net/internal/core/ports/primary"
	"gitlab.com/jobfeed.net/internal/domain"
)

// StatusProvider reports the server's current state
type StatusProvider interface {
	Status() domain.ServerStatus
}

type Server struct {
	router      *mux.Router
	Addr        string
	ServiceName string
	provider    StatusProvider
	logger      primary.Logger
	srv         *http.Server
	listener    net.Listener
}

func NewServer(addr string, serviceName string, provider StatusProvider, logger primary.Logger) *Server {
	return &Server{
		Addr:        addr,
		ServiceName: serviceName,
		provider:    provider,
		logger:      logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.HandleFunc("/status", s.status).Methods(http.MethodGet)
	s.router = r
	return nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.provider.Status()); err != nil {
		s.logger.Error("Failed to encode status", "error", err)
	}
}

func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.listener = listener

	// Set up server
	s.srv = &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Status server listening", "service", s.ServiceName, "addr", listener.Addr().String())
		if err := s.srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Status server error", "error", err)
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) {
	if s.srv == nil {
		return
	}
	s.logger.Info("Shutting down status server...")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Status server forced to shutdown", "error", err)
	}
}
