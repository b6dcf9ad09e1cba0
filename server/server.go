// Package server exposes the ledger over a JSON HTTP API.
package server

import (
	"context"
	"net/http"
	"time"

	"pointledger/metrics"
	"pointledger/models"
	"pointledger/service"

	"github.com/gorilla/mux"
)

// QuoteSource supplies the latest cached prices
type QuoteSource interface {
	Latest(ctx context.Context) models.Quotes
}

// HealthCheck reports whether a backing dependency is reachable
type HealthCheck func(ctx context.Context) error

// Deps holds everything the handlers call into
type Deps struct {
	Users    service.UserService
	Games    service.GamblingService
	Transfer service.TransferService
	Requests service.PaymentRequestService
	Quotes   QuoteSource
	Health   HealthCheck
	Limiter  *RateLimiter
}

// Server routes HTTP requests to the ledger services
type Server struct {
	deps   Deps
	router *mux.Router
}

// New builds the router
func New(deps Deps) *Server {
	s := &Server{deps: deps, router: mux.NewRouter()}
	s.routes()
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(RequestID, metrics.InstrumentHandler)

	s.router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(RequireCaller)
	if s.deps.Limiter != nil {
		api.Use(s.deps.Limiter.Handler)
	}

	api.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	api.HandleFunc("/play", s.handlePlay).Methods(http.MethodPost)
	api.HandleFunc("/withdraw", s.handleWithdraw).Methods(http.MethodPost)
	api.HandleFunc("/transfer", s.handleTransfer).Methods(http.MethodPost)
	api.HandleFunc("/profile", s.handleGetProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPost)
	api.HandleFunc("/handles/{handle}", s.handleResolveHandle).Methods(http.MethodGet)
	api.HandleFunc("/activity", s.handleActivity).Methods(http.MethodGet)
	api.HandleFunc("/requests", s.handleListRequests).Methods(http.MethodGet)
	api.HandleFunc("/requests", s.handleCreateRequest).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/accept", s.handleAcceptRequest).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/decline", s.handleDeclineRequest).Methods(http.MethodPost)
	api.HandleFunc("/quotes", s.handleQuotes).Methods(http.MethodGet)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := s.deps.Health(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "database_unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
