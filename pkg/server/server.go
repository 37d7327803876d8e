// Package server exposes the command dispatcher over HTTP as an alternative
// transport to the stdio loop. The request body of POST /command is one
// command object, identical to a stdio request line, and the response body is
// the same envelope shape.
package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/mongo-bridge/pkg/bridge"
	"github.com/adfharrison1/mongo-bridge/pkg/domain"
)

// Server holds the router and the dispatcher shared with the stdio loop.
type Server struct {
	router     *mux.Router
	dispatcher *bridge.Dispatcher
	timeout    time.Duration
}

// New creates a new instance of Server.
func New(dispatcher *bridge.Dispatcher, timeout time.Duration) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		dispatcher: dispatcher,
		timeout:    timeout,
	}
	s.routes()

	// Use the logging middleware for all routes
	s.router.Use(requestLoggerMiddleware)

	// Customize NotFoundHandler to log 404s
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("WARN: No route found for %s %s", r.Method, r.URL.Path)
		http.NotFound(w, r)
	})

	return s
}

// requestLoggerMiddleware logs the method, URL path, and duration for each request.
func requestLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		log.Printf("INFO: Request %s %s took %s", r.Method, r.URL.Path, elapsed)
	})
}

// Router exposes the internal mux.Router.
func (s *Server) Router() http.Handler {
	return s.router
}

// routes defines all HTTP endpoints.
func (s *Server) routes() {
	s.router.HandleFunc("/command", s.handleCommand).Methods("POST")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// handleCommand runs one command from the request body.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("ERROR: Reading body failed: %v", err)
		writeEnvelope(w, http.StatusBadRequest, bridge.ErrorResponse{Error: "could not read request body"})
		return
	}

	cmd, err := domain.ParseCommand(body)
	if err != nil {
		writeEnvelope(w, http.StatusBadRequest, bridge.ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		log.Printf("ERROR: Command '%s' failed: %v", cmd.Tag(), err)
		writeEnvelope(w, http.StatusInternalServerError, bridge.ErrorResponse{Error: err.Error()})
		return
	}
	writeEnvelope(w, http.StatusOK, bridge.SuccessResponse{Result: result})
}

// handleHealth maps GET /health onto the health command.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	result, err := s.dispatcher.Dispatch(r.Context(), domain.HealthCommand{})
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, bridge.ErrorResponse{Error: err.Error()})
		return
	}
	writeEnvelope(w, http.StatusOK, bridge.SuccessResponse{Result: result})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, envelope interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		log.Printf("ERROR: Encoding response failed: %v", err)
	}
}
