// Package backendtest provides an in-process fake of the detection
// backend for tests.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hammamikhairi/moodchat/internal/domain"
)

// Server is a scripted fake backend. Zero values answer with an empty
// status and a failed chat reply.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	status     any
	statusCode int
	answer     any
	answerCode int
	questions  []string
	statusHits int
	requestIDs []string
}

// New starts a fake backend. Call Close when done.
func New() *Server {
	s := &Server{statusCode: http.StatusOK, answerCode: http.StatusOK}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/get_status", s.handleStatus)
	r.Post("/ask_gemini", s.handleAsk)

	s.Server = httptest.NewServer(r)
	return s
}

// SetStatus scripts the /get_status body. Pass a domain.Status, a map, or
// a json.RawMessage for malformed payloads.
func (s *Server) SetStatus(body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = body
}

// SetStatusCode scripts the /get_status HTTP status.
func (s *Server) SetStatusCode(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCode = code
}

// SetAnswer scripts the /ask_gemini body.
func (s *Server) SetAnswer(body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answer = body
}

// SetAnswerCode scripts the /ask_gemini HTTP status.
func (s *Server) SetAnswerCode(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answerCode = code
}

// Questions returns every question received, in order.
func (s *Server) Questions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.questions...)
}

// StatusHits returns how many times /get_status was called.
func (s *Server) StatusHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusHits
}

// RequestIDs returns the X-Request-ID headers seen, in order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.statusHits++
	s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
	body, code := s.status, s.statusCode
	s.mu.Unlock()

	if body == nil {
		body = domain.Status{}
	}
	respond(w, code, body)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var q domain.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		respond(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid request body"})
		return
	}

	s.mu.Lock()
	s.questions = append(s.questions, q.Question)
	s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
	body, code := s.answer, s.answerCode
	s.mu.Unlock()

	if body == nil {
		body = map[string]any{"success": false}
	}
	respond(w, code, body)
}

func respond(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if raw, ok := body.(json.RawMessage); ok {
		w.Write(raw)
		return
	}
	json.NewEncoder(w).Encode(body)
}
