// Package service is the mock session service: the HTTP backend the widget
// exchanges session and token identifiers with. It issues sessions and
// answers the demo payment-authentication call.
package service

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	logger *slog.Logger
	router http.Handler
}

func NewServer(logger *slog.Logger) *Server {
	s := &Server{logger: logger}

	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestLogger(logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/payment/session/create", s.handleCreateSession)
		r.Post("/payment/authenticate", s.handleAuthenticate)
	})

	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
