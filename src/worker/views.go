package worker

import (
	"net/http"
	"time"

	"ledger/src/utils"
	"ledger/src/worker/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
	Metrics *utils.Metrics
}

func NewServer(handler *handlers.Handler, metrics *utils.Metrics) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
		Metrics: metrics,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Get("/alive", handlers.Healthcheck)
	if s.Metrics != nil {
		s.Router.Handle("/metrics", promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}))
	}
	s.Router.Route("/api/prices", func(r chi.Router) {
		r.Post("/tick", s.Handler.PostTick)
		r.Put("/{asset}", s.Handler.PutPrice)
	})
}

func NewHTTPServer(server *Server, port string) *http.Server {
	httpServer := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Handler:      server,
	}
	return httpServer
}
