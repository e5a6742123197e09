package api

import (
	"net/http"
	"time"

	"ledger/src/api/handlers"
	"ledger/src/auth"
	"ledger/src/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Router  *chi.Mux
	Handler *handlers.Handler
	Tokens  *auth.Tokens
	Metrics *utils.Metrics
}

func NewServer(handler *handlers.Handler, tokens *auth.Tokens, metrics *utils.Metrics) *Server {
	server := &Server{
		Router:  chi.NewRouter(),
		Handler: handler,
		Tokens:  tokens,
		Metrics: metrics,
	}
	server.InitRoutes()
	return server
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) InitRoutes() {
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(s.Handler.RequestLogger)

	s.Router.Get("/alive", handlers.Healthcheck)
	if s.Metrics != nil {
		s.Router.Handle("/metrics", promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	s.Router.Route("/api", func(r chi.Router) {
		r.Post("/accounts", s.Handler.PostAccount)
		r.Post("/token", s.Handler.PostToken)
		r.Get("/prices", s.Handler.GetPrices)
		r.Get("/snapshot", s.Handler.GetPrices)
		r.Get("/rates", s.Handler.GetRates)
		r.Get("/audit", s.Handler.GetAudit)

		r.Group(func(r chi.Router) {
			r.Use(s.Tokens.Verifier())
			r.Use(auth.Authenticator)

			r.Get("/me", s.Handler.GetMe)
			r.Get("/balances", s.Handler.GetBalances)
			r.Get("/positions", s.Handler.GetPositions)
			r.Get("/statement", s.Handler.GetStatement)
			r.Post("/investments", s.Handler.PostInvestment)
			r.Post("/cashout", s.Handler.PostCashout)
			r.Post("/wagers", s.Handler.PostWager)
		})
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
