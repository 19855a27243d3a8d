package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/ledgerlink/xeroauth/internal/config"
	"github.com/ledgerlink/xeroauth/tenants"
	"github.com/ledgerlink/xeroauth/token"
)

// SessionService is the facade surface the HTTP layer exposes.
type SessionService interface {
	AuthorizationURL() (string, error)
	TokenFromCode(ctx context.Context, code string) (*token.Record, error)
	Tenants(ctx context.Context) ([]tenants.Tenant, error)
	ActiveTenant(ctx context.Context) (tenants.Tenant, error)
	EnsureAuthenticated(ctx context.Context) error
	Current() *token.Record
}

// Server is the HTTP sidecar around one Xero session: it drives the
// authorization flow through a browser and serves the current token and
// tenant list to co-located software. Not intended for the public
// internet.
type Server struct {
	router  chi.Router
	config  config.Config
	session SessionService
}

func New(cfg config.Config, session SessionService) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		session: session,
	}
	s.initRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) initRoutes() {
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoverMiddleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	s.router.Get("/healthz", s.HealthHandler)
	s.router.Get("/connect", s.ConnectHandler)
	s.router.Get("/callback", s.CallbackHandler)
	s.router.Get("/token", s.TokenHandler)
	s.router.Get("/tenants", s.TenantsHandler)
	s.router.Get("/tenants/active", s.ActiveTenantHandler)
}
