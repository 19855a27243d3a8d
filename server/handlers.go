package server

import (
	"encoding/json"
	"net/http"

	ierrors "github.com/ledgerlink/xeroauth/internal/errors"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ConnectHandler starts the authorization flow by redirecting the
// browser to the provider's consent page.
func (s *Server) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	consentURL, err := s.session.AuthorizationURL()
	if err != nil {
		writeError(w, err)
		return
	}
	http.Redirect(w, r, consentURL, http.StatusFound)
}

// CallbackHandler completes the flow: the provider redirects here with
// the authorization code in the query string.
func (s *Server) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	record, err := s.session.TokenFromCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// TokenHandler serves the current token record, refreshing it first if
// stale.
func (s *Server) TokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.session.EnsureAuthenticated(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.Current())
}

func (s *Server) TenantsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.session.Tenants(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) ActiveTenantHandler(w http.ResponseWriter, r *http.Request) {
	active, err := s.session.ActiveTenant(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, active)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response body")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case ierrors.Is(err, ierrors.ErrAuthenticationRequired):
		status = http.StatusUnauthorized
	case ierrors.Is(err, ierrors.ErrEmptyCode),
		ierrors.Is(err, ierrors.ErrNoRedirectURI),
		ierrors.Is(err, ierrors.ErrMissingCredentials):
		status = http.StatusBadRequest
	case ierrors.Is(err, ierrors.ErrNoTenants),
		ierrors.Is(err, ierrors.ErrTenantNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
