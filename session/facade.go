package session

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	ierrors "github.com/ledgerlink/xeroauth/internal/errors"
	"github.com/ledgerlink/xeroauth/tenants"
	"github.com/ledgerlink/xeroauth/token"
	"github.com/pkg/errors"
)

// AuthorizationURL builds the consent URL the user must visit to start
// the authorization-code flow. The state parameter is a fresh UUID.
func (s *Session) AuthorizationURL() (string, error) {
	consentURL, err := s.client.AuthCodeURL(uuid.NewString())
	if err != nil {
		return "", errors.Wrap(err, "[AuthorizationURL] build consent URL")
	}
	return consentURL, nil
}

// TokenFromCode exchanges an authorization code for a token record,
// adopts it, refreshes the tenant list, and persists the record. The
// cache write is the only sub-step allowed to fail silently.
func (s *Session) TokenFromCode(ctx context.Context, code string) (*token.Record, error) {
	if strings.TrimSpace(code) == "" {
		return nil, errors.Wrap(ierrors.ErrEmptyCode, "[TokenFromCode]")
	}
	if len(s.redirectURIs) == 0 {
		return nil, errors.Wrap(ierrors.ErrNoRedirectURI, "[TokenFromCode]")
	}

	callbackURL, err := callbackURLWithCode(s.redirectURIs[0], code)
	if err != nil {
		return nil, errors.Wrap(err, "[TokenFromCode] build callback URL")
	}

	record, err := s.client.ExchangeCallback(ctx, callbackURL)
	if err != nil {
		return nil, errors.Wrap(err, "[TokenFromCode] exchange code")
	}
	s.current = record

	if err := s.client.RefreshTenants(ctx, record); err != nil {
		return nil, errors.Wrap(err, "[TokenFromCode] refresh tenants")
	}

	s.persist(ctx, record)
	return record, nil
}

// Tenants returns the connected organisations, ensuring a usable token
// first and fetching the list if the client holds no cached copy.
func (s *Session) Tenants(ctx context.Context) ([]tenants.Tenant, error) {
	if err := s.EnsureAuthenticated(ctx); err != nil {
		return nil, err
	}

	list := s.client.Tenants()
	if len(list) == 0 {
		if err := s.client.RefreshTenants(ctx, s.current); err != nil {
			return nil, errors.Wrap(err, "[Tenants] refresh tenants")
		}
		list = s.client.Tenants()
	}
	return list, nil
}

// ActiveTenant returns the tenant at the configured active index.
func (s *Session) ActiveTenant(ctx context.Context) (tenants.Tenant, error) {
	list, err := s.Tenants(ctx)
	if err != nil {
		return tenants.Tenant{}, err
	}
	active, ok := tenants.Active(list, s.activeTenantIndex)
	if !ok {
		return tenants.Tenant{}, errors.Wrap(ierrors.ErrNoTenants, "[ActiveTenant]")
	}
	return active, nil
}

// callbackURLWithCode appends the authorization code as a query
// parameter to the first configured redirect URI, mirroring what the
// provider sends to the callback endpoint.
func callbackURLWithCode(redirectURI, code string) (string, error) {
	parsed, err := url.Parse(redirectURI)
	if err != nil {
		return "", err
	}
	query := parsed.Query()
	query.Set("code", code)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
