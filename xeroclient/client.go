package xeroclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/ledgerlink/xeroauth/internal/config"
	ierrors "github.com/ledgerlink/xeroauth/internal/errors"
	"github.com/ledgerlink/xeroauth/tenants"
	"github.com/ledgerlink/xeroauth/token"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Xero endpoints. The token and connections URLs are overridable for
// tests; the defaults are the production hosts.
const (
	AuthURL        = "https://login.xero.com/identity/connect/authorize"
	TokenURL       = "https://identity.xero.com/connect/token"
	ConnectionsURL = "https://api.xero.com/connections"
	IdentityIssuer = "https://identity.xero.com"
)

// connectionsPerMinute is Xero's published per-app rate cap for the
// connections endpoint.
const connectionsPerMinute = 60

// Client wraps the OAuth2 SDK and the connections API for one
// configured Xero app. It owns the authorization-code exchange, token
// refresh, and the cached tenant list; the session layer decides when
// those are invoked.
type Client struct {
	oauthCfg       *oauth2.Config
	httpClient     *http.Client
	connectionsURL string
	limiter        *rate.Limiter
	clockTolerance time.Duration
	verifier       *oidc.IDTokenVerifier

	tenantLock sync.RWMutex
	tenantList []tenants.Tenant
}

// Option modifies the Client during construction.
type Option func(*Client)

// WithEndpoints overrides the provider endpoints, primarily for tests
// against httptest servers.
func WithEndpoints(authURL, tokenURL, connectionsURL string) Option {
	return func(c *Client) {
		c.oauthCfg.Endpoint = oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
		c.connectionsURL = connectionsURL
	}
}

// WithIdentityVerifier enables OIDC verification of the id_token
// returned alongside the access token on code exchange.
func WithIdentityVerifier(verifier *oidc.IDTokenVerifier) Option {
	return func(c *Client) {
		c.verifier = verifier
	}
}

// New builds a Client from configuration. Credentials and at least one
// redirect URI are required; their absence is a configuration error
// detected here, before any network call can be attempted.
func New(cfg config.OAuthConfig, options ...Option) (*Client, error) {
	if cfg.GetClientID() == "" || cfg.GetClientSecret() == "" {
		return nil, errors.Wrap(ierrors.ErrMissingCredentials, "[xeroclient New]")
	}
	redirectURIs := cfg.GetRedirectURIs()
	if len(redirectURIs) == 0 {
		return nil, errors.Wrap(ierrors.ErrNoRedirectURI, "[xeroclient New]")
	}

	c := &Client{
		oauthCfg: &oauth2.Config{
			ClientID:     cfg.GetClientID(),
			ClientSecret: cfg.GetClientSecret(),
			RedirectURL:  redirectURIs[0],
			Scopes:       cfg.GetScopes(),
			Endpoint:     oauth2.Endpoint{AuthURL: AuthURL, TokenURL: TokenURL},
		},
		httpClient:     &http.Client{Timeout: cfg.GetHTTPTimeout()},
		connectionsURL: ConnectionsURL,
		limiter:        rate.NewLimiter(rate.Every(time.Minute/connectionsPerMinute), connectionsPerMinute),
		clockTolerance: cfg.GetClockTolerance(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c, nil
}

// NewIdentityVerifier discovers Xero's identity provider and returns a
// verifier for id_tokens issued to clientID. Requires network access to
// the issuer, so it is constructed separately and injected via
// WithIdentityVerifier.
func NewIdentityVerifier(ctx context.Context, clientID string) (*oidc.IDTokenVerifier, error) {
	provider, err := oidc.NewProvider(ctx, IdentityIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewIdentityVerifier] discover identity provider")
	}
	return provider.Verifier(&oidc.Config{ClientID: clientID}), nil
}

// AuthCodeURL builds the consent URL the user is redirected to.
func (c *Client) AuthCodeURL(state string) (string, error) {
	if c.oauthCfg.Endpoint.AuthURL == "" {
		return "", errors.Wrap(ierrors.ErrInternal, "[AuthCodeURL] no authorization endpoint")
	}
	return c.oauthCfg.AuthCodeURL(state), nil
}

// ExchangeCallback extracts the authorization code from the callback
// URL and exchanges it for a token record.
func (c *Client) ExchangeCallback(ctx context.Context, callbackURL string) (*token.Record, error) {
	parsed, err := url.Parse(callbackURL)
	if err != nil {
		return nil, errors.Wrap(err, "[ExchangeCallback] parse callback URL")
	}
	code := parsed.Query().Get("code")
	if code == "" {
		return nil, errors.Wrap(ierrors.ErrEmptyCode, "[ExchangeCallback]")
	}

	tok, err := c.oauthCfg.Exchange(c.httpContext(ctx), code)
	if err != nil {
		return nil, errors.Wrap(err, "[ExchangeCallback] code exchange")
	}

	record := token.FromOAuth2(tok)
	c.ensureExpiry(record)

	if c.verifier != nil && record.IDToken != "" {
		if _, err := c.verifier.Verify(ctx, record.IDToken); err != nil {
			return nil, errors.Wrap(err, "[ExchangeCallback] id_token verification")
		}
	}

	return record, nil
}

// Refresh exchanges a refresh token for a new token record using the
// configured client id and secret.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*token.Record, error) {
	if refreshToken == "" {
		return nil, errors.Wrap(ierrors.ErrInvalidToken, "[Refresh] no refresh token")
	}

	seed := &oauth2.Token{RefreshToken: refreshToken}
	tok, err := c.oauthCfg.TokenSource(c.httpContext(ctx), seed).Token()
	if err != nil {
		return nil, errors.Wrap(err, "[Refresh] token refresh")
	}

	record := token.FromOAuth2(tok)
	c.ensureExpiry(record)
	return record, nil
}

// Connections lists the organisations the token is authorized for.
// Calls are rate limited to Xero's per-minute cap.
func (c *Client) Connections(ctx context.Context, record *token.Record) ([]tenants.Tenant, error) {
	if record == nil || record.AccessToken == "" {
		return nil, errors.Wrap(ierrors.ErrAuthenticationRequired, "[Connections]")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "[Connections] rate limiter")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.connectionsURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Connections] build request")
	}
	req.Header.Set("Authorization", "Bearer "+record.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Connections] request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, errors.Wrapf(ierrors.ErrInternal, "[Connections] status %d: %s", resp.StatusCode, string(body))
	}

	var list []tenants.Tenant
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, errors.Wrap(err, "[Connections] decode response")
	}
	return list, nil
}

// RefreshTenants fetches the connections list and replaces the cached
// copy.
func (c *Client) RefreshTenants(ctx context.Context, record *token.Record) error {
	list, err := c.Connections(ctx, record)
	if err != nil {
		return fmt.Errorf("[RefreshTenants] %w", err)
	}

	c.tenantLock.Lock()
	c.tenantList = list
	c.tenantLock.Unlock()
	return nil
}

// Tenants returns a copy of the cached tenant list. An empty result
// means no fetch has happened yet or the app has no connections.
func (c *Client) Tenants() []tenants.Tenant {
	c.tenantLock.RLock()
	defer c.tenantLock.RUnlock()

	list := make([]tenants.Tenant, len(c.tenantList))
	copy(list, c.tenantList)
	return list
}

// httpContext threads the timeout-bearing HTTP client into the oauth2
// package, which picks it up from the context.
func (c *Client) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
