package session

import (
	"context"
	"time"

	"github.com/ledgerlink/xeroauth/internal/config"
	ierrors "github.com/ledgerlink/xeroauth/internal/errors"
	"github.com/ledgerlink/xeroauth/tenants"
	"github.com/ledgerlink/xeroauth/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// OAuthClient is the wrapped SDK surface the session depends on. The
// real implementation is xeroclient.Client; tests use a fake.
type OAuthClient interface {
	AuthCodeURL(state string) (string, error)
	ExchangeCallback(ctx context.Context, callbackURL string) (*token.Record, error)
	Refresh(ctx context.Context, refreshToken string) (*token.Record, error)
	RefreshTenants(ctx context.Context, record *token.Record) error
	Tenants() []tenants.Tenant
}

// Session owns the current token record for one configured Xero app:
// construct once, mutate on refresh. Concurrent callers racing a
// refresh may both succeed and both write; last writer wins and every
// written record is independently valid, so the race is left unlocked.
type Session struct {
	client            OAuthClient
	repo              token.Repo
	redirectURIs      []string
	margin            time.Duration
	activeTenantIndex int
	nowTime           func() time.Time // injectable for testing

	current *token.Record
}

// Option modifies the Session instance.
type Option func(*Session)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Session) {
		s.nowTime = nowFunc
	}
}

// WithFreshnessMargin overrides the early-refresh safety buffer.
func WithFreshnessMargin(margin time.Duration) Option {
	return func(s *Session) {
		s.margin = margin
	}
}

// New initializes a Session with required dependencies. Optional
// configuration can be provided via options.
func New(client OAuthClient, repo token.Repo, cfg config.OAuthConfig, options ...Option) (*Session, error) {
	if client == nil {
		return nil, errors.New("[session New] client is required")
	}
	if repo == nil {
		return nil, errors.New("[session New] token repo is required")
	}
	if cfg == nil {
		return nil, errors.New("[session New] config is required")
	}

	s := &Session{
		client:            client,
		repo:              repo,
		redirectURIs:      cfg.GetRedirectURIs(),
		margin:            cfg.GetFreshnessMargin(),
		activeTenantIndex: cfg.GetActiveTenantIndex(),
		nowTime:           time.Now,
	}
	if s.margin <= 0 {
		s.margin = token.DefaultFreshnessMargin
	}

	for _, opt := range options {
		opt(s)
	}

	return s, nil
}

// EnsureAuthenticated makes the session hold a usable token record or
// fails with ErrAuthenticationRequired. Cheapest check first: the
// in-memory record, then the cache, then a network refresh.
func (s *Session) EnsureAuthenticated(ctx context.Context) error {
	now := s.nowTime()

	if token.Fresh(s.current, s.margin, now) {
		return nil
	}

	loaded, err := s.repo.Load(ctx)
	if err != nil {
		// A cache outage must not block a session that can still
		// refresh; degrade to absent.
		log.Warn().Err(err).Msg("token cache load failed; treating as absent")
		loaded = nil
	}
	if loaded != nil {
		s.current = loaded
		if token.Fresh(s.current, s.margin, now) {
			return nil
		}
	}

	if s.current != nil && s.current.RefreshToken != "" {
		refreshed, err := s.client.Refresh(ctx, s.current.RefreshToken)
		if err == nil {
			s.current = refreshed
			s.persist(ctx, refreshed)
			return nil
		}
		// Rejected refresh and network failure end the same way for
		// the caller: a new authorization flow.
		log.Warn().Err(err).Msg("token refresh failed")
	}

	return ierrors.ErrAuthenticationRequired
}

// Current returns the in-memory token record, which may be nil or
// stale; callers wanting a usable token go through EnsureAuthenticated.
func (s *Session) Current() *token.Record {
	return s.current
}

// persist writes the record to the cache, logging and swallowing any
// failure: the in-memory record is still valid for this process
// lifetime, and failing the caller's already-successful exchange over
// a cache write would lose the token entirely.
func (s *Session) persist(ctx context.Context, record *token.Record) {
	if err := s.repo.Save(ctx, record); err != nil {
		log.Warn().Err(err).Msg("token cache save failed; continuing with in-memory token")
	}
}
