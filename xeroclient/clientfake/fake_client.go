package clientfake

import (
	"context"
	"sync"

	"github.com/ledgerlink/xeroauth/session"
	"github.com/ledgerlink/xeroauth/tenants"
	"github.com/ledgerlink/xeroauth/token"
)

var _ session.OAuthClient = (*FakeClient)(nil)

// FakeClient is an in-memory session.OAuthClient for tests. Stub the
// result fields and assert on the call counters.
type FakeClient struct {
	lock sync.Mutex

	ConsentURL string
	AuthErr    error

	ExchangeRecord *token.Record
	ExchangeErr    error
	ExchangeCalls  int
	LastCallback   string

	RefreshRecord *token.Record
	RefreshErr    error
	RefreshCalls  int

	TenantList        []tenants.Tenant
	RefreshTenantsErr error
	TenantFetchCalls  int
	cached            []tenants.Tenant
}

func NewFakeClient() *FakeClient {
	return &FakeClient{ConsentURL: "https://login.example.com/authorize?state=abc"}
}

func (fc *FakeClient) AuthCodeURL(string) (string, error) {
	if fc.AuthErr != nil {
		return "", fc.AuthErr
	}
	return fc.ConsentURL, nil
}

func (fc *FakeClient) ExchangeCallback(_ context.Context, callbackURL string) (*token.Record, error) {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	fc.ExchangeCalls++
	fc.LastCallback = callbackURL
	if fc.ExchangeErr != nil {
		return nil, fc.ExchangeErr
	}
	return fc.ExchangeRecord, nil
}

func (fc *FakeClient) Refresh(_ context.Context, _ string) (*token.Record, error) {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	fc.RefreshCalls++
	if fc.RefreshErr != nil {
		return nil, fc.RefreshErr
	}
	return fc.RefreshRecord, nil
}

func (fc *FakeClient) RefreshTenants(_ context.Context, _ *token.Record) error {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	fc.TenantFetchCalls++
	if fc.RefreshTenantsErr != nil {
		return fc.RefreshTenantsErr
	}
	fc.cached = fc.TenantList
	return nil
}

func (fc *FakeClient) Tenants() []tenants.Tenant {
	fc.lock.Lock()
	defer fc.lock.Unlock()

	list := make([]tenants.Tenant, len(fc.cached))
	copy(list, fc.cached)
	return list
}
