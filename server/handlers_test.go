package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ledgerlink/xeroauth/internal/config"
	ierrors "github.com/ledgerlink/xeroauth/internal/errors"
	"github.com/ledgerlink/xeroauth/server"
	"github.com/ledgerlink/xeroauth/tenants"
	"github.com/ledgerlink/xeroauth/token"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	consentURL string
	record     *token.Record
	tenantList []tenants.Tenant
	err        error
}

var _ server.SessionService = (*fakeSession)(nil)

func (fs *fakeSession) AuthorizationURL() (string, error) {
	return fs.consentURL, fs.err
}

func (fs *fakeSession) TokenFromCode(_ context.Context, code string) (*token.Record, error) {
	if code == "" {
		return nil, ierrors.ErrEmptyCode
	}
	return fs.record, fs.err
}

func (fs *fakeSession) Tenants(context.Context) ([]tenants.Tenant, error) {
	return fs.tenantList, fs.err
}

func (fs *fakeSession) ActiveTenant(context.Context) (tenants.Tenant, error) {
	if fs.err != nil {
		return tenants.Tenant{}, fs.err
	}
	if len(fs.tenantList) == 0 {
		return tenants.Tenant{}, ierrors.ErrNoTenants
	}
	return fs.tenantList[0], nil
}

func (fs *fakeSession) EnsureAuthenticated(context.Context) error {
	return fs.err
}

func (fs *fakeSession) Current() *token.Record {
	return fs.record
}

func doRequest(t *testing.T, fs *fakeSession, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := server.New(config.New(), fs)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthHandler(t *testing.T) {
	rec := doRequest(t, &fakeSession{}, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestConnectRedirectsToConsentURL(t *testing.T) {
	fs := &fakeSession{consentURL: "https://login.xero.com/identity/connect/authorize?state=abc"}
	rec := doRequest(t, fs, "/connect")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, fs.consentURL, rec.Header().Get("Location"))
}

func TestCallbackReturnsTokenRecord(t *testing.T) {
	fs := &fakeSession{record: &token.Record{AccessToken: "access-1", ExpiresAt: 1750000000}}
	rec := doRequest(t, fs, "/callback?code=auth-code-123")
	require.Equal(t, http.StatusOK, rec.Code)

	var body token.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "access-1", body.AccessToken)
}

func TestCallbackWithoutCode(t *testing.T) {
	rec := doRequest(t, &fakeSession{}, "/callback")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTokenWhenAuthenticationRequired(t *testing.T) {
	fs := &fakeSession{err: ierrors.ErrAuthenticationRequired}
	rec := doRequest(t, fs, "/token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTenantsHandler(t *testing.T) {
	fs := &fakeSession{tenantList: []tenants.Tenant{{TenantID: "tenant-0"}, {TenantID: "tenant-1"}}}
	rec := doRequest(t, fs, "/tenants")
	require.Equal(t, http.StatusOK, rec.Code)

	var list []tenants.Tenant
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
}

func TestActiveTenantNotFound(t *testing.T) {
	rec := doRequest(t, &fakeSession{}, "/tenants/active")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
