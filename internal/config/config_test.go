package config_test

import (
	"testing"
	"time"

	"github.com/ledgerlink/xeroauth/internal/config"
	"github.com/stretchr/testify/require"
)

func TestRedirectURIParsing(t *testing.T) {
	t.Setenv("XERO_REDIRECT_URIS", "http://localhost:3000/callback, https://app.example.com/cb ,")

	uris := config.New().GetRedirectURIs()
	require.Equal(t, []string{"http://localhost:3000/callback", "https://app.example.com/cb"}, uris)
}

func TestRedirectURIsUnset(t *testing.T) {
	t.Setenv("XERO_REDIRECT_URIS", "")
	require.Empty(t, config.New().GetRedirectURIs())
}

func TestScopeDefaults(t *testing.T) {
	t.Setenv("XERO_SCOPES", "")

	scopes := config.New().GetScopes()
	require.Contains(t, scopes, "openid")
	require.Contains(t, scopes, "offline_access")
	require.Contains(t, scopes, "accounting.transactions")
}

func TestTimeoutAndToleranceDefaults(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_MS", "")
	t.Setenv("CLOCK_TOLERANCE_S", "")

	c := config.New()
	require.Equal(t, 30*time.Second, c.GetHTTPTimeout())
	require.Equal(t, 5*time.Second, c.GetClockTolerance())
	require.Equal(t, 60*time.Second, c.GetFreshnessMargin())
}

func TestTimeoutOverride(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_MS", "5000")
	require.Equal(t, 5*time.Second, config.New().GetHTTPTimeout())
}

func TestTimeoutInvalidFallsBack(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_MS", "not-a-number")
	require.Equal(t, 30*time.Second, config.New().GetHTTPTimeout())
}

func TestActiveTenantIndexDefault(t *testing.T) {
	t.Setenv("ACTIVE_TENANT_INDEX", "")
	require.Equal(t, 1, config.New().GetActiveTenantIndex())
}

func TestPortFormatting(t *testing.T) {
	t.Setenv("PORT", "9090")
	require.Equal(t, ":9090", config.New().GetPort())
}
