package config

import (
	"strconv"
	"strings"
	"time"
)

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURIs() []string
	GetScopes() []string
	GetHTTPTimeout() time.Duration
	GetClockTolerance() time.Duration
	GetFreshnessMargin() time.Duration
	GetActiveTenantIndex() int
	GetVerifyIDToken() bool
}

// Default scope set requested from Xero when XERO_SCOPES is unset.
// offline_access is required for refresh tokens to be issued.
const defaultScopes = "openid profile email accounting.settings accounting.transactions offline_access"

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetClientID() string {
	return GetEnv("XERO_CLIENT_ID", "")
}

func (OAuth) GetClientSecret() string {
	return GetEnv("XERO_CLIENT_SECRET", "")
}

func (OAuth) GetRedirectURIs() []string {
	raw := GetEnv("XERO_REDIRECT_URIS", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	uris := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			uris = append(uris, trimmed)
		}
	}
	return uris
}

func (OAuth) GetScopes() []string {
	return strings.Fields(GetEnv("XERO_SCOPES", defaultScopes))
}

func (OAuth) GetHTTPTimeout() time.Duration {
	return time.Duration(envInt("HTTP_TIMEOUT_MS", 30000)) * time.Millisecond
}

func (OAuth) GetClockTolerance() time.Duration {
	return time.Duration(envInt("CLOCK_TOLERANCE_S", 5)) * time.Second
}

func (OAuth) GetFreshnessMargin() time.Duration {
	return time.Duration(envInt("TOKEN_FRESHNESS_MARGIN_S", 60)) * time.Second
}

// GetActiveTenantIndex selects which connection counts as the "active"
// tenant. The historical default is 1 (the second entry), carried over
// from the system this replaces; it is configurable pending product
// confirmation that index 0 was intended.
func (OAuth) GetActiveTenantIndex() int {
	return envInt("ACTIVE_TENANT_INDEX", 1)
}

// GetVerifyIDToken enables OIDC verification of the id_token returned
// on code exchange. Off by default: it needs network access to the
// identity provider at startup.
func (OAuth) GetVerifyIDToken() bool {
	return GetEnv("XERO_VERIFY_ID_TOKEN", "false") == "true"
}

func envInt(envVar string, defaultValue int) int {
	v, err := strconv.Atoi(GetEnv(envVar, strconv.Itoa(defaultValue)))
	if err != nil {
		return defaultValue
	}
	return v
}
