package xeroclient

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ledgerlink/xeroauth/token"
	"github.com/stretchr/testify/require"
)

func TestEnsureExpiryBackfillsFromClaim(t *testing.T) {
	exp := time.Now().Add(25 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).
		SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	c := &Client{clockTolerance: 5 * time.Second}
	record := &token.Record{AccessToken: signed}
	c.ensureExpiry(record)
	require.Equal(t, exp.Unix(), record.ExpiresAt)
}

func TestEnsureExpiryLeavesExistingValue(t *testing.T) {
	c := &Client{}
	record := &token.Record{AccessToken: "whatever", ExpiresAt: 42}
	c.ensureExpiry(record)
	require.Equal(t, int64(42), record.ExpiresAt)
}

func TestEnsureExpiryNonJWTToken(t *testing.T) {
	c := &Client{}
	record := &token.Record{AccessToken: "opaque-not-a-jwt"}
	c.ensureExpiry(record)
	require.Zero(t, record.ExpiresAt, "opaque tokens keep no expiry and are treated as stale")
}
