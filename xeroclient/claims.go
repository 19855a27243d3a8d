package xeroclient

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/ledgerlink/xeroauth/token"
	"github.com/rs/zerolog/log"
)

// ensureExpiry backfills ExpiresAt from the access token's exp claim
// when the token response did not carry an expiry. Xero access tokens
// are JWTs; the signature is the provider's concern, only the claim is
// read here. The configured clock tolerance is applied as parser
// leeway.
func (c *Client) ensureExpiry(record *token.Record) {
	if record == nil || record.ExpiresAt > 0 || record.AccessToken == "" {
		return
	}

	parser := jwt.NewParser(jwt.WithLeeway(c.clockTolerance))
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(record.AccessToken, claims); err != nil {
		log.Debug().Err(err).Msg("access token is not a parseable JWT; leaving expiry unset")
		return
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return
	}
	record.ExpiresAt = exp.Unix()
}
