package token

import (
	"encoding/json"
	"time"

	"golang.org/x/oauth2"
)

// Record is the access/refresh token bundle issued by the OAuth provider,
// as persisted in the cache. Provider fields this package does not
// recognise are kept verbatim in Extra so that a save/load round trip
// never drops information the provider may rely on later.
type Record struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"` // unix seconds
	TokenType    string `json:"token_type,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
	Scope        string `json:"scope,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// knownFields are the keys lifted into named struct fields; everything
// else round-trips through Extra untouched.
var knownFields = map[string]struct{}{
	"access_token":  {},
	"refresh_token": {},
	"expires_at":    {},
	"token_type":    {},
	"id_token":      {},
	"scope":         {},
}

type recordAlias Record

func (r Record) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(r.Extra)+len(knownFields))
	for k, v := range r.Extra {
		fields[k] = v
	}

	named, err := json.Marshal(recordAlias(r))
	if err != nil {
		return nil, err
	}
	var namedFields map[string]json.RawMessage
	if err := json.Unmarshal(named, &namedFields); err != nil {
		return nil, err
	}
	for k, v := range namedFields {
		fields[k] = v
	}
	return json.Marshal(fields)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var alias recordAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for k := range knownFields {
		delete(fields, k)
	}
	if len(fields) > 0 {
		alias.Extra = fields
	}

	*r = Record(alias)
	return nil
}

// FromOAuth2 converts a token returned by the wrapped OAuth client into
// a cacheable Record. A zero Expiry maps to ExpiresAt == 0, which the
// freshness policy treats as never fresh.
func FromOAuth2(t *oauth2.Token) *Record {
	if t == nil {
		return nil
	}
	r := &Record{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if !t.Expiry.IsZero() {
		r.ExpiresAt = t.Expiry.Unix()
	}
	if idToken, ok := t.Extra("id_token").(string); ok {
		r.IDToken = idToken
	}
	if scope, ok := t.Extra("scope").(string); ok {
		r.Scope = scope
	}
	return r
}

// OAuth2Token converts the record back into the wrapped client's token
// type, e.g. to seed a refreshing TokenSource.
func (r *Record) OAuth2Token() *oauth2.Token {
	if r == nil {
		return nil
	}
	t := &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    r.TokenType,
	}
	if r.ExpiresAt > 0 {
		t.Expiry = time.Unix(r.ExpiresAt, 0)
	}
	return t
}
