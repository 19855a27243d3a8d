package token

import "context"

// CacheKey is the fixed key the serialized token record is stored
// under. One installation holds exactly one token set.
const CacheKey = "xero:oauth:tokenSet"

// Repo persists the token record in an external key-value store.
//
// Load returns (nil, nil) when no record exists or the stored payload
// cannot be decoded; a corrupt cache entry behaves exactly like an
// empty one so the caller re-authenticates instead of crashing.
// Transport errors are returned and left to the caller to degrade.
type Repo interface {
	Save(ctx context.Context, record *Record) error
	Load(ctx context.Context) (*Record, error)
}
