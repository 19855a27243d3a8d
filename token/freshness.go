package token

import "time"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// DefaultFreshnessMargin is the safety buffer before actual expiry at
// which a token is proactively treated as stale. Refreshing a little
// early costs one extra token call; expiring mid-request costs a failed
// API call, so the trade is deliberately conservative.
const DefaultFreshnessMargin = 60 * time.Second

// Fresh reports whether the record is usable without a refresh: it must
// carry a positive expiry that is at least margin away from now. Absent
// records and records without an expiry are never fresh.
func Fresh(r *Record, margin time.Duration, now time.Time) bool {
	if r == nil || r.ExpiresAt <= 0 {
		return false
	}
	return time.Unix(r.ExpiresAt, 0).Sub(now) >= margin
}
