package tenants

import "time"

// Tenant is one connected Xero organisation reachable through an
// authorized token, as returned by the connections endpoint. The list
// is fetched fresh on demand and never persisted by this module.
type Tenant struct {
	ID             string    `json:"id"` // connection id, not the org id
	AuthEventID    string    `json:"authEventId,omitempty"`
	TenantID       string    `json:"tenantId"`
	TenantType     string    `json:"tenantType"`
	TenantName     string    `json:"tenantName,omitempty"`
	CreatedDateUTC time.Time `json:"createdDateUtc,omitempty"`
	UpdatedDateUTC time.Time `json:"updatedDateUtc,omitempty"`
}

// Active picks the tenant treated as the current organisation.
//
// The index is configuration: the system this replaces picked entry 1
// (the second connection), which is preserved as the configured default
// until product confirms entry 0 was intended. An index beyond the end
// of the list clamps to the last entry rather than failing.
func Active(list []Tenant, index int) (Tenant, bool) {
	if len(list) == 0 {
		return Tenant{}, false
	}
	if index < 0 {
		index = 0
	}
	if index >= len(list) {
		index = len(list) - 1
	}
	return list[index], true
}
