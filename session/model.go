package session

import (
	"encoding/json"
	"time"

	"github.com/carelink/authcore/rbac"
)

// Metadata is the device context captured when a session is created. The
// network address and client signature recorded here are the binding the
// suspicion heuristic compares later activity against.
type Metadata struct {
	IPAddress  string `json:"ip_address"`
	UserAgent  string `json:"user_agent"`
	DeviceID   string `json:"device_id,omitempty"`
	DeviceName string `json:"device_name,omitempty"`
}

// Session is one authenticated presence of an identity. Records are
// persisted in the keyed store with a TTL matching ExpiresAt; expiry is
// also checked lazily at read time so the store self-heals when the
// backing store's own expiry lags.
type Session struct {
	ID       string    `json:"id"`
	UserID   string    `json:"user_id"`
	Role     rbac.Role `json:"role"`
	TenantID string    `json:"tenant_id,omitempty"`

	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	ExpiresAt    time.Time `json:"expires_at"`

	Metadata Metadata `json:"metadata"`

	MFAVerified      bool `json:"mfa_verified"`
	ProviderVerified bool `json:"provider_verified"`
}

// Expired reports whether the session is past its absolute expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func encodeSession(s *Session) ([]byte, error) {
	return json.Marshal(s)
}

func decodeSession(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
