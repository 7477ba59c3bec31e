package domain

import "time"

// ClientStatus is the lifecycle state of a client profile.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientArchived ClientStatus = "archived"
)

// Valid reports whether s is a known client status.
func (s ClientStatus) Valid() bool {
	return s == ClientActive || s == ClientArchived
}

// Client is the role-specific profile row every owned resource points at.
// Its id is the owner id stamped on cases, complaints, subscriptions and
// the rest of the resource families.
type Client struct {
	ID        string       `json:"id"`
	ProfileID string       `json:"profile_id"`
	Company   string       `json:"company,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	Status    ClientStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Joined from the base profile and auth identity for display.
	FullName   string `json:"full_name,omitempty"`
	Email      string `json:"email,omitempty"`
	IdentityID string `json:"-"`
}
