package domain

import "time"

// Identity is an auth credential record. It is modelled as an external auth
// system: profile rows reference it by id only, with no foreign key, so the
// identity can be deleted first during composite account deletion.
type Identity struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	InviteToken  string     `json:"-"`
	InvitedAt    *time.Time `json:"invited_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Invited reports whether the identity still awaits credential setup.
func (i Identity) Invited() bool {
	return i.PasswordHash == "" && i.InviteToken != ""
}

// Profile is the base profile row linking an auth identity to a role.
type Profile struct {
	ID         string    `json:"id"`
	IdentityID string    `json:"identity_id"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Account is the composite produced by provisioning: auth identity, base
// profile and client profile, created as a 2-3 step sequence with
// compensating cleanup on failure. The window where the identity exists but
// no profile does is visible to concurrent readers; that is a documented
// limitation, not a bug.
type Account struct {
	Identity Identity `json:"identity"`
	Profile  Profile  `json:"profile"`
	Client   Client   `json:"client"`
}
