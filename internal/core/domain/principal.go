package domain

// Roles understood by the back office. admin, staff and attorney form the
// staff tier and may access any resource; client is the self role, scoped
// to the single client profile its token is linked to.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleAttorney = "attorney"
	RoleClient   = "client"
)

// Principal is the authenticated caller as seen by the service layer.
// ClientID links a client-role principal to exactly one client profile;
// staff-tier principals carry none.
type Principal struct {
	ID       string
	Role     string
	ClientID string
}

// IsStaffTier reports whether the principal holds a staff-tier role.
func (p Principal) IsStaffTier() bool {
	switch p.Role {
	case RoleAdmin, RoleStaff, RoleAttorney:
		return true
	}
	return false
}

// CanAccess decides whether the principal may touch a resource owned by
// ownerID. Pure and total: staff tier passes every check, a client passes
// only for its own profile id. Callers translate false into ErrForbidden at
// the service boundary, after confirming the resource exists.
func (p Principal) CanAccess(ownerID string) bool {
	if p.IsStaffTier() {
		return true
	}
	return p.ClientID != "" && p.ClientID == ownerID
}
