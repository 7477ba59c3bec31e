package domain

import "testing"

func TestPrincipal_CanAccess(t *testing.T) {
	cases := []struct {
		name    string
		p       Principal
		ownerID string
		want    bool
	}{
		{"admin any resource", Principal{Role: RoleAdmin}, "client_1", true},
		{"staff any resource", Principal{Role: RoleStaff}, "client_1", true},
		{"attorney any resource", Principal{Role: RoleAttorney}, "client_1", true},
		{"client own profile", Principal{Role: RoleClient, ClientID: "client_1"}, "client_1", true},
		{"client other profile", Principal{Role: RoleClient, ClientID: "client_1"}, "client_2", false},
		{"client without link", Principal{Role: RoleClient}, "client_1", false},
		{"client without link, empty owner", Principal{Role: RoleClient}, "", false},
		{"unknown role", Principal{Role: "intern", ClientID: "client_1"}, "client_1", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.p.CanAccess(tc.ownerID); got != tc.want {
				t.Errorf("CanAccess(%q) = %v, want %v", tc.ownerID, got, tc.want)
			}
		})
	}
}

func TestPrincipal_IsStaffTier(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleStaff, RoleAttorney} {
		if !(Principal{Role: role}).IsStaffTier() {
			t.Errorf("%s must be staff tier", role)
		}
	}
	if (Principal{Role: RoleClient}).IsStaffTier() {
		t.Error("client must not be staff tier")
	}
}
