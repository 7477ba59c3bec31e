package service

import "testing"

func TestSanitizeSearchTerm(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain words", "plain words"},
		{`acme% _corp`, "acme corp"},
		{`O'Brien`, "OBrien"},
		{`"quoted" (grouped), dotted.`, "quoted grouped dotted"},
		{`back\slash`, "backslash"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeSearchTerm(tc.in); got != tc.want {
			t.Errorf("SanitizeSearchTerm(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSortColumn_FallsBackToCreatedAt(t *testing.T) {
	allowed := map[string]string{"title": "title", "status": "status"}

	if got := sortColumn(allowed, "title"); got != "title" {
		t.Errorf("allowed column: got %q", got)
	}
	if got := sortColumn(allowed, "password_hash"); got != "created_at" {
		t.Errorf("unknown column must fall back, got %q", got)
	}
	if got := sortColumn(allowed, ""); got != "created_at" {
		t.Errorf("empty column must fall back, got %q", got)
	}
}
