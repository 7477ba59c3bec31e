package domain

import (
	"encoding/json"
	"testing"
)

func TestOptional_DistinguishesAbsentNullAndValue(t *testing.T) {
	type patch struct {
		Title    Optional[string] `json:"title"`
		Assignee Optional[string] `json:"assignee"`
		Count    Optional[int]    `json:"count"`
	}

	var p patch
	if err := json.Unmarshal([]byte(`{"title":"hello","assignee":null}`), &p); err != nil {
		t.Fatal(err)
	}

	if !p.Title.Set || p.Title.Null || p.Title.Value != "hello" {
		t.Errorf("title: expected present value, got %+v", p.Title)
	}
	if !p.Assignee.Set || !p.Assignee.Null {
		t.Errorf("assignee: expected explicit null, got %+v", p.Assignee)
	}
	if p.Count.Set {
		t.Errorf("count: absent field must stay unset, got %+v", p.Count)
	}
}

func TestOptional_ZeroValueIsDistinctFromAbsent(t *testing.T) {
	var o Optional[int]
	if err := json.Unmarshal([]byte(`0`), &o); err != nil {
		t.Fatal(err)
	}
	if !o.Set || o.Null || o.Value != 0 {
		t.Errorf("explicit zero must be a present value, got %+v", o)
	}
}

func TestFormatReference(t *testing.T) {
	cases := []struct {
		prefix string
		year   int
		n      int
		want   string
	}{
		{PrefixCase, 2026, 1, "CASE-2026-0001"},
		{PrefixComplaint, 2026, 42, "CMP-2026-0042"},
		{PrefixInvoice, 2027, 9999, "INV-2027-9999"},
		{PrefixRegistration, 2027, 10000, "SRV-2027-10000"}, // widens, never wraps
	}
	for _, tc := range cases {
		got := FormatReference(tc.prefix, tc.year, tc.n)
		if got != tc.want {
			t.Errorf("FormatReference(%s, %d, %d) = %q, want %q", tc.prefix, tc.year, tc.n, got, tc.want)
		}
		if !ReferencePattern.MatchString(got) {
			t.Errorf("%q must match the reference pattern", got)
		}
	}
}
