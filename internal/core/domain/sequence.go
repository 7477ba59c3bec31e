package domain

import (
	"fmt"
	"regexp"
)

// Reference prefixes for human-facing sequence numbers. Numbers are unique
// and monotonically increasing within a calendar year, assigned at creation
// time and never reassigned.
const (
	PrefixCase         = "CASE"
	PrefixComplaint    = "CMP"
	PrefixInvoice      = "INV"
	PrefixRegistration = "SRV"
	PrefixConsultation = "CON"
)

// ReferencePattern matches a well-formed reference, e.g. CASE-2026-0001.
var ReferencePattern = regexp.MustCompile(`^[A-Z]+-\d{4}-\d{4,}$`)

// FormatReference renders a sequenced identifier, zero-padding the counter
// to four digits. Counters past 9999 widen rather than wrap.
func FormatReference(prefix string, year, n int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, n)
}
