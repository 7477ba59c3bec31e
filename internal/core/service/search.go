package service

import "strings"

// searchStripper removes characters with special meaning in the store's
// filter syntax (wildcards, quoting, grouping) so a free-text term can only
// ever match as a plain case-insensitive substring.
var searchStripper = strings.NewReplacer(
	",", "",
	".", "",
	"(", "",
	")", "",
	`"`, "",
	"'", "",
	`\`, "",
	"%", "",
	"_", "",
)

// SanitizeSearchTerm is the single shared sanitizer applied to every
// free-text list filter before it reaches a repository.
func SanitizeSearchTerm(s string) string {
	return strings.TrimSpace(searchStripper.Replace(s))
}

// sortColumn validates a requested sort column against a family's
// allow-list, mapping the API name to the store column. Unrecognised
// columns silently fall back to created_at rather than erroring.
func sortColumn(allowed map[string]string, requested string) string {
	if col, ok := allowed[requested]; ok {
		return col
	}
	return "created_at"
}
