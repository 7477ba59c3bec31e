package ports

// PageRequest carries 1-based pagination parameters.
type PageRequest struct {
	Page  int
	Limit int
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Normalize clamps page and limit to usable values.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns the row offset for the page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta is the pagination envelope shared by every list operation. Total
// is computed with the same filter predicate as the page itself, so the two
// never disagree.
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPageMeta builds the envelope; ceil(0/limit) is 0.
func NewPageMeta(p PageRequest, total int64) PageMeta {
	meta := PageMeta{Page: p.Page, Limit: p.Limit, Total: total}
	if p.Limit > 0 {
		meta.TotalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return meta
}

// Sort carries a requested sort column and direction. Column names are
// validated by each service against a per-family allow-list; unrecognised
// columns silently fall back to created_at.
type Sort struct {
	Column string
	Desc   bool
}
