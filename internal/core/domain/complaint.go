package domain

import "time"

// ComplaintStatus is the lifecycle state of a client complaint.
type ComplaintStatus string

const (
	ComplaintSubmitted   ComplaintStatus = "submitted"
	ComplaintUnderReview ComplaintStatus = "under_review"
	ComplaintEscalated   ComplaintStatus = "escalated"
	ComplaintResolved    ComplaintStatus = "resolved"
	ComplaintClosed      ComplaintStatus = "closed"
)

// Valid reports whether s is a known complaint status.
func (s ComplaintStatus) Valid() bool {
	switch s {
	case ComplaintSubmitted, ComplaintUnderReview, ComplaintEscalated, ComplaintResolved, ComplaintClosed:
		return true
	}
	return false
}

// Terminal reports whether the status stamps the resolution timestamp.
func (s ComplaintStatus) Terminal() bool {
	return s == ComplaintResolved || s == ComplaintClosed
}

// Complaint is a grievance filed by or on behalf of a client.
type Complaint struct {
	ID              string          `json:"id"`
	ComplaintNumber string          `json:"complaint_number"`
	ClientID        string          `json:"client_id"`
	Subject         string          `json:"subject"`
	Description     string          `json:"description,omitempty"`
	Status          ComplaintStatus `json:"status"`
	ResolutionNotes string          `json:"resolution_notes,omitempty"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	ClientName string `json:"client_name,omitempty"`
}
