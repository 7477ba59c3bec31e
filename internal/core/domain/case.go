package domain

import "time"

// CaseStatus is the lifecycle state of a legal case. Transitions are
// deliberately unconstrained: any status may follow any other.
type CaseStatus string

const (
	CasePending  CaseStatus = "pending"
	CaseActive   CaseStatus = "active"
	CaseOnHold   CaseStatus = "on_hold"
	CaseResolved CaseStatus = "resolved"
	CaseClosed   CaseStatus = "closed"
)

// Valid reports whether s is a known case status.
func (s CaseStatus) Valid() bool {
	switch s {
	case CasePending, CaseActive, CaseOnHold, CaseResolved, CaseClosed:
		return true
	}
	return false
}

// Terminal reports whether the status carries the closing-date side effect.
func (s CaseStatus) Terminal() bool {
	return s == CaseResolved || s == CaseClosed
}

// Case is a legal matter owned by a client profile.
type Case struct {
	ID               string     `json:"id"`
	CaseNumber       string     `json:"case_number"`
	ClientID         string     `json:"client_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Category         string     `json:"category"`
	Status           CaseStatus `json:"status"`
	AssignedAttorney *string    `json:"assigned_attorney,omitempty"`
	OpeningDate      time.Time  `json:"opening_date"`
	ClosingDate      *time.Time `json:"closing_date,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Display fields joined from related rows; never written back.
	ClientName   string `json:"client_name,omitempty"`
	AttorneyName string `json:"attorney_name,omitempty"`
}
