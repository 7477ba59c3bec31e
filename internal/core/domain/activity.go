package domain

import "time"

// ActivityKind is the closed set of timeline event kinds. Fixed rather than
// free text so downstream timeline UIs render consistently.
type ActivityKind string

const (
	ActivityCreated            ActivityKind = "created"
	ActivityStatusChanged      ActivityKind = "status_changed"
	ActivityAssigneeChanged    ActivityKind = "assignee_changed"
	ActivityNoteAdded          ActivityKind = "note_added"
	ActivityInvoiceIssued      ActivityKind = "invoice_issued"
	ActivityAccountProvisioned ActivityKind = "account_provisioned"
)

// ActivityRecord is an immutable timeline entry attached to a parent
// resource. Records are created only as a side effect of a state-changing
// operation on the parent; they are never updated or deleted through the
// API. Listings return newest-first per parent id.
type ActivityRecord struct {
	ID          string       `json:"id"`
	ParentID    string       `json:"parent_id"`
	Kind        ActivityKind `json:"kind"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	ActorID     string       `json:"actor_id"`
	CreatedAt   time.Time    `json:"created_at"`
}
