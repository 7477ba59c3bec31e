package domain

import "time"

// ConsultationStatus is the lifecycle state of a consultation booking.
type ConsultationStatus string

const (
	ConsultationRequested ConsultationStatus = "requested"
	ConsultationScheduled ConsultationStatus = "scheduled"
	ConsultationCompleted ConsultationStatus = "completed"
	ConsultationCancelled ConsultationStatus = "cancelled"
)

// Valid reports whether s is a known consultation status.
func (s ConsultationStatus) Valid() bool {
	switch s {
	case ConsultationRequested, ConsultationScheduled, ConsultationCompleted, ConsultationCancelled:
		return true
	}
	return false
}

// Consultation is a booked advisory session between a client and an attorney.
type Consultation struct {
	ID                 string             `json:"id"`
	ConsultationNumber string             `json:"consultation_number"`
	ClientID           string             `json:"client_id"`
	AttorneyID         *string            `json:"attorney_id,omitempty"`
	Topic              string             `json:"topic"`
	Notes              string             `json:"notes,omitempty"`
	ScheduledAt        *time.Time         `json:"scheduled_at,omitempty"`
	DurationMins       int                `json:"duration_mins,omitempty"`
	Status             ConsultationStatus `json:"status"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	ClientName   string `json:"client_name,omitempty"`
	AttorneyName string `json:"attorney_name,omitempty"`
}
