package domain

import "time"

// RegistrationStatus is the lifecycle state of a service registration.
type RegistrationStatus string

const (
	RegistrationReceived   RegistrationStatus = "received"
	RegistrationInProgress RegistrationStatus = "in_progress"
	RegistrationCompleted  RegistrationStatus = "completed"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

// Valid reports whether s is a known registration status.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationReceived, RegistrationInProgress, RegistrationCompleted, RegistrationCancelled:
		return true
	}
	return false
}

// ServiceRegistration is a client's request for a fixed-scope legal service,
// e.g. company incorporation or a trademark filing.
type ServiceRegistration struct {
	ID                 string             `json:"id"`
	RegistrationNumber string             `json:"registration_number"`
	ClientID           string             `json:"client_id"`
	ServiceCode        string             `json:"service_code"`
	Details            string             `json:"details,omitempty"`
	Status             RegistrationStatus `json:"status"`
	CompletedAt        *time.Time         `json:"completed_at,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	ClientName string `json:"client_name,omitempty"`
}
