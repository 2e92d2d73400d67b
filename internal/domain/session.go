package domain

import "time"

// Booking session status constants.
const (
	SessionStatusPending   = "pending"
	SessionStatusConfirmed = "confirmed"
	SessionStatusCancelled = "cancelled"
	SessionStatusCompleted = "completed"
)

// BookingSession represents a booked instructor session. ProviderRef is
// empty until the payment provider has issued an intent for it.
type BookingSession struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	InstructorID string    `json:"instructor_id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Mobile       string    `json:"mobile"`
	AmountTotal  int64     `json:"amount_total"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	ProviderRef  string    `json:"provider_ref,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidSessionStatuses returns all valid booking session statuses.
func ValidSessionStatuses() []string {
	return []string{
		SessionStatusPending,
		SessionStatusConfirmed,
		SessionStatusCancelled,
		SessionStatusCompleted,
	}
}

// IsValidSessionStatus checks if a status string is valid for sessions.
func IsValidSessionStatus(status string) bool {
	for _, s := range ValidSessionStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalSessionStatus reports whether the status is administrative and
// must never be overwritten by payment reconciliation.
func IsTerminalSessionStatus(status string) bool {
	return status == SessionStatusCancelled || status == SessionStatusCompleted
}
