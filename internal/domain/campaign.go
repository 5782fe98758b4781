package domain

import "time"

// Status enumerates the moderation lifecycle. Every submission starts as
// pending; only an admin moves it to approved or rejected.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ValidDecision reports whether s is an acceptable moderation outcome.
func ValidDecision(s Status) bool {
	return s == StatusApproved || s == StatusRejected
}

// Campaign is a fundraising/awareness initiative. Raised, participants and
// shares only ever grow; there is no unjoin or refund path.
type Campaign struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"shortDescription"`
	Goal             float64     `json:"goal"`
	Raised           float64     `json:"raised"`
	Category         string      `json:"category"`
	Image            string      `json:"image"`
	Location         string      `json:"location"`
	Creator          UserSummary `json:"creator"`
	Status           Status      `json:"status"`
	Participants     int         `json:"participants"`
	Shares           int         `json:"shares"`
	CreatedAt        time.Time   `json:"createdAt"`
}
