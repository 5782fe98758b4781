package domain

import "time"

// Donation is an immutable contribution record. Creating one and bumping the
// parent campaign's raised total happen in a single statement.
type Donation struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaignId"`
	UserID      string    `json:"userId"`
	Amount      float64   `json:"amount"`
	DisplayName string    `json:"displayName"`
	Message     *string   `json:"message,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
