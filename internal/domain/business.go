package domain

import "time"

// BusinessPromotion is a business listing that goes through the same
// moderation lifecycle as a campaign, without the engagement counters.
type BusinessPromotion struct {
	ID           string      `json:"id"`
	BusinessName string      `json:"businessName"`
	Description  string      `json:"description"`
	Logo         string      `json:"logo"`
	Website      *string     `json:"website,omitempty"`
	Location     string      `json:"location"`
	Owner        UserSummary `json:"owner"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
}
