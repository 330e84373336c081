package models

import "gorm.io/gorm"

// Counterparty types a review can be written about.
const (
	CounterpartyCompany = "Company"
	CounterpartyUser    = "User"
)

// Review is the rating one side of an ended application leaves about the
// other. At most one review per application and counterparty type; its
// existence retires the application from the pending-review queue.
type Review struct {
	gorm.Model

	ApplicationID string `gorm:"type:uuid;not null;uniqueIndex:idx_app_counterparty" json:"applicationId"`
	// ReviewerID is the account that wrote the review.
	ReviewerID string `gorm:"type:uuid;not null;index" json:"-"`
	// CounterpartyType names which side is being reviewed: "Company" or "User".
	CounterpartyType string `gorm:"type:text;not null;uniqueIndex:idx_app_counterparty" json:"counterpartyType"`
	Rating           int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment          string `gorm:"type:text" json:"comment,omitempty"`
}
