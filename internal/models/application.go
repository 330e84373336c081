package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // needed for pq.StringArray
	"gorm.io/gorm"
)

// Status is the stage an application currently occupies in the pipeline.
type Status string

const (
	StatusApplied     Status = "applied"
	StatusShortListed Status = "shortListed"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
	StatusEnded       Status = "ended"
)

// Statuses lists every canonical status in pipeline order.
var Statuses = []Status{StatusApplied, StatusShortListed, StatusAccepted, StatusRejected, StatusEnded}

// Known reports whether s is one of the canonical statuses.
func (s Status) Known() bool {
	switch s {
	case StatusApplied, StatusShortListed, StatusAccepted, StatusRejected, StatusEnded:
		return true
	default:
		return false
	}
}

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusEnded
}

// CanTransition reports whether a move from one status to another is legal.
// Ending is reachable only from accepted, and only through EndApplication,
// never through a bulk status update.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusApplied:
		return to == StatusShortListed || to == StatusRejected
	case StatusShortListed:
		return to == StatusAccepted || to == StatusRejected
	case StatusAccepted:
		return to == StatusEnded || to == StatusRejected
	default:
		return false
	}
}

// AllowedTargets returns the statuses reachable from s.
func AllowedTargets(s Status) []Status {
	switch s {
	case StatusApplied:
		return []Status{StatusShortListed, StatusRejected}
	case StatusShortListed:
		return []Status{StatusAccepted, StatusRejected}
	case StatusAccepted:
		return []Status{StatusEnded, StatusRejected}
	default:
		return nil
	}
}

// MatchInfo is the server-computed fit summary embedded in an application.
type MatchInfo struct {
	Percent float64  `json:"percent"`
	Reasons []string `json:"reasons"`
}

// Application is one applicant's record for one job. It is created on apply
// and only ever transitioned, never deleted. ChatRoomID is assigned when the
// application is shortlisted and is never cleared afterwards, so chat history
// stays reachable even after a rejection or an ended engagement.
type Application struct {
	ID        string `gorm:"primaryKey" json:"id"`
	JobID     string `gorm:"type:uuid;not null;index" json:"jobId"`
	UserID    string `gorm:"type:uuid;not null;index" json:"userId"`
	CompanyID string `gorm:"type:uuid;not null;index" json:"companyId"`
	Status    Status `gorm:"type:text;not null;index" json:"status"`

	MatchPercent float64        `json:"-"`
	MatchReasons pq.StringArray `gorm:"type:text[]" json:"-"`
	Match        *MatchInfo     `gorm:"-" json:"match,omitempty"`

	ChatRoomID    *string    `gorm:"type:uuid;index" json:"chatRoomId,omitempty"`
	AcceptedDate  *time.Time `json:"acceptedDate,omitempty"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate generates an ID if one was not supplied.
func (a *Application) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = StatusApplied
	}
	return
}

// AfterFind lifts the flat match columns into the embedded wire shape.
func (a *Application) AfterFind(tx *gorm.DB) (err error) {
	if a.MatchPercent > 0 || len(a.MatchReasons) > 0 {
		a.Match = &MatchInfo{Percent: a.MatchPercent, Reasons: a.MatchReasons}
	}
	return
}
