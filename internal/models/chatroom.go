package models

import "time"

// ChatRoom is the conversation scoped to exactly one application. It is
// created when the application is shortlisted and outlives every later
// status change, including rejection, so the history stays reachable.
type ChatRoom struct {
	// RoomID is the unique identifier for the chat room (UUID).
	RoomID string `gorm:"primaryKey" json:"id"`
	// ApplicationID is the application this room belongs to.
	ApplicationID string `gorm:"type:uuid;not null;uniqueIndex" json:"applicationId"`
	// UserID and CompanyID are the two participants.
	UserID    string `gorm:"type:uuid;not null;index" json:"-"`
	CompanyID string `gorm:"type:uuid;not null;index" json:"-"`
	// UserName and CompanyName are display names captured at creation time.
	UserName    string `json:"userName"`
	CompanyName string `json:"companyName"`
	// StartedAt is the timestamp when the chat room was created.
	StartedAt time.Time `json:"startedAt"`
}

// HasParticipant reports whether the given account is one of the two sides.
func (r *ChatRoom) HasParticipant(accountID string) bool {
	return accountID == r.UserID || accountID == r.CompanyID
}

// PartnerName returns the display name of the other side of the room.
func (r *ChatRoom) PartnerName(accountID string) string {
	if accountID == r.UserID {
		return r.CompanyName
	}
	return r.UserName
}
