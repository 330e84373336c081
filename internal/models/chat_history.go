package models

import "gorm.io/gorm"

// ChatHistory represents a saved chat message in the PostgreSQL database.
// The embedded gorm.Model provides ID, CreatedAt, UpdatedAt, and DeletedAt fields,
// which serve as the message ID and timestamps.
type ChatHistory struct {
	gorm.Model

	// RoomID is the identifier of the chat room where the message was sent.
	RoomID string `gorm:"type:uuid;not null;index:idx_room_msg"`
	// SenderID is the account ID of the participant who sent the message.
	SenderID string `gorm:"type:text;not null;index:idx_room_msg"`
	// SenderType is "user" or "company".
	SenderType string `gorm:"type:text;not null"`
	// SenderName is the display name shown next to the message.
	SenderName string `gorm:"type:text;not null"`
	// Content is the message text.
	Content string `gorm:"type:text;not null"`
}

// ToMessage converts a stored row into the wire shape sent to clients.
func (h *ChatHistory) ToMessage() Message {
	return Message{
		ID:         h.ID,
		ChatRoomID: h.RoomID,
		SenderType: h.SenderType,
		SenderName: h.SenderName,
		Content:    h.Content,
		CreatedAt:  h.CreatedAt,
	}
}
