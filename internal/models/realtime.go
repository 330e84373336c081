package models

import "time"

// Sender types carried on every message.
const (
	SenderUser    = "user"
	SenderCompany = "company"
)

// Frame types on the chat channel, both directions.
const (
	FrameMessage = "message"
	FrameError   = "error"
)

// Message is the wire shape of one chat message, used both in history
// responses and inside live "message" frames.
type Message struct {
	ID         uint      `json:"id"`
	ChatRoomID string    `json:"chatRoomId"`
	SenderType string    `json:"senderType"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Frame is one server-to-client envelope on the chat channel. A "message"
// frame carries Data; an "error" frame carries Message and nothing else.
type Frame struct {
	Type    string   `json:"type"`
	Data    *Message `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Outbound is the client-to-server send frame.
type Outbound struct {
	Content string `json:"content"`
}

// HistoryResponse is the wrapped shape of GET /chat/{roomId}/messages.
type HistoryResponse struct {
	Messages    []Message `json:"messages"`
	PartnerName string    `json:"partnerName,omitempty"`
}
