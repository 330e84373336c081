package chathub

import "unicrew/backend/internal/models"

// Client is the interface for one live connection into a chat room. It
// abstracts the underlying transport so the hub can manage connections
// uniformly and tests can substitute doubles.
type Client interface {
	// GetAccountID returns the account on the other end of the connection.
	GetAccountID() string
	// GetRole returns "user" or "company".
	GetRole() string
	// GetDisplayName returns the sender name stamped on outgoing messages.
	GetDisplayName() string
	// GetRoomID returns the chat room this connection is bound to. The
	// binding is fixed at connect time; switching rooms is a new connection.
	GetRoomID() string

	// GetSendChannel returns the channel through which the hub delivers
	// frames destined for this connection. It is a send-only channel.
	GetSendChannel() chan<- models.Frame

	// Run starts the connection's read and write pumps.
	Run()
	// Close shuts down the connection and its send channel.
	Close()
}

// Inbound is a message read off a client connection, before it has been
// persisted or fanned out.
type Inbound struct {
	Client  Client
	Content string
}
