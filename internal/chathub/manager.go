package chathub

import (
	"encoding/json"
	"log"

	"unicrew/backend/internal/models"
	"unicrew/backend/internal/storage"
)

// RoomFrame is a frame received from Redis Pub/Sub together with the room
// it was published on (the Pub/Sub channel name).
type RoomFrame struct {
	RoomID string
	Frame  models.Frame
}

// Manager is the chat hub. One goroutine owns the client table and every
// mutation goes through its channels, so no locking is needed.
type Manager struct {
	// Clients maps account ID to that account's single live connection.
	Clients map[string]Client

	IncomingCh   chan Inbound
	RegisterCh   chan Client
	UnregisterCh chan Client
	PubSubCh     chan RoomFrame

	Storage storage.Storage
}

func NewManager(s storage.Storage) *Manager {
	return &Manager{
		Clients:      make(map[string]Client),
		IncomingCh:   make(chan Inbound),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		PubSubCh:     make(chan RoomFrame),
		Storage:      s,
	}
}

// startPubSubListener subscribes to every room channel in Redis and feeds
// received frames into the hub loop. Fanout goes through Redis even on a
// single instance so multi-instance deployments behave identically.
func (m *Manager) startPubSubListener() {
	pubsub := m.Storage.SubscribeToAllRooms()
	if pubsub == nil {
		return
	}
	go func() {
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var frame models.Frame
			if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
				log.Printf("ERROR: Failed to unmarshal pub/sub frame: %v", err)
				continue
			}
			m.PubSubCh <- RoomFrame{RoomID: msg.Channel, Frame: frame}
		}
	}()
}

// Run is the hub dispatcher. It must run in its own goroutine.
func (m *Manager) Run() {
	m.startPubSubListener()

	for {
		select {
		case client := <-m.RegisterCh:
			m.register(client)

		case client := <-m.UnregisterCh:
			m.unregister(client)

		case in := <-m.IncomingCh:
			m.handleIncoming(in)

		case rf := <-m.PubSubCh:
			m.fanOut(rf.RoomID, rf.Frame)
		}
	}
}

// register adds a connection, displacing any previous connection the same
// account still had open. An account never holds two live channels at once.
func (m *Manager) register(client Client) {
	if old, ok := m.Clients[client.GetAccountID()]; ok {
		old.Close()
	}
	m.Clients[client.GetAccountID()] = client
	log.Printf("Client %s connected to room %s", client.GetAccountID(), client.GetRoomID())
}

func (m *Manager) unregister(client Client) {
	if current, ok := m.Clients[client.GetAccountID()]; ok && current == client {
		delete(m.Clients, client.GetAccountID())
		client.Close()
		log.Printf("Client %s disconnected", client.GetAccountID())
	}
}

// handleIncoming persists a message read off a connection and publishes it
// for fanout. Failures are reported back to the sender as an error frame;
// the connection stays open.
func (m *Manager) handleIncoming(in Inbound) {
	roomID := in.Client.GetRoomID()
	if roomID == "" {
		m.sendError(in.Client, "connection is not bound to a chat room")
		return
	}

	history := models.ChatHistory{
		RoomID:     roomID,
		SenderID:   in.Client.GetAccountID(),
		SenderType: in.Client.GetRole(),
		SenderName: in.Client.GetDisplayName(),
		Content:    in.Content,
	}
	if err := m.Storage.SaveMessage(&history); err != nil {
		m.sendError(in.Client, "message could not be delivered")
		return
	}

	msg := history.ToMessage()
	if err := m.Storage.PublishFrame(roomID, models.Frame{Type: models.FrameMessage, Data: &msg}); err != nil {
		log.Printf("ERROR: Failed to publish message %d for room %s: %v", history.ID, roomID, err)
		m.sendError(in.Client, "message could not be delivered")
	}
}

// fanOut delivers a frame to every connection bound to the room. A client
// whose send buffer is full is dropped rather than allowed to stall the hub.
func (m *Manager) fanOut(roomID string, frame models.Frame) {
	for _, client := range m.Clients {
		if client.GetRoomID() != roomID {
			continue
		}
		select {
		case client.GetSendChannel() <- frame:
		default:
			log.Printf("WARNING: Dropping slow client %s", client.GetAccountID())
			m.unregister(client)
		}
	}
}

func (m *Manager) sendError(client Client, message string) {
	select {
	case client.GetSendChannel() <- models.Frame{Type: models.FrameError, Message: message}:
	default:
	}
}
