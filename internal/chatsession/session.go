// Package chatsession provides the history-backed, realtime conversation
// bound to one chat room at a time.
package chatsession

import (
	"context"
	"log"
	"strings"
	"sync"

	"unicrew/backend/internal/models"
	"unicrew/backend/internal/pipeline"

	"github.com/gorilla/websocket"
)

// SendResult reports what happened to an outbound message. The channel does
// not queue, retry, or buffer: a message that cannot go out now is gone.
type SendResult int

const (
	// SendOK means one frame went out on the channel.
	SendOK SendResult = iota
	// SendSkippedEmpty means the content was empty or whitespace-only and
	// no frame was produced.
	SendSkippedEmpty
	// SendDroppedNotReady means the channel was not open and the message
	// was dropped.
	SendDroppedNotReady
)

// Session is a conversation bound to at most one chat room. Opening a new
// room tears down the previous channel completely before the first frame of
// the new one is processed, so a room can never have two live channels from
// the same session.
type Session struct {
	gateway pipeline.Gateway
	wsURL   string
	token   string
	session pipeline.SessionContext

	// OnError receives the text of server-pushed error frames. Such frames
	// never touch the message list and never close the channel.
	OnError func(message string)

	mu          sync.Mutex
	roomID      string
	conn        *websocket.Conn
	readerDone  chan struct{}
	messages    []models.Message
	partnerName string
}

// New builds a session. wsURL is the channel endpoint (e.g.
// "ws://host/ws"); the room and bearer token are appended as query
// parameters at dial time.
func New(gateway pipeline.Gateway, wsURL, token string, sc pipeline.SessionContext) *Session {
	return &Session{gateway: gateway, wsURL: wsURL, token: token, session: sc}
}

// Open loads the room's history and then opens the live channel. Any
// previously open channel is closed, and its reader drained, before the new
// dial happens.
func (s *Session) Open(ctx context.Context, roomID string) error {
	s.Close()

	history, err := s.gateway.FetchHistory(ctx, roomID)
	if err != nil {
		return &pipeline.FetchError{Op: "chat history", Err: err}
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.dialURL(roomID), nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.roomID = roomID
	s.conn = conn
	s.messages = history.Messages
	s.partnerName = history.PartnerName
	s.readerDone = make(chan struct{})
	done := s.readerDone
	s.mu.Unlock()

	go s.readLoop(conn, done)
	return nil
}

func (s *Session) dialURL(roomID string) string {
	return s.wsURL + "?roomId=" + roomID + "&token=" + s.token
}

// readLoop appends message frames in arrival order and surfaces error
// frames. It exits when the connection dies; there is no reconnection, so a
// dropped channel stays closed until the caller opens the room again.
func (s *Session) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)

	for {
		var frame models.Frame
		if err := conn.ReadJSON(&frame); err != nil {
			s.mu.Lock()
			if s.conn == conn {
				s.conn = nil
			}
			s.mu.Unlock()
			return
		}

		switch frame.Type {
		case models.FrameMessage:
			if frame.Data == nil {
				continue
			}
			s.mu.Lock()
			if s.conn == conn {
				// Appended after history, in arrival order. No re-sort:
				// out-of-order arrival stays out of order.
				s.messages = append(s.messages, *frame.Data)
			}
			s.mu.Unlock()
		case models.FrameError:
			if s.OnError != nil {
				s.OnError(frame.Message)
			}
		default:
			log.Printf("WARNING: Unknown frame type %q ignored", frame.Type)
		}
	}
}

// Send writes one frame with the given content. Empty or whitespace-only
// content produces no frame at all. If the channel is not open the message
// is dropped and the drop is reported, matching the no-queue contract.
func (s *Session) Send(content string) SendResult {
	if strings.TrimSpace(content) == "" {
		return SendSkippedEmpty
	}

	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		log.Printf("WARNING: Chat channel not ready, dropping message")
		return SendDroppedNotReady
	}

	if err := conn.WriteJSON(models.Outbound{Content: content}); err != nil {
		log.Printf("WARNING: Chat send failed, dropping message: %v", err)
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()
		return SendDroppedNotReady
	}
	return SendOK
}

// Messages returns the rendered sequence: history in ascending creation
// order followed by live messages in arrival order.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// PartnerName returns the other participant's display name, when the
// history endpoint provided one.
func (s *Session) PartnerName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.partnerName
}

// RoomID returns the room this session is currently bound to.
func (s *Session) RoomID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roomID
}

// Ready reports whether the live channel is open.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Close tears down the live channel, if any, and waits for its reader to
// finish so no frame from the old room is processed after Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	conn := s.conn
	done := s.readerDone
	s.conn = nil
	s.readerDone = nil
	s.roomID = ""
	s.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	if done != nil {
		<-done
	}
}
