package chathub

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"unicrew/backend/internal/models"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// WebSocketClient implements the chathub.Client interface on top of a
// gorilla/websocket connection.
type WebSocketClient struct {
	AccountID   string
	Role        string
	DisplayName string
	RoomID      string
	Conn        *websocket.Conn
	Hub         *Manager
	Send        chan models.Frame
}

func (c *WebSocketClient) GetAccountID() string                { return c.AccountID }
func (c *WebSocketClient) GetRole() string                     { return c.Role }
func (c *WebSocketClient) GetDisplayName() string              { return c.DisplayName }
func (c *WebSocketClient) GetRoomID() string                   { return c.RoomID }
func (c *WebSocketClient) GetSendChannel() chan<- models.Frame { return c.Send }

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// Close closes the Send channel, which stops the write pump. The read pump
// stops on its own when the connection is closed in its defer.
func (c *WebSocketClient) Close() {
	close(c.Send)
}

// readPump reads send frames off the connection and hands them to the hub.
// Blank content is dropped here as well, so a misbehaving client cannot
// persist empty messages.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.Hub.UnregisterCh <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}

		var out models.Outbound
		if err := json.Unmarshal(raw, &out); err != nil {
			log.Printf("Error decoding send frame from client %s: %v", c.AccountID, err)
			continue
		}

		content := strings.TrimSpace(out.Content)
		if content == "" {
			continue
		}

		c.Hub.IncomingCh <- Inbound{Client: c, Content: content}
	}
}

// writePump writes frames from the Send channel to the connection and keeps
// it alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(frame); err != nil {
				return
			}

			// Drain whatever else is already queued.
			n := len(c.Send)
			for i := 0; i < n; i++ {
				if err := c.Conn.WriteJSON(<-c.Send); err != nil {
					return
				}
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
