package handler

import (
	"errors"
	"net/http"

	"unicrew/backend/internal/chathub"
	"unicrew/backend/internal/models"
	"unicrew/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GetMessages returns the room's full history, oldest first, plus the
// display name of the other participant.
func (h *Handler) GetMessages(c *gin.Context) {
	room, err := h.Storage.GetRoomByID(c.Param("roomId"))
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat room"})
		return
	}

	accountID := c.GetString(ctxAccountID)
	if !room.HasParticipant(accountID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this room"})
		return
	}

	history, err := h.Storage.GetChatHistory(room.RoomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	messages := make([]models.Message, 0, len(history))
	for i := range history {
		messages = append(messages, history[i].ToMessage())
	}
	c.JSON(http.StatusOK, models.HistoryResponse{
		Messages:    messages,
		PartnerName: room.PartnerName(accountID),
	})
}

// ServeWebSocket upgrades the connection and binds it to the requested chat
// room for the rest of its lifetime. Identity comes from the bearer token
// the auth middleware already validated (the handshake carries it as a
// query parameter).
func (h *Handler) ServeWebSocket(c *gin.Context) {
	roomID := c.Query("roomId")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}

	room, err := h.Storage.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, storage.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat room"})
		return
	}

	accountID := c.GetString(ctxAccountID)
	if !room.HasParticipant(accountID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this room"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := &chathub.WebSocketClient{
		Hub:         h.Hub,
		AccountID:   accountID,
		Role:        c.GetString(ctxRole),
		DisplayName: c.GetString(ctxDisplayName),
		RoomID:      room.RoomID,
		Conn:        conn,
		Send:        make(chan models.Frame, 256),
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
