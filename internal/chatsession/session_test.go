package chatsession_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"unicrew/backend/internal/chatsession"
	"unicrew/backend/internal/models"
	"unicrew/backend/internal/pipeline"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatServer is an in-process websocket endpoint. It records every
// connection and its query parameters, collects inbound frames, and lets a
// test push server frames onto the most recent connection.
type chatServer struct {
	t        *testing.T
	upgrader websocket.Upgrader
	inbound  chan models.Outbound

	mu      sync.Mutex
	conns   []*websocket.Conn
	queries []url.Values
}

func newChatServer(t *testing.T) (*chatServer, *httptest.Server) {
	cs := &chatServer{t: t, inbound: make(chan models.Outbound, 16)}
	server := httptest.NewServer(http.HandlerFunc(cs.handle))
	t.Cleanup(server.Close)
	return cs, server
}

func (cs *chatServer) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := cs.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cs.t.Errorf("upgrade failed: %v", err)
		return
	}
	cs.mu.Lock()
	cs.conns = append(cs.conns, conn)
	cs.queries = append(cs.queries, r.URL.Query())
	cs.mu.Unlock()

	for {
		var out models.Outbound
		if err := conn.ReadJSON(&out); err != nil {
			return
		}
		cs.inbound <- out
	}
}

func (cs *chatServer) push(frame models.Frame) {
	cs.mu.Lock()
	conn := cs.conns[len(cs.conns)-1]
	cs.mu.Unlock()
	require.NoError(cs.t, conn.WriteJSON(frame))
}

func (cs *chatServer) connCount() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.conns)
}

// waitConns blocks until the server has registered n connections. The
// handler registers after the handshake, so a dial returning on the client
// side does not guarantee the server side is visible yet.
func (cs *chatServer) waitConns(n int) {
	require.Eventually(cs.t, func() bool { return cs.connCount() >= n }, time.Second, 5*time.Millisecond)
}

func (cs *chatServer) query(i int) url.Values {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.queries[i]
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// historyGateway serves canned per-room history; the rest of the surface is
// never reached from a chat session.
type historyGateway struct {
	history map[string]models.HistoryResponse
	err     error
}

func (g *historyGateway) FetchHistory(ctx context.Context, roomID string) (models.HistoryResponse, error) {
	if g.err != nil {
		return models.HistoryResponse{}, g.err
	}
	return g.history[roomID], nil
}

func (g *historyGateway) FetchApplicants(ctx context.Context, jobID string) ([]models.Application, error) {
	return nil, nil
}

func (g *historyGateway) UpdateStatuses(ctx context.Context, jobID string, userIDs []string, target models.Status) error {
	return nil
}

func (g *historyGateway) EndApplication(ctx context.Context, applicationID string) error { return nil }

func (g *historyGateway) SubmitReview(ctx context.Context, applicationID string, rating int, comment string) error {
	return nil
}

func (g *historyGateway) FetchPendingReviews(ctx context.Context) ([]models.Application, error) {
	return nil, nil
}

var userSession = pipeline.SessionContext{ID: "user-1", Role: models.RoleUser, DisplayName: "Dana"}

func contents(messages []models.Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.Content
	}
	return out
}

func TestSession_HistoryThenLiveOrdering(t *testing.T) {
	cs, server := newChatServer(t)
	gw := &historyGateway{history: map[string]models.HistoryResponse{
		"room-1": {
			Messages:    []models.Message{{ChatRoomID: "room-1", Content: "m1"}},
			PartnerName: "Acme",
		},
	}}

	session := chatsession.New(gw, wsURL(server), "tok", userSession)
	defer session.Close()

	require.NoError(t, session.Open(context.Background(), "room-1"))
	assert.Equal(t, "room-1", session.RoomID())
	assert.Equal(t, "Acme", session.PartnerName())
	assert.True(t, session.Ready())

	cs.waitConns(1)
	q := cs.query(0)
	assert.Equal(t, "room-1", q.Get("roomId"))
	assert.Equal(t, "tok", q.Get("token"))

	cs.push(models.Frame{Type: models.FrameMessage, Data: &models.Message{ChatRoomID: "room-1", Content: "m2"}})
	cs.push(models.Frame{Type: models.FrameMessage, Data: &models.Message{ChatRoomID: "room-1", Content: "m3"}})

	require.Eventually(t, func() bool {
		return len(session.Messages()) == 3
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"m1", "m2", "m3"}, contents(session.Messages()),
		"history first, then live frames in arrival order")
}

func TestSession_ErrorFrameLeavesMessagesUntouched(t *testing.T) {
	cs, server := newChatServer(t)
	gw := &historyGateway{history: map[string]models.HistoryResponse{
		"room-1": {Messages: []models.Message{{Content: "m1"}}},
	}}

	session := chatsession.New(gw, wsURL(server), "tok", userSession)
	defer session.Close()
	errCh := make(chan string, 1)
	session.OnError = func(message string) { errCh <- message }

	require.NoError(t, session.Open(context.Background(), "room-1"))
	cs.waitConns(1)
	cs.push(models.Frame{Type: models.FrameError, Message: "failed to save message"})

	select {
	case got := <-errCh:
		assert.Equal(t, "failed to save message", got)
	case <-time.After(time.Second):
		t.Fatal("error frame was not surfaced")
	}
	assert.Equal(t, []string{"m1"}, contents(session.Messages()), "error frames never enter the list")
	assert.True(t, session.Ready(), "error frames do not close the channel")
}

func TestSession_SendEmptyProducesNoFrame(t *testing.T) {
	cs, server := newChatServer(t)
	gw := &historyGateway{}

	session := chatsession.New(gw, wsURL(server), "tok", userSession)
	defer session.Close()
	require.NoError(t, session.Open(context.Background(), "room-1"))

	assert.Equal(t, chatsession.SendSkippedEmpty, session.Send(""))
	assert.Equal(t, chatsession.SendSkippedEmpty, session.Send("   \t\n"))
	assert.Equal(t, chatsession.SendOK, session.Send("real"))

	// Frames arrive in write order: if the blanks had produced frames they
	// would land before this one.
	select {
	case got := <-cs.inbound:
		assert.Equal(t, "real", got.Content)
	case <-time.After(time.Second):
		t.Fatal("outbound frame never arrived")
	}
	select {
	case got := <-cs.inbound:
		t.Fatalf("unexpected extra frame %q", got.Content)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSession_SendWhileNotReadyIsDropped(t *testing.T) {
	gw := &historyGateway{}
	session := chatsession.New(gw, "ws://unused", "tok", userSession)

	assert.Equal(t, chatsession.SendDroppedNotReady, session.Send("hello"))
}

func TestSession_RoomSwitchTearsDownOldChannel(t *testing.T) {
	cs, server := newChatServer(t)
	gw := &historyGateway{history: map[string]models.HistoryResponse{
		"room-1": {Messages: []models.Message{{Content: "old-1"}}},
		"room-2": {Messages: []models.Message{{Content: "new-1"}}, PartnerName: "Beta"},
	}}

	session := chatsession.New(gw, wsURL(server), "tok", userSession)
	defer session.Close()

	require.NoError(t, session.Open(context.Background(), "room-1"))
	cs.waitConns(1)
	cs.push(models.Frame{Type: models.FrameMessage, Data: &models.Message{Content: "old-2"}})
	require.Eventually(t, func() bool {
		return len(session.Messages()) == 2
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, session.Open(context.Background(), "room-2"))
	cs.waitConns(2)

	assert.Equal(t, "room-2", session.RoomID())
	assert.Equal(t, "Beta", session.PartnerName())
	assert.Equal(t, []string{"new-1"}, contents(session.Messages()),
		"the old room's messages are gone with its channel")
	assert.Equal(t, 2, cs.connCount(), "one connection per room, opened in turn")

	cs.push(models.Frame{Type: models.FrameMessage, Data: &models.Message{Content: "new-2"}})
	require.Eventually(t, func() bool {
		return len(session.Messages()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"new-1", "new-2"}, contents(session.Messages()))
}

func TestSession_OpenFailsWhenHistoryUnavailable(t *testing.T) {
	cs, server := newChatServer(t)
	gw := &historyGateway{err: errors.New("503")}

	session := chatsession.New(gw, wsURL(server), "tok", userSession)
	err := session.Open(context.Background(), "room-1")

	var fetchErr *pipeline.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.False(t, session.Ready())
	assert.Zero(t, cs.connCount(), "no dial happens when history cannot be loaded")
}

func TestSession_CloseEndsTheChannel(t *testing.T) {
	_, server := newChatServer(t)
	gw := &historyGateway{}

	session := chatsession.New(gw, wsURL(server), "tok", userSession)
	require.NoError(t, session.Open(context.Background(), "room-1"))
	require.True(t, session.Ready())

	session.Close()

	assert.False(t, session.Ready())
	assert.Empty(t, session.RoomID())
	assert.Equal(t, chatsession.SendDroppedNotReady, session.Send("hello"))
}
