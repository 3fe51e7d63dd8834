package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/ecocollect/waste-backend/db"
	"github.com/ecocollect/waste-backend/realtime"
	qt "github.com/frankban/quicktest"
	"github.com/gorilla/websocket"
)

// wsURL returns the WebSocket URL of the test server, optionally carrying
// the token query parameter.
func wsURL(token string) string {
	url := fmt.Sprintf("ws://%s:%d%s", testHost, testPort, wsEndpoint)
	if token != "" {
		url += "?token=" + token
	}
	return url
}

// readEvent reads one push notification from the connection with a deadline
// so a missing event fails the test instead of hanging it.
func readEvent(t *testing.T, conn *websocket.Conn) *realtime.Event {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(5 * time.Second)); err != nil {
		t.Fatalf("failed to set read deadline: %v", err)
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("failed to read websocket message: %v", err)
	}
	ev := &realtime.Event{}
	if err := json.Unmarshal(msg, ev); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	return ev
}

func TestWebsocketAuth(t *testing.T) {
	c := qt.New(t)
	// no token
	_, resp, err := websocket.DefaultDialer.Dial(wsURL(""), nil)
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(resp.StatusCode, qt.Equals, http.StatusUnauthorized)
	// garbage token
	_, resp, err = websocket.DefaultDialer.Dial(wsURL("not-a-token"), nil)
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(resp.StatusCode, qt.Equals, http.StatusUnauthorized)
}

func TestWebsocketPush(t *testing.T) {
	c := qt.New(t)
	login := registerTestUser(t, uniqueEmail("wsuser"), db.ResidentRole)
	other := registerTestUser(t, uniqueEmail("wsother"), db.ResidentRole)
	// connect with the token query parameter, as browsers do
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(login.Token), nil)
	c.Assert(err, qt.IsNil)
	defer func() { _ = conn.Close() }()
	// creating a request pushes an event into the owner's room
	req := createTestRequest(t, login.Token)
	ev := readEvent(t, conn)
	c.Assert(ev.Type, qt.Equals, realtime.EventRequestCreated)
	c.Assert(ev.Timestamp.IsZero(), qt.IsFalse)
	data := mustMarshal(ev.Data)
	pushed := &db.WasteRequest{}
	c.Assert(json.Unmarshal(data, pushed), qt.IsNil)
	c.Assert(pushed.ID, qt.Equals, req.ID)
	// events for other accounts never reach this room
	createTestRequest(t, other.Token)
	// broadcast events reach every client
	testBus.Publish(realtime.Event{Type: realtime.EventCollectorMoved})
	ev = readEvent(t, conn)
	c.Assert(ev.Type, qt.Equals, realtime.EventCollectorMoved)
}
