package realtime

import (
	"time"

	"github.com/ecocollect/waste-backend/internal"
)

// Event types pushed to connected clients.
const (
	EventRequestCreated   = "request:created"
	EventRequestUpdated   = "request:updated"
	EventRequestCancelled = "request:cancelled"
	EventCollectorMoved   = "collector:location"
	EventExpenseCreated   = "expense:created"
)

// Event is a single push notification. An empty Room broadcasts to every
// connected client, otherwise only members of that room receive it.
type Event struct {
	Type      string    `json:"type"`
	Room      string    `json:"-"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// UserRoom is the private room of any account.
func UserRoom(id internal.ObjectID) string {
	return "user:" + id.Hex()
}

// BusinessRoom is the room joined by business accounts only.
func BusinessRoom(id internal.ObjectID) string {
	return "business:" + id.Hex()
}

// CollectorRoom is the room joined by collector accounts only.
func CollectorRoom(id internal.ObjectID) string {
	return "collector:" + id.Hex()
}
