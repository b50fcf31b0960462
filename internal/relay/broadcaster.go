package relay

import (
	"encoding/json"
	"log"

	"chat-relay/internal/models"
	"chat-relay/internal/observability"
)

// Broadcaster fans events out to every live session. Payloads are
// marshaled once; a connection that fails the write is closed and
// skipped while the rest still receive the event. Its read loop
// observes the close and runs the normal disconnect path, so presence
// side effects are not duplicated here.
type Broadcaster struct {
	registry *Registry
}

// NewBroadcaster wraps the registry for fan-out.
func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// BroadcastMessage sends a freshly appended message to all connections,
// regardless of the room it was posted in.
func (b *Broadcaster) BroadcastMessage(msg Message) {
	b.fanOut(TypeMessage, MessageEvent{Type: TypeMessage, Data: msg})
}

// BroadcastUsers sends the presence snapshot to all connections.
func (b *Broadcaster) BroadcastUsers(users []models.OnlineUser) {
	b.fanOut(TypeUsers, UsersEvent{Type: TypeUsers, Data: users})
}

// BroadcastTyping relays a typing indicator to all connections.
func (b *Broadcaster) BroadcastTyping(username string, typing bool, room string) {
	b.fanOut(TypeTyping, TypingEvent{Type: TypeTyping, Username: username, Typing: typing, Room: room})
}

// BroadcastClear announces a room truncation to all connections.
func (b *Broadcaster) BroadcastClear(room string) {
	b.fanOut(TypeClear, ClearEvent{Type: TypeClear, Room: room})
}

func (b *Broadcaster) fanOut(eventType string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("broadcast marshal error: %v", err)
		return
	}
	observability.IncBroadcast(eventType)
	for _, sess := range b.registry.Sessions() {
		if err := sess.send(payload); err != nil {
			log.Printf("websocket write error: %v", err)
			sess.conn.Close()
		}
	}
}
