package relay

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"chat-relay/internal/models"
)

// Router interprets inbound envelopes and invokes the matching
// behavior. Each envelope produces at most one log mutation and at
// most one broadcast; unauthenticated attempts are dropped silently.
type Router struct {
	registry    *Registry
	log         *Log
	broadcaster *Broadcaster
}

// NewRouter wires the dispatcher to its collaborators.
func NewRouter(registry *Registry, messageLog *Log, broadcaster *Broadcaster) *Router {
	return &Router{
		registry:    registry,
		log:         messageLog,
		broadcaster: broadcaster,
	}
}

// Handle processes one raw frame from the connection. Unparseable
// input earns an error reply to the sender only; an unknown type is
// dropped without reply or mutation.
func (rt *Router) Handle(ctx context.Context, conn Conn, raw []byte) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		if err := rt.registry.Send(conn, ErrorEvent{Type: TypeError, Message: "Invalid JSON"}); err != nil {
			log.Printf("error reply failed: %v", err)
		}
		return
	}

	switch in.Type {
	case TypeAuth:
		rt.handleAuth(ctx, conn, in)
	case TypeMessage:
		rt.handleMessage(conn, in)
	case TypeTyping:
		rt.handleTyping(conn, in)
	case TypeClear:
		rt.handleClear(conn, in)
	default:
		// Unknown type: dropped.
	}
}

// Disconnect runs the terminal cleanup for a connection. Closing an
// authenticated connection flips the user offline and re-broadcasts
// presence; an unauthenticated close is a no-op beyond removal.
func (rt *Router) Disconnect(ctx context.Context, conn Conn) {
	if _, ok := rt.registry.Unregister(ctx, conn); !ok {
		return
	}
	rt.broadcastUsers(ctx)
}

func (rt *Router) handleAuth(ctx context.Context, conn Conn, in Inbound) {
	user, ok := rt.registry.Authenticate(ctx, conn, in.Token)
	if !ok {
		return
	}

	online, err := rt.registry.OnlineUsers(ctx)
	if err != nil {
		log.Printf("presence lookup failed: %v", err)
	}
	reply := AuthSuccessEvent{
		Type:  TypeAuthSuccess,
		User:  models.OnlineUser{Username: user.Username},
		Users: online,
		Rooms: Rooms,
	}
	if err := rt.registry.Send(conn, reply); err != nil {
		log.Printf("authSuccess reply failed: %v", err)
	}
	rt.broadcastUsers(ctx)
}

func (rt *Router) handleMessage(conn Conn, in Inbound) {
	user, ok := rt.registry.User(conn)
	if !ok {
		return
	}

	room := in.Room
	if room == "" {
		room = DefaultRoom
	}
	msg := Message{
		ID:        uuid.NewString(),
		Sender:    user.Username,
		Content:   in.Content,
		Room:      room,
		Timestamp: time.Now().UTC(),
		IsFile:    in.IsFile,
		FileType:  in.FileType,
	}
	rt.log.Append(msg)
	rt.broadcaster.BroadcastMessage(msg)
}

func (rt *Router) handleTyping(conn Conn, in Inbound) {
	user, ok := rt.registry.User(conn)
	if !ok {
		return
	}
	rt.broadcaster.BroadcastTyping(user.Username, in.Typing, in.Room)
}

func (rt *Router) handleClear(conn Conn, in Inbound) {
	if _, ok := rt.registry.User(conn); !ok {
		return
	}
	rt.log.ClearRoom(in.Room)
	rt.broadcaster.BroadcastClear(in.Room)
}

func (rt *Router) broadcastUsers(ctx context.Context) {
	online, err := rt.registry.OnlineUsers(ctx)
	if err != nil {
		log.Printf("presence lookup failed: %v", err)
		return
	}
	rt.broadcaster.BroadcastUsers(online)
}
