package relay

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"chat-relay/internal/models"
)

// Conn is the writable side of one client connection.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Session is the per-connection state: the connection handle and the
// user bound to it after a successful auth. writeMu serializes frames
// because broadcasts run on the goroutines of other connections.
type Session struct {
	conn    Conn
	writeMu sync.Mutex
	user    *models.User
}

func (s *Session) send(payload []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}

// Registry tracks every live connection and its authentication state.
// Bind/unbind mutations are serialized under the registry lock;
// enumeration for broadcast sees a consistent snapshot.
type Registry struct {
	mu       sync.RWMutex
	gateway  CredentialGateway
	sessions map[Conn]*Session
}

// NewRegistry creates an empty registry backed by the given gateway.
func NewRegistry(gateway CredentialGateway) *Registry {
	return &Registry{
		gateway:  gateway,
		sessions: make(map[Conn]*Session),
	}
}

// Register adds a fresh, unauthenticated session for the connection.
func (r *Registry) Register(conn Conn) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess := &Session{conn: conn}
	r.sessions[conn] = sess
	return sess
}

// Authenticate resolves the token and binds the user to the session.
// An unknown token is a silent miss: the connection simply stays
// unauthenticated. A second auth on the same connection rebinds it.
func (r *Registry) Authenticate(ctx context.Context, conn Conn, token string) (models.User, bool) {
	user, err := r.gateway.ResolveToken(ctx, token)
	if err != nil {
		return models.User{}, false
	}

	r.mu.Lock()
	sess, ok := r.sessions[conn]
	if ok {
		sess.user = &user
	}
	r.mu.Unlock()
	if !ok {
		// Connection closed while the gateway call was in flight.
		return models.User{}, false
	}

	if err := r.gateway.SetOnline(ctx, user.Email); err != nil {
		return models.User{}, false
	}
	return user, true
}

// User returns the identity bound to the connection, if any.
func (r *Registry) User(conn Conn) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[conn]
	if !ok || sess.user == nil {
		return models.User{}, false
	}
	return *sess.user, true
}

// Unregister removes the connection and, when it was authenticated,
// flips the user offline. Returns the bound user so the caller can
// trigger the presence broadcast.
func (r *Registry) Unregister(ctx context.Context, conn Conn) (models.User, bool) {
	r.mu.Lock()
	sess, ok := r.sessions[conn]
	if ok {
		delete(r.sessions, conn)
	}
	r.mu.Unlock()
	if !ok || sess.user == nil {
		return models.User{}, false
	}

	user := *sess.user
	if err := r.gateway.SetOffline(ctx, user.Email); err != nil {
		return models.User{}, false
	}
	return user, true
}

// Sessions returns a snapshot of every live session for fan-out.
func (r *Registry) Sessions() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	return sessions
}

// Send marshals the event and writes it to the one connection.
func (r *Registry) Send(conn Conn, event any) error {
	r.mu.RLock()
	sess, ok := r.sessions[conn]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return sess.send(payload)
}

// OnlineUsers derives the presence snapshot from the gateway; the
// registry never caches it.
func (r *Registry) OnlineUsers(ctx context.Context) ([]models.OnlineUser, error) {
	usernames, err := r.gateway.ListOnlineUsernames(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]models.OnlineUser, 0, len(usernames))
	for _, name := range usernames {
		users = append(users, models.OnlineUser{Username: name})
	}
	return users, nil
}
