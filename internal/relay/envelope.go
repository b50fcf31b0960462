package relay

import (
	"time"

	"chat-relay/internal/models"
)

// Envelope type tags shared by both directions of the wire protocol.
const (
	TypeAuth        = "auth"
	TypeAuthSuccess = "authSuccess"
	TypeMessage     = "message"
	TypeUsers       = "users"
	TypeTyping      = "typing"
	TypeClear       = "clear"
	TypeError       = "error"
)

// Inbound is one decoded client envelope. Type selects which of the
// remaining fields are meaningful; the router ignores the rest.
type Inbound struct {
	Type     string `json:"type"`
	Token    string `json:"token,omitempty"`
	Content  string `json:"content,omitempty"`
	Room     string `json:"room,omitempty"`
	IsFile   bool   `json:"isFile,omitempty"`
	FileType string `json:"fileType,omitempty"`
	Typing   bool   `json:"typing,omitempty"`
}

// Message is one chat log entry. Immutable once appended.
type Message struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	Room      string    `json:"room"`
	Timestamp time.Time `json:"timestamp"`
	IsFile    bool      `json:"isFile"`
	FileType  string    `json:"fileType"`
}

// AuthSuccessEvent is the reply to a successful auth envelope.
type AuthSuccessEvent struct {
	Type  string              `json:"type"`
	User  models.OnlineUser   `json:"user"`
	Users []models.OnlineUser `json:"users"`
	Rooms []string            `json:"rooms"`
}

// MessageEvent carries a freshly appended message to every connection.
type MessageEvent struct {
	Type string  `json:"type"`
	Data Message `json:"data"`
}

// UsersEvent is the presence snapshot broadcast.
type UsersEvent struct {
	Type string              `json:"type"`
	Data []models.OnlineUser `json:"data"`
}

// TypingEvent relays a typing indicator.
type TypingEvent struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Typing   bool   `json:"typing"`
	Room     string `json:"room"`
}

// ClearEvent announces a room truncation.
type ClearEvent struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// ErrorEvent is sent only to the connection that produced bad input.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
