package relay

import "sync"

// Log is the in-memory, append-only message history. It only grows by
// single appends or shrinks by whole-room truncation, and it does not
// survive the process.
type Log struct {
	mu       sync.Mutex
	messages []Message
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Append adds one message to the end of the log.
func (l *Log) Append(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

// ListByRoom returns the room's messages in insertion order.
func (l *Log) ListByRoom(room string) []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]Message, 0)
	for _, msg := range l.messages {
		if msg.Room == room {
			result = append(result, msg)
		}
	}
	return result
}

// ClearRoom drops every message belonging to the room. Messages of
// other rooms keep their relative order.
func (l *Log) ClearRoom(room string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.messages[:0]
	for _, msg := range l.messages {
		if msg.Room != room {
			kept = append(kept, msg)
		}
	}
	l.messages = kept
}
