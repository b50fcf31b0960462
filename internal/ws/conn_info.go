package ws

import "time"

// ConnInfo carries per-connection telemetry identity. The user is not
// known at upgrade time; authentication happens over the socket.
type ConnInfo struct {
	ConnID      string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}
