package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"chat-relay/internal/observability"
	"chat-relay/internal/relay"
)

const eventsRoutingKey = "ws_events.relay"

// RelayHandler upgrades HTTP requests to the relay's single websocket
// endpoint. Connections start unauthenticated; the auth envelope is
// handled by the router, not the handshake.
type RelayHandler struct {
	router   *relay.Router
	registry *relay.Registry
}

// NewRelayHandler constructs a RelayHandler.
func NewRelayHandler(router *relay.Router, registry *relay.Registry) *RelayHandler {
	return &RelayHandler{router: router, registry: registry}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection, registers the session, and runs the
// read loop. Envelopes from one connection are processed in order; the
// loop goroutine is the connection's only reader.
func (h *RelayHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("chat-relay/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}

	h.registry.Register(conn)
	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	publishConnEvent(ctx, "ws_connect", info, "")

	go func() {
		var closeReason string
		defer func() {
			h.router.Disconnect(context.Background(), conn)
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			publishConnEvent(ctx, "ws_disconnect", info, closeReason)
			conn.Close()
		}()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
					publishConnEvent(ctx, "ws_error", info, closeReason)
				}
				return
			}
			h.router.Handle(context.Background(), conn, raw)
		}
	}()
}

func publishConnEvent(ctx context.Context, event string, info ConnInfo, reason string) {
	_ = observability.PublishEvent(ctx, eventsRoutingKey, observability.EventEnvelope{
		EventType: "ws_events",
		EventName: event,
		Payload: map[string]interface{}{
			"ws": map[string]interface{}{
				"event":       event,
				"conn_id":     info.ConnID,
				"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
				"reason":      reason,
			},
			"identity": map[string]interface{}{
				"device_id": info.DeviceID,
				"ip":        info.IP,
			},
		},
	}, observability.BuildHeaders(info.RequestID, info.TraceID))
}
