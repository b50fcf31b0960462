package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/relay"
)

// HistoryHandler serves room-scoped message history. Unlike the live
// broadcast, history is filtered by room.
type HistoryHandler struct {
	log *relay.Log
}

// NewHistoryHandler builds a HistoryHandler.
func NewHistoryHandler(log *relay.Log) *HistoryHandler {
	return &HistoryHandler{log: log}
}

// GetRoomMessages returns the room's messages in insertion order.
// Token gating happens in the auth middleware.
func (h *HistoryHandler) GetRoomMessages(c *gin.Context) {
	room := c.Param("room")
	c.JSON(http.StatusOK, h.log.ListByRoom(room))
}
