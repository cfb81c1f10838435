package handlers

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"

	"github.com/ozanyurt/voice-campaign-service/internal/broadcast"
	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

// ProgressHandler bridges hub subscriptions onto websockets. Purely push:
// the client gets every event published while its connection is open and
// nothing that came before.
type ProgressHandler struct {
	hub *broadcast.Hub
}

func NewProgressHandler(hub *broadcast.Hub) *ProgressHandler {
	return &ProgressHandler{hub: hub}
}

// Stream godoc
// @Summary Campaign progress stream
// @Description Upgrades to a websocket and pushes human-readable campaign progress events
// @Tags progress
// @Router /api/v1/ws/campaign-progress [get]
func (h *ProgressHandler) Stream(c echo.Context) error {
	websocket.Handler(func(ws *websocket.Conn) {
		defer func() {
			if err := ws.Close(); err != nil {
				logger.Debugf("Failed to close progress websocket: %v", err)
			}
		}()

		sub := h.hub.Subscribe()
		defer h.hub.Unsubscribe(sub)

		logger.Debugf("Progress subscriber connected (%d total)", h.hub.SubscriberCount())

		for event := range sub.Events {
			if err := websocket.Message.Send(ws, event); err != nil {
				// Client went away; Unsubscribe drops us from the hub.
				logger.Debugf("Progress subscriber disconnected: %v", err)
				return
			}
		}
	}).ServeHTTP(c.Response(), c.Request())

	return nil
}
