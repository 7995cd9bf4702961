package handlers

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/cindypham04/engrave/pkg/logging"
	"github.com/cindypham04/engrave/platform/events"
)

type WSHandler struct {
	eventPublisher *events.EventPublisher
}

func NewWSHandler(eventPublisher *events.EventPublisher) *WSHandler {
	return &WSHandler{eventPublisher: eventPublisher}
}

func (h *WSHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.Status(400).JSON(fiber.Map{"error": "Not a websocket request"})
}

// HandleLifecycleEvents streams annotation and thread lifecycle events
// for one file to a connected view.
func (h *WSHandler) HandleLifecycleEvents(c *websocket.Conn) {
	fileID := c.Params("file_id")

	logging.Logger.Info("WebSocket connected", "fileID", fileID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventChan, err := h.eventPublisher.SubscribeLifecycleEvents(ctx)
	if err != nil {
		logging.Logger.Error("Failed to subscribe to events", "error", err)
		err := c.WriteMessage(websocket.TextMessage, []byte(`{"error":"Failed to subscribe"}`))
		if err != nil {
			return
		}
		return
	}
	err = c.WriteJSON(fiber.Map{
		"type":    "connected",
		"message": "WebSocket connected successfully",
		"file_id": fileID,
	})
	if err != nil {
		return
	}

	for {
		select {
		case event := <-eventChan:
			if event == nil {
				return
			}
			if event.FileID != fileID {
				continue
			}
			data, _ := json.Marshal(event)
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				logging.Logger.Error("Failed to send WebSocket message", "error", err)
				return
			}

			logging.Logger.Info("Event sent to client",
				"type", event.Type,
				"fileID", event.FileID,
			)

		case <-ctx.Done():
			return
		}
	}
}
