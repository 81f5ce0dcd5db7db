package handler

import (
	"devmarket/internal/middleware"
	"devmarket/internal/model"
	"devmarket/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type WSHandler struct {
	hub *ws.Hub
}

func NewWSHandler(hub *ws.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

// Upgrade rejects plain HTTP requests on the websocket route
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Handler registers the connection for the authenticated user and keeps it open until the client leaves
func (h *WSHandler) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		userID := actorFromConn(c)
		if userID == 0 {
			c.Close()
			return
		}

		client := &ws.Client{UserID: userID, Conn: c}
		h.hub.Register <- client
		defer func() { h.hub.Unregister <- client }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}

// actorFromConn reads the user id RequireAuth stored before the upgrade
func actorFromConn(c *websocket.Conn) uint {
	a, ok := c.Locals(middleware.ActorKey).(model.Actor)
	if !ok {
		return 0
	}
	return a.UserID
}

// Presence reports whether a chat partner currently has a live connection
// GET /api/v1/messages/presence/:userId
func (h *WSHandler) Presence(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	return c.JSON(fiber.Map{"user_id": userID, "online": h.hub.IsOnline(userID)})
}
