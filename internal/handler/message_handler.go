package handler

import (
	"devmarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MessageHandler struct {
	service service.MessageService
}

func NewMessageHandler(s service.MessageService) *MessageHandler {
	return &MessageHandler{service: s}
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Message    string `json:"message"`
	ProductID  *uint  `json:"product_id"`
}

// POST /api/v1/messages
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid JSON"})
	}

	msg, err := h.service.SendMessage(actor(c).UserID, req.ReceiverID, req.Message, req.ProductID)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{
		"success":    true,
		"message_id": msg.ID,
		"created_at": msg.CreatedAt,
	})
}

// FetchNew is the polling endpoint for one conversation
// GET /api/v1/messages/:userId?since=<last id>
func (h *MessageHandler) FetchNew(c *fiber.Ctx) error {
	otherID, err := paramID(c, "userId")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "error": "Invalid user ID"})
	}

	messages, err := h.service.FetchNewMessages(actor(c).UserID, otherID, queryUint(c, "since"))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "messages": messages})
}

// GET /api/v1/messages/conversations
func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	conversations, err := h.service.ListConversations(actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"data": conversations})
}

// GET /api/v1/messages/unread-count
func (h *MessageHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.service.UnreadCount(actor(c).UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}
