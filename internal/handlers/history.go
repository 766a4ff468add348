package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/campusgrid/campus-chat/internal/repository"
	"github.com/campusgrid/campus-chat/internal/service"
)

type HistoryHandler struct {
	chat          *service.ChatService
	conversations repository.ConversationRepo
	log           *zap.SugaredLogger
}

func NewHistoryHandler(chat *service.ChatService, conversations repository.ConversationRepo, log *zap.SugaredLogger) *HistoryHandler {
	return &HistoryHandler{chat: chat, conversations: conversations, log: log}
}

// Messages serves GET /conversations/:id/messages?cursor=<msgID>&limit=n,
// newest first. The requester must belong to the conversation's college.
func (h *HistoryHandler) Messages(c *fiber.Ctx) error {
	ident, ok := identityFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}
	id := c.Params("id")

	conv, err := h.conversations.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "conversation not found"})
		}
		h.log.Errorw("get conversation", "id", id, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}
	if conv.CollegeID != ident.CollegeID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	}

	cursor := c.Query("cursor")
	limit := int64(c.QueryInt("limit", repository.DefaultPageSize))
	msgs, err := h.chat.History(c.Context(), conv.ID, cursor, limit)
	if err != nil {
		h.log.Errorw("list messages", "conversation", conv.ID, "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	next := ""
	if int64(len(msgs)) == limit {
		next = msgs[len(msgs)-1].ID
	}
	return c.JSON(fiber.Map{"messages": msgs, "next_cursor": next})
}
