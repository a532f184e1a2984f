package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Akki1725/socially/internal/identity"
	"github.com/Akki1725/socially/internal/repository"
	"github.com/Akki1725/socially/internal/service"
)

func statusForErr(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyText),
		errors.Is(err, service.ErrSelfChat),
		errors.Is(err, repository.ErrEmptyMessage),
		errors.Is(err, repository.ErrInvalidParticipants):
		return fiber.StatusBadRequest
	case errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, repository.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateConversation):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func (s *Server) fail(c *fiber.Ctx, err error) error {
	status := statusForErr(err)
	if status == fiber.StatusInternalServerError {
		s.log.Errorw("request failed", "path", c.Path(), "err", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// GET /api/chats
func (s *Server) listChats(c *fiber.Ctx) error {
	sums, err := s.svc.ListConversations(c.Context(), currentUser(c))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(sums)
}

// GET /api/chats/:otherUserId
func (s *Server) getChat(c *fiber.Ctx) error {
	detail, err := s.svc.GetOrCreateConversation(c.Context(), currentUser(c), c.Params("otherUserId"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(detail)
}

type sendMessageReq struct {
	Text string `json:"text"`
}

// POST /api/chats/:otherUserId/messages
func (s *Server) sendMessage(c *fiber.Ctx) error {
	var req sendMessageReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	msg, err := s.svc.SendMessage(c.Context(), currentUser(c), c.Params("otherUserId"), req.Text)
	if err != nil {
		return s.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GET /api/users/:userId
func (s *Server) getUser(c *fiber.Ctx) error {
	profile, err := s.users.Lookup(c.Context(), c.Params("userId"))
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(profile)
}
