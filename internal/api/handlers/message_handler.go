package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/manjeet0006/FoodShare/domain"
	"github.com/manjeet0006/FoodShare/internal/api/presenters"
	"github.com/manjeet0006/FoodShare/pkg/message"
)

type (
	MessageHandler interface {
		SendMessage(c *fiber.Ctx) error
		GetMessages(c *fiber.Ctx) error
		GetConversations(c *fiber.Ctx) error
	}

	messageHandler struct {
		messageService message.MessageService
		validator      *validator.Validate
	}
)

func NewMessageHandler(messageService message.MessageService, validator *validator.Validate) MessageHandler {
	return &messageHandler{
		messageService: messageService,
		validator:      validator,
	}
}

func (h *messageHandler) SendMessage(c *fiber.Ctx) error {
	senderID := c.Locals("user_id").(string)

	req := new(domain.SendMessageRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendMessage, err)
	}

	res, err := h.messageService.SendMessage(c.Context(), *req, senderID)
	if err != nil {
		if errors.Is(err, domain.ErrParseUUID) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSendMessage, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSendMessage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSendMessage)
}

func (h *messageHandler) GetMessages(c *fiber.Ctx) error {
	res, err := h.messageService.GetMessages(c.Context(), c.Params("donationId"))
	if err != nil {
		if errors.Is(err, domain.ErrParseUUID) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMessages, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetMessages, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMessages)
}

func (h *messageHandler) GetConversations(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.messageService.GetConversations(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetConversations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetConversations)
}
