package controller

import (
	"errors"

	"pdf-insight-be/internal/dto"
	"pdf-insight-be/internal/pkg/serverutils"
	"pdf-insight-be/internal/service"
	"pdf-insight-be/pkg/chatsession"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/documents/:documentId/start", c.Start)
	h.Post("/sessions/:sessionId/messages", c.Send)
	h.Get("/sessions/:sessionId/messages", c.History)
	h.Delete("/sessions/:sessionId", c.Close)
}

func (c *chatController) Start(ctx *fiber.Ctx) error {
	userID, userEmail, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	documentID, err := uuid.Parse(ctx.Params("documentId"))
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "Invalid document id")
	}

	res, err := c.service.Start(ctx.UserContext(), userID, userEmail, documentID)
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusNotFound, err.Error())
	}
	return serverutils.OK(ctx, "Chat session started", res)
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	userID, userEmail, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	res, err := c.service.Send(ctx.UserContext(), userID, userEmail, ctx.Params("sessionId"), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return serverutils.Fail(ctx, fiber.StatusNotFound, err.Error())
		case errors.Is(err, chatsession.ErrBusy):
			return serverutils.Fail(ctx, fiber.StatusConflict, err.Error())
		case errors.Is(err, chatsession.ErrEmptyMessage), errors.Is(err, chatsession.ErrNoIdentity):
			return serverutils.Fail(ctx, fiber.StatusBadRequest, err.Error())
		}
		return err
	}
	return serverutils.OK(ctx, "Message sent", res)
}

func (c *chatController) History(ctx *fiber.Ctx) error {
	_, userEmail, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.History(ctx.UserContext(), userEmail, ctx.Params("sessionId"))
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusNotFound, err.Error())
	}
	return serverutils.OK(ctx, "Chat history fetched", res)
}

func (c *chatController) Close(ctx *fiber.Ctx) error {
	_, userEmail, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Close(ctx.UserContext(), userEmail, ctx.Params("sessionId")); err != nil {
		return serverutils.Fail(ctx, fiber.StatusNotFound, err.Error())
	}
	return serverutils.OK[any](ctx, "Chat session closed", nil)
}
