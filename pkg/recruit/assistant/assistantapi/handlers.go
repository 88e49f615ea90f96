package assistantapi

import (
	"github.com/Abraxas-365/hireflow/pkg/iam/auth"
	"github.com/Abraxas-365/hireflow/pkg/iam/scopes"
	"github.com/Abraxas-365/hireflow/pkg/recruit/assistant"
	"github.com/gofiber/fiber/v2"
)

type AssistantHandlers struct {
	service *assistant.Service
}

func NewAssistantHandlers(service *assistant.Service) *AssistantHandlers {
	return &AssistantHandlers{service: service}
}

func (h *AssistantHandlers) RegisterRoutes(router fiber.Router, authMiddleware *auth.Middleware) {
	group := router.Group("/assistant",
		authMiddleware.Authenticate(),
		authMiddleware.RequireScope(scopes.ScopeAssistantUse),
	)

	group.Post("/chat", h.Chat)
	group.Delete("/conversations/:id", h.ResetConversation)
}

type chatRequest struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

func (h *AssistantHandlers) Chat(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}

	answer, err := h.service.Ask(c.UserContext(), authContext, req.ConversationID, req.Message)
	if err != nil {
		return err
	}
	return c.JSON(answer)
}

func (h *AssistantHandlers) ResetConversation(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return fiber.ErrUnauthorized
	}

	if err := h.service.Reset(c.UserContext(), authContext, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
