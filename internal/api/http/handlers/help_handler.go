package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lexpage/landing-service/internal/api/dto"
	"github.com/lexpage/landing-service/internal/auth"
	"github.com/lexpage/landing-service/internal/service"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

// HelpHandler exposes the help widget endpoints.
type HelpHandler struct {
	help *service.HelpService
}

// NewHelpHandler constructs handler.
func NewHelpHandler(helpService *service.HelpService) *HelpHandler {
	return &HelpHandler{help: helpService}
}

// SearchFaqs GET /api/help/faq.
func (h *HelpHandler) SearchFaqs(c *fiber.Ctx) error {
	faqs, err := h.help.SearchFaqs(c.UserContext(), service.FaqQuery{
		Q:        c.Query("q"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", service.DefaultFaqPageSize),
	})
	if err != nil {
		return err
	}
	return c.JSON(faqs)
}

// CreateFaq POST /api/help/faq.
func (h *HelpHandler) CreateFaq(c *fiber.Ctx) error {
	var req service.FaqInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	faq, err := h.help.CreateFaq(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(faq)
}

// CreateTicket POST /api/help/ticket.
func (h *HelpHandler) CreateTicket(c *fiber.Ctx) error {
	var req service.TicketInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.help.CreateTicket(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(ticket)
}

// CreateChatSession POST /api/help/chat/session. A bearer token, when sent and
// valid, ties the session to that admin.
func (h *HelpHandler) CreateChatSession(c *fiber.Ctx) error {
	var userID *string
	if principal, ok := auth.PrincipalFromContext(c); ok {
		id := principal.ID
		userID = &id
	}
	session, err := h.help.CreateChatSession(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ChatSessionResponse{SessionID: session.ID})
}

// SendChatMessage POST /api/help/chat/message.
func (h *HelpHandler) SendChatMessage(c *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	reply, err := h.help.SendChatMessage(c.UserContext(), req.SessionID, req.UserMsg)
	if err != nil {
		return err
	}
	return c.JSON(dto.ChatReplyResponse{Reply: reply})
}

// ChatHistory GET /api/help/chat/:sessionId.
func (h *HelpHandler) ChatHistory(c *fiber.Ctx) error {
	messages, err := h.help.ChatHistory(c.UserContext(), c.Params("sessionId"))
	if err != nil {
		return err
	}
	return c.JSON(messages)
}

// MetricsSummary GET /api/help/metrics/summary.
func (h *HelpHandler) MetricsSummary(c *fiber.Ctx) error {
	summary, err := h.help.MetricsSummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
