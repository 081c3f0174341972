package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/lexpage/landing-service/internal/auth"
	"github.com/lexpage/landing-service/internal/service"
	apperrors "github.com/lexpage/landing-service/pkg/util"
)

// ContentHandler serves site content to the public page and the admin panel.
type ContentHandler struct {
	content *service.ContentService
}

// NewContentHandler constructs handler.
func NewContentHandler(contentService *service.ContentService) *ContentHandler {
	return &ContentHandler{content: contentService}
}

// GetPublic GET /api/content/public/:siteId.
func (h *ContentHandler) GetPublic(c *fiber.Ctx) error {
	doc, err := h.content.GetPublic(c.UserContext(), siteIDParam(c))
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// GetAdmin GET /api/content/admin/:siteId.
func (h *ContentHandler) GetAdmin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	doc, err := h.content.GetAdmin(c.UserContext(), principal, siteIDParam(c))
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// PutAdmin PUT /api/content/admin/:siteId replaces the whole document.
func (h *ContentHandler) PutAdmin(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	doc, err := h.content.PutAdmin(c.UserContext(), principal, siteIDParam(c), c.Body())
	if err != nil {
		return err
	}
	return c.JSON(doc)
}

// siteIDParam copies the path value; the site id outlives the request as a store key.
func siteIDParam(c *fiber.Ctx) string {
	return utils.CopyString(c.Params("siteId"))
}
