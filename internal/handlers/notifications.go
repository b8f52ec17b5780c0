package handlers

import (
	"strings"

	"github.com/arnold/goalsetter/internal/models"
	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns the in-process toast list, newest first
func (h *Handler) GetNotifications(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, h.toasts.List())
}

// DismissNotification removes a single toast
func (h *Handler) DismissNotification(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid notification ID")
	}
	if !h.toasts.Dismiss(id) {
		return fail(c, fiber.StatusNotFound, "Notification not found")
	}
	return c.JSON(fiber.Map{"success": true})
}

// RegisterDeviceToken saves the FCM token reminders are pushed to
func (h *Handler) RegisterDeviceToken(c *fiber.Ctx) error {
	var req models.RegisterDeviceTokenRequest
	if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return fail(c, fiber.StatusBadRequest, "Token is required")
	}

	if err := h.push.SetDeviceToken(req.Token); err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"pushEnabled": h.push.Enabled()},
	})
}
