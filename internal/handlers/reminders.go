package handlers

import (
	"github.com/arnold/goalsetter/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateReminder(c *fiber.Ctx) error {
	goalID, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid goal ID")
	}

	var req models.CreateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	message := ""
	if req.Message != nil {
		message = *req.Message
	}
	rem, err := h.store.AddReminder(goalID, req.Time, message)
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, fiber.StatusCreated, rem)
}

// DeleteReminder is idempotent: removing an unknown reminder succeeds.
func (h *Handler) DeleteReminder(c *fiber.Ctx) error {
	goalID, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid goal ID")
	}
	reminderID, valid := paramID(c, "reminderId")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid reminder ID")
	}

	if err := h.store.RemoveReminder(goalID, reminderID); err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Reminder removed",
	})
}

func (h *Handler) MarkReminderNotified(c *fiber.Ctx) error {
	goalID, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid goal ID")
	}
	reminderID, valid := paramID(c, "reminderId")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid reminder ID")
	}

	if err := h.store.MarkNotified(goalID, reminderID); err != nil {
		return h.storeError(c, err)
	}
	goal, err := h.store.Get(goalID)
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, fiber.StatusOK, goal)
}
