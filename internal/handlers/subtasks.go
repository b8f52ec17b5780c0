package handlers

import (
	"github.com/arnold/goalsetter/internal/models"
	"github.com/gofiber/fiber/v2"
)

func (h *Handler) CreateSubTask(c *fiber.Ctx) error {
	goalID, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid goal ID")
	}

	var req models.CreateSubTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	sub, err := h.store.AddSubTask(goalID, req.Title)
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, fiber.StatusCreated, sub)
}

func (h *Handler) ToggleSubTask(c *fiber.Ctx) error {
	goalID, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid goal ID")
	}
	subTaskID, valid := paramID(c, "subTaskId")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid sub-task ID")
	}

	goal, err := h.store.ToggleSubTask(goalID, subTaskID)
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, fiber.StatusOK, goal)
}

func (h *Handler) DeleteSubTask(c *fiber.Ctx) error {
	goalID, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid goal ID")
	}
	subTaskID, valid := paramID(c, "subTaskId")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid sub-task ID")
	}

	goal, err := h.store.RemoveSubTask(goalID, subTaskID)
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, fiber.StatusOK, goal)
}
