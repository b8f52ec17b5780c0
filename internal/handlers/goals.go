package handlers

import (
	"strings"

	"github.com/arnold/goalsetter/internal/models"
	"github.com/arnold/goalsetter/internal/services"
	"github.com/gofiber/fiber/v2"
)

const missingFieldsMessage = "All fields are required: title, description, targetDate, progress, status"

// GetGoals returns all goals, narrowed by the optional category, priority,
// status and search query parameters.
func (h *Handler) GetGoals(c *fiber.Ctx) error {
	criteria := services.FilterCriteria{
		Category: c.Query("category"),
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
	}
	if criteria == (services.FilterCriteria{}) {
		return ok(c, fiber.StatusOK, h.store.List())
	}
	return ok(c, fiber.StatusOK, h.store.Filter(criteria))
}

func (h *Handler) GetGoal(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid goal ID")
	}

	goal, err := h.store.Get(id)
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, fiber.StatusOK, goal)
}

func (h *Handler) CreateGoal(c *fiber.Ctx) error {
	var req models.GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if missing := req.Missing(); len(missing) > 0 {
		return fail(c, fiber.StatusBadRequest, missingFieldsMessage+" (missing: "+strings.Join(missing, ", ")+")")
	}

	goal, err := h.store.Create(req.Goal())
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, fiber.StatusCreated, goal)
}

func (h *Handler) UpdateGoal(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid goal ID")
	}
	if _, err := h.store.Get(id); err != nil {
		return h.storeError(c, err)
	}

	var req models.GoalRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if missing := req.Missing(); len(missing) > 0 {
		return fail(c, fiber.StatusBadRequest, missingFieldsMessage+" (missing: "+strings.Join(missing, ", ")+")")
	}

	goal, err := h.store.Update(id, req.Goal())
	if err != nil {
		return h.storeError(c, err)
	}
	return ok(c, fiber.StatusOK, goal)
}

func (h *Handler) DeleteGoal(c *fiber.Ctx) error {
	id, valid := paramID(c, "id")
	if !valid {
		return fail(c, fiber.StatusBadRequest, "Invalid goal ID")
	}

	deleted, err := h.store.Delete(id)
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Goal deleted successfully",
		"data":    deleted,
	})
}

// ClearGoals wipes the whole collection.
func (h *Handler) ClearGoals(c *fiber.Ctx) error {
	h.store.ClearAll()
	return c.JSON(fiber.Map{
		"success": true,
		"message": "All goals deleted",
	})
}
