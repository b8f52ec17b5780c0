package handlers

import (
	"errors"
	"strconv"

	"github.com/arnold/goalsetter/internal/middleware"
	"github.com/arnold/goalsetter/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the HTTP API over one goal store.
type Handler struct {
	store  *services.GoalStore
	toasts *services.ToastService
	push   *services.PushService
	hub    *Hub
	log    *zap.SugaredLogger
}

func New(store *services.GoalStore, toasts *services.ToastService, push *services.PushService, hub *Hub, log *zap.SugaredLogger) *Handler {
	return &Handler{store: store, toasts: toasts, push: push, hub: hub, log: log}
}

// ok writes the {success: true, data} envelope.
func ok(c *fiber.Ctx, status int, data interface{}) error {
	body := fiber.Map{"success": true}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// fail writes the {success: false, message} envelope.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// storeError maps store errors onto HTTP statuses.
func (h *Handler) storeError(c *fiber.Ctx, err error) error {
	var nf *services.NotFoundError
	var ve *services.ValidationError
	switch {
	case errors.As(err, &nf):
		return fail(c, fiber.StatusNotFound, nf.Kind+" not found")
	case errors.As(err, &ve):
		return fail(c, fiber.StatusBadRequest, ve.Error())
	default:
		h.log.Errorw("request failed", "requestId", middleware.GetRequestID(c), "error", err)
		return fail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func paramID(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// ErrorHandler renders errors that escape handlers (unknown routes, bad
// methods, panics turned into errors) in the response envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return fail(c, code, err.Error())
}

// Health lists the available endpoints.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Goal Setter API is running!",
		"endpoints": fiber.Map{
			"GET /api/goals":                                     "Get all goals (filters: category, priority, status, search)",
			"GET /api/goals/:id":                                 "Get a specific goal",
			"POST /api/goals":                                    "Create a new goal",
			"PUT /api/goals/:id":                                 "Update an existing goal",
			"DELETE /api/goals/:id":                              "Delete a goal",
			"DELETE /api/goals":                                  "Delete all goals",
			"POST /api/goals/:id/subtasks":                       "Add a sub-task",
			"POST /api/goals/:id/subtasks/:subTaskId/toggle":     "Toggle a sub-task",
			"DELETE /api/goals/:id/subtasks/:subTaskId":          "Remove a sub-task",
			"POST /api/goals/:id/reminders":                      "Add a reminder",
			"DELETE /api/goals/:id/reminders/:reminderId":        "Remove a reminder",
			"POST /api/goals/:id/reminders/:reminderId/notified": "Mark a reminder as sent",
			"GET /api/notifications":                             "List notices",
			"DELETE /api/notifications/:id":                      "Dismiss a notice",
			"POST /api/device-token":                             "Register the push device token",
			"GET /ws/goals":                                      "Live goal and notice updates (websocket)",
		},
	})
}
