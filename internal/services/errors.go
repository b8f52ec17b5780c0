package services

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// NotFoundError reports a goal, sub-task or reminder id that does not exist.
type NotFoundError struct {
	Kind string // Goal, SubTask, Reminder
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ValidationError reports a missing or invalid field. It is raised before any
// state changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func goalNotFound(id int) error     { return &NotFoundError{Kind: "Goal", ID: id} }
func subTaskNotFound(id int) error  { return &NotFoundError{Kind: "SubTask", ID: id} }
func reminderNotFound(id int) error { return &NotFoundError{Kind: "Reminder", ID: id} }

func invalidf(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
