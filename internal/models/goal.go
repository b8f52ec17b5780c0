package models

import "time"

type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryFitness  Category = "Fitness"
	CategoryLearning Category = "Learning"
	CategoryOther    Category = "Other"
)

// Categories lists every goal category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryFitness, CategoryLearning, CategoryOther}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func (p Priority) Valid() bool {
	for _, v := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Goal struct {
	ID          int        `json:"id" yaml:"-"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Category    Category   `json:"category" yaml:"category"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	TargetDate  string     `json:"targetDate" yaml:"targetDate"` // YYYY-MM-DD
	Progress    int        `json:"progress" yaml:"progress"`     // 0-100
	Status      Status     `json:"status" yaml:"status"`
	Notes       string     `json:"notes,omitempty" yaml:"notes,omitempty"`
	SubTasks    []SubTask  `json:"subTasks" yaml:"subTasks,omitempty"`
	Reminders   []Reminder `json:"reminders" yaml:"reminders,omitempty"`
}

type SubTask struct {
	ID        int    `json:"id" yaml:"-"`
	Title     string `json:"title" yaml:"title"`
	Completed bool   `json:"completed" yaml:"completed"`
}

type Reminder struct {
	ID       int       `json:"id" yaml:"-"`
	Time     time.Time `json:"time" yaml:"time"`
	Message  string    `json:"message,omitempty" yaml:"message,omitempty"`
	Notified bool      `json:"notified" yaml:"-"`
}

// Clone returns a deep copy so callers never share sub-task or reminder
// backing arrays with the store.
func (g Goal) Clone() Goal {
	c := g
	c.SubTasks = append(make([]SubTask, 0, len(g.SubTasks)), g.SubTasks...)
	c.Reminders = append(make([]Reminder, 0, len(g.Reminders)), g.Reminders...)
	return c
}

// Goal DTOs

// GoalRequest is the body of POST and PUT /api/goals. Pointer fields keep
// "absent" distinct from zero values, so progress 0 is a valid value.
type GoalRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Category    *Category  `json:"category"`
	Priority    *Priority  `json:"priority"`
	TargetDate  *string    `json:"targetDate"`
	Progress    *int       `json:"progress"`
	Status      *Status    `json:"status"`
	Notes       *string    `json:"notes"`
	SubTasks    []SubTask  `json:"subTasks"`
	Reminders   []Reminder `json:"reminders"`
}

// Missing returns the names of required fields absent from the request.
func (r *GoalRequest) Missing() []string {
	var missing []string
	if r.Title == nil {
		missing = append(missing, "title")
	}
	if r.Description == nil {
		missing = append(missing, "description")
	}
	if r.TargetDate == nil {
		missing = append(missing, "targetDate")
	}
	if r.Progress == nil {
		missing = append(missing, "progress")
	}
	if r.Status == nil {
		missing = append(missing, "status")
	}
	return missing
}

// Goal converts a complete request into a goal. Call Missing first.
func (r *GoalRequest) Goal() Goal {
	g := Goal{
		Title:       deref(r.Title),
		Description: deref(r.Description),
		TargetDate:  deref(r.TargetDate),
		Notes:       deref(r.Notes),
		SubTasks:    r.SubTasks,
		Reminders:   r.Reminders,
	}
	if r.Category != nil {
		g.Category = *r.Category
	}
	if r.Priority != nil {
		g.Priority = *r.Priority
	}
	if r.Progress != nil {
		g.Progress = *r.Progress
	}
	if r.Status != nil {
		g.Status = *r.Status
	}
	return g
}

type CreateSubTaskRequest struct {
	Title string `json:"title"`
}

type CreateReminderRequest struct {
	Time    time.Time `json:"time"`
	Message *string   `json:"message"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
