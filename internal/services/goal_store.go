package services

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/arnold/goalsetter/internal/models"
	"go.uber.org/zap"
)

// GoalRepository persists the whole goal collection. Save must not fail the
// caller; implementations log their own errors.
type GoalRepository interface {
	Load() []models.Goal
	Save(goals []models.Goal)
}

type subscriber struct {
	id int
	fn func([]models.Goal)
}

// GoalStore owns the goal collection. Every public method runs to completion
// under one mutex: validate, mutate, persist, then publish to subscribers.
type GoalStore struct {
	mu          sync.Mutex
	repo        GoalRepository
	log         *zap.SugaredLogger
	goals       []models.Goal
	lastID      int // highest goal id handed out this session
	subscribers []subscriber
	nextSubID   int
}

// NewGoalStore loads the persisted collection and returns a store over it.
func NewGoalStore(repo GoalRepository, log *zap.SugaredLogger) *GoalStore {
	goals := repo.Load()
	s := &GoalStore{repo: repo, log: log, goals: make([]models.Goal, 0, len(goals))}
	for _, g := range goals {
		g = g.Clone()
		if g.ID > s.lastID {
			s.lastID = g.ID
		}
		s.goals = append(s.goals, g)
	}
	log.Infow("goal store loaded", "goals", len(s.goals))
	return s
}

// List returns a copy of the current collection.
func (s *GoalStore) List() []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe registers fn to receive the collection after every mutation.
// fn runs with the store locked and must not call back into the store.
func (s *GoalStore) Subscribe(fn func([]models.Goal)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// View runs fn with a copy of the collection while holding the store lock, so
// no mutation commits until fn returns. Subscribers use it to attach a
// listener and read the starting state as one step.
func (s *GoalStore) View(fn func([]models.Goal)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snapshot())
}

func (s *GoalStore) Get(id int) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return models.Goal{}, goalNotFound(id)
	}
	return s.goals[idx].Clone(), nil
}

// Filter applies FilterGoals to the current collection.
func (s *GoalStore) Filter(c FilterCriteria) []models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FilterGoals(s.goals, c)
}

// Create validates g, assigns the next id and appends it.
func (s *GoalStore) Create(g models.Goal) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := prepareGoal(g, nil)
	if err != nil {
		return models.Goal{}, err
	}

	s.lastID = max(s.lastID, s.maxID()) + 1
	goal.ID = s.lastID
	s.goals = append(s.goals, goal)

	s.commit("create", goal.ID)
	return goal.Clone(), nil
}

// Update replaces the goal stored under id. The id in g is ignored.
func (s *GoalStore) Update(id int, g models.Goal) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return models.Goal{}, goalNotFound(id)
	}

	goal, err := prepareGoal(g, &s.goals[idx])
	if err != nil {
		return models.Goal{}, err
	}
	goal.ID = id
	s.goals[idx] = goal

	s.commit("update", id)
	return goal.Clone(), nil
}

// Delete removes the goal together with its sub-tasks and reminders.
func (s *GoalStore) Delete(id int) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx == -1 {
		return models.Goal{}, goalNotFound(id)
	}
	removed := s.goals[idx]
	s.goals = append(s.goals[:idx:idx], s.goals[idx+1:]...)

	s.commit("delete", id)
	return removed.Clone(), nil
}

func (s *GoalStore) AddSubTask(goalID int, title string) (models.SubTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.find(goalID)
	if err != nil {
		return models.SubTask{}, err
	}
	if strings.TrimSpace(title) == "" {
		return models.SubTask{}, invalidf("title", "is required")
	}

	sub := models.SubTask{ID: nextSubTaskID(goal.SubTasks), Title: title}
	goal.SubTasks = append(goal.SubTasks, sub)
	RecalculateProgress(goal)

	s.commit("add subtask", goalID)
	return sub, nil
}

// ToggleSubTask flips a sub-task and returns the recalculated goal.
func (s *GoalStore) ToggleSubTask(goalID, subTaskID int) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.find(goalID)
	if err != nil {
		return models.Goal{}, err
	}
	i := subTaskIndex(goal.SubTasks, subTaskID)
	if i == -1 {
		return models.Goal{}, subTaskNotFound(subTaskID)
	}

	goal.SubTasks[i].Completed = !goal.SubTasks[i].Completed
	RecalculateProgress(goal)

	s.commit("toggle subtask", goalID)
	return goal.Clone(), nil
}

// RemoveSubTask deletes a sub-task. Unknown sub-task ids are a no-op.
func (s *GoalStore) RemoveSubTask(goalID, subTaskID int) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.find(goalID)
	if err != nil {
		return models.Goal{}, err
	}
	if i := subTaskIndex(goal.SubTasks, subTaskID); i != -1 {
		goal.SubTasks = append(goal.SubTasks[:i:i], goal.SubTasks[i+1:]...)
		RecalculateProgress(goal)
	}

	s.commit("remove subtask", goalID)
	return goal.Clone(), nil
}

// AddReminder appends an unnotified reminder. An empty message defaults to
// "Reminder for <goal title>".
func (s *GoalStore) AddReminder(goalID int, at time.Time, message string) (models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.find(goalID)
	if err != nil {
		return models.Reminder{}, err
	}
	if at.IsZero() {
		return models.Reminder{}, invalidf("time", "is required")
	}
	if message == "" {
		message = defaultReminderMessage(goal.Title)
	}

	rem := models.Reminder{ID: nextReminderID(goal.Reminders), Time: at.UTC(), Message: message}
	goal.Reminders = append(goal.Reminders, rem)

	s.commit("add reminder", goalID)
	return rem, nil
}

// RemoveReminder deletes a reminder. Unknown reminder ids are a no-op.
func (s *GoalStore) RemoveReminder(goalID, reminderID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.find(goalID)
	if err != nil {
		return err
	}
	if i := reminderIndex(goal.Reminders, reminderID); i != -1 {
		goal.Reminders = append(goal.Reminders[:i:i], goal.Reminders[i+1:]...)
	}

	s.commit("remove reminder", goalID)
	return nil
}

// MarkNotified consumes a reminder. The flag never goes back to false.
func (s *GoalStore) MarkNotified(goalID, reminderID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goal, err := s.find(goalID)
	if err != nil {
		return err
	}
	i := reminderIndex(goal.Reminders, reminderID)
	if i == -1 {
		return reminderNotFound(reminderID)
	}
	goal.Reminders[i].Notified = true

	s.commit("mark notified", goalID)
	return nil
}

func (s *GoalStore) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals = []models.Goal{}
	s.commit("clear", 0)
}

// commit persists the collection and then publishes it. Callers hold s.mu.
func (s *GoalStore) commit(op string, goalID int) {
	s.repo.Save(s.snapshot())
	for _, sub := range s.subscribers {
		sub.fn(s.snapshot())
	}
	s.log.Debugw("goals changed", "op", op, "goalId", goalID, "goals", len(s.goals))
}

func (s *GoalStore) snapshot() []models.Goal {
	out := make([]models.Goal, len(s.goals))
	for i, g := range s.goals {
		out[i] = g.Clone()
	}
	return out
}

func (s *GoalStore) indexOf(id int) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *GoalStore) find(id int) (*models.Goal, error) {
	idx := s.indexOf(id)
	if idx == -1 {
		return nil, goalNotFound(id)
	}
	return &s.goals[idx], nil
}

func (s *GoalStore) maxID() int {
	m := 0
	for _, g := range s.goals {
		m = max(m, g.ID)
	}
	return m
}

// RecalculateProgress derives progress and status from sub-tasks. Goals
// without sub-tasks are left as they are.
func RecalculateProgress(goal *models.Goal) {
	total := len(goal.SubTasks)
	if total == 0 {
		return
	}
	done := 0
	for _, st := range goal.SubTasks {
		if st.Completed {
			done++
		}
	}

	goal.Progress = int(math.Round(float64(done) * 100 / float64(total)))
	switch {
	case goal.Progress == 100:
		goal.Status = models.StatusCompleted
	case goal.Progress > 0:
		goal.Status = models.StatusInProgress
	default:
		goal.Status = models.StatusPending
	}
}

// prepareGoal validates g and returns a normalized copy ready to store.
// existing is the goal being replaced, nil on create.
func prepareGoal(g models.Goal, existing *models.Goal) (models.Goal, error) {
	goal := g.Clone()

	if strings.TrimSpace(goal.Title) == "" {
		return models.Goal{}, invalidf("title", "is required")
	}
	if err := validateTargetDate(goal.TargetDate); err != nil {
		return models.Goal{}, err
	}
	if goal.Progress < 0 || goal.Progress > 100 {
		return models.Goal{}, invalidf("progress", "must be between 0 and 100, got %d", goal.Progress)
	}
	if !goal.Status.Valid() {
		return models.Goal{}, invalidf("status", "unknown status %q", goal.Status)
	}
	if goal.Category == "" {
		goal.Category = models.CategoryOther
	} else if !goal.Category.Valid() {
		return models.Goal{}, invalidf("category", "unknown category %q", goal.Category)
	}
	if goal.Priority == "" {
		goal.Priority = models.PriorityMedium
	} else if !goal.Priority.Valid() {
		return models.Goal{}, invalidf("priority", "unknown priority %q", goal.Priority)
	}

	seen := map[int]bool{}
	for _, st := range goal.SubTasks {
		if strings.TrimSpace(st.Title) == "" {
			return models.Goal{}, invalidf("subTasks", "sub-task title is required")
		}
		if st.ID != 0 && seen[st.ID] {
			return models.Goal{}, invalidf("subTasks", "duplicate sub-task id %d", st.ID)
		}
		seen[st.ID] = true
	}
	for i := range goal.SubTasks {
		if goal.SubTasks[i].ID == 0 {
			goal.SubTasks[i].ID = nextSubTaskID(goal.SubTasks)
		}
	}

	seen = map[int]bool{}
	for _, r := range goal.Reminders {
		if r.Time.IsZero() {
			return models.Goal{}, invalidf("reminders", "reminder time is required")
		}
		if r.ID != 0 && seen[r.ID] {
			return models.Goal{}, invalidf("reminders", "duplicate reminder id %d", r.ID)
		}
		seen[r.ID] = true
	}
	for i := range goal.Reminders {
		r := &goal.Reminders[i]
		if r.ID == 0 {
			r.ID = nextReminderID(goal.Reminders)
		}
		r.Time = r.Time.UTC()
		if r.Message == "" {
			r.Message = defaultReminderMessage(goal.Title)
		}
		// notified only moves forward through MarkNotified
		r.Notified = false
		if existing != nil {
			if j := reminderIndex(existing.Reminders, r.ID); j != -1 {
				r.Notified = existing.Reminders[j].Notified
			}
		}
	}

	RecalculateProgress(&goal)
	return goal, nil
}

func validateTargetDate(v string) error {
	if strings.TrimSpace(v) == "" {
		return invalidf("targetDate", "is required")
	}
	if _, err := time.Parse(time.DateOnly, v); err == nil {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, v); err == nil {
		return nil
	}
	return invalidf("targetDate", "%q is not a date (want YYYY-MM-DD)", v)
}

func defaultReminderMessage(title string) string {
	return fmt.Sprintf("Reminder for %s", title)
}

func nextSubTaskID(subs []models.SubTask) int {
	m := 0
	for _, st := range subs {
		m = max(m, st.ID)
	}
	return m + 1
}

func nextReminderID(rems []models.Reminder) int {
	m := 0
	for _, r := range rems {
		m = max(m, r.ID)
	}
	return m + 1
}

func subTaskIndex(subs []models.SubTask, id int) int {
	for i := range subs {
		if subs[i].ID == id {
			return i
		}
	}
	return -1
}

func reminderIndex(rems []models.Reminder, id int) int {
	for i := range rems {
		if rems[i].ID == id {
			return i
		}
	}
	return -1
}
