package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/arnold/goalsetter/internal/models"
	"go.uber.org/zap/zaptest"
)

// memRepo is an in-memory GoalRepository that records every save.
type memRepo struct {
	mu     sync.Mutex
	goals  []models.Goal
	saves  int
	events *[]string
}

func (r *memRepo) Load() []models.Goal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Goal{}, r.goals...)
}

func (r *memRepo) Save(goals []models.Goal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals = goals
	r.saves++
	if r.events != nil {
		*r.events = append(*r.events, "save")
	}
}

func (r *memRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func newTestStore(t *testing.T) (*GoalStore, *memRepo) {
	t.Helper()
	repo := &memRepo{}
	return NewGoalStore(repo, zaptest.NewLogger(t).Sugar()), repo
}

func testGoal(title string) models.Goal {
	return models.Goal{
		Title:       title,
		Description: "d",
		Category:    models.CategoryLearning,
		Priority:    models.PriorityMedium,
		TargetDate:  "2026-01-01",
		Progress:    0,
		Status:      models.StatusPending,
	}
}

func mustCreate(t *testing.T, s *GoalStore, title string) models.Goal {
	t.Helper()
	g, err := s.Create(testGoal(title))
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", title, err)
	}
	return g
}

// recordingNotifier counts deliveries and optionally fails them.
type recordingNotifier struct {
	mu     sync.Mutex
	bodies []string
	err    error
	panic  bool
}

func (n *recordingNotifier) Notify(_ context.Context, _, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.panic {
		panic("notification facility crashed")
	}
	n.bodies = append(n.bodies, body)
	return n.err
}

func (n *recordingNotifier) calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string{}, n.bodies...)
}

var errDenied = errors.New("permission denied")

// memTokens is an in-memory TokenStore.
type memTokens map[string]string

func (m memTokens) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memTokens) Put(key, value string) error {
	m[key] = value
	return nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
