package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/arnold/goalsetter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestGoalStore_CreateOnEmpty(t *testing.T) {
	s, repo := newTestStore(t)

	g, err := s.Create(models.Goal{
		Title:       "Learn X",
		Description: "d",
		TargetDate:  "2026-01-01",
		Progress:    0,
		Status:      models.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, g.ID)

	goals := s.List()
	require.Len(t, goals, 1)
	assert.Equal(t, 1, goals[0].ID)
	assert.Equal(t, "Learn X", goals[0].Title)
	assert.Equal(t, models.CategoryOther, goals[0].Category)
	assert.Equal(t, models.PriorityMedium, goals[0].Priority)
	assert.NotNil(t, goals[0].SubTasks)
	assert.NotNil(t, goals[0].Reminders)
	assert.Equal(t, 1, repo.saveCount())
}

func TestGoalStore_IDsNeverReused(t *testing.T) {
	s, _ := newTestStore(t)

	var ids []int
	for i := 0; i < 3; i++ {
		ids = append(ids, mustCreate(t, s, fmt.Sprintf("g%d", i)).ID)
	}
	_, err := s.Delete(3)
	require.NoError(t, err)
	_, err = s.Delete(1)
	require.NoError(t, err)
	ids = append(ids, mustCreate(t, s, "after delete").ID)

	s.ClearAll()
	ids = append(ids, mustCreate(t, s, "after clear").ID)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids)
}

func TestGoalStore_LoadsFromRepository(t *testing.T) {
	repo := &memRepo{goals: []models.Goal{
		{ID: 7, Title: "persisted", TargetDate: "2026-01-01", Status: models.StatusPending},
	}}
	s := NewGoalStore(repo, zaptest.NewLogger(t).Sugar())

	g, err := s.Get(7)
	require.NoError(t, err)
	assert.Equal(t, "persisted", g.Title)
	assert.Equal(t, 0, repo.saveCount(), "loading must not write")

	assert.Equal(t, 8, mustCreate(t, s, "next").ID)
}

func TestGoalStore_GetNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Get(42)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Goal", nf.Kind)
	assert.Equal(t, 42, nf.ID)
}

func TestGoalStore_GetReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "a")
	_, err := s.AddSubTask(g.ID, "step")
	require.NoError(t, err)

	got, err := s.Get(g.ID)
	require.NoError(t, err)
	got.SubTasks[0].Title = "mutated"
	got.Title = "mutated"

	again, err := s.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Title)
	assert.Equal(t, "step", again.SubTasks[0].Title)
}

func TestGoalStore_UpdateMissingLeavesCollectionUnchanged(t *testing.T) {
	s, repo := newTestStore(t)
	mustCreate(t, s, "a")
	before := s.List()
	saves := repo.saveCount()

	_, err := s.Update(99, testGoal("b"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, before, s.List())
	assert.Equal(t, saves, repo.saveCount())
}

func TestGoalStore_UpdateKeepsID(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "a")

	in := testGoal("renamed")
	in.ID = 500
	in.Progress = 40
	in.Status = models.StatusInProgress
	updated, err := s.Update(g.ID, in)
	require.NoError(t, err)

	assert.Equal(t, g.ID, updated.ID)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, 40, updated.Progress)

	_, err = s.Get(500)
	assert.True(t, IsNotFound(err))
}

func TestGoalStore_ValidationRejectsBeforeMutation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Goal)
		field  string
	}{
		{"blank title", func(g *models.Goal) { g.Title = "  " }, "title"},
		{"missing target date", func(g *models.Goal) { g.TargetDate = "" }, "targetDate"},
		{"bad target date", func(g *models.Goal) { g.TargetDate = "next year" }, "targetDate"},
		{"progress too high", func(g *models.Goal) { g.Progress = 101 }, "progress"},
		{"negative progress", func(g *models.Goal) { g.Progress = -1 }, "progress"},
		{"unknown status", func(g *models.Goal) { g.Status = "done" }, "status"},
		{"missing status", func(g *models.Goal) { g.Status = "" }, "status"},
		{"unknown category", func(g *models.Goal) { g.Category = "Hobby" }, "category"},
		{"unknown priority", func(g *models.Goal) { g.Priority = "Whenever" }, "priority"},
		{"reminder without time", func(g *models.Goal) { g.Reminders = []models.Reminder{{Message: "x"}} }, "reminders"},
		{"duplicate sub-task ids", func(g *models.Goal) {
			g.SubTasks = []models.SubTask{{ID: 1, Title: "a"}, {ID: 1, Title: "b"}}
		}, "subTasks"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestStore(t)
			existing := mustCreate(t, s, "existing")
			saves := repo.saveCount()

			g := testGoal("x")
			tt.mutate(&g)

			_, err := s.Create(g)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)

			_, err = s.Update(existing.ID, g)
			assert.True(t, IsValidation(err))

			assert.Len(t, s.List(), 1)
			assert.Equal(t, saves, repo.saveCount())
		})
	}
}

func TestGoalStore_AcceptsRFC3339TargetDate(t *testing.T) {
	s, _ := newTestStore(t)
	g := testGoal("a")
	g.TargetDate = "2026-01-01T00:00:00Z"

	_, err := s.Create(g)
	assert.NoError(t, err)
}

func TestGoalStore_Delete(t *testing.T) {
	s, _ := newTestStore(t)
	a := mustCreate(t, s, "a")
	b := mustCreate(t, s, "b")
	_, err := s.AddSubTask(a.ID, "step")
	require.NoError(t, err)

	removed, err := s.Delete(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", removed.Title)
	assert.Len(t, removed.SubTasks, 1)

	goals := s.List()
	require.Len(t, goals, 1)
	assert.Equal(t, b.ID, goals[0].ID)

	_, err = s.Delete(a.ID)
	assert.True(t, IsNotFound(err))
}

func TestGoalStore_ToggleSubTaskDerivesProgress(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "a")
	first, err := s.AddSubTask(g.ID, "one")
	require.NoError(t, err)
	second, err := s.AddSubTask(g.ID, "two")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.False(t, second.Completed)

	updated, err := s.ToggleSubTask(g.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, updated.Progress)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	updated, err = s.ToggleSubTask(g.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, updated.Progress)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	updated, err = s.ToggleSubTask(g.ID, first.ID)
	require.NoError(t, err)
	updated, err = s.ToggleSubTask(g.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Progress)
	assert.Equal(t, models.StatusPending, updated.Status)
}

func TestGoalStore_DerivedProgressHoldsAcrossToggles(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "a")
	for i := 0; i < 7; i++ {
		_, err := s.AddSubTask(g.ID, fmt.Sprintf("step %d", i))
		require.NoError(t, err)
	}

	// deterministic pseudo-random toggle sequence
	seq := []int{3, 1, 7, 3, 5, 2, 2, 6, 4, 1, 7, 5, 6, 3}
	for _, id := range seq {
		got, err := s.ToggleSubTask(g.ID, id)
		require.NoError(t, err)

		done := 0
		for _, st := range got.SubTasks {
			if st.Completed {
				done++
			}
		}
		want := int(float64(done)*100/7 + 0.5)
		assert.Equal(t, want, got.Progress)
		switch {
		case want == 100:
			assert.Equal(t, models.StatusCompleted, got.Status)
		case want > 0:
			assert.Equal(t, models.StatusInProgress, got.Status)
		default:
			assert.Equal(t, models.StatusPending, got.Status)
		}
	}
}

func TestGoalStore_AddSubTaskOverridesManualProgress(t *testing.T) {
	s, _ := newTestStore(t)
	in := testGoal("a")
	in.Progress = 80
	in.Status = models.StatusInProgress
	g, err := s.Create(in)
	require.NoError(t, err)
	assert.Equal(t, 80, g.Progress, "no sub-tasks keeps assigned progress")

	_, err = s.AddSubTask(g.ID, "step")
	require.NoError(t, err)
	got, err := s.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Progress)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestGoalStore_CreateWithSubTasksDerivesProgress(t *testing.T) {
	s, _ := newTestStore(t)
	in := testGoal("a")
	in.Progress = 10
	in.Status = models.StatusCompleted
	in.SubTasks = []models.SubTask{{Title: "a", Completed: true}, {Title: "b"}, {Title: "c"}, {Title: "d"}}

	g, err := s.Create(in)
	require.NoError(t, err)
	assert.Equal(t, 25, g.Progress)
	assert.Equal(t, models.StatusInProgress, g.Status)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{g.SubTasks[0].ID, g.SubTasks[1].ID, g.SubTasks[2].ID, g.SubTasks[3].ID})
}

func TestGoalStore_SubTaskErrors(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "a")

	_, err := s.AddSubTask(99, "x")
	assert.True(t, IsNotFound(err))

	_, err = s.AddSubTask(g.ID, " ")
	assert.True(t, IsValidation(err))

	_, err = s.ToggleSubTask(99, 1)
	assert.True(t, IsNotFound(err))

	_, err = s.ToggleSubTask(g.ID, 1)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "SubTask", nf.Kind)
}

func TestGoalStore_RemoveSubTask(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "a")
	done, _ := s.AddSubTask(g.ID, "done")
	open, _ := s.AddSubTask(g.ID, "open")
	_, err := s.ToggleSubTask(g.ID, done.ID)
	require.NoError(t, err)

	got, err := s.RemoveSubTask(g.ID, open.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, models.StatusCompleted, got.Status)

	again, err := s.RemoveSubTask(g.ID, open.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	next, err := s.AddSubTask(g.ID, "new")
	require.NoError(t, err)
	assert.Equal(t, 2, next.ID, "max+1 within the goal")
}

func TestGoalStore_AddReminder(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "Run")
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.FixedZone("CET", 3600))

	r1, err := s.AddReminder(g.ID, at, "")
	require.NoError(t, err)
	assert.Equal(t, 1, r1.ID)
	assert.Equal(t, "Reminder for Run", r1.Message)
	assert.False(t, r1.Notified)
	assert.True(t, at.Equal(r1.Time))

	r2, err := s.AddReminder(g.ID, at, "stretch first")
	require.NoError(t, err)
	assert.Equal(t, 2, r2.ID)
	assert.Equal(t, "stretch first", r2.Message)

	_, err = s.AddReminder(99, at, "")
	assert.True(t, IsNotFound(err))

	_, err = s.AddReminder(g.ID, time.Time{}, "")
	assert.True(t, IsValidation(err))
}

func TestGoalStore_RemoveReminderIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "a")
	r, err := s.AddReminder(g.ID, time.Now(), "")
	require.NoError(t, err)

	require.NoError(t, s.RemoveReminder(g.ID, r.ID))
	once := s.List()
	require.NoError(t, s.RemoveReminder(g.ID, r.ID))
	assert.Equal(t, once, s.List())

	assert.True(t, IsNotFound(s.RemoveReminder(99, r.ID)))
}

func TestGoalStore_MarkNotified(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "a")
	r, err := s.AddReminder(g.ID, time.Now(), "")
	require.NoError(t, err)

	require.NoError(t, s.MarkNotified(g.ID, r.ID))
	got, _ := s.Get(g.ID)
	assert.True(t, got.Reminders[0].Notified)

	err = s.MarkNotified(g.ID, 99)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Reminder", nf.Kind)
	assert.True(t, IsNotFound(s.MarkNotified(99, r.ID)))
}

func TestGoalStore_UpdateCannotResetNotified(t *testing.T) {
	s, _ := newTestStore(t)
	g := mustCreate(t, s, "a")
	r, err := s.AddReminder(g.ID, time.Now(), "")
	require.NoError(t, err)
	require.NoError(t, s.MarkNotified(g.ID, r.ID))

	in, _ := s.Get(g.ID)
	in.Reminders[0].Notified = false
	in.Reminders = append(in.Reminders, models.Reminder{Time: time.Now(), Notified: true})

	updated, err := s.Update(g.ID, in)
	require.NoError(t, err)
	require.Len(t, updated.Reminders, 2)
	assert.True(t, updated.Reminders[0].Notified, "notified never goes back to false")
	assert.False(t, updated.Reminders[1].Notified, "new reminders start unnotified")
	assert.Equal(t, 2, updated.Reminders[1].ID)
}

func TestGoalStore_ClearAll(t *testing.T) {
	s, repo := newTestStore(t)
	mustCreate(t, s, "a")
	mustCreate(t, s, "b")

	s.ClearAll()
	assert.Empty(t, s.List())
	assert.Empty(t, repo.Load())
}

func TestGoalStore_PersistThenPublish(t *testing.T) {
	var events []string
	repo := &memRepo{events: &events}
	s := NewGoalStore(repo, zaptest.NewLogger(t).Sugar())

	var published [][]models.Goal
	s.Subscribe(func(goals []models.Goal) {
		events = append(events, "publish")
		published = append(published, goals)
	})

	g := mustCreate(t, s, "a")
	_, err := s.AddSubTask(g.ID, "x")
	require.NoError(t, err)
	_, err = s.Update(99, testGoal("nope"))
	require.Error(t, err)

	assert.Equal(t, []string{"save", "publish", "save", "publish"}, events)
	require.Len(t, published, 2)
	assert.Len(t, published[1][0].SubTasks, 1)
	assert.Equal(t, repo.Load(), published[1], "subscribers see what was persisted")
}

func TestGoalStore_Unsubscribe(t *testing.T) {
	s, _ := newTestStore(t)

	var a, b int
	unsubA := s.Subscribe(func([]models.Goal) { a++ })
	s.Subscribe(func([]models.Goal) { b++ })

	mustCreate(t, s, "1")
	unsubA()
	unsubA()
	mustCreate(t, s, "2")

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestRecalculateProgress(t *testing.T) {
	tests := []struct {
		done, total int
		progress    int
		status      models.Status
	}{
		{0, 2, 0, models.StatusPending},
		{1, 2, 50, models.StatusInProgress},
		{2, 2, 100, models.StatusCompleted},
		{1, 3, 33, models.StatusInProgress},
		{2, 3, 67, models.StatusInProgress},
		{1, 8, 13, models.StatusInProgress},
		{1, 201, 0, models.StatusPending},
		{200, 201, 100, models.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d of %d", tt.done, tt.total), func(t *testing.T) {
			g := models.Goal{Progress: 42, Status: models.StatusInProgress}
			for i := 0; i < tt.total; i++ {
				g.SubTasks = append(g.SubTasks, models.SubTask{ID: i + 1, Completed: i < tt.done})
			}
			RecalculateProgress(&g)
			assert.Equal(t, tt.progress, g.Progress)
			assert.Equal(t, tt.status, g.Status)
		})
	}

	t.Run("no sub-tasks", func(t *testing.T) {
		g := models.Goal{Progress: 42, Status: models.StatusInProgress}
		RecalculateProgress(&g)
		assert.Equal(t, 42, g.Progress)
		assert.Equal(t, models.StatusInProgress, g.Status)
	})
}

func TestGoalStore_ViewHoldsOffMutations(t *testing.T) {
	s, _ := newTestStore(t)
	mustCreate(t, s, "a")

	entered := make(chan struct{})
	release := make(chan struct{})
	viewed := make(chan []models.Goal, 1)
	go s.View(func(goals []models.Goal) {
		close(entered)
		<-release
		viewed <- goals
	})
	<-entered

	created := make(chan struct{})
	go func() {
		_, err := s.Create(testGoal("b"))
		assert.NoError(t, err)
		close(created)
	}()

	select {
	case <-created:
		t.Fatal("Create committed while View was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	<-created

	goals := <-viewed
	require.Len(t, goals, 1, "view sees the state before the blocked Create")
	assert.Len(t, s.List(), 2)
}
