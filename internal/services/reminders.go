package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/arnold/goalsetter/internal/models"
	"go.uber.org/zap"
)

const (
	ReminderTitle = "Goal Reminder"

	DefaultReminderInterval = time.Minute
	DefaultInitialDelay     = time.Second
)

type SchedulerOption func(*ReminderScheduler)

func WithInterval(d time.Duration) SchedulerOption {
	return func(s *ReminderScheduler) { s.interval = d }
}

func WithInitialDelay(d time.Duration) SchedulerOption {
	return func(s *ReminderScheduler) { s.initialDelay = d }
}

func WithClock(now func() time.Time) SchedulerOption {
	return func(s *ReminderScheduler) { s.now = now }
}

// ReminderScheduler polls the goal store and fires each due reminder once.
// A fired reminder is marked notified even when delivery fails.
type ReminderScheduler struct {
	store    *GoalStore
	sink     Notifier
	fallback *ToastService
	log      *zap.SugaredLogger

	interval     time.Duration
	initialDelay time.Duration
	now          func() time.Time

	scanMu sync.Mutex

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewReminderScheduler builds a scheduler. sink may be nil, in which case
// every reminder goes to the toast fallback. A nil fallback gets a private
// ToastService.
func NewReminderScheduler(store *GoalStore, sink Notifier, fallback *ToastService, log *zap.SugaredLogger, opts ...SchedulerOption) *ReminderScheduler {
	if fallback == nil {
		fallback = NewToastService()
	}
	s := &ReminderScheduler{
		store:        store,
		sink:         sink,
		fallback:     fallback,
		log:          log,
		interval:     DefaultReminderInterval,
		initialDelay: DefaultInitialDelay,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the polling loop: one scan after the initial delay, then one
// per interval. Calling Start on a running scheduler is a no-op.
func (s *ReminderScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)

	s.log.Infow("reminder scheduler started", "interval", s.interval.String())
}

// Stop halts future scans and waits for an in-flight scan to finish.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Infow("reminder scheduler stopped")
}

func (s *ReminderScheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	initial := time.NewTimer(s.initialDelay)
	defer initial.Stop()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// in-flight notifications are not cut short by Stop
	scanCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-initial.C:
			s.Scan(scanCtx)
		case <-ticker.C:
			s.Scan(scanCtx)
		}
	}
}

// Scan fires every unnotified reminder whose time is at or before now,
// including ones that fell due while the scheduler was not running. It
// returns the number of reminders fired.
func (s *ReminderScheduler) Scan(ctx context.Context) int {
	s.scanMu.Lock()
	defer s.scanMu.Unlock()

	now := s.now()
	fired := 0
	for _, goal := range s.store.List() {
		for _, rem := range goal.Reminders {
			if rem.Notified || rem.Time.After(now) {
				continue
			}
			s.fire(ctx, goal, rem)
			fired++
		}
	}
	if fired > 0 {
		s.log.Infow("reminder scan", "fired", fired)
	}
	return fired
}

func (s *ReminderScheduler) fire(ctx context.Context, goal models.Goal, rem models.Reminder) {
	message := rem.Message
	if message == "" {
		message = defaultReminderMessage(goal.Title)
	}

	s.deliver(ctx, message)

	if err := s.store.MarkNotified(goal.ID, rem.ID); err != nil {
		// goal or reminder removed between List and here
		s.log.Warnw("failed to mark reminder notified", "goalId", goal.ID, "reminderId", rem.ID, "error", err)
	}
}

func (s *ReminderScheduler) deliver(ctx context.Context, message string) {
	if s.sink != nil {
		err := safeNotify(ctx, s.sink, ReminderTitle, message)
		if err == nil {
			return
		}
		s.log.Debugw("push notification unavailable, showing toast", "error", err)
	}
	s.fallback.Show(message, models.ToastInfo)
}

func safeNotify(ctx context.Context, sink Notifier, title, body string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("notifier panic: %v", r)
		}
	}()
	return sink.Notify(ctx, title, body)
}
