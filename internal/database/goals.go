package database

import (
	"encoding/json"
	"fmt"

	"github.com/arnold/goalsetter/internal/models"
	"go.uber.org/zap"
)

// GoalsKey is the key the goal collection is stored under.
const GoalsKey = "goals_v1"

// KV is the storage the goal repository writes through.
type KV interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// PersistenceError wraps a storage read/write failure. It is logged, never
// returned to callers of the repository.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// GoalRepository reads and writes the full goal collection as one JSON blob.
type GoalRepository struct {
	kv  KV
	key string
	log *zap.SugaredLogger
}

func NewGoalRepository(kv KV, log *zap.SugaredLogger) *GoalRepository {
	return &GoalRepository{kv: kv, key: GoalsKey, log: log}
}

// Load returns the last saved collection. Missing or corrupt data yields an
// empty collection.
func (r *GoalRepository) Load() []models.Goal {
	raw, ok, err := r.kv.Get(r.key)
	if err != nil {
		r.log.Errorw("failed to read goals", "error", &PersistenceError{Op: "load", Err: err})
		return []models.Goal{}
	}
	if !ok || raw == "" {
		return []models.Goal{}
	}

	var goals []models.Goal
	if err := json.Unmarshal([]byte(raw), &goals); err != nil {
		r.log.Errorw("failed to parse stored goals", "error", &PersistenceError{Op: "decode", Err: err})
		return []models.Goal{}
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	return goals
}

// Save serializes the entire collection in one write. Failures are logged and
// swallowed; the caller's in-memory state stays authoritative.
func (r *GoalRepository) Save(goals []models.Goal) {
	if goals == nil {
		goals = []models.Goal{}
	}
	data, err := json.Marshal(goals)
	if err != nil {
		r.log.Errorw("failed to encode goals", "error", &PersistenceError{Op: "encode", Err: err})
		return
	}
	if err := r.kv.Put(r.key, string(data)); err != nil {
		r.log.Warnw("failed to persist goals", "error", &PersistenceError{Op: "save", Err: err}, "count", len(goals))
	}
}
