package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/arnold/goalsetter/internal/config"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// createTestDB opens a migrated sqlite database in a temp dir.
func createTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := &config.Config{
		DatabaseURL: filepath.Join(t.TempDir(), "test.db"),
		LogLevel:    "info",
	}
	db, err := Connect(cfg, zaptest.NewLogger(t).Sugar())
	if err != nil {
		t.Fatalf("Connect() failed: %v", err)
	}
	t.Cleanup(func() { Close(db) })
	return db
}

// brokenKV fails every call.
type brokenKV struct{}

var errDiskFull = errors.New("disk full")

func (brokenKV) Get(string) (string, bool, error) { return "", false, errDiskFull }
func (brokenKV) Put(string, string) error         { return errDiskFull }
