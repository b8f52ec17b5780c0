package database

import (
	"errors"
	"fmt"

	"github.com/arnold/goalsetter/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVStore is a string key-value store on top of the kv_entries table.
type KVStore struct {
	db *gorm.DB
}

func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the value stored under key. A missing key is not an error.
func (s *KVStore) Get(key string) (string, bool, error) {
	var entry models.KVEntry
	err := s.db.Where(&models.KVEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %q: %w", key, err)
	}
	return entry.Value, true, nil
}

// Put writes value under key with a single upsert statement.
func (s *KVStore) Put(key, value string) error {
	entry := models.KVEntry{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(key string) error {
	if err := s.db.Delete(&models.KVEntry{Key: key}).Error; err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}
