package models

import "time"

// KVEntry is one row of the local key-value table. The whole goal collection
// lives in a single entry as a JSON blob.
type KVEntry struct {
	Key       string    `json:"key" gorm:"primaryKey;size:191"`
	Value     string    `json:"value" gorm:"type:text;not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
