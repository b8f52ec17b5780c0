package models

import "time"

// Toast types
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is an in-process notice shown to the user. It is the always-available
// fallback when platform push notifications cannot be delivered.
type Toast struct {
	ID        int           `json:"id"`
	Message   string        `json:"message"`
	Type      string        `json:"type"` // success, error, info
	TTL       time.Duration `json:"-"`
	TTLMs     int64         `json:"ttlMs"` // 0 keeps the toast until dismissed
	CreatedAt time.Time     `json:"createdAt"`
}

type RegisterDeviceTokenRequest struct {
	Token string `json:"token"`
}
