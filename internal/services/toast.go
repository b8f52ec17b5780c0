package services

import (
	"sync"
	"time"

	"github.com/arnold/goalsetter/internal/models"
)

const DefaultToastTTL = 4 * time.Second

// ToastService keeps the in-process notice list, newest first. Show never
// fails, which makes it the fallback for undeliverable push notifications.
type ToastService struct {
	mu          sync.Mutex
	list        []models.Toast
	nextID      int
	subscribers []func([]models.Toast)
}

func NewToastService() *ToastService {
	return &ToastService{nextID: 1}
}

// Show adds a toast with the default TTL and returns its id.
func (s *ToastService) Show(message, toastType string) int {
	return s.ShowFor(message, toastType, DefaultToastTTL)
}

// ShowFor adds a toast that is dismissed after ttl. A ttl of zero keeps it
// until Dismiss or Clear.
func (s *ToastService) ShowFor(message, toastType string, ttl time.Duration) int {
	if toastType == "" {
		toastType = models.ToastInfo
	}

	s.mu.Lock()
	t := models.Toast{
		ID:        s.nextID,
		Message:   message,
		Type:      toastType,
		TTL:       ttl,
		TTLMs:     ttl.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}
	s.nextID++
	s.list = append([]models.Toast{t}, s.list...)
	s.publish()
	s.mu.Unlock()

	if ttl > 0 {
		time.AfterFunc(ttl, func() { s.Dismiss(t.ID) })
	}
	return t.ID
}

// Dismiss removes a toast. It reports whether the id was present.
func (s *ToastService) Dismiss(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.list {
		if t.ID == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			s.publish()
			return true
		}
	}
	return false
}

func (s *ToastService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = nil
	s.publish()
}

func (s *ToastService) List() []models.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Toast{}, s.list...)
}

// Subscribe registers fn to receive the toast list whenever it changes.
func (s *ToastService) Subscribe(fn func([]models.Toast)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *ToastService) publish() {
	for _, fn := range s.subscribers {
		fn(append([]models.Toast{}, s.list...))
	}
}
