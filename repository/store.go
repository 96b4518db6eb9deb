package repository

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Storage keys the core depends on.
const (
	KeyCart            = "table_cart"
	KeyTableInfo       = "table_info"
	KeyDeviceID        = "device_id"
	KeyPendingOrderID  = "pending_payment_order" // session-scoped
	KeyPaymentSnapshot = "payment_snapshot"
)

var ErrNotFound = errors.New("record not found")

// Store is the localStorage-shaped contract both backends satisfy.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Record is a single persisted key/value row.
type Record struct {
	Key       string `gorm:"primaryKey;size:100"`
	Value     string
	UpdatedAt time.Time
}

// LocalStore persists records to the on-device sqlite file. Survives
// restarts, single writer by construction (one kiosk process).
type LocalStore struct{ DB *gorm.DB }

func NewLocalStore(db *gorm.DB) *LocalStore { return &LocalStore{DB: db} }

func (s *LocalStore) Get(key string) (string, error) {
	var rec Record
	err := s.DB.First(&rec, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

func (s *LocalStore) Set(key, value string) error {
	rec := Record{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.DB.Save(&rec).Error
}

func (s *LocalStore) Remove(key string) error {
	return s.DB.Delete(&Record{}, "key = ?", key).Error
}

// SessionStore holds session-scoped records in memory only.
// หายเมื่อ restart — เทียบเท่า sessionStorage ฝั่ง browser
type SessionStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{data: make(map[string]string)}
}

func (s *SessionStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *SessionStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *SessionStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
