package utils

import (
	"github.com/google/uuid"

	"tableside/repository"
)

// DeviceID returns the stable per-device id, generating and persisting one
// on first run. Sent as X-Device-Id so the backend can attribute requests.
func DeviceID(store repository.Store) string {
	if id, err := store.Get(repository.KeyDeviceID); err == nil && id != "" {
		return id
	}
	id := uuid.NewString()
	_ = store.Set(repository.KeyDeviceID, id)
	return id
}
