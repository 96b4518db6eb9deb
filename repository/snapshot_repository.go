package repository

import (
	"encoding/json"
	"errors"
	"time"

	"tableside/entity"
)

// SnapshotRepository keeps the two pieces of billing recovery state:
// the pending-payment order id marker (session-scoped) and the full
// order/tip snapshot used to render a receipt after a checkout redirect.
type SnapshotRepository struct {
	Session Store // order-id marker lives here
	Local   Store // snapshot survives restarts
}

func NewSnapshotRepository(session, local Store) *SnapshotRepository {
	return &SnapshotRepository{Session: session, Local: local}
}

func (r *SnapshotRepository) PendingOrderID() (string, bool) {
	id, err := r.Session.Get(KeyPendingOrderID)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

func (r *SnapshotRepository) SetPendingOrderID(orderID string) error {
	return r.Session.Set(KeyPendingOrderID, orderID)
}

func (r *SnapshotRepository) ClearPendingOrderID() error {
	return r.Session.Remove(KeyPendingOrderID)
}

func (r *SnapshotRepository) SaveSnapshot(s entity.BillSnapshot) error {
	s.CapturedAt = time.Now()
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Local.Set(KeyPaymentSnapshot, string(b))
}

func (r *SnapshotRepository) LoadSnapshot() (*entity.BillSnapshot, error) {
	raw, err := r.Local.Get(KeyPaymentSnapshot)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var s entity.BillSnapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil || s.Order == nil {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (r *SnapshotRepository) ClearSnapshot() error {
	return r.Local.Remove(KeyPaymentSnapshot)
}
