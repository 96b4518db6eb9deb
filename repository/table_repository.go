package repository

import (
	"encoding/json"
	"errors"

	"tableside/entity"
)

var ErrNoTable = errors.New("no table selected")

// TableRepository reads/writes the table identity pair set by the QR-scan
// flow. Guest order creation is impossible without it.
type TableRepository struct{ Store Store }

func NewTableRepository(store Store) *TableRepository {
	return &TableRepository{Store: store}
}

func (r *TableRepository) Get() (*entity.TableSelection, error) {
	raw, err := r.Store.Get(KeyTableInfo)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNoTable
	}
	if err != nil {
		return nil, err
	}
	var t entity.TableSelection
	if err := json.Unmarshal([]byte(raw), &t); err != nil || t.ID == "" {
		return nil, ErrNoTable
	}
	return &t, nil
}

func (r *TableRepository) Set(t entity.TableSelection) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.Store.Set(KeyTableInfo, string(b))
}
