package repository

import (
	"testing"

	"go.uber.org/zap"
)

// memStore is a map-backed Store for tests.
type memStore struct {
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (s *memStore) Get(key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}
func (s *memStore) Set(key, value string) error { s.data[key] = value; return nil }
func (s *memStore) Remove(key string) error     { delete(s.data, key); return nil }

func newTestCartRepo(store Store) *CartRepository {
	return NewCartRepository(store, zap.NewNop().Sugar())
}

func TestCartLoadEmpty(t *testing.T) {
	r := newTestCartRepo(newMemStore())
	if got := r.Load(); len(got) != 0 {
		t.Errorf("Load() on empty store = %d items, want 0", len(got))
	}
}

func TestCartLoadCorruptPayloadResets(t *testing.T) {
	store := newMemStore()
	store.data[KeyCart] = "{not json["

	r := newTestCartRepo(store)
	if got := r.Load(); len(got) != 0 {
		t.Errorf("Load() on corrupt payload = %d items, want 0", len(got))
	}
	if _, ok := store.data[KeyCart]; ok {
		t.Error("corrupt cart key should have been removed")
	}
}

func TestCartLoadDropsEntriesMissingIdentity(t *testing.T) {
	store := newMemStore()
	store.data[KeyCart] = `[
		{"menuItemId":"a","menuItemName":"Pad Thai","price":9.5,"quantity":2,"options":[]},
		{"menuItemName":"ghost","price":1,"quantity":1},
		{"menuItemId":"b","menuItemName":"Tom Yum","price":7,"quantity":1,"options":[]}
	]`

	r := newTestCartRepo(store)
	items := r.Load()
	if len(items) != 2 {
		t.Fatalf("Load() = %d items, want 2 (identity-less entry dropped)", len(items))
	}
	if items[0].MenuItemID != "a" || items[1].MenuItemID != "b" {
		t.Errorf("unexpected survivors: %+v", items)
	}
}

func TestCartLoadMigratesLegacyFieldNames(t *testing.T) {
	store := newMemStore()
	store.data[KeyCart] = `[
		{"itemId":"a","itemName":"Pad Thai","price":9.5,"qty":2,"note":"no peanuts",
		 "modifiers":[{"id":"x","name":"extra egg","price":1.5}]},
		{"somethingElse":true}
	]`

	r := newTestCartRepo(store)
	items := r.Load()
	if len(items) != 1 {
		t.Fatalf("Load() = %d items, want 1 migrated entry", len(items))
	}
	it := items[0]
	if it.MenuItemID != "a" || it.MenuItemName != "Pad Thai" || it.Quantity != 2 {
		t.Errorf("migration produced %+v", it)
	}
	if it.SpecialRequest != "no peanuts" {
		t.Errorf("note not migrated: %q", it.SpecialRequest)
	}
	if len(it.Options) != 1 || it.Options[0].OptionID != "x" || it.Options[0].PriceAtTime != 1.5 {
		t.Errorf("modifiers not migrated: %+v", it.Options)
	}
}

func TestCartLoadClampsQuantity(t *testing.T) {
	store := newMemStore()
	store.data[KeyCart] = `[{"menuItemId":"a","menuItemName":"x","price":1,"quantity":0,"options":[]}]`

	r := newTestCartRepo(store)
	items := r.Load()
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Errorf("Load() quantity clamp: got %+v", items)
	}
}

func TestCartSaveRoundTrip(t *testing.T) {
	store := newMemStore()
	r := newTestCartRepo(store)

	in := r.Load()
	if len(in) != 0 {
		t.Fatal("expected empty start")
	}
	if err := r.Save(nil); err != nil {
		t.Fatalf("Save(nil) error: %v", err)
	}
	if store.data[KeyCart] != "[]" {
		t.Errorf("Save(nil) wrote %q, want []", store.data[KeyCart])
	}
}
