package repository

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"tableside/entity"
)

type CartRepository struct {
	Store  Store
	logger *zap.SugaredLogger
}

func NewCartRepository(store Store, logger *zap.SugaredLogger) *CartRepository {
	return &CartRepository{Store: store, logger: logger}
}

// legacyCartItem is the field naming an older build wrote to storage.
// Decoded as a fallback per entry; entries that fit neither schema are dropped.
type legacyCartItem struct {
	ItemID    string  `json:"itemId"`
	ItemName  string  `json:"itemName"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Note      string  `json:"note"`
	Modifiers []struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	} `json:"modifiers"`
}

// Load reads the persisted cart. Defensive on purpose: a corrupt payload
// wipes the key and returns an empty cart, a bad entry is dropped with a
// warning. Callers never see a parse error.
func (r *CartRepository) Load() []entity.CartItem {
	raw, err := r.Store.Get(KeyCart)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		r.logger.Warnw("cart storage read failed", "error", err)
		return nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		r.logger.Warnw("cart storage corrupt, resetting", "error", err)
		_ = r.Store.Remove(KeyCart)
		return nil
	}

	items := make([]entity.CartItem, 0, len(rows))
	for i, row := range rows {
		it, ok := decodeCartEntry(row)
		if !ok {
			r.logger.Warnw("dropping unmigratable cart entry", "index", i)
			continue
		}
		items = append(items, it)
	}
	return items
}

func decodeCartEntry(row json.RawMessage) (entity.CartItem, bool) {
	var it entity.CartItem
	if err := json.Unmarshal(row, &it); err == nil && it.MenuItemID != "" {
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		if it.Options == nil {
			it.Options = []entity.CartItemOption{}
		}
		return it, true
	}

	// migration path for the old field names
	var old legacyCartItem
	if err := json.Unmarshal(row, &old); err != nil || old.ItemID == "" {
		return entity.CartItem{}, false
	}
	it = entity.CartItem{
		MenuItemID:     old.ItemID,
		MenuItemName:   old.ItemName,
		Price:          old.Price,
		Quantity:       old.Qty,
		SpecialRequest: old.Note,
		Options:        make([]entity.CartItemOption, 0, len(old.Modifiers)),
	}
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	for _, m := range old.Modifiers {
		it.Options = append(it.Options, entity.CartItemOption{
			OptionID: m.ID, OptionName: m.Name, PriceAtTime: m.Price,
		})
	}
	return it, true
}

func (r *CartRepository) Save(items []entity.CartItem) error {
	if items == nil {
		items = []entity.CartItem{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.Store.Set(KeyCart, string(b))
}

func (r *CartRepository) Clear() error {
	return r.Store.Remove(KeyCart)
}
