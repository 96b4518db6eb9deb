package services

import (
	"sync"

	"go.uber.org/zap"

	"tableside/entity"
	"tableside/repository"
)

// CartService is the local cart store. State lives on this device only and
// is persisted on every mutation; totals are recomputed on every read.
type CartService struct {
	mu     sync.Mutex
	repo   *repository.CartRepository
	logger *zap.SugaredLogger
	items  []entity.CartItem
}

func NewCartService(repo *repository.CartRepository, logger *zap.SugaredLogger) *CartService {
	return &CartService{
		repo:   repo,
		logger: logger,
		items:  repo.Load(),
	}
}

// AddItem merges into an existing line when menu item AND the options
// sequence match exactly; any difference in options makes a new line.
func (s *CartService) AddItem(it entity.CartItem) error {
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	if it.Options == nil {
		it.Options = []entity.CartItemOption{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.items {
		if s.items[i].SameLine(it) {
			s.items[i].Quantity += it.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, it)
	}
	return s.persist()
}

// UpdateQuantity keys by menu item id alone, so every option-variant line
// of that item gets the new quantity. Deliberate: the cart screen exposes
// one stepper per menu item.
func (s *CartService) UpdateQuantity(menuItemID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(menuItemID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].MenuItemID == menuItemID {
			s.items[i].Quantity = quantity
		}
	}
	return s.persist()
}

// RemoveItem drops every line with this menu item id, options included.
func (s *CartService) RemoveItem(menuItemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.MenuItemID != menuItemID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s.persist()
}

func (s *CartService) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.repo.Clear()
}

func (s *CartService) Items() []entity.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartService) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.items {
		total += it.LineTotal()
	}
	return RoundCents(total)
}

func (s *CartService) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *CartService) persist() error {
	if err := s.repo.Save(s.items); err != nil {
		s.logger.Errorw("cart persist failed", "error", err)
		return err
	}
	return nil
}
