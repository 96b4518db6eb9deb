package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tableside/api"
	"tableside/entity"
	"tableside/repository"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrdersAPI is the slice of the backend client the order session needs.
// *api.Client satisfies it; tests inject fakes.
type OrdersAPI interface {
	CreateGuestOrder(ctx context.Context, tableID, guestName, notes string, items []api.CreateOrderItem) (*entity.Order, error)
	CreateCustomerOrder(ctx context.Context, notes string, items []api.CreateOrderItem) (*entity.Order, error)
	CurrentOrder(ctx context.Context) (*entity.Order, error)
	RequestBill(ctx context.Context, orderID string) (*entity.Order, error)
	CancelBillRequest(ctx context.Context) error
	CallWaiter(ctx context.Context) error
}

// OrderService drives the order session: checkout from the cart, current
// order reads, bill request and the side actions.
type OrderService struct {
	API    OrdersAPI
	Tables *repository.TableRepository
	Cart   *CartService
	// Authed reports whether a customer token is usable right now; the
	// auth provider itself is external.
	Authed func() bool
	logger *zap.SugaredLogger
}

func NewOrderService(apiClient OrdersAPI, tables *repository.TableRepository, cart *CartService, authed func() bool, logger *zap.SugaredLogger) *OrderService {
	if authed == nil {
		authed = func() bool { return false }
	}
	return &OrderService{API: apiClient, Tables: tables, Cart: cart, Authed: authed, logger: logger}
}

// CurrentOrder returns (nil, nil) when the table simply has no active
// order — that is an empty state, not a failure.
func (s *OrderService) CurrentOrder(ctx context.Context) (*entity.Order, error) {
	o, err := s.API.CurrentOrder(ctx)
	if errors.Is(err, api.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Checkout places the cart as an order. Customer path rides the session
// token; guest path needs the QR-scanned table and fails distinctly
// (repository.ErrNoTable) when none is stored. The cart is cleared only
// after the server accepted the order.
func (s *OrderService) Checkout(ctx context.Context, guestName, notes string) (*entity.Order, error) {
	items := s.Cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	reqItems := make([]api.CreateOrderItem, 0, len(items))
	for _, it := range items {
		ri := api.CreateOrderItem{
			MenuItemID:     it.MenuItemID,
			Quantity:       it.Quantity,
			SpecialRequest: it.SpecialRequest,
		}
		for _, op := range it.Options {
			ri.OptionIDs = append(ri.OptionIDs, op.OptionID)
		}
		reqItems = append(reqItems, ri)
	}

	var o *entity.Order
	var err error
	if s.Authed() {
		o, err = s.API.CreateCustomerOrder(ctx, notes, reqItems)
	} else {
		t, terr := s.Tables.Get()
		if terr != nil {
			return nil, terr
		}
		o, err = s.API.CreateGuestOrder(ctx, t.ID, guestName, notes, reqItems)
	}
	if err != nil {
		return nil, err
	}

	if cerr := s.Cart.Clear(); cerr != nil {
		s.logger.Warnw("cart clear after checkout failed", "error", cerr)
	}
	s.logger.Infow("order placed", "order_id", o.ID, "items", len(reqItems))
	return o, nil
}

func (s *OrderService) RequestBill(ctx context.Context, orderID string) (*entity.Order, error) {
	return s.API.RequestBill(ctx, orderID)
}

// CancelBillRequest and CallWaiter are fire-and-acknowledge; a failure is
// a transient banner upstream, never fatal to the session.
func (s *OrderService) CancelBillRequest(ctx context.Context) error {
	if err := s.API.CancelBillRequest(ctx); err != nil {
		s.logger.Warnw("cancel bill request failed", "error", err)
		return err
	}
	return nil
}

func (s *OrderService) CallWaiter(ctx context.Context) error {
	if err := s.API.CallWaiter(ctx); err != nil {
		s.logger.Warnw("call waiter failed", "error", err)
		return err
	}
	return nil
}
