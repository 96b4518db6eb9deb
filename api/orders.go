package api

import (
	"context"
	"net/http"

	"tableside/entity"
)

// CreateOrderItem is one requested line in an order-create call.
type CreateOrderItem struct {
	MenuItemID     string   `json:"menuItemId"`
	Quantity       int      `json:"quantity"`
	SpecialRequest string   `json:"specialRequest,omitempty"`
	OptionIDs      []string `json:"optionIds,omitempty"`
}

type createGuestOrderReq struct {
	TableID   string            `json:"tableId"`
	GuestName string            `json:"guestName,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Items     []CreateOrderItem `json:"items"`
}

type createCustomerOrderReq struct {
	Notes string            `json:"notes,omitempty"`
	Items []CreateOrderItem `json:"items"`
}

func (c *Client) CreateGuestOrder(ctx context.Context, tableID, guestName, notes string, items []CreateOrderItem) (*entity.Order, error) {
	var o entity.Order
	err := c.do(ctx, http.MethodPost, "/orders/guest", createGuestOrderReq{
		TableID: tableID, GuestName: guestName, Notes: notes, Items: items,
	}, &o)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateCustomerOrder relies on server-side session binding, no table id.
func (c *Client) CreateCustomerOrder(ctx context.Context, notes string, items []CreateOrderItem) (*entity.Order, error) {
	var o entity.Order
	err := c.do(ctx, http.MethodPost, "/orders/customer", createCustomerOrderReq{
		Notes: notes, Items: items,
	}, &o)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CurrentOrder returns the single active order for this table session.
// ErrNotFound when there is none.
func (c *Client) CurrentOrder(ctx context.Context) (*entity.Order, error) {
	var o entity.Order
	if err := c.do(ctx, http.MethodGet, "/orders/guest", nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// RequestBill moves the order to payment_pending. Safe to retry — the
// server is authoritative on status, a repeat is a no-op there.
func (c *Client) RequestBill(ctx context.Context, orderID string) (*entity.Order, error) {
	var o entity.Order
	err := c.do(ctx, http.MethodPost, "/orders/guest/request-bill", map[string]string{"orderId": orderID}, &o)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CancelBillRequest(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/orders/guest/cancel-bill", nil, nil)
}

func (c *Client) CallWaiter(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/orders/guest/call-waiter", nil, nil)
}
