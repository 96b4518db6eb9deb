package api

import (
	"context"
	"net/http"

	"tableside/entity"
)

type InitiatePaymentIn struct {
	Method         string  `json:"method"` // cash | stripe
	ReturnURL      string  `json:"returnUrl,omitempty"`
	TipAmount      float64 `json:"tipAmount"`
	DiscountAmount float64 `json:"discountAmount"`
}

type InitiatePaymentOut struct {
	Payment     entity.Payment `json:"payment"`
	CheckoutURL string         `json:"checkoutUrl,omitempty"`
	TotalAmount float64        `json:"totalAmount"`
}

func (c *Client) InitiatePayment(ctx context.Context, in InitiatePaymentIn) (*InitiatePaymentOut, error) {
	var out InitiatePaymentOut
	if err := c.do(ctx, http.MethodPost, "/payments/guest", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmPayment(ctx context.Context, paymentID, status string) (*entity.Payment, error) {
	var p entity.Payment
	err := c.do(ctx, http.MethodPost, "/payments/guest/"+paymentID+"/confirm", map[string]string{"status": status}, &p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) PaymentByID(ctx context.Context, paymentID string) (*entity.Payment, error) {
	var p entity.Payment
	if err := c.do(ctx, http.MethodGet, "/payments/guest/"+paymentID, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PaymentByOrderID exists because payment records can outlive the
// active-order view; billing recovery fetches by the cached order id.
func (c *Client) PaymentByOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	var p entity.Payment
	if err := c.do(ctx, http.MethodGet, "/payments/guest/order/"+orderID, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
