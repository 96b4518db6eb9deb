package entity

import "time"

// Payment statuses. created → accepted ทำโดยพนักงาน (ใส่ส่วนลดตรงนี้)
// accepted → success/failed มาจาก client confirm หรือ gateway webhook
const (
	PaymentStatusCreated  = "created"
	PaymentStatusAccepted = "accepted"
	PaymentStatusSuccess  = "success"
	PaymentStatusFailed   = "failed"
)

// Payment methods the guest can choose after staff acceptance.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodStripe = "stripe"
)

type Payment struct {
	ID              string     `json:"id"`
	OrderID         string     `json:"orderId"`
	Status          string     `json:"status"`
	Method          string     `json:"method,omitempty"`
	DiscountRate    float64    `json:"discountRate"`   // 0–100
	DiscountAmount  float64    `json:"discountAmount"` // authoritative when > 0
	TipAmount       float64    `json:"tipAmount"`
	StripeSessionID string     `json:"stripeSessionId,omitempty"`
	CheckoutURL     string     `json:"checkoutUrl,omitempty"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
}

// CheckoutReturn carries the query params the checkout page redirects back
// with: /payments/return?paid=1&method=stripe&paymentId=...
type CheckoutReturn struct {
	Paid      bool
	Method    string
	PaymentID string
}
