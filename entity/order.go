package entity

import "time"

// Order statuses as reported by the backend.
const (
	OrderStatusPending        = "pending"
	OrderStatusActive         = "active" // accepted/preparing collapsed server-side
	OrderStatusPaymentPending = "payment_pending"
	OrderStatusServed         = "served"
	OrderStatusCompleted      = "completed"
	OrderStatusCancelled      = "cancelled"
	OrderStatusRejected       = "rejected"
)

type Order struct {
	ID          string      `json:"id"`
	TableID     string      `json:"tableId,omitempty"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	OrderItems  []OrderItem `json:"orderItems"`
	GuestName   string      `json:"guestName,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ItemsSubtotal recomputes the order total from line items.
// ใช้เป็น fallback เวลา totalAmount จาก server เป็น 0 หรือ stale
func (o Order) ItemsSubtotal() float64 {
	var sum float64
	for _, it := range o.OrderItems {
		sum += it.LineTotal()
	}
	return sum
}
