package entity

// OrderItem statuses as reported by the backend.
const (
	ItemStatusPending   = "pending"
	ItemStatusAccepted  = "accepted"
	ItemStatusPreparing = "preparing"
	ItemStatusReady     = "ready"
	ItemStatusServed    = "served"
	ItemStatusRejected  = "rejected"
)

type OrderItemOption struct {
	ID          string  `json:"id"`
	OptionName  string  `json:"optionName"`
	PriceAtTime float64 `json:"priceAtTime"`
}

type OrderItem struct {
	ID               string            `json:"id"`
	MenuItemID       string            `json:"menuItemId"`
	MenuItemName     string            `json:"menuItemName"`
	Quantity         int               `json:"quantity"`
	UnitPrice        float64           `json:"unitPrice"`
	SpecialRequest   string            `json:"specialRequest,omitempty"`
	Status           string            `json:"status"`
	RejectedReason   string            `json:"rejectedReason,omitempty"`
	OrderItemOptions []OrderItemOption `json:"orderItemOptions"`
}

func (it OrderItem) LineTotal() float64 {
	unit := it.UnitPrice
	for _, op := range it.OrderItemOptions {
		unit += op.PriceAtTime
	}
	return unit * float64(it.Quantity)
}
