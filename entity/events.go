package entity

// Realtime payloads on the orders namespace.

// JoinTable is emitted by the client right after connecting.
type JoinTable struct {
	TableID string `json:"table_id"`
}

type OrderStatusUpdated struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

type OrderItemUpdated struct {
	OrderItemID    string `json:"order_item_id"`
	Status         string `json:"status"`
	RejectedReason string `json:"rejected_reason,omitempty"`
	Timestamp      int64  `json:"timestamp"`
}
