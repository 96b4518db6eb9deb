package entity

import "time"

// BillSnapshot is persisted whenever the billing engine holds a live order,
// so the receipt can still be rendered after returning from an external
// checkout redirect (the active-order view may have moved on server-side).
type BillSnapshot struct {
	Order       *Order    `json:"order"`
	TableNumber string    `json:"tableNumber"`
	TipMode     string    `json:"tipMode"`   // "10" | "15" | "20" | "custom"
	CustomTip   float64   `json:"customTip"` // percentage when TipMode == "custom"
	CapturedAt  time.Time `json:"capturedAt"`
}
