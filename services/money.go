package services

import (
	"math"

	"tableside/entity"
)

// Tax is fixed at 10% of the post-discount subtotal.
const TaxRate = 0.10

// Tip modes the bill screen offers.
const (
	TipMode10     = "10"
	TipMode15     = "15"
	TipMode20     = "20"
	TipModeCustom = "custom"
)

// RoundCents rounds to 2 decimals. Applied after EVERY arithmetic step of
// the bill pipeline, not just at the end — display totals must not drift
// from cent-level rounding.
func RoundCents(x float64) float64 {
	return math.Round(x*100) / 100
}

// TipPercent resolves the effective tip percentage. Custom input that is
// non-finite or non-positive counts as no tip.
func TipPercent(mode string, custom float64) float64 {
	switch mode {
	case TipMode10:
		return 10
	case TipMode15:
		return 15
	case TipMode20:
		return 20
	case TipModeCustom:
		if math.IsNaN(custom) || math.IsInf(custom, 0) || custom <= 0 {
			return 0
		}
		return custom
	default:
		return 0
	}
}

// OrderSubtotal prefers the server total but recomputes from line items
// when it is missing or zero.
func OrderSubtotal(o *entity.Order) float64 {
	if o == nil {
		return 0
	}
	if o.TotalAmount > 0 {
		return RoundCents(o.TotalAmount)
	}
	return RoundCents(o.ItemsSubtotal())
}

type BillTotals struct {
	Subtotal              float64 `json:"subtotal"`
	DiscountAmount        float64 `json:"discountAmount"`
	SubtotalAfterDiscount float64 `json:"subtotalAfterDiscount"`
	Tax                   float64 `json:"tax"`
	Total                 float64 `json:"total"`
	TipPercent            float64 `json:"tipPercent"`
	TipAmount             float64 `json:"tipAmount"`
	GrandTotal            float64 `json:"grandTotal"`
}

// DiscountFor applies the discount rule: take the payment's amount when
// positive, otherwise derive from its rate. Never guessed before the
// payment record reports it.
func DiscountFor(p *entity.Payment, subtotal float64) float64 {
	if p == nil {
		return 0
	}
	if p.DiscountAmount > 0 {
		return RoundCents(p.DiscountAmount)
	}
	return RoundCents(subtotal * p.DiscountRate / 100)
}

// ComputeBill runs the derivation pipeline in its strict order.
func ComputeBill(subtotal float64, p *entity.Payment, tipPct float64) BillTotals {
	t := BillTotals{}
	t.Subtotal = RoundCents(subtotal)
	t.DiscountAmount = DiscountFor(p, t.Subtotal)
	t.SubtotalAfterDiscount = RoundCents(t.Subtotal - t.DiscountAmount)
	t.Tax = RoundCents(t.SubtotalAfterDiscount * TaxRate)
	t.Total = RoundCents(t.SubtotalAfterDiscount + t.Tax)
	t.TipPercent = tipPct
	t.TipAmount = RoundCents(t.Total * tipPct / 100)
	t.GrandTotal = RoundCents(t.Total + t.TipAmount)
	return t
}
