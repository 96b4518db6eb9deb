package services

import "tableside/entity"

// Progress steps shown on the tracking screen.
const (
	StepReceived  = 0
	StepPreparing = 1
	StepReady     = 2
	StepAllServed = 3
)

type Progress struct {
	StepIndex     int    `json:"stepIndex"`
	DisplayStatus string `json:"displayStatus"`
}

// DeriveProgress is a pure function of the order snapshot. Rejected items
// never count; the step is the minimum milestone every remaining item has
// reached. Terminal/payment order statuses override the item-derived one.
func DeriveProgress(o *entity.Order) Progress {
	if o == nil {
		return Progress{StepIndex: StepReceived, DisplayStatus: entity.OrderStatusPending}
	}

	step := itemsStep(o)

	display := displayFromStep(step)
	switch o.Status {
	case entity.OrderStatusPaymentPending, entity.OrderStatusCompleted,
		entity.OrderStatusCancelled, entity.OrderStatusRejected:
		display = o.Status
	}

	return Progress{StepIndex: step, DisplayStatus: display}
}

func itemsStep(o *entity.Order) int {
	allServed, allReady, allAccepted := true, true, true
	any := false

	for _, it := range o.OrderItems {
		if it.Status == entity.ItemStatusRejected {
			continue
		}
		any = true
		switch it.Status {
		case entity.ItemStatusServed:
		case entity.ItemStatusReady:
			allServed = false
		case entity.ItemStatusAccepted, entity.ItemStatusPreparing:
			allServed, allReady = false, false
		default: // pending
			allServed, allReady, allAccepted = false, false, false
		}
	}

	if !any {
		return StepReceived
	}
	switch {
	case allServed:
		return StepAllServed
	case allReady:
		return StepReady
	case allAccepted:
		return StepPreparing
	default:
		return StepReceived
	}
}

func displayFromStep(step int) string {
	switch step {
	case StepAllServed:
		return entity.OrderStatusServed
	case StepReady, StepPreparing:
		return entity.OrderStatusActive
	default:
		return entity.OrderStatusPending
	}
}

// CanRequestBill: at least one non-rejected item and every one of them
// served. An all-rejected order has nothing to bill.
func CanRequestBill(o *entity.Order) bool {
	if o == nil {
		return false
	}
	any := false
	for _, it := range o.OrderItems {
		if it.Status == entity.ItemStatusRejected {
			continue
		}
		if it.Status != entity.ItemStatusServed {
			return false
		}
		any = true
	}
	return any
}
