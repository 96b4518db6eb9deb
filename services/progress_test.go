package services

import (
	"testing"

	"tableside/entity"
)

func orderWithItems(status string, itemStatuses ...string) *entity.Order {
	o := &entity.Order{ID: "o1", Status: status}
	for i, s := range itemStatuses {
		o.OrderItems = append(o.OrderItems, entity.OrderItem{
			ID: string(rune('a' + i)), MenuItemID: "m", Quantity: 1, UnitPrice: 1, Status: s,
		})
	}
	return o
}

func TestDeriveProgressSteps(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		wantStep int
	}{
		{"allPending", []string{"pending", "pending"}, StepReceived},
		{"mixedPendingAccepted", []string{"pending", "accepted"}, StepReceived},
		{"allAccepted", []string{"accepted", "accepted"}, StepPreparing},
		{"acceptedAndPreparing", []string{"accepted", "preparing"}, StepPreparing},
		{"preparingAndServed", []string{"preparing", "served"}, StepPreparing},
		{"allReady", []string{"ready", "ready"}, StepReady},
		{"readyAndServed", []string{"ready", "served"}, StepReady},
		{"allServed", []string{"served", "served"}, StepAllServed},
		{"servedWithRejected", []string{"served", "rejected"}, StepAllServed},
		{"onlyRejected", []string{"rejected"}, StepReceived},
		{"noItems", nil, StepReceived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveProgress(orderWithItems(entity.OrderStatusActive, tt.items...))
			if got.StepIndex != tt.wantStep {
				t.Errorf("StepIndex = %d, want %d", got.StepIndex, tt.wantStep)
			}
		})
	}
}

// The step never moves backwards as every item advances through the
// pipeline one status at a time.
func TestDeriveProgressMonotonic(t *testing.T) {
	ladder := []string{"pending", "accepted", "preparing", "ready", "served"}
	prev := -1
	for _, s := range ladder {
		got := DeriveProgress(orderWithItems(entity.OrderStatusActive, s, s, s))
		if got.StepIndex < prev {
			t.Fatalf("step went backwards at %q: %d < %d", s, got.StepIndex, prev)
		}
		prev = got.StepIndex
	}
	if prev != StepAllServed {
		t.Errorf("final step = %d, want %d", prev, StepAllServed)
	}
}

func TestDeriveProgressDisplayOverride(t *testing.T) {
	tests := []struct {
		name        string
		orderStatus string
		want        string
	}{
		{"paymentPendingWins", entity.OrderStatusPaymentPending, entity.OrderStatusPaymentPending},
		{"completedWins", entity.OrderStatusCompleted, entity.OrderStatusCompleted},
		{"cancelledWins", entity.OrderStatusCancelled, entity.OrderStatusCancelled},
		{"rejectedWins", entity.OrderStatusRejected, entity.OrderStatusRejected},
		{"activeDoesNotOverride", entity.OrderStatusActive, entity.OrderStatusServed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// items all served → derived display would be "served"
			got := DeriveProgress(orderWithItems(tt.orderStatus, "served", "served"))
			if got.DisplayStatus != tt.want {
				t.Errorf("DisplayStatus = %q, want %q", got.DisplayStatus, tt.want)
			}
		})
	}
}

func TestDeriveProgressNilOrder(t *testing.T) {
	got := DeriveProgress(nil)
	if got.StepIndex != StepReceived {
		t.Errorf("nil order step = %d, want %d", got.StepIndex, StepReceived)
	}
}

func TestCanRequestBill(t *testing.T) {
	tests := []struct {
		name  string
		items []string
		want  bool
	}{
		{"allServed", []string{"served", "served"}, true},
		{"servedPlusRejected", []string{"served", "rejected"}, true},
		{"oneStillReady", []string{"served", "ready"}, false},
		{"onePending", []string{"served", "pending"}, false},
		{"onlyRejected", []string{"rejected", "rejected"}, false},
		{"noItems", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanRequestBill(orderWithItems(entity.OrderStatusActive, tt.items...))
			if got != tt.want {
				t.Errorf("CanRequestBill = %v, want %v", got, tt.want)
			}
		})
	}

	if CanRequestBill(nil) {
		t.Error("CanRequestBill(nil) = true, want false")
	}
}
