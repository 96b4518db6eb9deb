package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"tableside/entity"
	"tableside/repository"
	"tableside/ws"
)

func newTestTracker(t *testing.T, fo *fakeOrders) *OrderTracker {
	t.Helper()
	nop := zap.NewNop().Sugar()
	local := newMemStore()
	cart := NewCartService(repository.NewCartRepository(local, nop), nop)
	orderSvc := NewOrderService(fo, repository.NewTableRepository(local), cart, nil, nop)
	return NewOrderTracker(orderSvc, ws.NewBridge("ws://unused", nop), nop)
}

func TestTrackerFetchKeepsSnapshotOnError(t *testing.T) {
	fo := &fakeOrders{current: servedOrder("o1")}
	tr := newTestTracker(t, fo)

	tr.fetch(context.Background())
	if tr.Order() == nil {
		t.Fatal("fetch did not apply the order")
	}

	fo.mu.Lock()
	fo.currentErr = errors.New("backend down")
	fo.mu.Unlock()

	tr.fetch(context.Background())
	st := tr.State()
	if st.Order == nil || st.Order.ID != "o1" {
		t.Error("error fetch dropped the last good snapshot")
	}
	if st.Error == "" {
		t.Error("fetch error not surfaced")
	}

	// recovery clears the error
	fo.mu.Lock()
	fo.currentErr = nil
	fo.mu.Unlock()
	tr.fetch(context.Background())
	if st := tr.State(); st.Error != "" {
		t.Errorf("error survived a good fetch: %q", st.Error)
	}
}

// No active order is an empty state, not an error: (nil, nil) clears the
// snapshot instead of keeping a stale one.
func TestTrackerFetchClearsOnAbsentOrder(t *testing.T) {
	fo := &fakeOrders{current: servedOrder("o1")}
	tr := newTestTracker(t, fo)
	tr.fetch(context.Background())

	fo.mu.Lock()
	fo.current = nil
	fo.mu.Unlock()

	tr.fetch(context.Background())
	st := tr.State()
	if st.Order != nil {
		t.Errorf("absent order left snapshot %+v", st.Order)
	}
	if st.Error != "" {
		t.Errorf("absent order reported error %q", st.Error)
	}
}

func TestMarkBillRequestedOptimistic(t *testing.T) {
	fo := &fakeOrders{current: &entity.Order{
		ID:     "o1",
		Status: entity.OrderStatusActive,
		OrderItems: []entity.OrderItem{
			{ID: "i1", Quantity: 1, UnitPrice: 10, Status: entity.ItemStatusServed},
		},
	}}
	tr := newTestTracker(t, fo)
	tr.fetch(context.Background())

	tr.MarkBillRequested(nil)
	st := tr.State()
	if st.Order.Status != entity.OrderStatusPaymentPending {
		t.Errorf("status = %q, want optimistic payment_pending", st.Order.Status)
	}
	if st.Progress.DisplayStatus != entity.OrderStatusPaymentPending {
		t.Errorf("display = %q, want payment_pending override", st.Progress.DisplayStatus)
	}

	// the next confirmed read wins over the optimistic flip
	tr.fetch(context.Background())
	if got := tr.State().Order.Status; got != entity.OrderStatusActive {
		t.Errorf("status after confirmed read = %q, want server truth", got)
	}
}

func TestNoticeAutoDismissesAfterTTL(t *testing.T) {
	tr := newTestTracker(t, &fakeOrders{})
	tr.NoticeTTL = 20 * time.Millisecond

	tr.showNotice("ขออภัย วัตถุดิบหมด")
	if got := tr.State().Notice; got == "" {
		t.Fatal("notice not shown")
	}

	time.Sleep(60 * time.Millisecond)
	if got := tr.State().Notice; got != "" {
		t.Errorf("notice still up after TTL: %q", got)
	}
}

func TestNewerNoticeSurvivesOldTimer(t *testing.T) {
	tr := newTestTracker(t, &fakeOrders{})
	tr.NoticeTTL = 30 * time.Millisecond

	tr.showNotice("first")
	time.Sleep(15 * time.Millisecond)
	tr.showNotice("second")

	// first notice's timer fires here; "second" must survive it
	time.Sleep(20 * time.Millisecond)
	if got := tr.State().Notice; got != "second" {
		t.Errorf("notice = %q, want second to outlive the stale timer", got)
	}
}
