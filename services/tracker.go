package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableside/entity"
	"tableside/ws"
)

// OrderTracker owns the live order snapshot for the tracking view. Two
// producers (poll ticker, realtime bridge) feed one Refresher; the tracker
// itself only ever applies the latest successful fetch. A bill request is
// reflected optimistically and superseded by the next confirmed read.
type OrderTracker struct {
	orders *OrderService
	bridge *ws.Bridge
	logger *zap.SugaredLogger

	// PollInterval is the freshness backstop behind the socket.
	PollInterval time.Duration
	// NoticeTTL is how long a rejection notice stays up.
	NoticeTTL time.Duration

	mu         sync.Mutex
	order      *entity.Order
	optimistic bool
	lastErr    string
	notice     string
	noticeSeq  int

	refresher *Refresher
	cancel    context.CancelFunc
}

type TrackerState struct {
	Order          *entity.Order `json:"order"`
	Progress       Progress      `json:"progress"`
	CanRequestBill bool          `json:"canRequestBill"`
	Notice         string        `json:"notice,omitempty"`
	Error          string        `json:"error,omitempty"`
}

func NewOrderTracker(orders *OrderService, bridge *ws.Bridge, logger *zap.SugaredLogger) *OrderTracker {
	t := &OrderTracker{
		orders:       orders,
		bridge:       bridge,
		logger:       logger,
		PollInterval: 15 * time.Second,
		NoticeTTL:    5 * time.Second,
	}
	t.refresher = NewRefresher(t.fetch)
	return t
}

// Start connects the bridge for this table and begins refreshing. The
// returned context lives until Stop.
func (t *OrderTracker) Start(ctx context.Context, tableID string) error {
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.bridge.OnInvalidate = t.refresher.Invalidate
	t.bridge.OnItemRejected = t.showNotice
	if err := t.bridge.Connect(ctx, tableID); err != nil {
		// socket down is not fatal; polling still covers freshness
		t.logger.Warnw("bridge connect failed, polling only", "error", err)
	}

	go t.refresher.Run(ctx)
	go t.pollLoop(ctx)

	t.refresher.Invalidate() // prime the snapshot
	return nil
}

// Stop tears down the subscriptions; in-flight fetches die with the context.
func (t *OrderTracker) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	t.bridge.Close()
}

func (t *OrderTracker) pollLoop(ctx context.Context) {
	tick := time.NewTicker(t.PollInterval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			t.refresher.Invalidate()
		}
	}
}

func (t *OrderTracker) fetch(ctx context.Context) {
	o, err := t.orders.CurrentOrder(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		// keep the last good snapshot; surface the message
		t.lastErr = err.Error()
		t.logger.Warnw("order refresh failed", "error", err)
		return
	}
	t.order = o
	t.optimistic = false
	t.lastErr = ""
}

// MarkBillRequested records payment_pending locally ahead of the next
// confirmed read, so the UI flips immediately after a request-bill call.
func (t *OrderTracker) MarkBillRequested(o *entity.Order) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if o != nil {
		t.order = o
	} else if t.order != nil {
		cp := *t.order
		cp.Status = entity.OrderStatusPaymentPending
		t.order = &cp
	}
	t.optimistic = true
	t.refresher.Invalidate()
}

// Refresh nudges the coordinator; used after mutations that change the
// server-side order (checkout, bill actions).
func (t *OrderTracker) Refresh() {
	t.refresher.Invalidate()
}

func (t *OrderTracker) Order() *entity.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.order
}

func (t *OrderTracker) State() TrackerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackerState{
		Order:          t.order,
		Progress:       DeriveProgress(t.order),
		CanRequestBill: CanRequestBill(t.order),
		Notice:         t.notice,
		Error:          t.lastErr,
	}
}

// showNotice displays a rejection reason and auto-dismisses it after the
// TTL unless a newer notice replaced it.
func (t *OrderTracker) showNotice(reason string) {
	t.mu.Lock()
	t.notice = reason
	t.noticeSeq++
	seq := t.noticeSeq
	t.mu.Unlock()

	time.AfterFunc(t.NoticeTTL, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.noticeSeq == seq {
			t.notice = ""
		}
	})
}
