package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"tableside/api"
	"tableside/entity"
	"tableside/repository"
)

// Billing phases as the client observes the server-driven lifecycle.
const (
	PhaseLoading  = "loading"
	PhaseNoBill   = "no_bill"         // order live, bill not requested yet
	PhaseCreated  = "awaiting_staff"  // payment created, discount not known
	PhaseAccepted = "choose_method"   // staff accepted, discount authoritative
	PhaseRedirect = "redirect"        // guest left for the hosted checkout
	PhasePreview  = "bill_preview"    // receipt can be rendered
	PhaseError    = "error"           // terminal, recover by navigation
)

// ErrOrderUnavailable is the terminal acquisition failure: no live order,
// no cached payment, no snapshot. The guest restarts from the menu.
var ErrOrderUnavailable = errors.New("unable to load order")

// PaymentsAPI is the payment slice of the backend client.
type PaymentsAPI interface {
	InitiatePayment(ctx context.Context, in api.InitiatePaymentIn) (*api.InitiatePaymentOut, error)
	ConfirmPayment(ctx context.Context, paymentID, status string) (*entity.Payment, error)
	PaymentByID(ctx context.Context, paymentID string) (*entity.Payment, error)
	PaymentByOrderID(ctx context.Context, orderID string) (*entity.Payment, error)
}

// BillingService reconciles the bill lifecycle: request bill → payment
// created → staff accepts (discount lands) → pay cash or online → confirm
// → receipt. It owns retry/backoff order acquisition, the 2s payment poll,
// snapshot persistence for receipt recovery, and the one-shot confirm latch.
type BillingService struct {
	Orders    *OrderService
	Payments  PaymentsAPI
	Snapshots *repository.SnapshotRepository
	Tables    *repository.TableRepository
	logger    *zap.SugaredLogger

	ReturnURL    string
	PollInterval time.Duration
	BackoffBase  time.Duration
	BackoffCap   time.Duration
	MaxRetries   int

	// sleep is swapped out in tests
	sleep func(ctx context.Context, d time.Duration) error

	// runCtx outlives individual HTTP requests; the poll goroutine hangs
	// off it and dies on Close.
	runCtx    context.Context
	runCancel context.CancelFunc

	mu          sync.Mutex
	phase       string
	order       *entity.Order
	payment     *entity.Payment
	method      string
	checkoutURL string
	tipMode     string
	customTip   float64
	tableNumber string
	warning     string
	errMsg      string
	confirmed   bool // one-shot latch for online confirmation
	polling     bool
}

func NewBillingService(orders *OrderService, payments PaymentsAPI, snaps *repository.SnapshotRepository, tables *repository.TableRepository, returnURL string, logger *zap.SugaredLogger) *BillingService {
	ctx, cancel := context.WithCancel(context.Background())
	return &BillingService{
		runCtx:       ctx,
		runCancel:    cancel,
		Orders:       orders,
		Payments:     payments,
		Snapshots:    snaps,
		Tables:       tables,
		logger:       logger,
		ReturnURL:    returnURL,
		PollInterval: 2 * time.Second,
		BackoffBase:  1 * time.Second,
		BackoffCap:   5 * time.Second,
		MaxRetries:   3,
		phase:        PhaseLoading,
		sleep:        sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// fetchOrderWithRetry: initial attempt + MaxRetries, delays doubling from
// BackoffBase, capped at BackoffCap. Sequential awaited delays — retries
// never stack.
func (s *BillingService) fetchOrderWithRetry(ctx context.Context) (*entity.Order, error) {
	delay := s.BackoffBase
	for attempt := 0; ; attempt++ {
		o, err := s.Orders.CurrentOrder(ctx)
		if err == nil {
			return o, nil
		}
		if attempt >= s.MaxRetries {
			return nil, err
		}
		s.logger.Warnw("order fetch failed, backing off", "attempt", attempt, "delay", delay, "error", err)
		if serr := s.sleep(ctx, delay); serr != nil {
			return nil, serr
		}
		delay *= 2
		if delay > s.BackoffCap {
			delay = s.BackoffCap
		}
	}
}

// Begin acquires the bill context when the payment view opens. Recovery
// ladder: live order fetch with backoff → payment by the session-cached
// order id (payments outlive the active-order view) plus one more bounded
// order refetch → persisted snapshot → terminal error.
func (s *BillingService) Begin(ctx context.Context) error {
	s.mu.Lock()
	s.phase = PhaseLoading
	s.errMsg = ""
	s.mu.Unlock()

	o, err := s.fetchOrderWithRetry(ctx)
	if err != nil {
		s.logger.Warnw("live order unavailable, trying cached payment", "error", err)
		if cachedID, ok := s.Snapshots.PendingOrderID(); ok {
			if p, perr := s.Payments.PaymentByOrderID(ctx, cachedID); perr == nil {
				s.setPayment(p)
				// a recovered created payment still needs the acceptance
				// watch; syncPayment won't reach it without a live order
				s.ensurePolling(ctx)
			}
			o, _ = s.fetchOrderWithRetry(ctx)
		}
	}

	if o == nil {
		s.mu.Lock()
		hasPayment := s.payment != nil
		s.mu.Unlock()
		if !hasPayment {
			if snap, serr := s.Snapshots.LoadSnapshot(); serr == nil {
				s.applySnapshot(snap)
				return nil
			}
			s.fail(ErrOrderUnavailable.Error())
			return ErrOrderUnavailable
		}
	}

	if o != nil {
		s.adoptOrder(o)
	}
	s.syncPayment(ctx)
	return nil
}

func (s *BillingService) applySnapshot(snap *entity.BillSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = snap.Order
	s.tableNumber = snap.TableNumber
	s.tipMode = snap.TipMode
	s.customTip = snap.CustomTip
	// a snapshot only exists because a bill was opened; restoring one means
	// render the receipt, not reopen the request-bill flow
	s.phase = PhasePreview
	s.logger.Infow("restored bill from snapshot", "order_id", snap.Order.ID)
}

// adoptOrder records a live order, caches its id for recovery and persists
// the receipt snapshot.
func (s *BillingService) adoptOrder(o *entity.Order) {
	s.mu.Lock()
	s.order = o
	if t, err := s.Tables.Get(); err == nil {
		s.tableNumber = t.Number
	}
	s.recomputePhaseLocked()
	snap := entity.BillSnapshot{
		Order:       o,
		TableNumber: s.tableNumber,
		TipMode:     s.tipMode,
		CustomTip:   s.customTip,
	}
	s.mu.Unlock()

	if err := s.Snapshots.SetPendingOrderID(o.ID); err != nil {
		s.logger.Warnw("pending order marker write failed", "error", err)
	}
	if err := s.Snapshots.SaveSnapshot(snap); err != nil {
		s.logger.Warnw("bill snapshot write failed", "error", err)
	}
}

// syncPayment loads the payment record for the held order and starts the
// acceptance poll when it is still in created.
func (s *BillingService) syncPayment(ctx context.Context) {
	s.mu.Lock()
	o := s.order
	s.mu.Unlock()
	if o == nil || o.Status != entity.OrderStatusPaymentPending {
		return
	}

	p, err := s.Payments.PaymentByOrderID(ctx, o.ID)
	if errors.Is(err, api.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warnw("payment fetch failed", "order_id", o.ID, "error", err)
		return
	}
	s.setPayment(p)
	s.ensurePolling(ctx)
}

// RequestBill asks the server to open the bill. The caller may hand in the
// order it is tracking; otherwise the engine's own held order is used. The
// updated order is adopted immediately (optimistic payment_pending is
// reconciled by the next read) and the acceptance poll starts.
func (s *BillingService) RequestBill(ctx context.Context, o *entity.Order) error {
	if o == nil {
		s.mu.Lock()
		o = s.order
		s.mu.Unlock()
	}
	if o == nil {
		return ErrOrderUnavailable
	}

	updated, err := s.Orders.RequestBill(ctx, o.ID)
	if err != nil {
		return err
	}
	s.adoptOrder(updated)
	s.syncPayment(ctx)
	return nil
}

// ensurePolling starts the 2s poll only while the payment sits in created;
// the condition also guards against a second poller. The goroutine rides
// runCtx, not the request context that triggered it.
func (s *BillingService) ensurePolling(_ context.Context) {
	s.mu.Lock()
	if s.polling || s.payment == nil || s.payment.Status != entity.PaymentStatusCreated {
		s.mu.Unlock()
		return
	}
	s.polling = true
	orderID := s.payment.OrderID
	if orderID == "" && s.order != nil {
		orderID = s.order.ID
	}
	s.mu.Unlock()

	go s.pollAcceptance(s.runCtx, orderID)
}

func (s *BillingService) pollAcceptance(ctx context.Context, orderID string) {
	defer func() {
		s.mu.Lock()
		s.polling = false
		s.mu.Unlock()
	}()

	for {
		if err := s.sleep(ctx, s.PollInterval); err != nil {
			return
		}

		s.mu.Lock()
		cancelled := s.payment == nil // bill request withdrawn mid-poll
		s.mu.Unlock()
		if cancelled {
			return
		}

		p, err := s.Payments.PaymentByOrderID(ctx, orderID)
		if err != nil {
			s.logger.Warnw("payment poll failed", "order_id", orderID, "error", err)
			continue
		}
		s.setPayment(p)

		if p.Status != entity.PaymentStatusCreated {
			break
		}
	}

	// staff accepted: item data may not have been there earlier, so give
	// the order one more bounded refetch if the snapshot looks empty
	s.mu.Lock()
	needOrder := s.order == nil || len(s.order.OrderItems) == 0
	s.mu.Unlock()
	if needOrder {
		if o, err := s.fetchOrderWithRetry(ctx); err == nil && o != nil {
			s.adoptOrder(o)
		}
	}
}

func (s *BillingService) setPayment(p *entity.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payment = p
	s.recomputePhaseLocked()
}

// recomputePhaseLocked derives the phase from the latest payment/order
// truth; callers hold s.mu.
func (s *BillingService) recomputePhaseLocked() {
	if s.errMsg != "" {
		s.phase = PhaseError
		return
	}
	switch {
	case s.payment == nil:
		s.phase = PhaseNoBill
	case s.payment.Status == entity.PaymentStatusCreated:
		s.phase = PhaseCreated
	case s.payment.Status == entity.PaymentStatusAccepted:
		if s.phase == PhaseRedirect {
			return // waiting for the checkout return, keep it
		}
		s.phase = PhaseAccepted
	case s.payment.Status == entity.PaymentStatusSuccess:
		s.phase = PhasePreview
	case s.payment.Status == entity.PaymentStatusFailed:
		s.phase = PhaseAccepted // let the guest retry another method
	}
}

// SetTip records the tip choice and refreshes the snapshot so a receipt
// restored later shows the same tip.
func (s *BillingService) SetTip(mode string, custom float64) {
	s.mu.Lock()
	s.tipMode = mode
	s.customTip = custom
	o := s.order
	snap := entity.BillSnapshot{
		Order:       o,
		TableNumber: s.tableNumber,
		TipMode:     mode,
		CustomTip:   custom,
	}
	s.mu.Unlock()

	if o != nil {
		if err := s.Snapshots.SaveSnapshot(snap); err != nil {
			s.logger.Warnw("bill snapshot write failed", "error", err)
		}
	}
}

// Totals runs the monetary pipeline on the current snapshot. The discount
// only participates once staff accepted — before that the payment record
// is not authoritative.
func (s *BillingService) Totals() BillTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalsLocked()
}

func (s *BillingService) totalsLocked() BillTotals {
	var p *entity.Payment
	if s.payment != nil && s.payment.Status != entity.PaymentStatusCreated {
		p = s.payment
	}
	tip := TipPercent(s.tipMode, s.customTip)
	return ComputeBill(OrderSubtotal(s.order), p, tip)
}

// PayCash settles at the table: the payment is initiated and the receipt
// shows immediately; staff completes it out-of-band.
func (s *BillingService) PayCash(ctx context.Context) error {
	t := s.Totals()
	out, err := s.Payments.InitiatePayment(ctx, api.InitiatePaymentIn{
		Method:         entity.PaymentMethodCash,
		TipAmount:      t.TipAmount,
		DiscountAmount: t.DiscountAmount,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.payment = &out.Payment
	s.method = entity.PaymentMethodCash
	s.phase = PhasePreview
	s.mu.Unlock()
	s.logger.Infow("cash payment initiated", "payment_id", out.Payment.ID)
	return nil
}

// PayOnline initiates the hosted checkout and returns the URL to redirect
// to. The flow resumes in HandleReturn.
func (s *BillingService) PayOnline(ctx context.Context) (string, error) {
	t := s.Totals()
	out, err := s.Payments.InitiatePayment(ctx, api.InitiatePaymentIn{
		Method:         entity.PaymentMethodStripe,
		ReturnURL:      s.ReturnURL,
		TipAmount:      t.TipAmount,
		DiscountAmount: t.DiscountAmount,
	})
	if err != nil {
		return "", err
	}
	if out.CheckoutURL == "" {
		return "", errors.New("checkout url missing from payment response")
	}

	s.mu.Lock()
	s.payment = &out.Payment
	s.method = entity.PaymentMethodStripe
	s.checkoutURL = out.CheckoutURL
	s.phase = PhaseRedirect
	s.mu.Unlock()
	s.logger.Infow("online payment initiated", "payment_id", out.Payment.ID)
	return out.CheckoutURL, nil
}

// HandleReturn resumes after the checkout redirect. Confirmation is behind
// a one-shot latch so the automatic return hook and a manual "I have paid"
// cannot both fire. A failed confirm is a soft warning only — the gateway
// webhook may already have completed the transition server-side, so the
// receipt still shows.
func (s *BillingService) HandleReturn(ctx context.Context, ret entity.CheckoutReturn) {
	if !ret.Paid || ret.PaymentID == "" {
		return
	}

	s.mu.Lock()
	if s.order == nil {
		s.mu.Unlock()
		if snap, err := s.Snapshots.LoadSnapshot(); err == nil {
			s.applySnapshot(snap)
		}
		s.mu.Lock()
	}
	s.method = ret.Method
	s.mu.Unlock()

	// adopt the gateway's record for the returned payment id; held state may
	// be stale or missing after the redirect round-trip
	if p, err := s.Payments.PaymentByID(ctx, ret.PaymentID); err == nil {
		s.setPayment(p)
	}

	s.confirm(ctx, ret.PaymentID)
}

// ConfirmManual is the guest's explicit "I have paid" fallback.
func (s *BillingService) ConfirmManual(ctx context.Context) {
	s.mu.Lock()
	var id string
	if s.payment != nil {
		id = s.payment.ID
	}
	s.mu.Unlock()
	if id == "" {
		return
	}
	s.confirm(ctx, id)
}

func (s *BillingService) confirm(ctx context.Context, paymentID string) {
	s.mu.Lock()
	if s.confirmed {
		s.mu.Unlock()
		return
	}
	s.confirmed = true
	s.mu.Unlock()

	p, err := s.Payments.ConfirmPayment(ctx, paymentID, entity.PaymentStatusSuccess)

	s.mu.Lock()
	if err != nil {
		s.warning = "We couldn't verify the payment automatically. If you completed checkout, your receipt below is valid."
		s.logger.Warnw("payment confirm failed", "payment_id", paymentID, "error", err)
	} else {
		s.payment = p
	}
	s.phase = PhasePreview
	s.mu.Unlock()

	if err == nil {
		_ = s.Snapshots.ClearPendingOrderID()
	}
}

// CancelBill is the non-critical undo of a bill request.
func (s *BillingService) CancelBill(ctx context.Context) error {
	if err := s.Orders.CancelBillRequest(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.payment = nil // also stops the poll on its next tick
	s.recomputePhaseLocked()
	s.mu.Unlock()
	_ = s.Snapshots.ClearPendingOrderID()
	return nil
}

// Close tears the engine down; the acceptance poll dies with runCtx.
func (s *BillingService) Close() {
	s.runCancel()
}

func (s *BillingService) fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
	s.phase = PhaseError
}

type BillState struct {
	Phase       string          `json:"phase"`
	Order       *entity.Order   `json:"order,omitempty"`
	Payment     *entity.Payment `json:"payment,omitempty"`
	Method      string          `json:"method,omitempty"`
	CheckoutURL string          `json:"checkoutUrl,omitempty"`
	TableNumber string          `json:"tableNumber,omitempty"`
	TipMode     string          `json:"tipMode,omitempty"`
	CustomTip   float64         `json:"customTip,omitempty"`
	Totals      BillTotals      `json:"totals"`
	Warning     string          `json:"warning,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func (s *BillingService) State() BillState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return BillState{
		Phase:       s.phase,
		Order:       s.order,
		Payment:     s.payment,
		Method:      s.method,
		CheckoutURL: s.checkoutURL,
		TableNumber: s.tableNumber,
		TipMode:     s.tipMode,
		CustomTip:   s.customTip,
		Totals:      s.totalsLocked(),
		Warning:     s.warning,
		Error:       s.errMsg,
	}
}
