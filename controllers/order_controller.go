package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tableside/pkg/resp"
	"tableside/repository"
	"tableside/services"
)

type OrderController struct {
	Orders  *services.OrderService
	Tracker *services.OrderTracker
	Billing *services.BillingService
}

func NewOrderController(orders *services.OrderService, tracker *services.OrderTracker, billing *services.BillingService) *OrderController {
	return &OrderController{Orders: orders, Tracker: tracker, Billing: billing}
}

type checkoutReq struct {
	GuestName string `json:"guestName"`
	Notes     string `json:"notes"`
}

// Checkout places the current cart as an order.
func (ctl *OrderController) Checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		resp.BadRequest(c, err.Error())
		return
	}

	o, err := ctl.Orders.Checkout(c.Request.Context(), req.GuestName, req.Notes)
	if errors.Is(err, services.ErrEmptyCart) {
		resp.BadRequest(c, "cart is empty")
		return
	}
	if errors.Is(err, repository.ErrNoTable) {
		// blocked before any network call: the guest path needs a table
		resp.BadRequest(c, "scan the table QR code before ordering")
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}

	ctl.Tracker.Refresh()
	resp.Created(c, o)
}

// Current returns the tracked snapshot plus the derived progress state.
func (ctl *OrderController) Current(c *gin.Context) {
	resp.OK(c, ctl.Tracker.State())
}

// RequestBill flips the order to payment_pending and starts the billing
// engine's acceptance watch. The tracker shows the new status immediately,
// reconciled by the next confirmed read.
func (ctl *OrderController) RequestBill(c *gin.Context) {
	if !services.CanRequestBill(ctl.Tracker.Order()) {
		resp.Conflict(c, "all items must be served before requesting the bill")
		return
	}
	if err := ctl.Billing.RequestBill(c.Request.Context(), ctl.Tracker.Order()); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Tracker.MarkBillRequested(nil)
	resp.OK(c, ctl.Billing.State())
}

func (ctl *OrderController) CancelBill(c *gin.Context) {
	if err := ctl.Billing.CancelBill(c.Request.Context()); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "bill request cancelled"})
}

func (ctl *OrderController) CallWaiter(c *gin.Context) {
	if err := ctl.Orders.CallWaiter(c.Request.Context()); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"message": "waiter called"})
}
