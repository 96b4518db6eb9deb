package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tableside/entity"
	"tableside/pkg/resp"
	"tableside/services"
)

type PaymentController struct {
	Billing *services.BillingService
}

func NewPaymentController(billing *services.BillingService) *PaymentController {
	return &PaymentController{Billing: billing}
}

// Bill opens (or resumes) the billing view: order acquisition with retry,
// payment sync, recovery paths. Returns the full bill state.
func (ctl *PaymentController) Bill(c *gin.Context) {
	if err := ctl.Billing.Begin(c.Request.Context()); err != nil {
		if errors.Is(err, services.ErrOrderUnavailable) {
			resp.NotFound(c, "unable to load order — please request the bill again from the menu")
			return
		}
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, ctl.Billing.State())
}

type tipReq struct {
	Mode   string  `json:"mode" binding:"required,oneof=10 15 20 custom"`
	Custom float64 `json:"custom"`
}

func (ctl *PaymentController) SetTip(c *gin.Context) {
	var req tipReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	ctl.Billing.SetTip(req.Mode, req.Custom)
	resp.OK(c, ctl.Billing.State())
}

type payReq struct {
	Method string `json:"method" binding:"required,oneof=cash stripe"`
}

func (ctl *PaymentController) Pay(c *gin.Context) {
	var req payReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	switch req.Method {
	case entity.PaymentMethodCash:
		if err := ctl.Billing.PayCash(c.Request.Context()); err != nil {
			resp.ServerError(c, err)
			return
		}
		resp.OK(c, ctl.Billing.State())
	case entity.PaymentMethodStripe:
		url, err := ctl.Billing.PayOnline(c.Request.Context())
		if err != nil {
			resp.ServerError(c, err)
			return
		}
		resp.OK(c, gin.H{"checkoutUrl": url})
	}
}

// Return is the checkout redirect target:
// GET /payments/return?paid=1&method=stripe&paymentId=...
// Confirmation runs behind the engine's one-shot latch.
func (ctl *PaymentController) Return(c *gin.Context) {
	ret := entity.CheckoutReturn{
		Paid:      c.Query("paid") == "1",
		Method:    c.Query("method"),
		PaymentID: c.Query("paymentId"),
	}
	ctl.Billing.HandleReturn(c.Request.Context(), ret)

	// the hosted checkout navigates the guest's browser here; bounce back
	// to the bill screen
	c.Redirect(http.StatusFound, "/bill")
}

// Confirm is the manual "I have paid" fallback; idempotent with Return.
func (ctl *PaymentController) Confirm(c *gin.Context) {
	ctl.Billing.ConfirmManual(c.Request.Context())
	resp.OK(c, ctl.Billing.State())
}
