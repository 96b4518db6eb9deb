package controllers

import (
	"github.com/gin-gonic/gin"

	"tableside/entity"
	"tableside/pkg/resp"
	"tableside/services"
)

type CartController struct {
	Cart *services.CartService
}

func NewCartController(cart *services.CartService) *CartController {
	return &CartController{Cart: cart}
}

func (ctl *CartController) Get(c *gin.Context) {
	resp.OK(c, gin.H{
		"items":      ctl.Cart.Items(),
		"totalPrice": ctl.Cart.TotalPrice(),
		"itemCount":  ctl.Cart.ItemCount(),
	})
}

type addItemReq struct {
	MenuItemID     string                  `json:"menuItemId" binding:"required"`
	MenuItemName   string                  `json:"menuItemName" binding:"required"`
	Price          float64                 `json:"price"`
	Quantity       int                     `json:"quantity"`
	SpecialRequest string                  `json:"specialRequest"`
	Options        []entity.CartItemOption `json:"options"`
}

func (ctl *CartController) Add(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	err := ctl.Cart.AddItem(entity.CartItem{
		MenuItemID:     req.MenuItemID,
		MenuItemName:   req.MenuItemName,
		Price:          req.Price,
		Quantity:       req.Quantity,
		SpecialRequest: req.SpecialRequest,
		Options:        req.Options,
	})
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Get(c)
}

type updateQtyReq struct {
	Quantity int `json:"quantity"`
}

func (ctl *CartController) UpdateQty(c *gin.Context) {
	var req updateQtyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := ctl.Cart.UpdateQuantity(c.Param("menuItemId"), req.Quantity); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Get(c)
}

func (ctl *CartController) Remove(c *gin.Context) {
	if err := ctl.Cart.RemoveItem(c.Param("menuItemId")); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Get(c)
}

func (ctl *CartController) Clear(c *gin.Context) {
	if err := ctl.Cart.Clear(); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Get(c)
}
