package controllers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tableside/entity"
	"tableside/pkg/resp"
	"tableside/repository"
)

// TableController persists the table identity the QR-scan flow resolves.
// Everything downstream (guest orders, the realtime room) keys off it.
type TableController struct {
	Tables *repository.TableRepository
	// StartTracking (re)binds the order tracker to the new table.
	StartTracking func(tableID string)
}

func NewTableController(tables *repository.TableRepository, startTracking func(tableID string)) *TableController {
	return &TableController{Tables: tables, StartTracking: startTracking}
}

type selectTableReq struct {
	TableID     string `json:"tableId" binding:"required"`
	TableNumber string `json:"tableNumber" binding:"required"`
}

func (ctl *TableController) Select(c *gin.Context) {
	var req selectTableReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	t := entity.TableSelection{ID: req.TableID, Number: req.TableNumber}
	if err := ctl.Tables.Set(t); err != nil {
		resp.ServerError(c, err)
		return
	}
	if ctl.StartTracking != nil {
		ctl.StartTracking(t.ID)
	}
	resp.OK(c, t)
}

func (ctl *TableController) Current(c *gin.Context) {
	t, err := ctl.Tables.Get()
	if errors.Is(err, repository.ErrNoTable) {
		resp.NotFound(c, "no table selected")
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, t)
}
