package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/server/middleware"
	"roaddog-system/internal/store"
)

type SaleItemRequest struct {
	ProductID   string  `json:"productId" binding:"required"`
	ProductName string  `json:"productName" binding:"required"`
	Quantity    int32   `json:"quantity" binding:"required,min=1"`
	UnitPrice   string  `json:"unitPrice" binding:"required"`
	Size        *string `json:"size,omitempty"`
}

type RecordSaleRequest struct {
	ID            string            `json:"id,omitempty"`
	SaleDate      *time.Time        `json:"saleDate,omitempty"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1"`
	ActualAmount  string            `json:"actualAmount,omitempty"`
	TipAmount     string            `json:"tipAmount,omitempty"`
	PaymentMethod string            `json:"paymentMethod" binding:"required"`
}

type SalesQuery struct {
	From *time.Time `form:"from,omitempty" time_format:"2006-01-02"`
	To   *time.Time `form:"to,omitempty" time_format:"2006-01-02"`
}

func (h *Handler) RecordSale(c *gin.Context) {
	var req RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	items := make([]store.SaleItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, store.SaleItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Size:        item.Size,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sale, err := h.store.RecordSale(ctx, c.Param("orgId"), middleware.UserID(c), store.SaleInput{
		ID:            req.ID,
		SaleDate:      req.SaleDate,
		Items:         items,
		ActualAmount:  req.ActualAmount,
		TipAmount:     req.TipAmount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Sale recorded successfully", sale))
}

func (h *Handler) ListSales(c *gin.Context) {
	var query SalesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sales, err := h.store.ListSales(ctx, c.Param("orgId"), middleware.UserID(c), query.From, query.To)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	pending := 0
	for _, sale := range sales {
		if !sale.Synced {
			pending++
		}
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Sales retrieved successfully", sales, gin.H{
		"total":       len(sales),
		"pendingSync": pending,
	}))
}

func (h *Handler) GetSale(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sale, err := h.store.GetSale(ctx, c.Param("orgId"), middleware.UserID(c), c.Param("saleId"))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Sale retrieved successfully", sale))
}
