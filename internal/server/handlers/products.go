package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/server/middleware"
	"roaddog-system/internal/store"
)

type ProductRequest struct {
	ID               string            `json:"id,omitempty"`
	Name             string            `json:"name" binding:"required,min=1"`
	Price            string            `json:"price" binding:"required"`
	Category         string            `json:"category,omitempty"`
	Description      *string           `json:"description,omitempty"`
	ImageURL         *string           `json:"imageUrl,omitempty"`
	Sizes            []string          `json:"sizes,omitempty"`
	Inventory        map[string]int    `json:"inventory,omitempty"`
	CurrencyPrices   map[string]string `json:"currencyPrices,omitempty"`
	ShowTextOnButton *bool             `json:"showTextOnButton,omitempty"`
}

type RestockRequest struct {
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

func (r ProductRequest) toInput() store.ProductInput {
	return store.ProductInput{
		ID:               r.ID,
		Name:             r.Name,
		Price:            r.Price,
		Category:         r.Category,
		Description:      r.Description,
		ImageURL:         r.ImageURL,
		Sizes:            r.Sizes,
		Inventory:        r.Inventory,
		CurrencyPrices:   r.CurrencyPrices,
		ShowTextOnButton: r.ShowTextOnButton,
	}
}

func (h *Handler) ListProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	products, err := h.store.ListProducts(ctx, c.Param("orgId"), middleware.UserID(c))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Products retrieved successfully", products))
}

func (h *Handler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	product, err := h.store.GetProduct(ctx, c.Param("orgId"), middleware.UserID(c), c.Param("productId"))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Product retrieved successfully", product))
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	product, err := h.store.CreateProduct(ctx, c.Param("orgId"), middleware.UserID(c), req.toInput())
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Product created successfully", product))
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	product, err := h.store.UpdateProduct(ctx, c.Param("orgId"), middleware.UserID(c), c.Param("productId"), req.toInput())
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Product updated successfully", product))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.store.DeleteProduct(ctx, c.Param("orgId"), middleware.UserID(c), c.Param("productId")); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Product deleted successfully", nil))
}

func (h *Handler) RestockProduct(c *gin.Context) {
	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	product, err := h.store.Restock(ctx, c.Param("orgId"), middleware.UserID(c), c.Param("productId"), req.Size, req.Quantity)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Product restocked successfully", product))
}
