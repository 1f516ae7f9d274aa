package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/server/middleware"
	"roaddog-system/internal/store"
)

type CreateCloseOutRequest struct {
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	ActualCash *string    `json:"actualCash,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}

func (h *Handler) CreateCloseOut(c *gin.Context) {
	var req CreateCloseOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	report, err := h.store.CreateCloseOut(ctx, c.Param("orgId"), middleware.UserID(c), store.CloseOutInput{
		From:       req.From,
		To:         req.To,
		ActualCash: req.ActualCash,
		Notes:      req.Notes,
	})
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Close-out created successfully", report))
}

func (h *Handler) ListCloseOuts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	reports, err := h.store.ListCloseOuts(ctx, c.Param("orgId"), middleware.UserID(c))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Close-outs retrieved successfully", reports))
}

func (h *Handler) GetCloseOut(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	report, err := h.store.GetCloseOut(ctx, c.Param("orgId"), middleware.UserID(c), c.Param("closeOutId"))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Close-out retrieved successfully", report))
}
