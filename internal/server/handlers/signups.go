package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/server/middleware"
	"roaddog-system/internal/store"
)

type SignupRequest struct {
	Email  string  `json:"email" binding:"required"`
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Source string  `json:"source,omitempty"`
	SaleID *string `json:"saleId,omitempty"`
}

func (h *Handler) RecordSignup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	signup, err := h.store.RecordSignup(ctx, c.Param("orgId"), middleware.UserID(c), store.SignupInput{
		Email:  req.Email,
		Name:   req.Name,
		Phone:  req.Phone,
		Source: req.Source,
		SaleID: req.SaleID,
	})
	if err != nil {
		if errors.Is(err, store.ErrForbidden) || errors.Is(err, store.ErrNotFound) {
			handleStoreError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Signup recorded successfully", signup))
}

func (h *Handler) ListSignups(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	signups, err := h.store.ListSignups(ctx, c.Param("orgId"), middleware.UserID(c))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Signups retrieved successfully", signups))
}
