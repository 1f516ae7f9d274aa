package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/database/models"
	"roaddog-system/internal/server/middleware"
)

func (h *Handler) GetSettings(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	settings, err := h.store.LoadSettings(ctx, c.Param("orgId"), middleware.UserID(c))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Settings retrieved successfully", settings))
}

func (h *Handler) SaveSettings(c *gin.Context) {
	var req models.POSSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	settings, err := h.store.SaveSettings(ctx, c.Param("orgId"), middleware.UserID(c), req)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Settings saved successfully", settings))
}
