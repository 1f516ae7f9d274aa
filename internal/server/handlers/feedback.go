package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/mailer"
	"roaddog-system/internal/server/middleware"
)

type FeedbackRequest struct {
	Type    string `json:"type" binding:"required"`
	Message string `json:"message" binding:"required,min=1"`
}

// SubmitFeedback forwards feedback, bug reports, and beta-interest
// submissions to the configured inbox.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if !mailer.ValidType(req.Type) {
		c.JSON(http.StatusBadRequest, errorResponse("Unknown submission type: "+req.Type))
		return
	}
	if h.mailer == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Email delivery is not configured"))
		return
	}

	username, _ := c.Get(middleware.ContextUsername)
	fromUser, _ := username.(string)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := h.mailer.SendSubmission(ctx, req.Type, fromUser, req.Message); err != nil {
		if errors.Is(err, mailer.ErrUnknownType) {
			c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to send: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, successResponse("Submission sent successfully", nil))
}
