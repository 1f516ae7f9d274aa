package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/sheetsync"
	"roaddog-system/internal/store"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// handleStoreError maps store sentinels onto HTTP statuses; anything
// unrecognized is a 500 with the wrapped detail in the message.
func handleStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse("Not found"))
	case errors.Is(err, store.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse("You do not have permission to do that"))
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, store.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid username or password"))
	case errors.Is(err, sheetsync.ErrInsightsNotFound):
		c.JSON(http.StatusNotFound, errorResponse("Insights sheet not found"))
	case errors.Is(err, sheetsync.ErrUnrecognizedFormat),
		errors.Is(err, sheetsync.ErrCellTooLarge),
		errors.Is(err, sheetsync.ErrColumnOutOfRange):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("Internal error: "+err.Error()))
	}
}
