package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"roaddog-system/internal/database/models"
	"roaddog-system/internal/server/middleware"
	"roaddog-system/internal/sheets"
	"roaddog-system/internal/store"
)

type SpreadsheetRequest struct {
	SpreadsheetID string `json:"spreadsheetId" binding:"required"`
}

// requireSheets answers false and a 503 when the server was started without
// Google credentials.
func (h *Handler) requireSheets(c *gin.Context) bool {
	if h.syncer == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Google Sheets integration is not configured"))
		return false
	}
	return true
}

func (h *Handler) FindSpreadsheet(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, errorResponse("Query parameter 'name' is required"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := h.sheets.FindSpreadsheetByName(ctx, name)
	if errors.Is(err, sheets.ErrSpreadsheetNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("No spreadsheet named "+name))
		return
	}
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Spreadsheet found", gin.H{"spreadsheetId": id}))
}

func (h *Handler) InitSpreadsheet(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	var req SpreadsheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.syncer.InitSpreadsheet(ctx, req.SpreadsheetID); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Spreadsheet initialized successfully", nil))
}

// SyncProducts replaces the Products tab with the organization's current
// catalog.
func (h *Handler) SyncProducts(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	var req SpreadsheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	products, err := h.store.ListProducts(ctx, c.Param("orgId"), middleware.UserID(c))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	if err := h.syncer.SyncProducts(ctx, req.SpreadsheetID, products); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Products synced successfully", nil, gin.H{
		"synced": len(products),
	}))
}

// SyncSales appends unsynced sales to the sheet and marks them synced only
// after the append succeeded.
func (h *Handler) SyncSales(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	var req SpreadsheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	orgID := c.Param("orgId")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.store.RequireRole(ctx, orgID, middleware.UserID(c), store.RoleMember); err != nil {
		handleStoreError(c, err)
		return
	}

	sales, err := h.store.UnsyncedSales(ctx, orgID)
	if err != nil {
		handleStoreError(c, err)
		return
	}
	if len(sales) == 0 {
		c.JSON(http.StatusOK, successWithMetaResponse("Nothing to sync", nil, gin.H{"synced": 0}))
		return
	}

	syncedIDs, err := h.syncer.SyncSales(ctx, req.SpreadsheetID, sales)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	if err := h.store.MarkSalesSynced(ctx, orgID, syncedIDs); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Sales synced successfully", nil, gin.H{
		"synced": len(syncedIDs),
	}))
}

// SyncSignups appends unsynced email captures, continuing past individual
// failures.
func (h *Handler) SyncSignups(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	var req SpreadsheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	orgID := c.Param("orgId")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.store.RequireRole(ctx, orgID, middleware.UserID(c), store.RoleMember); err != nil {
		handleStoreError(c, err)
		return
	}

	signups, err := h.store.UnsyncedSignups(ctx, orgID)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	syncedIDs := make([]string, 0, len(signups))
	failed := 0
	for _, signup := range signups {
		if err := h.syncer.AppendSignup(ctx, req.SpreadsheetID, signup); err != nil {
			failed++
			continue
		}
		syncedIDs = append(syncedIDs, signup.ID)
	}

	if err := h.store.MarkSignupsSynced(ctx, orgID, syncedIDs); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Signups synced", nil, gin.H{
		"synced": len(syncedIDs),
		"failed": failed,
	}))
}

// ImportProducts reads the Products tab into the organization's catalog.
// Each row stands alone; failures are counted and reported, not fatal.
func (h *Handler) ImportProducts(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	var req SpreadsheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	orgID := c.Param("orgId")
	userID := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.store.RequireRole(ctx, orgID, userID, store.RoleMember); err != nil {
		handleStoreError(c, err)
		return
	}

	products, err := h.syncer.ReadProducts(ctx, req.SpreadsheetID)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	imported := 0
	failed := 0
	for _, p := range products {
		_, err := h.store.CreateProduct(ctx, orgID, userID, productImportInput(p))
		if err != nil {
			failed++
			continue
		}
		imported++
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Product import finished", nil, gin.H{
		"imported": imported,
		"failed":   failed,
	}))
}

func productImportInput(p models.Product) store.ProductInput {
	show := p.ShowTextOnButton
	return store.ProductInput{
		ID:               p.ID,
		Name:             p.Name,
		Price:            p.Price,
		Category:         p.Category,
		Description:      p.Description,
		ImageURL:         p.ImageURL,
		Sizes:            []string(p.Sizes),
		Inventory:        map[string]int(p.Inventory),
		CurrencyPrices:   map[string]string(p.CurrencyPrices),
		ShowTextOnButton: &show,
	}
}

func (h *Handler) QuickStats(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := h.syncer.ReadQuickStats(ctx, c.Param("spreadsheetId"))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Quick stats retrieved successfully", stats))
}

func (h *Handler) DailyBreakdown(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, errorResponse("Query parameter 'date' is required (YYYY-MM-DD)"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	items, err := h.syncer.DailyBreakdown(ctx, c.Param("spreadsheetId"), date)
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Daily breakdown retrieved successfully", items))
}

func (h *Handler) ReconcileInsights(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.syncer.ReconcileInsights(ctx, c.Param("spreadsheetId"))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Insights reconciled", result))
}

func (h *Handler) RebuildInsights(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.syncer.RebuildInsights(ctx, c.Param("spreadsheetId")); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Insights rebuilt successfully", nil))
}

func (h *Handler) GetSheetSettings(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := h.syncer.LoadSettings(ctx, c.Param("spreadsheetId"))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Settings retrieved successfully", settings))
}

func (h *Handler) SaveSheetSettings(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	var req models.POSSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := h.syncer.SaveSettings(ctx, c.Param("spreadsheetId"), req); err != nil {
		handleStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Settings saved successfully", nil))
}

func (h *Handler) MigrateLegacySales(c *gin.Context) {
	if !h.requireSheets(c) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := h.syncer.MigrateLegacySales(ctx, c.Param("spreadsheetId"))
	if err != nil {
		handleStoreError(c, err)
		return
	}

	message := "Sales sheet migrated successfully"
	if result.AlreadyMigrated {
		message = "Sales sheet is already on the current format"
	}
	c.JSON(http.StatusOK, successResponse(message, result))
}
