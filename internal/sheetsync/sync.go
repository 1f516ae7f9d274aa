package sheetsync

import (
	"context"
	"errors"
	"fmt"

	"roaddog-system/internal/database/models"
)

// ErrInsightsNotFound distinguishes "the Insights sheet was never built"
// from "no rows yet" — callers surface it as a 404 so the client knows to
// trigger a rebuild rather than render zeros.
var ErrInsightsNotFound = errors.New("insights sheet not found")

// ErrUnrecognizedFormat is returned by the legacy migration for sheets whose
// column count matches neither the old nor the current layout.
var ErrUnrecognizedFormat = errors.New("unrecognized sales sheet format")

// Backend is the slice of the spreadsheet API the orchestrator drives. The
// Google Sheets client implements it; tests substitute an in-memory fake.
type Backend interface {
	Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
	BatchGet(ctx context.Context, spreadsheetID string, ranges []string) ([][][]interface{}, error)
	Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error
	Append(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}) error
	Clear(ctx context.Context, spreadsheetID, clearRange string) error
	SheetExists(ctx context.Context, spreadsheetID, title string) (bool, error)
	AddSheet(ctx context.Context, spreadsheetID, title string) error
	DeleteSheet(ctx context.Context, spreadsheetID, title string) error
	BoldHeaderRow(ctx context.Context, spreadsheetID, title string, row int) error
}

// Syncer drives read/clear/append/update sequences against one spreadsheet.
// Calls are sequential — later calls depend on earlier results — and there
// is no locking: a reader between a clear and its append sees an empty
// sheet. That is the accepted cost of using a spreadsheet as a store.
type Syncer struct {
	backend Backend
}

func NewSyncer(backend Backend) *Syncer {
	return &Syncer{backend: backend}
}

// InitSpreadsheet makes sure every Road Dog tab exists with its header row.
// Existing tabs are left untouched.
func (s *Syncer) InitSpreadsheet(ctx context.Context, spreadsheetID string) error {
	tabs := []struct {
		title  string
		header []string
	}{
		{SalesSheet, SalesHeader},
		{ProductsSheet, ProductsHeader},
		{SignupsSheet, SignupsHeader},
		{SettingsSheet, nil},
	}

	for _, tab := range tabs {
		exists, err := s.backend.SheetExists(ctx, spreadsheetID, tab.title)
		if err != nil {
			return fmt.Errorf("check sheet %s: %w", tab.title, err)
		}
		if exists {
			continue
		}

		if err := s.backend.AddSheet(ctx, spreadsheetID, tab.title); err != nil {
			return fmt.Errorf("add sheet %s: %w", tab.title, err)
		}
		if tab.header == nil {
			continue
		}

		header := make([]interface{}, len(tab.header))
		for i, h := range tab.header {
			header[i] = h
		}
		headerRange := fmt.Sprintf("%s!A1", tab.title)
		if err := s.backend.Update(ctx, spreadsheetID, headerRange, [][]interface{}{header}); err != nil {
			return fmt.Errorf("write header for %s: %w", tab.title, err)
		}
		if err := s.backend.BoldHeaderRow(ctx, spreadsheetID, tab.title, 1); err != nil {
			return fmt.Errorf("format header for %s: %w", tab.title, err)
		}
	}

	return nil
}

// SyncProducts replaces the Products sheet contents with the given list:
// clear everything below the header, then append the full set. Encoding
// errors (oversized image cells) surface before any write is issued.
func (s *Syncer) SyncProducts(ctx context.Context, spreadsheetID string, products []models.Product) error {
	rows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		row, err := EncodeProductRow(p)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	clearRange := fmt.Sprintf("%s!A2:J", ProductsSheet)
	if err := s.backend.Clear(ctx, spreadsheetID, clearRange); err != nil {
		return fmt.Errorf("clear products range: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	appendRange := fmt.Sprintf("%s!A2", ProductsSheet)
	if err := s.backend.Append(ctx, spreadsheetID, appendRange, rows); err != nil {
		return fmt.Errorf("append products: %w", err)
	}
	return nil
}

// SyncSales appends the given sales to the Sales sheet and returns the IDs
// that made it. Sales are append-only: rows already on the sheet are never
// rewritten, and the caller marks the returned IDs synced only after this
// returns without error.
func (s *Syncer) SyncSales(ctx context.Context, spreadsheetID string, sales []models.Sale) ([]string, error) {
	if len(sales) == 0 {
		return nil, nil
	}

	rows := make([][]interface{}, 0, len(sales))
	ids := make([]string, 0, len(sales))
	for _, sale := range sales {
		row, err := EncodeSaleRow(sale)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		ids = append(ids, sale.ID)
	}

	appendRange := fmt.Sprintf("%s!A:K", SalesSheet)
	if err := s.backend.Append(ctx, spreadsheetID, appendRange, rows); err != nil {
		return nil, fmt.Errorf("append sales: %w", err)
	}
	return ids, nil
}

// AppendSignup appends one email signup row.
func (s *Syncer) AppendSignup(ctx context.Context, spreadsheetID string, signup models.EmailSignup) error {
	appendRange := fmt.Sprintf("%s!A:G", SignupsSheet)
	if err := s.backend.Append(ctx, spreadsheetID, appendRange, [][]interface{}{EncodeSignupRow(signup)}); err != nil {
		return fmt.Errorf("append signup: %w", err)
	}
	return nil
}

// ReadSales loads and decodes every data row of the Sales sheet.
func (s *Syncer) ReadSales(ctx context.Context, spreadsheetID string) ([]models.Sale, error) {
	readRange := fmt.Sprintf("%s!A2:K", SalesSheet)
	rows, err := s.backend.Get(ctx, spreadsheetID, readRange)
	if err != nil {
		return nil, fmt.Errorf("read sales: %w", err)
	}

	sales := make([]models.Sale, 0, len(rows))
	for _, row := range rows {
		if cellString(row, SalesColID) == "" {
			continue
		}
		sales = append(sales, DecodeSaleRow(row))
	}
	return sales, nil
}

// ReadProducts loads and decodes every data row of the Products sheet.
func (s *Syncer) ReadProducts(ctx context.Context, spreadsheetID string) ([]models.Product, error) {
	readRange := fmt.Sprintf("%s!A2:J", ProductsSheet)
	rows, err := s.backend.Get(ctx, spreadsheetID, readRange)
	if err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		if cellString(row, ProductColID) == "" {
			continue
		}
		products = append(products, DecodeProductRow(row))
	}
	return products, nil
}

// ReconcileResult reports what the reconciler found when comparing the
// Insights layout against the ledger.
type ReconcileResult struct {
	Methods        []string `json:"methods"`
	SchemaOutdated bool     `json:"schemaOutdated"`
	SheetExists    bool     `json:"sheetExists"`
}

// ReconcileInsights derives the payment-method set from the Sales sheet and
// checks it against the Insights header. A missing Insights sheet or any
// method mismatch marks the schema outdated.
func (s *Syncer) ReconcileInsights(ctx context.Context, spreadsheetID string) (ReconcileResult, error) {
	methodRange := fmt.Sprintf("%s!G2:G", SalesSheet)
	rows, err := s.backend.Get(ctx, spreadsheetID, methodRange)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("read payment methods: %w", err)
	}

	raw := make([]string, 0, len(rows))
	for _, row := range rows {
		if v := cellString(row, 0); v != "" {
			raw = append(raw, v)
		}
	}
	methods := DistinctPaymentMethods(raw)

	result := ReconcileResult{Methods: methods}

	exists, err := s.backend.SheetExists(ctx, spreadsheetID, InsightsSheet)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("check insights sheet: %w", err)
	}
	result.SheetExists = exists
	if !exists {
		result.SchemaOutdated = true
		return result, nil
	}

	headerRange := fmt.Sprintf("%s!A%d:Z%d", InsightsSheet, InsightsHeaderRow, InsightsHeaderRow)
	headerRows, err := s.backend.Get(ctx, spreadsheetID, headerRange)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("read insights header: %w", err)
	}

	var header []string
	if len(headerRows) > 0 {
		for _, cell := range headerRows[0] {
			header = append(header, cellString([]interface{}{cell}, 0))
		}
	}
	result.SchemaOutdated = SchemaOutdated(HeaderMethods(header), methods)
	return result, nil
}

// RebuildInsights recomputes the whole Insights sheet from the Sales ledger:
// delete-and-recreate the tab, write quick stats, the method-aware header,
// and one row per sale date. Used whenever the reconciler reports drift.
func (s *Syncer) RebuildInsights(ctx context.Context, spreadsheetID string) error {
	sales, err := s.ReadSales(ctx, spreadsheetID)
	if err != nil {
		return err
	}

	raw := make([]string, 0, len(sales))
	for _, sale := range sales {
		raw = append(raw, sale.PaymentMethod)
	}
	methods := DistinctPaymentMethods(raw)

	methodCols, topItemCol, topSizeCol, err := MethodColumns(methods)
	if err != nil {
		return fmt.Errorf("insights layout: %w", err)
	}

	exists, err := s.backend.SheetExists(ctx, spreadsheetID, InsightsSheet)
	if err != nil {
		return fmt.Errorf("check insights sheet: %w", err)
	}
	if exists {
		if err := s.backend.DeleteSheet(ctx, spreadsheetID, InsightsSheet); err != nil {
			return fmt.Errorf("delete insights sheet: %w", err)
		}
	}
	if err := s.backend.AddSheet(ctx, spreadsheetID, InsightsSheet); err != nil {
		return fmt.Errorf("add insights sheet: %w", err)
	}

	stats := ComputeQuickStats(sales)
	statsValues := [][]interface{}{
		{stats.TotalRevenue},
		{stats.SaleCount},
		{stats.AverageSale},
	}
	statsRange := fmt.Sprintf("%s!%s", InsightsSheet, InsightsQuickStatsRange)
	if err := s.backend.Update(ctx, spreadsheetID, statsRange, statsValues); err != nil {
		return fmt.Errorf("write quick stats: %w", err)
	}
	labelsRange := fmt.Sprintf("%s!A5:A7", InsightsSheet)
	labels := [][]interface{}{{"Total Revenue"}, {"Sales"}, {"Average Sale"}}
	if err := s.backend.Update(ctx, spreadsheetID, labelsRange, labels); err != nil {
		return fmt.Errorf("write quick stat labels: %w", err)
	}

	lastLetter, err := ColumnLetter(topSizeCol)
	if err != nil {
		return fmt.Errorf("insights layout: %w", err)
	}

	values := [][]interface{}{BuildInsightsHeader(methods)}
	for _, daily := range BuildDailyRows(sales) {
		row := make([]interface{}, topSizeCol+1)
		row[InsightsColDate] = daily.Date
		row[InsightsColSales] = daily.SaleCount
		row[InsightsColRevenue] = daily.Revenue.StringFixed(2)
		row[InsightsColTips] = daily.Tips.StringFixed(2)
		for method, col := range methodCols {
			row[col] = daily.MethodRevenue[method].StringFixed(2)
		}
		row[topItemCol] = daily.TopItem
		row[topSizeCol] = daily.TopSize
		values = append(values, row)
	}

	tableRange := fmt.Sprintf("%s!A%d:%s", InsightsSheet, InsightsHeaderRow, lastLetter)
	if err := s.backend.Update(ctx, spreadsheetID, tableRange, values); err != nil {
		return fmt.Errorf("write insights table: %w", err)
	}
	if err := s.backend.BoldHeaderRow(ctx, spreadsheetID, InsightsSheet, InsightsHeaderRow); err != nil {
		return fmt.Errorf("format insights header: %w", err)
	}
	return nil
}

// ReadQuickStats reads the fixed stat cells. A missing Insights sheet is a
// distinct not-found condition, never an empty result.
func (s *Syncer) ReadQuickStats(ctx context.Context, spreadsheetID string) (QuickStats, error) {
	exists, err := s.backend.SheetExists(ctx, spreadsheetID, InsightsSheet)
	if err != nil {
		return QuickStats{}, fmt.Errorf("check insights sheet: %w", err)
	}
	if !exists {
		return QuickStats{}, ErrInsightsNotFound
	}

	statsRange := fmt.Sprintf("%s!%s", InsightsSheet, InsightsQuickStatsRange)
	rows, err := s.backend.Get(ctx, spreadsheetID, statsRange)
	if err != nil {
		return QuickStats{}, fmt.Errorf("read quick stats: %w", err)
	}

	stats := QuickStats{TotalRevenue: "0.00", AverageSale: "0.00"}
	if len(rows) > 0 {
		stats.TotalRevenue = parseAmount(cellString(rows[0], 0))
	}
	if len(rows) > 1 {
		fmt.Sscanf(cellString(rows[1], 0), "%d", &stats.SaleCount)
	}
	if len(rows) > 2 {
		stats.AverageSale = parseAmount(cellString(rows[2], 0))
	}
	return stats, nil
}

// DailyBreakdown reports per-product sold quantities for one date. Sales
// with structured items use them directly; legacy rows fall back to parsing
// the Items summary text.
func (s *Syncer) DailyBreakdown(ctx context.Context, spreadsheetID, date string) ([]ItemCount, error) {
	readRange := fmt.Sprintf("%s!A2:K", SalesSheet)
	rows, err := s.backend.Get(ctx, spreadsheetID, readRange)
	if err != nil {
		return nil, fmt.Errorf("read sales: %w", err)
	}

	target := NormalizeDate(date)
	var summaries []string
	for _, row := range rows {
		if NormalizeDate(cellString(row, SalesColDate)) != target {
			continue
		}

		sale := DecodeSaleRow(row)
		if len(sale.Items) > 0 {
			summaries = append(summaries, ItemSummary(sale.Items))
			continue
		}
		summaries = append(summaries, cellString(row, SalesColItems))
	}

	return ParseItemSummary(joinSegments(summaries)), nil
}

func joinSegments(segments []string) string {
	out := ""
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += seg
	}
	return out
}
