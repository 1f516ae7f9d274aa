package sheetsync

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roaddog-system/internal/database/models"
)

// fakeBackend is an in-memory Backend. Reads come from canned data keyed by
// range; writes are recorded for assertions.
type fakeBackend struct {
	tabs map[string]bool
	data map[string][][]interface{}

	cleared  []string
	appended map[string][][]interface{}
	updated  map[string][][]interface{}
	added    []string
	deleted  []string
	bolded   []string
}

func newFakeBackend(tabs ...string) *fakeBackend {
	f := &fakeBackend{
		tabs:     map[string]bool{},
		data:     map[string][][]interface{}{},
		appended: map[string][][]interface{}{},
		updated:  map[string][][]interface{}{},
	}
	for _, tab := range tabs {
		f.tabs[tab] = true
	}
	return f
}

func (f *fakeBackend) Get(_ context.Context, _, readRange string) ([][]interface{}, error) {
	return f.data[readRange], nil
}

func (f *fakeBackend) BatchGet(_ context.Context, _ string, ranges []string) ([][][]interface{}, error) {
	out := make([][][]interface{}, len(ranges))
	for i, r := range ranges {
		out[i] = f.data[r]
	}
	return out, nil
}

func (f *fakeBackend) Update(_ context.Context, _, writeRange string, values [][]interface{}) error {
	f.updated[writeRange] = values
	return nil
}

func (f *fakeBackend) Append(_ context.Context, _, appendRange string, values [][]interface{}) error {
	f.appended[appendRange] = append(f.appended[appendRange], values...)
	return nil
}

func (f *fakeBackend) Clear(_ context.Context, _, clearRange string) error {
	f.cleared = append(f.cleared, clearRange)
	return nil
}

func (f *fakeBackend) SheetExists(_ context.Context, _, title string) (bool, error) {
	return f.tabs[title], nil
}

func (f *fakeBackend) AddSheet(_ context.Context, _, title string) error {
	f.tabs[title] = true
	f.added = append(f.added, title)
	return nil
}

func (f *fakeBackend) DeleteSheet(_ context.Context, _, title string) error {
	delete(f.tabs, title)
	f.deleted = append(f.deleted, title)
	return nil
}

func (f *fakeBackend) BoldHeaderRow(_ context.Context, _, title string, _ int) error {
	f.bolded = append(f.bolded, title)
	return nil
}

func TestInitSpreadsheetCreatesMissingTabs(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	syncer := NewSyncer(backend)

	err := syncer.InitSpreadsheet(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.Equal(t, []string{ProductsSheet, SignupsSheet, SettingsSheet}, backend.added)
	assert.Contains(t, backend.updated, ProductsSheet+"!A1")
	assert.Contains(t, backend.updated, SignupsSheet+"!A1")
	// Sales existed and Settings carries no header; neither gets a write.
	assert.NotContains(t, backend.updated, SalesSheet+"!A1")
	assert.NotContains(t, backend.bolded, SettingsSheet)
}

func TestSyncProductsClearsThenAppends(t *testing.T) {
	backend := newFakeBackend(ProductsSheet)
	syncer := NewSyncer(backend)

	products := []models.Product{
		{ID: "p1", Name: "Tee", Price: "25.00", Category: "Apparel", ShowTextOnButton: true},
		{ID: "p2", Name: "Vinyl", Price: "35.00", Category: "Music", ShowTextOnButton: true},
	}

	err := syncer.SyncProducts(context.Background(), "sheet-1", products)
	require.NoError(t, err)

	assert.Equal(t, []string{ProductsSheet + "!A2:J"}, backend.cleared)

	rows := backend.appended[ProductsSheet+"!A2"]
	require.Len(t, rows, 2)
	assert.Equal(t, "p1", rows[0][ProductColID])
	assert.Equal(t, "p2", rows[1][ProductColID])
}

func TestSyncProductsOversizedImageFailsBeforeAnyWrite(t *testing.T) {
	backend := newFakeBackend(ProductsSheet)
	syncer := NewSyncer(backend)

	huge := strings.Repeat("x", MaxCellChars+1)
	products := []models.Product{
		{ID: "p1", Name: "Tee", Price: "25.00"},
		{ID: "p2", Name: "Poster", Price: "15.00", ImageURL: &huge},
	}

	err := syncer.SyncProducts(context.Background(), "sheet-1", products)
	assert.ErrorIs(t, err, ErrCellTooLarge)
	assert.Empty(t, backend.cleared)
	assert.Empty(t, backend.appended)
}

func TestSyncSalesAppendsAndReturnsIDs(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	syncer := NewSyncer(backend)

	sales := []models.Sale{
		{ID: "s1", Total: "10.00", ActualAmount: "10.00", PaymentMethod: "Cash"},
		{ID: "s2", Total: "20.00", ActualAmount: "18.00", PaymentMethod: "Venmo", IsHookup: true},
	}

	ids, err := syncer.SyncSales(context.Background(), "sheet-1", sales)
	require.NoError(t, err)

	assert.Equal(t, []string{"s1", "s2"}, ids)
	assert.Len(t, backend.appended[SalesSheet+"!A:K"], 2)
}

func TestSyncSalesEmptyIsNoop(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	syncer := NewSyncer(backend)

	ids, err := syncer.SyncSales(context.Background(), "sheet-1", nil)
	require.NoError(t, err)
	assert.Nil(t, ids)
	assert.Empty(t, backend.appended)
}

func TestReadSalesSkipsBlankRows(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	backend.data[SalesSheet+"!A2:K"] = [][]interface{}{
		{"s1", "2025-10-26 10:00:00", "Tee x1", "10.00", "10.00", "0.00", "Cash", "", "", "", "0.00"},
		{""},
		{"s2", "2025-10-26 11:00:00", "Vinyl x1", "35.00", "35.00", "0.00", "Card", "", "", "", "0.00"},
	}
	syncer := NewSyncer(backend)

	sales, err := syncer.ReadSales(context.Background(), "sheet-1")
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "s1", sales[0].ID)
	assert.Equal(t, "s2", sales[1].ID)
}

func TestReconcileInsightsMissingSheet(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	backend.data[SalesSheet+"!G2:G"] = [][]interface{}{{"venmo"}, {"cash"}, {"Venmo"}}
	syncer := NewSyncer(backend)

	result, err := syncer.ReconcileInsights(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.False(t, result.SheetExists)
	assert.True(t, result.SchemaOutdated)
	assert.Equal(t, []string{"Cash", "Venmo"}, result.Methods)
}

func TestReconcileInsightsHeaderInSync(t *testing.T) {
	backend := newFakeBackend(SalesSheet, InsightsSheet)
	backend.data[SalesSheet+"!G2:G"] = [][]interface{}{{"Cash"}, {"Venmo"}}
	backend.data[InsightsSheet+"!A11:Z11"] = [][]interface{}{
		{"Date", "Sales", "Revenue", "Tips", "Cash Revenue", "Venmo Revenue", "Top Item", "Top Size"},
	}
	syncer := NewSyncer(backend)

	result, err := syncer.ReconcileInsights(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.True(t, result.SheetExists)
	assert.False(t, result.SchemaOutdated)
}

func TestReconcileInsightsDetectsDrift(t *testing.T) {
	backend := newFakeBackend(SalesSheet, InsightsSheet)
	backend.data[SalesSheet+"!G2:G"] = [][]interface{}{{"Cash"}, {"Venmo"}, {"Zelle"}}
	backend.data[InsightsSheet+"!A11:Z11"] = [][]interface{}{
		{"Date", "Sales", "Revenue", "Tips", "Cash Revenue", "Venmo Revenue", "Top Item", "Top Size"},
	}
	syncer := NewSyncer(backend)

	result, err := syncer.ReconcileInsights(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.True(t, result.SchemaOutdated)
}

func TestRebuildInsightsRecreatesSheet(t *testing.T) {
	backend := newFakeBackend(SalesSheet, InsightsSheet)
	backend.data[SalesSheet+"!A2:K"] = [][]interface{}{
		{"s1", "2025-10-26 10:00:00", "Tee x1", "10.00", "10.00", "0.00", "Cash", "", "", "", "1.00"},
		{"s2", "2025-10-26 11:00:00", "Vinyl x1", "35.00", "30.00", "5.00", "Venmo", "Hookup", "", "", "0.00"},
	}
	syncer := NewSyncer(backend)

	err := syncer.RebuildInsights(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.Equal(t, []string{InsightsSheet}, backend.deleted)
	assert.Equal(t, []string{InsightsSheet}, backend.added)

	stats := backend.updated[InsightsSheet+"!"+InsightsQuickStatsRange]
	require.Len(t, stats, 3)
	assert.Equal(t, "40.00", stats[0][0])
	assert.Equal(t, 2, stats[1][0])
	assert.Equal(t, "20.00", stats[2][0])

	table := backend.updated[InsightsSheet+"!A11:H"]
	require.Len(t, table, 2)
	assert.Equal(t, []interface{}{
		"Date", "Sales", "Revenue", "Tips", "Cash Revenue", "Venmo Revenue", "Top Item", "Top Size",
	}, table[0])
	assert.Equal(t, "2025-10-26", table[1][InsightsColDate])
	assert.Contains(t, backend.bolded, InsightsSheet)
}

func TestReadQuickStatsMissingSheet(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	syncer := NewSyncer(backend)

	_, err := syncer.ReadQuickStats(context.Background(), "sheet-1")
	assert.ErrorIs(t, err, ErrInsightsNotFound)
}

func TestReadQuickStats(t *testing.T) {
	backend := newFakeBackend(InsightsSheet)
	backend.data[InsightsSheet+"!"+InsightsQuickStatsRange] = [][]interface{}{
		{"123.50"}, {"7"}, {"17.64"},
	}
	syncer := NewSyncer(backend)

	stats, err := syncer.ReadQuickStats(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.Equal(t, QuickStats{TotalRevenue: "123.50", SaleCount: 7, AverageSale: "17.64"}, stats)
}

func TestDailyBreakdownFiltersByDate(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	backend.data[SalesSheet+"!A2:K"] = [][]interface{}{
		{"s1", "2025-10-26 10:00:00", "T-Shirt (M) x2, Vinyl x1", "45.00", "45.00", "0.00", "Cash", "", "", "", "0.00"},
		{"s2", "2025-10-26 11:00:00", "T-Shirt (L) x1", "20.00", "20.00", "0.00", "Venmo", "", "", "", "0.00"},
		{"s3", "2025-10-27 11:00:00", "Poster x5", "25.00", "25.00", "0.00", "Cash", "", "", "", "0.00"},
	}
	syncer := NewSyncer(backend)

	counts, err := syncer.DailyBreakdown(context.Background(), "sheet-1", "10/26/2025")
	require.NoError(t, err)

	assert.Equal(t, []ItemCount{
		{Name: "T-Shirt", Quantity: 3},
		{Name: "Vinyl", Quantity: 1},
	}, counts)
}

func TestMigrateLegacySales(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	backend.data[SalesSheet+"!A1:Z"] = [][]interface{}{
		{"ID", "Date", "Items", "Total", "Payment Method", "Hookup"},
		{"s1", "2024-05-01 20:00:00", "Tee x1", "25.00", "Cash", ""},
		{"s2", "2024-05-01 21:00:00", "Vinyl x1", "35.00", "Venmo", "Hookup"},
	}
	syncer := NewSyncer(backend)

	result, err := syncer.MigrateLegacySales(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.False(t, result.AlreadyMigrated)
	assert.Equal(t, 2, result.MigratedRows)
	assert.Equal(t, []string{SalesSheet + "!A1:Z"}, backend.cleared)

	rows := backend.updated[SalesSheet+"!A1"]
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 8)

	// Actual Amount defaults to the old total, Discount to zero.
	assert.Equal(t, "25.00", rows[1][3])
	assert.Equal(t, "25.00", rows[1][4])
	assert.Equal(t, "0", rows[1][5])
	assert.Equal(t, "Cash", rows[1][6])
	assert.Equal(t, "Hookup", rows[2][7])

	assert.Contains(t, backend.bolded, SalesSheet)
}

func TestMigrateLegacySalesAlreadyMigrated(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	backend.data[SalesSheet+"!A1:Z"] = [][]interface{}{
		{"ID", "Date", "Items", "Total", "Actual Amount", "Discount", "Payment Method", "Hookup"},
	}
	syncer := NewSyncer(backend)

	result, err := syncer.MigrateLegacySales(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.True(t, result.AlreadyMigrated)
	assert.Empty(t, backend.cleared)
	assert.Empty(t, backend.updated)
}

func TestMigrateLegacySalesUnrecognizedFormat(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	backend.data[SalesSheet+"!A1:Z"] = [][]interface{}{
		{"ID", "Date", "Items", "Total", "Payment Method", "Hookup", "Extra"},
	}
	syncer := NewSyncer(backend)

	_, err := syncer.MigrateLegacySales(context.Background(), "sheet-1")
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}
