package sheetsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roaddog-system/internal/database/models"
)

func TestNormalizePaymentMethod(t *testing.T) {
	cases := map[string]string{
		"cash":       "Cash",
		"cAsH":       "Cash",
		" Cash ":     "Cash",
		"APPLE PAY":  "Apple Pay",
		"apple  pay": "Apple Pay",
		"":           "",
	}

	for input, want := range cases {
		assert.Equal(t, want, NormalizePaymentMethod(input), "input %q", input)
	}
}

func TestNormalizePaymentMethodIdempotent(t *testing.T) {
	for _, input := range []string{"cash", "Apple Pay", "VENMO", "card "} {
		once := NormalizePaymentMethod(input)
		assert.Equal(t, once, NormalizePaymentMethod(once))
	}
}

func TestDistinctPaymentMethodsDefaultsWhenEmpty(t *testing.T) {
	methods := DistinctPaymentMethods(nil)

	assert.Equal(t, []string{"Card", "Cash", "Other", "Venmo"}, methods)
}

func TestDistinctPaymentMethodsDedupesAndSorts(t *testing.T) {
	methods := DistinctPaymentMethods([]string{"venmo", "Cash", "VENMO", "apple pay", ""})

	assert.Equal(t, []string{"Apple Pay", "Cash", "Venmo"}, methods)
}

func TestMethodColumns(t *testing.T) {
	cols, topItem, topSize, err := MethodColumns([]string{"Card", "Cash", "Venmo"})
	require.NoError(t, err)

	assert.Equal(t, InsightsMethodStartCol, cols["Card"])
	assert.Equal(t, InsightsMethodStartCol+1, cols["Cash"])
	assert.Equal(t, InsightsMethodStartCol+2, cols["Venmo"])
	assert.Equal(t, InsightsMethodStartCol+3, topItem)
	assert.Equal(t, InsightsMethodStartCol+4, topSize)
}

func TestMethodColumnsOverflowPastZ(t *testing.T) {
	methods := make([]string, 21)
	for i := range methods {
		methods[i] = string(rune('A' + i))
	}

	_, _, _, err := MethodColumns(methods)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
}

func TestHeaderMethods(t *testing.T) {
	header := []string{"Date", "Sales", "Revenue", "Tips", "Card Revenue", "Cash Revenue", "Top Item", "Top Size"}

	assert.Equal(t, []string{"Card", "Cash"}, HeaderMethods(header))
}

func TestSchemaOutdated(t *testing.T) {
	assert.False(t, SchemaOutdated([]string{"Card", "Cash"}, []string{"Card", "Cash"}))
	assert.True(t, SchemaOutdated([]string{"Card"}, []string{"Card", "Cash"}))
	assert.True(t, SchemaOutdated([]string{"Cash", "Card"}, []string{"Card", "Cash"}))
	assert.True(t, SchemaOutdated(nil, []string{"Card"}))
}

func TestBuildInsightsHeader(t *testing.T) {
	header := BuildInsightsHeader([]string{"Card", "Cash"})

	assert.Equal(t, []interface{}{
		"Date", "Sales", "Revenue", "Tips", "Card Revenue", "Cash Revenue", "Top Item", "Top Size",
	}, header)
}

func insightsTestSales() []models.Sale {
	day1 := time.Date(2025, 10, 26, 19, 30, 0, 0, time.UTC)
	day2 := time.Date(2025, 10, 27, 20, 0, 0, 0, time.UTC)
	sizeM := "M"

	return []models.Sale{
		{
			ID: "s1", SaleDate: day1, ActualAmount: "25.00", TipAmount: "5.00", PaymentMethod: "cash",
			Items: []models.SaleItem{{ProductName: "T-Shirt", Quantity: 2, Size: &sizeM}},
		},
		{
			ID: "s2", SaleDate: day1, ActualAmount: "30.00", TipAmount: "0.00", PaymentMethod: "Venmo",
			Items: []models.SaleItem{{ProductName: "Vinyl", Quantity: 1}},
		},
		{
			ID: "s3", SaleDate: day2, ActualAmount: "10.00", TipAmount: "0.00", PaymentMethod: "Cash",
			Items: []models.SaleItem{{ProductName: "Sticker", Quantity: 3}},
		},
	}
}

func TestBuildDailyRows(t *testing.T) {
	rows := BuildDailyRows(insightsTestSales())
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "2025-10-26", first.Date)
	assert.Equal(t, 2, first.SaleCount)
	assert.Equal(t, "55.00", first.Revenue.StringFixed(2))
	assert.Equal(t, "5.00", first.Tips.StringFixed(2))
	assert.Equal(t, "25.00", first.MethodRevenue["Cash"].StringFixed(2))
	assert.Equal(t, "30.00", first.MethodRevenue["Venmo"].StringFixed(2))
	assert.Equal(t, "T-Shirt", first.TopItem)
	assert.Equal(t, "M", first.TopSize)

	second := rows[1]
	assert.Equal(t, "2025-10-27", second.Date)
	assert.Equal(t, 1, second.SaleCount)
	assert.Equal(t, "Sticker", second.TopItem)
	assert.Equal(t, "", second.TopSize)
}

func TestComputeQuickStats(t *testing.T) {
	stats := ComputeQuickStats(insightsTestSales())

	assert.Equal(t, "65.00", stats.TotalRevenue)
	assert.Equal(t, 3, stats.SaleCount)
	assert.Equal(t, "21.67", stats.AverageSale)
}

func TestComputeQuickStatsEmpty(t *testing.T) {
	stats := ComputeQuickStats(nil)

	assert.Equal(t, "0.00", stats.TotalRevenue)
	assert.Equal(t, 0, stats.SaleCount)
	assert.Equal(t, "0.00", stats.AverageSale)
}
