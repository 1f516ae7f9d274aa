package sheetsync

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roaddog-system/internal/database"
	"roaddog-system/internal/database/models"
)

func TestEncodeProductRow(t *testing.T) {
	desc := "Soft cotton"
	p := models.Product{
		ID:               "p1",
		Name:             "Tour Tee",
		Price:            "25",
		Category:         "Apparel",
		Description:      &desc,
		Sizes:            database.StringArray{"S", "M", "L"},
		Inventory:        database.IntMap{"M": 10},
		ShowTextOnButton: true,
	}

	row, err := EncodeProductRow(p)
	require.NoError(t, err)
	require.Len(t, row, len(ProductsHeader))

	assert.Equal(t, "p1", row[ProductColID])
	assert.Equal(t, "25.00", row[ProductColPrice])
	assert.Equal(t, "S,M,L", row[ProductColSizes])
	assert.Equal(t, `{"M":10}`, row[ProductColInventory])
	assert.Equal(t, "", row[ProductColCurrencyPrices])
	assert.Equal(t, "TRUE", row[ProductColShowText])
}

func TestEncodeProductRowHiddenText(t *testing.T) {
	row, err := EncodeProductRow(models.Product{ID: "p1", Name: "Tee", Price: "10"})
	require.NoError(t, err)

	assert.Equal(t, "FALSE", row[ProductColShowText])
}

func TestEncodeProductRowOversizedImageFailsFast(t *testing.T) {
	huge := strings.Repeat("x", MaxCellChars+1)
	p := models.Product{ID: "p1", Name: "Tee", Price: "10", ImageURL: &huge}

	_, err := EncodeProductRow(p)
	assert.ErrorIs(t, err, ErrCellTooLarge)
}

func TestDecodeProductRowDegradesGracefully(t *testing.T) {
	row := []interface{}{
		"p1", "Tour Tee", "not-a-price", "", "", "",
		"S, M", "{bad json", "{also bad", "false",
	}

	p := DecodeProductRow(row)

	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "0.00", p.Price)
	assert.Equal(t, "Other", p.Category)
	assert.Equal(t, database.StringArray{"S", "M"}, p.Sizes)
	assert.Nil(t, p.Inventory)
	assert.Nil(t, p.CurrencyPrices)
	assert.False(t, p.ShowTextOnButton)
}

func TestDecodeProductRowShowTextDefaultsTrue(t *testing.T) {
	p := DecodeProductRow([]interface{}{"p1", "Tee", "10"})

	assert.True(t, p.ShowTextOnButton)
}

func TestProductRowRoundTrip(t *testing.T) {
	original := models.Product{
		ID:             "p2",
		Name:           "Vinyl LP",
		Price:          "35.00",
		Category:       "Music",
		Inventory:      database.IntMap{"default": 40},
		CurrencyPrices: database.StringMap{"EUR": "32.00"},
	}

	row, err := EncodeProductRow(original)
	require.NoError(t, err)

	decoded := DecodeProductRow(row)
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.Name, decoded.Name)
	assert.Equal(t, original.Price, decoded.Price)
	assert.Equal(t, original.Category, decoded.Category)
	assert.Equal(t, original.Inventory, decoded.Inventory)
	assert.Equal(t, original.CurrencyPrices, decoded.CurrencyPrices)
}

func testSale() models.Sale {
	sizeM := "M"
	return models.Sale{
		ID:            "s1",
		SaleDate:      time.Date(2025, 10, 26, 19, 30, 0, 0, time.UTC),
		Total:         "50.00",
		ActualAmount:  "45.00",
		Discount:      "5.00",
		TipAmount:     "2.00",
		PaymentMethod: "Cash",
		IsHookup:      true,
		Items: []models.SaleItem{
			{ProductName: "T-Shirt", Quantity: 2, UnitPrice: "20.00", Size: &sizeM},
			{ProductName: "Vinyl", Quantity: 1, UnitPrice: "10.00"},
		},
	}
}

func TestEncodeSaleRow(t *testing.T) {
	row, err := EncodeSaleRow(testSale())
	require.NoError(t, err)
	require.Len(t, row, len(SalesHeader))

	assert.Equal(t, "s1", row[SalesColID])
	assert.Equal(t, "2025-10-26 19:30:00", row[SalesColDate])
	assert.Equal(t, "T-Shirt (M) x2, Vinyl x1", row[SalesColItems])
	assert.Equal(t, "50.00", row[SalesColTotal])
	assert.Equal(t, "45.00", row[SalesColActualAmount])
	assert.Equal(t, "5.00", row[SalesColDiscount])
	assert.Equal(t, "Hookup", row[SalesColHookup])
	assert.Equal(t, "M", row[SalesColSizes])
	assert.Equal(t, "2.00", row[SalesColTips])
}

func TestSaleRowRoundTrip(t *testing.T) {
	original := testSale()

	row, err := EncodeSaleRow(original)
	require.NoError(t, err)

	decoded := DecodeSaleRow(row)
	assert.Equal(t, original.ID, decoded.ID)
	assert.Equal(t, original.SaleDate, decoded.SaleDate)
	assert.Equal(t, original.Total, decoded.Total)
	assert.Equal(t, original.ActualAmount, decoded.ActualAmount)
	assert.True(t, decoded.IsHookup)
	assert.True(t, decoded.Synced)

	require.Len(t, decoded.Items, 2)
	assert.Equal(t, "T-Shirt", decoded.Items[0].ProductName)
	assert.Equal(t, int32(2), decoded.Items[0].Quantity)
}

func TestDecodeSaleRowWithoutItemsJSON(t *testing.T) {
	row := []interface{}{
		"s9", "2025-10-26 10:00:00", "Poster x3", "15.00", "15.00", "0.00",
		"Venmo", "", "", "", "0.00",
	}

	sale := DecodeSaleRow(row)
	assert.Empty(t, sale.Items)
	assert.Equal(t, "Venmo", sale.PaymentMethod)
	assert.False(t, sale.IsHookup)
}

func TestItemSummaryParseRoundTrip(t *testing.T) {
	summary := ItemSummary(testSale().Items)
	assert.Equal(t, "T-Shirt (M) x2, Vinyl x1", summary)

	counts := ParseItemSummary(summary)
	assert.Equal(t, []ItemCount{
		{Name: "T-Shirt", Quantity: 2},
		{Name: "Vinyl", Quantity: 1},
	}, counts)
}
