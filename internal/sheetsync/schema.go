package sheetsync

import (
	"errors"
	"fmt"
)

// Sheet tab titles inside a Road Dog spreadsheet.
const (
	SalesSheet    = "Sales"
	ProductsSheet = "Products"
	InsightsSheet = "Insights"
	SettingsSheet = "Settings"
	SignupsSheet  = "Email Signups"
)

// Sales sheet columns, zero-based.
const (
	SalesColID = iota
	SalesColDate
	SalesColItems
	SalesColTotal
	SalesColActualAmount
	SalesColDiscount
	SalesColPaymentMethod
	SalesColHookup
	SalesColProductNames
	SalesColSizes
	SalesColTips
)

var SalesHeader = []string{
	"ID", "Date", "Items", "Total", "Actual Amount", "Discount",
	"Payment Method", "Hookup", "Product Names", "Sizes", "Tips",
}

// Products sheet columns, zero-based.
const (
	ProductColID = iota
	ProductColName
	ProductColPrice
	ProductColCategory
	ProductColDescription
	ProductColImageURL
	ProductColSizes
	ProductColInventory
	ProductColCurrencyPrices
	ProductColShowText
)

var ProductsHeader = []string{
	"ID", "Name", "Price", "Category", "Description", "Image URL",
	"Sizes", "Inventory", "Currency Prices", "Show Text On Button",
}

// Email Signups sheet columns, zero-based.
const (
	SignupColID = iota
	SignupColDate
	SignupColEmail
	SignupColName
	SignupColPhone
	SignupColSource
	SignupColSaleID
)

var SignupsHeader = []string{
	"ID", "Date", "Email", "Name", "Phone", "Source", "Sale ID",
}

// Insights sheet layout. Quick stats live at fixed cells; the tabular
// section starts below them, with one column per payment method appended
// after the fixed columns (see insights.go).
const (
	InsightsQuickStatsRange = "B5:B7" // total revenue, sale count, average sale
	InsightsHeaderRow       = 11      // 1-based
	InsightsDataStartRow    = 12
)

const (
	InsightsColDate = iota
	InsightsColSales
	InsightsColRevenue
	InsightsColTips
	InsightsMethodStartCol // column E; one column per payment method from here
)

// ErrColumnOutOfRange is returned for column indices beyond Z. The layout
// never uses multi-letter columns; more than 26 dynamic columns is a
// configuration error, not something to paper over.
var ErrColumnOutOfRange = errors.New("column index out of single-letter range")

// ColumnLetter converts a zero-based column index to its spreadsheet letter.
func ColumnLetter(index int) (string, error) {
	if index < 0 || index > 25 {
		return "", fmt.Errorf("%w: %d", ErrColumnOutOfRange, index)
	}
	return string(rune('A' + index)), nil
}

// ColumnIndex converts a single column letter back to its zero-based index.
func ColumnIndex(letter string) (int, error) {
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return 0, fmt.Errorf("%w: %q", ErrColumnOutOfRange, letter)
	}
	return int(letter[0] - 'A'), nil
}
