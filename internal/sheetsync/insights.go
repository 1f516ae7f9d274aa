package sheetsync

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"roaddog-system/internal/database/models"
)

const methodHeaderSuffix = " Revenue"

// DefaultPaymentMethods seeds the Insights layout before any sales exist.
var DefaultPaymentMethods = []string{"Cash", "Venmo", "Card", "Other"}

// NormalizePaymentMethod collapses casing and spacing variants of a payment
// method onto one Title Case key, so "cash", "CASH" and " Cash " count as the
// same column. Idempotent.
func NormalizePaymentMethod(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// DistinctPaymentMethods derives the sorted set of normalized payment
// methods from raw Payment Method column values. The lexicographic order IS
// the Insights column order, which is why drift detection exists: adding a
// method can shift every dynamic column. An empty ledger yields the default
// method set.
func DistinctPaymentMethods(raw []string) []string {
	seen := map[string]bool{}
	var methods []string
	for _, r := range raw {
		m := NormalizePaymentMethod(r)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		methods = append(methods, m)
	}

	if len(methods) == 0 {
		methods = append(methods, DefaultPaymentMethods...)
	}

	sort.Strings(methods)
	return methods
}

// MethodColumns computes the dynamic column positions for a method set:
// payment methods occupy one column each starting at column E, with Top Item
// and Top Size immediately after the last method. Fails if the layout runs
// past column Z.
func MethodColumns(methods []string) (methodCols map[string]int, topItemCol, topSizeCol int, err error) {
	methodCols = make(map[string]int, len(methods))
	for i, m := range methods {
		methodCols[m] = InsightsMethodStartCol + i
	}
	topItemCol = InsightsMethodStartCol + len(methods)
	topSizeCol = topItemCol + 1

	if _, err = ColumnLetter(topSizeCol); err != nil {
		return nil, 0, 0, err
	}
	return methodCols, topItemCol, topSizeCol, nil
}

// HeaderMethods extracts the payment-method list a header row was built
// with: every label ending in " Revenue", suffix stripped, in sheet order.
func HeaderMethods(header []string) []string {
	var methods []string
	for _, label := range header {
		if strings.HasSuffix(label, methodHeaderSuffix) {
			methods = append(methods, strings.TrimSuffix(label, methodHeaderSuffix))
		}
	}
	return methods
}

// SchemaOutdated reports whether the sheet's stored method columns diverge
// from the freshly computed set — any length or positional mismatch means
// the physical layout must be rebuilt before dynamic columns can be trusted.
func SchemaOutdated(stored, fresh []string) bool {
	if len(stored) != len(fresh) {
		return true
	}
	for i := range stored {
		if stored[i] != fresh[i] {
			return true
		}
	}
	return false
}

// BuildInsightsHeader renders the full header row for a method set.
func BuildInsightsHeader(methods []string) []interface{} {
	header := []interface{}{"Date", "Sales", "Revenue", "Tips"}
	for _, m := range methods {
		header = append(header, m+methodHeaderSuffix)
	}
	header = append(header, "Top Item", "Top Size")
	return header
}

// QuickStats is the fixed-cell summary block at the top of the Insights
// sheet.
type QuickStats struct {
	TotalRevenue string `json:"totalRevenue"`
	SaleCount    int    `json:"saleCount"`
	AverageSale  string `json:"averageSale"`
}

// DailyRow is one data row of the Insights sheet.
type DailyRow struct {
	Date          string
	SaleCount     int
	Revenue       decimal.Decimal
	Tips          decimal.Decimal
	MethodRevenue map[string]decimal.Decimal
	TopItem       string
	TopSize       string
}

// BuildDailyRows aggregates sales into per-date Insights rows, in ascending
// date order. Revenue is the money actually received; discounts are already
// excluded. Per-method revenue uses normalized method names.
func BuildDailyRows(sales []models.Sale) []DailyRow {
	type acc struct {
		count   int
		revenue decimal.Decimal
		tips    decimal.Decimal
		methods map[string]decimal.Decimal
		items   map[string]int
		sizes   map[string]int
	}

	byDate := map[string]*acc{}
	var dates []string

	for _, s := range sales {
		date := NormalizeDate(s.SaleDate.Format("2006-01-02"))
		a := byDate[date]
		if a == nil {
			a = &acc{
				methods: map[string]decimal.Decimal{},
				items:   map[string]int{},
				sizes:   map[string]int{},
			}
			byDate[date] = a
			dates = append(dates, date)
		}

		amount, err := decimal.NewFromString(s.ActualAmount)
		if err != nil {
			amount = decimal.Zero
		}
		tip, err := decimal.NewFromString(s.TipAmount)
		if err != nil {
			tip = decimal.Zero
		}

		a.count++
		a.revenue = a.revenue.Add(amount)
		a.tips = a.tips.Add(tip)

		method := NormalizePaymentMethod(s.PaymentMethod)
		a.methods[method] = a.methods[method].Add(amount)

		for _, item := range s.Items {
			a.items[item.ProductName] += int(item.Quantity)
			if item.Size != nil && *item.Size != "" {
				a.sizes[*item.Size] += int(item.Quantity)
			}
		}
	}

	sort.Strings(dates)

	rows := make([]DailyRow, 0, len(dates))
	for _, date := range dates {
		a := byDate[date]
		rows = append(rows, DailyRow{
			Date:          date,
			SaleCount:     a.count,
			Revenue:       a.revenue,
			Tips:          a.tips,
			MethodRevenue: a.methods,
			TopItem:       maxCountKey(a.items),
			TopSize:       maxCountKey(a.sizes),
		})
	}
	return rows
}

// ComputeQuickStats totals a sales ledger for the fixed stat cells.
func ComputeQuickStats(sales []models.Sale) QuickStats {
	revenue := decimal.Zero
	for _, s := range sales {
		amount, err := decimal.NewFromString(s.ActualAmount)
		if err != nil {
			continue
		}
		revenue = revenue.Add(amount)
	}

	stats := QuickStats{
		TotalRevenue: revenue.StringFixed(2),
		SaleCount:    len(sales),
		AverageSale:  "0.00",
	}
	if len(sales) > 0 {
		stats.AverageSale = revenue.Div(decimal.NewFromInt(int64(len(sales)))).StringFixed(2)
	}
	return stats
}

func maxCountKey(counts map[string]int) string {
	best := ""
	bestCount := 0
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
