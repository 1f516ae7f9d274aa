package sheetsync

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"roaddog-system/internal/database"
	"roaddog-system/internal/database/models"
)

// MaxCellChars is the backend's per-cell text limit. Inline data URLs for
// product images blow past it; callers are told to host the image instead.
const MaxCellChars = 50000

var ErrCellTooLarge = errors.New("cell value exceeds the 50,000 character spreadsheet limit")

const dateCellLayout = "2006-01-02 15:04:05"

// EncodeProductRow maps a product onto the Products sheet column order.
// Pure transform; the caller owns all spreadsheet I/O.
func EncodeProductRow(p models.Product) ([]interface{}, error) {
	if p.ImageURL != nil && len(*p.ImageURL) > MaxCellChars {
		return nil, fmt.Errorf("%w: image URL for product %q is %d characters, use a hosted URL instead of inline image data", ErrCellTooLarge, p.Name, len(*p.ImageURL))
	}

	inventory := ""
	if len(p.Inventory) > 0 {
		b, err := json.Marshal(p.Inventory)
		if err != nil {
			return nil, fmt.Errorf("encode inventory for product %q: %w", p.Name, err)
		}
		inventory = string(b)
	}

	currencyPrices := ""
	if len(p.CurrencyPrices) > 0 {
		b, err := json.Marshal(p.CurrencyPrices)
		if err != nil {
			return nil, fmt.Errorf("encode currency prices for product %q: %w", p.Name, err)
		}
		currencyPrices = string(b)
	}

	showText := "TRUE"
	if !p.ShowTextOnButton {
		showText = "FALSE"
	}

	return []interface{}{
		p.ID,
		p.Name,
		formatAmount(p.Price),
		p.Category,
		strDeref(p.Description),
		strDeref(p.ImageURL),
		strings.Join(p.Sizes, ","),
		inventory,
		currencyPrices,
		showText,
	}, nil
}

// DecodeProductRow rebuilds a product from a Products sheet row. Hand-edited
// sheets are common, so malformed cells degrade instead of failing: bad JSON
// means no inventory or overrides, a bad price means zero, a blank category
// falls back to "Other".
func DecodeProductRow(row []interface{}) models.Product {
	p := models.Product{
		ID:       cellString(row, ProductColID),
		Name:     cellString(row, ProductColName),
		Price:    parseAmount(cellString(row, ProductColPrice)),
		Category: cellString(row, ProductColCategory),
	}
	if p.Category == "" {
		p.Category = "Other"
	}

	if desc := cellString(row, ProductColDescription); desc != "" {
		p.Description = &desc
	}
	if img := cellString(row, ProductColImageURL); img != "" {
		p.ImageURL = &img
	}

	if sizes := cellString(row, ProductColSizes); sizes != "" {
		for _, s := range strings.Split(sizes, ",") {
			if s = strings.TrimSpace(s); s != "" {
				p.Sizes = append(p.Sizes, s)
			}
		}
	}

	if raw := cellString(row, ProductColInventory); raw != "" {
		var inv database.IntMap
		if err := json.Unmarshal([]byte(raw), &inv); err != nil {
			log.Printf("product %s: unreadable inventory cell, treating as absent: %v", p.ID, err)
		} else {
			p.Inventory = inv
		}
	}

	if raw := cellString(row, ProductColCurrencyPrices); raw != "" {
		var prices database.StringMap
		if err := json.Unmarshal([]byte(raw), &prices); err != nil {
			log.Printf("product %s: unreadable currency prices cell, treating as absent: %v", p.ID, err)
		} else {
			p.CurrencyPrices = prices
		}
	}

	p.ShowTextOnButton = !strings.EqualFold(cellString(row, ProductColShowText), "FALSE")

	return p
}

// EncodeSaleRow maps a sale onto the Sales sheet column order. Items are
// written twice: the human-readable summary in the Items column, and the
// structured JSON list in the Product Names column so later readers never
// have to fall back to parsing the summary text.
func EncodeSaleRow(s models.Sale) ([]interface{}, error) {
	itemsJSON := ""
	if len(s.Items) > 0 {
		b, err := json.Marshal(s.Items)
		if err != nil {
			return nil, fmt.Errorf("encode items for sale %s: %w", s.ID, err)
		}
		itemsJSON = string(b)
	}

	hookup := ""
	if s.IsHookup {
		hookup = "Hookup"
	}

	sizes := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		if item.Size != nil && *item.Size != "" {
			sizes = append(sizes, *item.Size)
		}
	}

	return []interface{}{
		s.ID,
		s.SaleDate.Format(dateCellLayout),
		ItemSummary(s.Items),
		formatAmount(s.Total),
		formatAmount(s.ActualAmount),
		formatAmount(s.Discount),
		s.PaymentMethod,
		hookup,
		itemsJSON,
		strings.Join(sizes, ","),
		formatAmount(s.TipAmount),
	}, nil
}

// DecodeSaleRow rebuilds a sale from a Sales sheet row. Items come from the
// structured JSON column when present; rows written before that column
// carried JSON leave Items empty, and reports recover quantities from the
// summary text instead (see ParseItemSummary).
func DecodeSaleRow(row []interface{}) models.Sale {
	s := models.Sale{
		ID:            cellString(row, SalesColID),
		Total:         parseAmount(cellString(row, SalesColTotal)),
		ActualAmount:  parseAmount(cellString(row, SalesColActualAmount)),
		Discount:      parseAmount(cellString(row, SalesColDiscount)),
		TipAmount:     parseAmount(cellString(row, SalesColTips)),
		PaymentMethod: cellString(row, SalesColPaymentMethod),
		IsHookup:      cellString(row, SalesColHookup) != "",
		Synced:        true,
	}

	if ts := cellString(row, SalesColDate); ts != "" {
		if t, err := time.Parse(dateCellLayout, ts); err == nil {
			s.SaleDate = t
		} else if t, err := time.Parse("2006-01-02", NormalizeDate(ts)); err == nil {
			s.SaleDate = t
		}
	}

	if raw := cellString(row, SalesColProductNames); strings.HasPrefix(raw, "[") {
		var items []models.SaleItem
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			log.Printf("sale %s: unreadable items cell, falling back to summary text: %v", s.ID, err)
		} else {
			s.Items = items
		}
	}

	return s
}

// EncodeSignupRow maps an email signup onto the Email Signups sheet.
func EncodeSignupRow(e models.EmailSignup) []interface{} {
	return []interface{}{
		e.ID,
		e.CreatedAt.Format(dateCellLayout),
		e.Email,
		strDeref(e.Name),
		strDeref(e.Phone),
		e.Source,
		strDeref(e.SaleID),
	}
}

// ItemSummary renders line items as "<name>[ (<size>)] x<qty>" joined by
// ", ". This is the display form shown in the sheet; ParseItemSummary is its
// best-effort inverse.
func ItemSummary(items []models.SaleItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		part := item.ProductName
		if item.Size != nil && *item.Size != "" {
			part += " (" + *item.Size + ")"
		}
		part += fmt.Sprintf(" x%d", item.Quantity)
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func cellString(row []interface{}, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[index]))
}

// parseAmount reads a money cell, defaulting to zero when unparseable.
func parseAmount(s string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return "0.00"
	}
	return d.StringFixed(2)
}

// formatAmount renders a stored amount with two decimal places.
func formatAmount(s string) string {
	return parseAmount(s)
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
