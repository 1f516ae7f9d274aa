package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"roaddog-system/internal/database"
	"roaddog-system/internal/database/models"
)

// PaymentTotal is one payment method's slice of a close-out.
type PaymentTotal struct {
	Method string `json:"method"`
	Count  int32  `json:"count"`
	Amount string `json:"amount"`
}

// ProductTotal is one product's slice of a close-out, broken down by size.
type ProductTotal struct {
	ProductName string           `json:"productName"`
	Quantity    int32            `json:"quantity"`
	Revenue     string           `json:"revenue"`
	BySize      map[string]int32 `json:"bySize,omitempty"`
}

// CloseOutInput carries the cash-drawer reconciliation entered at close.
type CloseOutInput struct {
	From       *time.Time
	To         *time.Time
	ActualCash *string
	Notes      *string
}

// CloseOutReport is a close-out with its breakdown blocks decoded.
type CloseOutReport struct {
	models.CloseOut
	Payments []PaymentTotal `json:"payments"`
	Products []ProductTotal `json:"products"`
}

// CreateCloseOut snapshots the sales in a window into an immutable
// end-of-night report: totals, per-method and per-product breakdowns, and
// the cash count against the expected cash take. Admin or better.
func (s *Store) CreateCloseOut(ctx context.Context, orgID string, userID int64, input CloseOutInput) (*CloseOutReport, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleAdmin); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ?", orgID)
	if input.From != nil {
		query = query.Where("sale_date >= ?", *input.From)
	}
	if input.To != nil {
		query = query.Where("sale_date <= ?", *input.To)
	}

	var sales []models.Sale
	if err := query.Order("sale_date asc").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("load sales for close-out: %w", err)
	}

	revenue := decimal.Zero
	discountTotal := decimal.Zero
	tipTotal := decimal.Zero
	expectedCash := decimal.Zero

	saleIDs := make([]string, 0, len(sales))
	methodAmounts := map[string]decimal.Decimal{}
	methodCounts := map[string]int32{}
	productQty := map[string]int32{}
	productRevenue := map[string]decimal.Decimal{}
	productSizes := map[string]map[string]int32{}

	for _, sale := range sales {
		saleIDs = append(saleIDs, sale.ID)

		actual := mustDecimal(sale.ActualAmount)
		tip := mustDecimal(sale.TipAmount)
		revenue = revenue.Add(actual)
		discountTotal = discountTotal.Add(mustDecimal(sale.Discount))
		tipTotal = tipTotal.Add(tip)

		methodAmounts[sale.PaymentMethod] = methodAmounts[sale.PaymentMethod].Add(actual)
		methodCounts[sale.PaymentMethod]++
		if strings.EqualFold(sale.PaymentMethod, "Cash") {
			expectedCash = expectedCash.Add(actual).Add(tip)
		}

		for _, item := range sale.Items {
			productQty[item.ProductName] += item.Quantity
			lineRevenue := mustDecimal(item.UnitPrice).Mul(decimal.NewFromInt32(item.Quantity))
			productRevenue[item.ProductName] = productRevenue[item.ProductName].Add(lineRevenue)

			if item.Size != nil && *item.Size != "" {
				if productSizes[item.ProductName] == nil {
					productSizes[item.ProductName] = map[string]int32{}
				}
				productSizes[item.ProductName][*item.Size] += item.Quantity
			}
		}
	}

	payments := make([]PaymentTotal, 0, len(methodAmounts))
	for method, amount := range methodAmounts {
		payments = append(payments, PaymentTotal{
			Method: method,
			Count:  methodCounts[method],
			Amount: amount.StringFixed(2),
		})
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].Method < payments[j].Method })

	products := make([]ProductTotal, 0, len(productQty))
	for name, qty := range productQty {
		products = append(products, ProductTotal{
			ProductName: name,
			Quantity:    qty,
			Revenue:     productRevenue[name].StringFixed(2),
			BySize:      productSizes[name],
		})
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Quantity > products[j].Quantity })

	paymentJSON, err := json.Marshal(payments)
	if err != nil {
		return nil, fmt.Errorf("encode payment breakdown: %w", err)
	}
	productJSON, err := json.Marshal(products)
	if err != nil {
		return nil, fmt.Errorf("encode product breakdown: %w", err)
	}

	closeOut := &models.CloseOut{
		ID:               uuid.NewString(),
		OrganizationID:   orgID,
		SaleIDs:          database.StringArray(saleIDs),
		SaleCount:        int32(len(sales)),
		Revenue:          revenue.StringFixed(2),
		DiscountTotal:    discountTotal.StringFixed(2),
		TipTotal:         tipTotal.StringFixed(2),
		PaymentBreakdown: string(paymentJSON),
		ProductBreakdown: string(productJSON),
		Notes:            input.Notes,
	}

	expected := expectedCash.StringFixed(2)
	closeOut.ExpectedCash = &expected
	if input.ActualCash != nil {
		counted, err := decimal.NewFromString(*input.ActualCash)
		if err != nil {
			return nil, fmt.Errorf("bad actual cash %q", *input.ActualCash)
		}
		actualStr := counted.StringFixed(2)
		diffStr := counted.Sub(expectedCash).StringFixed(2)
		closeOut.ActualCash = &actualStr
		closeOut.CashDifference = &diffStr
	}

	if err := s.db.WithContext(ctx).Create(closeOut).Error; err != nil {
		return nil, fmt.Errorf("create close-out: %w", err)
	}

	return &CloseOutReport{
		CloseOut: *closeOut,
		Payments: payments,
		Products: products,
	}, nil
}

// ListCloseOuts returns an organization's close-outs, newest first.
func (s *Store) ListCloseOuts(ctx context.Context, orgID string, userID int64) ([]CloseOutReport, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return nil, err
	}

	var closeOuts []models.CloseOut
	err := s.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at desc").
		Find(&closeOuts).Error
	if err != nil {
		return nil, fmt.Errorf("list close-outs: %w", err)
	}

	reports := make([]CloseOutReport, 0, len(closeOuts))
	for _, c := range closeOuts {
		reports = append(reports, decodeCloseOut(c))
	}
	return reports, nil
}

// GetCloseOut loads one close-out with its breakdowns decoded.
func (s *Store) GetCloseOut(ctx context.Context, orgID string, userID int64, closeOutID string) (*CloseOutReport, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return nil, err
	}

	var closeOut models.CloseOut
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", closeOutID, orgID).
		First(&closeOut).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load close-out: %w", err)
	}

	report := decodeCloseOut(closeOut)
	return &report, nil
}

func decodeCloseOut(c models.CloseOut) CloseOutReport {
	report := CloseOutReport{CloseOut: c}
	// Stored JSON came from us; a decode failure just leaves the block empty.
	_ = json.Unmarshal([]byte(c.PaymentBreakdown), &report.Payments)
	_ = json.Unmarshal([]byte(c.ProductBreakdown), &report.Products)
	return report
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
