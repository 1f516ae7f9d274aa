package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"roaddog-system/internal/database/models"
)

// SaleItemInput is one cart line at checkout.
type SaleItemInput struct {
	ProductID   string
	ProductName string
	Quantity    int32
	UnitPrice   string
	Size        *string
}

// SaleInput carries a completed checkout. ActualAmount is what the customer
// actually paid; when empty it defaults to the list total.
type SaleInput struct {
	ID            string
	SaleDate      *time.Time
	Items         []SaleItemInput
	ActualAmount  string
	TipAmount     string
	PaymentMethod string
}

// RecordSale persists a sale and its line-item snapshots, deducting
// inventory in the same transaction. The list total is computed from the
// items; the discount is derived as total minus actual, and any positive
// discount marks the sale a hookup.
func (s *Store) RecordSale(ctx context.Context, orgID string, userID int64, input SaleInput) (*models.Sale, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleMember); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, errors.New("a sale needs at least one item")
	}

	total := decimal.Zero
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("item %q: quantity must be positive", item.ProductName)
		}
		unit, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("item %q: bad unit price %q", item.ProductName, item.UnitPrice)
		}
		total = total.Add(unit.Mul(decimal.NewFromInt32(item.Quantity)))
	}

	actual := total
	if input.ActualAmount != "" {
		parsed, err := decimal.NewFromString(input.ActualAmount)
		if err != nil {
			return nil, fmt.Errorf("bad actual amount %q", input.ActualAmount)
		}
		actual = parsed
	}

	discount := total.Sub(actual)
	if discount.IsNegative() {
		// Overpayment is not a discount; the tip field carries extras.
		discount = decimal.Zero
	}

	tip := decimal.Zero
	if input.TipAmount != "" {
		parsed, err := decimal.NewFromString(input.TipAmount)
		if err != nil {
			return nil, fmt.Errorf("bad tip amount %q", input.TipAmount)
		}
		tip = parsed
	}

	saleDate := time.Now().UTC()
	if input.SaleDate != nil {
		saleDate = *input.SaleDate
	}

	sale := &models.Sale{
		ID:             input.ID,
		OrganizationID: orgID,
		SaleDate:       saleDate,
		Total:          total.StringFixed(2),
		ActualAmount:   actual.StringFixed(2),
		Discount:       discount.StringFixed(2),
		TipAmount:      tip.StringFixed(2),
		PaymentMethod:  input.PaymentMethod,
		IsHookup:       discount.IsPositive(),
	}
	if sale.ID == "" {
		sale.ID = uuid.NewString()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		for _, item := range input.Items {
			record := &models.SaleItem{
				SaleID:      sale.ID,
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				UnitPrice:   normalizeMoney(item.UnitPrice),
				Size:        item.Size,
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
			sale.Items = append(sale.Items, *record)

			size := ""
			if item.Size != nil {
				size = *item.Size
			}
			if err := deductInventory(tx, orgID, item.ProductID, size, int(item.Quantity)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record sale: %w", err)
	}

	s.cacheDel(ctx, PRODUCT_CACHE_PREFIX+orgID)
	return sale, nil
}

// ListSales returns an organization's sales with items, newest first,
// optionally bounded by date.
func (s *Store) ListSales(ctx context.Context, orgID string, userID int64, from, to *time.Time) ([]models.Sale, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ?", orgID)
	if from != nil {
		query = query.Where("sale_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("sale_date <= ?", *to)
	}

	var sales []models.Sale
	if err := query.Order("sale_date desc").Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return sales, nil
}

// GetSale loads one sale with its items.
func (s *Store) GetSale(ctx context.Context, orgID string, userID int64, saleID string) (*models.Sale, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return nil, err
	}

	var sale models.Sale
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND organization_id = ?", saleID, orgID).
		First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load sale: %w", err)
	}
	return &sale, nil
}

// UnsyncedSales returns sales not yet pushed to the sheet, oldest first so
// the append order matches sale order.
func (s *Store) UnsyncedSales(ctx context.Context, orgID string) ([]models.Sale, error) {
	var sales []models.Sale
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ? AND synced = ?", orgID, false).
		Order("sale_date asc").
		Find(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("list unsynced sales: %w", err)
	}
	return sales, nil
}

// MarkSalesSynced flags sales as pushed. Called only after the sheet append
// succeeded; a crash between append and flag re-sends rows, which the
// append-only ledger tolerates better than losing them.
func (s *Store) MarkSalesSynced(ctx context.Context, orgID string, saleIDs []string) error {
	if len(saleIDs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&models.Sale{}).
		Where("organization_id = ? AND id IN ?", orgID, saleIDs).
		Update("synced", true).Error
	if err != nil {
		return fmt.Errorf("mark sales synced: %w", err)
	}
	return nil
}
