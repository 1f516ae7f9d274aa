package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roaddog-system/internal/database"
	"roaddog-system/internal/database/models"
)

// ProductInput carries the writable product fields. A nil ID means the
// store mints one.
type ProductInput struct {
	ID               string
	Name             string
	Price            string
	Category         string
	Description      *string
	ImageURL         *string
	Sizes            []string
	Inventory        map[string]int
	CurrencyPrices   map[string]string
	ShowTextOnButton *bool
}

// ListProducts returns an organization's catalog, cache first.
func (s *Store) ListProducts(ctx context.Context, orgID string, userID int64) ([]models.Product, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return nil, err
	}

	cacheKey := PRODUCT_CACHE_PREFIX + orgID
	var products []models.Product
	if s.cacheGet(ctx, cacheKey, &products) {
		return products, nil
	}

	err := s.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("name asc").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	s.cacheSet(ctx, cacheKey, products, CACHE_TTL_SHORT)
	return products, nil
}

// GetProduct loads one product, scoped to its organization.
func (s *Store) GetProduct(ctx context.Context, orgID string, userID int64, productID string) (*models.Product, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return nil, err
	}

	var product models.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", productID, orgID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}
	return &product, nil
}

// CreateProduct adds a product to the catalog. Member or better.
func (s *Store) CreateProduct(ctx context.Context, orgID string, userID int64, input ProductInput) (*models.Product, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleMember); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:               input.ID,
		OrganizationID:   orgID,
		Name:             input.Name,
		Price:            normalizeMoney(input.Price),
		Category:         input.Category,
		Description:      input.Description,
		ImageURL:         input.ImageURL,
		Sizes:            database.StringArray(input.Sizes),
		Inventory:        database.IntMap(input.Inventory),
		CurrencyPrices:   database.StringMap(input.CurrencyPrices),
		ShowTextOnButton: true,
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Category == "" {
		product.Category = "Other"
	}
	if input.ShowTextOnButton != nil {
		product.ShowTextOnButton = *input.ShowTextOnButton
	}

	if err := s.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.cacheDel(ctx, PRODUCT_CACHE_PREFIX+orgID)
	return product, nil
}

// UpdateProduct replaces a product's writable fields. Member or better.
func (s *Store) UpdateProduct(ctx context.Context, orgID string, userID int64, productID string, input ProductInput) (*models.Product, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleMember); err != nil {
		return nil, err
	}

	var product models.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", productID, orgID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}

	product.Name = input.Name
	product.Price = normalizeMoney(input.Price)
	if input.Category != "" {
		product.Category = input.Category
	}
	product.Description = input.Description
	product.ImageURL = input.ImageURL
	product.Sizes = database.StringArray(input.Sizes)
	product.Inventory = database.IntMap(input.Inventory)
	product.CurrencyPrices = database.StringMap(input.CurrencyPrices)
	if input.ShowTextOnButton != nil {
		product.ShowTextOnButton = *input.ShowTextOnButton
	}

	if err := s.db.WithContext(ctx).Save(&product).Error; err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.cacheDel(ctx, PRODUCT_CACHE_PREFIX+orgID)
	return &product, nil
}

// DeleteProduct removes a product. Past sales keep their own name and price
// snapshots, so nothing else is touched. Member or better.
func (s *Store) DeleteProduct(ctx context.Context, orgID string, userID int64, productID string) error {
	if err := s.RequireRole(ctx, orgID, userID, RoleMember); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", productID, orgID).
		Delete(&models.Product{})
	if result.Error != nil {
		return fmt.Errorf("delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.cacheDel(ctx, PRODUCT_CACHE_PREFIX+orgID)
	return nil
}

// Restock adds stock to one size bucket (or the unsized bucket when size is
// empty). Member or better.
func (s *Store) Restock(ctx context.Context, orgID string, userID int64, productID, size string, quantity int) (*models.Product, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleMember); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("restock quantity must be positive, got %d", quantity)
	}

	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(lockForUpdate()).
			Where("id = ? AND organization_id = ?", productID, orgID).
			First(&product).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if product.Inventory == nil {
			product.Inventory = database.IntMap{}
		}
		product.Inventory[inventoryKey(size)] += quantity

		return tx.Model(&product).Update("inventory", product.Inventory).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("restock: %w", err)
	}

	s.cacheDel(ctx, PRODUCT_CACHE_PREFIX+orgID)
	return &product, nil
}

// deductInventory decrements stock inside an open transaction. Counts may go
// negative; sales at the merch table happen whether the count was right or
// not, and a negative number is a signal to fix, not a reason to block a
// paying customer.
func deductInventory(tx *gorm.DB, orgID, productID, size string, quantity int) error {
	var product models.Product
	err := tx.Clauses(lockForUpdate()).
		Where("id = ? AND organization_id = ?", productID, orgID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Product was deleted between cart and checkout; the sale still
		// stands on its snapshot.
		return nil
	}
	if err != nil {
		return err
	}

	if product.Inventory == nil {
		product.Inventory = database.IntMap{}
	}
	product.Inventory[inventoryKey(size)] -= quantity

	return tx.Model(&product).Update("inventory", product.Inventory).Error
}

func inventoryKey(size string) string {
	if size == "" {
		return "default"
	}
	return size
}
