package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roaddog-system/internal/database"
	"roaddog-system/internal/database/models"
)

// LoadSettings returns an organization's register configuration, falling
// back to the built-in defaults (flagged IsDefault) when nothing has been
// saved yet.
func (s *Store) LoadSettings(ctx context.Context, orgID string, userID int64) (models.POSSettings, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleViewer); err != nil {
		return models.POSSettings{}, err
	}

	cacheKey := SETTINGS_CACHE_PREFIX + orgID
	var settings models.POSSettings
	if s.cacheGet(ctx, cacheKey, &settings) {
		return settings, nil
	}

	var row models.OrgSettings
	err := s.db.WithContext(ctx).Where("organization_id = ?", orgID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultPOSSettings(), nil
	}
	if err != nil {
		return models.POSSettings{}, fmt.Errorf("load settings: %w", err)
	}

	settings = decodeSettingsRow(row)
	s.cacheSet(ctx, cacheKey, settings, CACHE_TTL_MEDIUM)
	return settings, nil
}

// SaveSettings upserts the full configuration in one write. Admin or
// better.
func (s *Store) SaveSettings(ctx context.Context, orgID string, userID int64, settings models.POSSettings) (models.POSSettings, error) {
	if err := s.RequireRole(ctx, orgID, userID, RoleAdmin); err != nil {
		return models.POSSettings{}, err
	}

	settings = fillSettingsDefaults(settings)
	settings.IsDefault = false

	paymentJSON, err := json.Marshal(settings.PaymentMethods)
	if err != nil {
		return models.POSSettings{}, fmt.Errorf("encode payment methods: %w", err)
	}
	captureJSON, err := json.Marshal(settings.SignupCapture)
	if err != nil {
		return models.POSSettings{}, fmt.Errorf("encode signup capture: %w", err)
	}

	row := models.OrgSettings{
		OrganizationID: orgID,
		PaymentMethods: string(paymentJSON),
		Categories:     database.StringArray(settings.Categories),
		Theme:          settings.Theme,
		Currency:       settings.Currency,
		ExchangeRate:   normalizeMoney(settings.ExchangeRate),
		SignupCapture:  string(captureJSON),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "organization_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"payment_methods", "categories", "theme", "currency", "exchange_rate", "signup_capture", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return models.POSSettings{}, fmt.Errorf("save settings: %w", err)
	}

	settings.ExchangeRate = row.ExchangeRate
	s.cacheSet(ctx, SETTINGS_CACHE_PREFIX+orgID, settings, CACHE_TTL_MEDIUM)
	return settings, nil
}

func decodeSettingsRow(row models.OrgSettings) models.POSSettings {
	settings := models.POSSettings{
		Categories:   []string(row.Categories),
		Theme:        row.Theme,
		Currency:     row.Currency,
		ExchangeRate: row.ExchangeRate,
	}
	_ = json.Unmarshal([]byte(row.PaymentMethods), &settings.PaymentMethods)
	_ = json.Unmarshal([]byte(row.SignupCapture), &settings.SignupCapture)
	return fillSettingsDefaults(settings)
}

// fillSettingsDefaults backfills blank sections from the defaults so a
// partial save can never strip the register of payment methods or
// categories.
func fillSettingsDefaults(settings models.POSSettings) models.POSSettings {
	defaults := models.DefaultPOSSettings()
	if len(settings.PaymentMethods) == 0 {
		settings.PaymentMethods = defaults.PaymentMethods
	}
	if len(settings.Categories) == 0 {
		settings.Categories = defaults.Categories
	}
	if settings.Theme == "" {
		settings.Theme = defaults.Theme
	}
	if settings.Currency == "" {
		settings.Currency = defaults.Currency
	}
	if settings.ExchangeRate == "" {
		settings.ExchangeRate = defaults.ExchangeRate
	}
	if settings.SignupCapture.PromptText == "" {
		settings.SignupCapture = defaults.SignupCapture
	}
	return settings
}
