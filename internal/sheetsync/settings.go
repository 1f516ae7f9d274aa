package sheetsync

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"roaddog-system/internal/database/models"
)

// Settings sheet ranges. The blocks are fixed; settings are written as a
// handful of discrete updates and read back in one batched call.
const (
	settingsPaymentRange  = SettingsSheet + "!A2:D11" // name, enabled, fee %, QR URL
	settingsCategoryRange = SettingsSheet + "!F2:F21"
	settingsThemeRange    = SettingsSheet + "!H2"
	settingsCurrencyRange = SettingsSheet + "!H3:H4" // currency code, exchange rate
	settingsSignupRange   = SettingsSheet + "!J2:J5" // enabled, prompt, fields CSV, dismiss secs
)

// LoadSettings reads the Settings sheet in one batched call. A spreadsheet
// without a Settings tab yields the default configuration flagged
// isDefault, not an error — new spreadsheets work out of the box.
func (s *Syncer) LoadSettings(ctx context.Context, spreadsheetID string) (models.POSSettings, error) {
	exists, err := s.backend.SheetExists(ctx, spreadsheetID, SettingsSheet)
	if err != nil {
		return models.POSSettings{}, fmt.Errorf("check settings sheet: %w", err)
	}
	if !exists {
		return models.DefaultPOSSettings(), nil
	}

	blocks, err := s.backend.BatchGet(ctx, spreadsheetID, []string{
		settingsPaymentRange,
		settingsCategoryRange,
		settingsThemeRange,
		settingsCurrencyRange,
		settingsSignupRange,
	})
	if err != nil {
		return models.POSSettings{}, fmt.Errorf("read settings: %w", err)
	}
	if len(blocks) != 5 {
		return models.POSSettings{}, fmt.Errorf("read settings: expected 5 ranges, got %d", len(blocks))
	}

	defaults := models.DefaultPOSSettings()
	settings := models.POSSettings{
		Theme:        defaults.Theme,
		Currency:     defaults.Currency,
		ExchangeRate: defaults.ExchangeRate,
	}

	for _, row := range blocks[0] {
		name := cellString(row, 0)
		if name == "" {
			continue
		}
		method := models.PaymentMethodSetting{
			Name:       name,
			Enabled:    strings.EqualFold(cellString(row, 1), "TRUE"),
			FeePercent: cellString(row, 2),
		}
		if qr := cellString(row, 3); qr != "" {
			method.QRCodeURL = &qr
		}
		settings.PaymentMethods = append(settings.PaymentMethods, method)
	}

	for _, row := range blocks[1] {
		if cat := cellString(row, 0); cat != "" {
			settings.Categories = append(settings.Categories, cat)
		}
	}

	if len(blocks[2]) > 0 {
		if theme := cellString(blocks[2][0], 0); theme != "" {
			settings.Theme = theme
		}
	}
	if len(blocks[3]) > 0 {
		if currency := cellString(blocks[3][0], 0); currency != "" {
			settings.Currency = currency
		}
	}
	if len(blocks[3]) > 1 {
		if rate := cellString(blocks[3][1], 0); rate != "" {
			settings.ExchangeRate = parseAmount(rate)
		}
	}

	settings.SignupCapture = defaults.SignupCapture
	settings.SignupCapture.Enabled = false
	if len(blocks[4]) > 0 {
		settings.SignupCapture.Enabled = strings.EqualFold(cellString(blocks[4][0], 0), "TRUE")
	}
	if len(blocks[4]) > 1 {
		if prompt := cellString(blocks[4][1], 0); prompt != "" {
			settings.SignupCapture.PromptText = prompt
		}
	}
	if len(blocks[4]) > 2 {
		if fields := cellString(blocks[4][2], 0); fields != "" {
			settings.SignupCapture.CollectFields = splitCSV(fields)
		}
	}
	if len(blocks[4]) > 3 {
		if secs, err := strconv.Atoi(cellString(blocks[4][3], 0)); err == nil {
			settings.SignupCapture.AutoDismissAfter = secs
		}
	}

	if len(settings.PaymentMethods) == 0 {
		settings.PaymentMethods = defaults.PaymentMethods
	}
	if len(settings.Categories) == 0 {
		settings.Categories = defaults.Categories
	}

	return settings, nil
}

// SaveSettings writes the whole configuration back as discrete range
// updates, creating the Settings tab first if needed. QR code URLs are
// guarded by the same cell-size limit as product images.
func (s *Syncer) SaveSettings(ctx context.Context, spreadsheetID string, settings models.POSSettings) error {
	for _, method := range settings.PaymentMethods {
		if method.QRCodeURL != nil && len(*method.QRCodeURL) > MaxCellChars {
			return fmt.Errorf("%w: QR code for %q is %d characters, use a hosted URL instead of inline image data", ErrCellTooLarge, method.Name, len(*method.QRCodeURL))
		}
	}

	exists, err := s.backend.SheetExists(ctx, spreadsheetID, SettingsSheet)
	if err != nil {
		return fmt.Errorf("check settings sheet: %w", err)
	}
	if !exists {
		if err := s.backend.AddSheet(ctx, spreadsheetID, SettingsSheet); err != nil {
			return fmt.Errorf("add settings sheet: %w", err)
		}
	}

	if err := s.backend.Clear(ctx, spreadsheetID, settingsPaymentRange); err != nil {
		return fmt.Errorf("clear payment settings: %w", err)
	}
	payments := make([][]interface{}, 0, len(settings.PaymentMethods))
	for _, method := range settings.PaymentMethods {
		enabled := "FALSE"
		if method.Enabled {
			enabled = "TRUE"
		}
		payments = append(payments, []interface{}{
			method.Name, enabled, method.FeePercent, strDeref(method.QRCodeURL),
		})
	}
	if len(payments) > 0 {
		if err := s.backend.Update(ctx, spreadsheetID, settingsPaymentRange, payments); err != nil {
			return fmt.Errorf("write payment settings: %w", err)
		}
	}

	if err := s.backend.Clear(ctx, spreadsheetID, settingsCategoryRange); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	categories := make([][]interface{}, 0, len(settings.Categories))
	for _, cat := range settings.Categories {
		categories = append(categories, []interface{}{cat})
	}
	if len(categories) > 0 {
		if err := s.backend.Update(ctx, spreadsheetID, settingsCategoryRange, categories); err != nil {
			return fmt.Errorf("write categories: %w", err)
		}
	}

	if err := s.backend.Update(ctx, spreadsheetID, settingsThemeRange, [][]interface{}{{settings.Theme}}); err != nil {
		return fmt.Errorf("write theme: %w", err)
	}

	currency := [][]interface{}{{settings.Currency}, {settings.ExchangeRate}}
	if err := s.backend.Update(ctx, spreadsheetID, settingsCurrencyRange, currency); err != nil {
		return fmt.Errorf("write currency: %w", err)
	}

	enabled := "FALSE"
	if settings.SignupCapture.Enabled {
		enabled = "TRUE"
	}
	signup := [][]interface{}{
		{enabled},
		{settings.SignupCapture.PromptText},
		{strings.Join(settings.SignupCapture.CollectFields, ",")},
		{strconv.Itoa(settings.SignupCapture.AutoDismissAfter)},
	}
	if err := s.backend.Update(ctx, spreadsheetID, settingsSignupRange, signup); err != nil {
		return fmt.Errorf("write signup settings: %w", err)
	}

	return nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
