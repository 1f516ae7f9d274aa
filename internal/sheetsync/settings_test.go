package sheetsync

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roaddog-system/internal/database/models"
)

func TestLoadSettingsMissingSheetReturnsDefaults(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	syncer := NewSyncer(backend)

	settings, err := syncer.LoadSettings(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.True(t, settings.IsDefault)
	require.NotEmpty(t, settings.PaymentMethods)
	assert.Equal(t, "Cash", settings.PaymentMethods[0].Name)
}

func TestLoadSettingsParsesBlocks(t *testing.T) {
	backend := newFakeBackend(SettingsSheet)
	backend.data[settingsPaymentRange] = [][]interface{}{
		{"Cash", "TRUE", "0", ""},
		{"Venmo", "true", "0", "https://venmo.example/qr.png"},
		{"Card", "FALSE", "2.9", ""},
	}
	backend.data[settingsCategoryRange] = [][]interface{}{{"Apparel"}, {"Music"}}
	backend.data[settingsThemeRange] = [][]interface{}{{"midnight"}}
	backend.data[settingsCurrencyRange] = [][]interface{}{{"EUR"}, {"0.92"}}
	backend.data[settingsSignupRange] = [][]interface{}{
		{"TRUE"}, {"Join the list!"}, {"email, phone"}, {"30"},
	}
	syncer := NewSyncer(backend)

	settings, err := syncer.LoadSettings(context.Background(), "sheet-1")
	require.NoError(t, err)

	assert.False(t, settings.IsDefault)
	require.Len(t, settings.PaymentMethods, 3)
	assert.True(t, settings.PaymentMethods[1].Enabled)
	require.NotNil(t, settings.PaymentMethods[1].QRCodeURL)
	assert.False(t, settings.PaymentMethods[2].Enabled)
	assert.Equal(t, "2.9", settings.PaymentMethods[2].FeePercent)

	assert.Equal(t, []string{"Apparel", "Music"}, settings.Categories)
	assert.Equal(t, "midnight", settings.Theme)
	assert.Equal(t, "EUR", settings.Currency)
	assert.Equal(t, "0.92", settings.ExchangeRate)

	assert.True(t, settings.SignupCapture.Enabled)
	assert.Equal(t, "Join the list!", settings.SignupCapture.PromptText)
	assert.Equal(t, []string{"email", "phone"}, settings.SignupCapture.CollectFields)
	assert.Equal(t, 30, settings.SignupCapture.AutoDismissAfter)
}

func TestLoadSettingsEmptySheetBackfillsDefaults(t *testing.T) {
	backend := newFakeBackend(SettingsSheet)
	syncer := NewSyncer(backend)

	settings, err := syncer.LoadSettings(context.Background(), "sheet-1")
	require.NoError(t, err)

	defaults := models.DefaultPOSSettings()
	assert.Equal(t, defaults.PaymentMethods, settings.PaymentMethods)
	assert.Equal(t, defaults.Categories, settings.Categories)
	assert.Equal(t, defaults.Theme, settings.Theme)
	assert.False(t, settings.IsDefault)
}

func TestSaveSettingsCreatesSheetAndWritesBlocks(t *testing.T) {
	backend := newFakeBackend(SalesSheet)
	syncer := NewSyncer(backend)

	settings := models.DefaultPOSSettings()
	settings.Theme = "midnight"

	err := syncer.SaveSettings(context.Background(), "sheet-1", settings)
	require.NoError(t, err)

	assert.Contains(t, backend.added, SettingsSheet)
	assert.Contains(t, backend.cleared, settingsPaymentRange)
	assert.Contains(t, backend.cleared, settingsCategoryRange)

	theme := backend.updated[settingsThemeRange]
	require.Len(t, theme, 1)
	assert.Equal(t, "midnight", theme[0][0])

	payments := backend.updated[settingsPaymentRange]
	require.Len(t, payments, len(settings.PaymentMethods))
	assert.Equal(t, "Cash", payments[0][0])
	assert.Equal(t, "TRUE", payments[0][1])
}

func TestSaveSettingsOversizedQRCodeFailsBeforeAnyWrite(t *testing.T) {
	backend := newFakeBackend(SettingsSheet)
	syncer := NewSyncer(backend)

	huge := strings.Repeat("x", MaxCellChars+1)
	settings := models.DefaultPOSSettings()
	settings.PaymentMethods[1].QRCodeURL = &huge

	err := syncer.SaveSettings(context.Background(), "sheet-1", settings)
	assert.ErrorIs(t, err, ErrCellTooLarge)
	assert.Empty(t, backend.cleared)
	assert.Empty(t, backend.updated)
}
