package sheetsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnLetterRoundTrip(t *testing.T) {
	for i := 0; i <= 25; i++ {
		letter, err := ColumnLetter(i)
		require.NoError(t, err)

		back, err := ColumnIndex(letter)
		require.NoError(t, err)
		assert.Equal(t, i, back)
	}
}

func TestColumnLetterOutOfRange(t *testing.T) {
	_, err := ColumnLetter(26)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)

	_, err = ColumnLetter(-1)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)

	_, err = ColumnIndex("AA")
	assert.ErrorIs(t, err, ErrColumnOutOfRange)

	_, err = ColumnIndex("a")
	assert.ErrorIs(t, err, ErrColumnOutOfRange)
}

func TestHeaderLengthsMatchColumnCounts(t *testing.T) {
	assert.Len(t, SalesHeader, SalesColTips+1)
	assert.Len(t, ProductsHeader, ProductColShowText+1)
	assert.Len(t, SignupsHeader, SignupColSaleID+1)
}

func TestSalesHeaderLayout(t *testing.T) {
	assert.Equal(t, "ID", SalesHeader[SalesColID])
	assert.Equal(t, "Actual Amount", SalesHeader[SalesColActualAmount])
	assert.Equal(t, "Payment Method", SalesHeader[SalesColPaymentMethod])
	assert.Equal(t, "Tips", SalesHeader[SalesColTips])

	letter, err := ColumnLetter(SalesColTips)
	require.NoError(t, err)
	assert.Equal(t, "K", letter)
}
