package sheetsync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseItemSummary(t *testing.T) {
	counts := ParseItemSummary("T-Shirt (M) x2, Vinyl x1")

	assert.Equal(t, []ItemCount{
		{Name: "T-Shirt", Quantity: 2},
		{Name: "Vinyl", Quantity: 1},
	}, counts)
}

func TestParseItemSummarySkipsMalformedSegments(t *testing.T) {
	counts := ParseItemSummary("not an item, Poster x3, also garbage")

	assert.Equal(t, []ItemCount{{Name: "Poster", Quantity: 3}}, counts)
}

func TestParseItemSummaryAggregatesAcrossSizes(t *testing.T) {
	counts := ParseItemSummary("T-Shirt (M) x2, T-Shirt (L) x3, Vinyl x4")

	assert.Equal(t, []ItemCount{
		{Name: "T-Shirt", Quantity: 5},
		{Name: "Vinyl", Quantity: 4},
	}, counts)
}

func TestParseItemSummaryTiesKeepFirstSeenOrder(t *testing.T) {
	counts := ParseItemSummary("Vinyl x2, Poster x2, Sticker x2")

	assert.Equal(t, []ItemCount{
		{Name: "Vinyl", Quantity: 2},
		{Name: "Poster", Quantity: 2},
		{Name: "Sticker", Quantity: 2},
	}, counts)
}

func TestParseItemSummaryEmpty(t *testing.T) {
	assert.Empty(t, ParseItemSummary(""))
	assert.Empty(t, ParseItemSummary("  ,  , "))
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2025-10-26":          "2025-10-26",
		"2025-10-26 18:04:00": "2025-10-26",
		"10/26/2025":          "2025-10-26",
		"1/2/2025":            "2025-01-02",
		"Oct 26 2025":         "Oct 26 2025",
		"":                    "",
	}

	for input, want := range cases {
		assert.Equal(t, want, NormalizeDate(input), "input %q", input)
	}
}

func TestNormalizeDateSlashAndISOAgree(t *testing.T) {
	assert.Equal(t, NormalizeDate("2025-10-26"), NormalizeDate("10/26/2025"))
}
