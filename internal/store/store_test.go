package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMoney(t *testing.T) {
	cases := map[string]string{
		"25":     "25.00",
		"25.5":   "25.50",
		"0":      "0.00",
		"19.999": "20.00",
		"-3.5":   "-3.50",
		"abc":    "0.00",
		"":       "0.00",
		"$10.00": "0.00",
	}

	for input, want := range cases {
		assert.Equal(t, want, normalizeMoney(input), "input %q", input)
	}
}

func TestInventoryKey(t *testing.T) {
	assert.Equal(t, "default", inventoryKey(""))
	assert.Equal(t, "M", inventoryKey("M"))
}
