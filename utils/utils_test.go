package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMockup(t *testing.T) {
	tests := []struct {
		color string
		want  string
	}{
		{"#0b0b0f", "/mock-tBL.jpg"},
		{"#e6e6eb", "/mockup-t.png"},
		{"#1e2a44", "/mock-tB.jpg"},
		{"#6d1b1b", "/mock-tR.jpg"},
		{"#1E2A44", "/mock-tB.jpg"},
		{"  #6D1B1B ", "/mock-tR.jpg"},
		{"#123456", DefaultMockup},
		{"", DefaultMockup},
		{"navy", DefaultMockup},
	}

	for _, tt := range tests {
		t.Run(tt.color, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveMockup(tt.color))
		})
	}
}

func TestColorNames(t *testing.T) {
	assert.Equal(t, "Navy", MapColorToName("#1e2a44"))
	assert.Equal(t, "White", MapColorToName(DefaultColor))
	assert.Equal(t, "", MapColorToName("#ffffff"))
	assert.True(t, IsValidColor("#0B0B0F"))
	assert.False(t, IsValidColor("#ffffff"))
}

func TestMockupVariantsIsACopy(t *testing.T) {
	v := MockupVariants()
	assert.Len(t, v, 4)
	v[0].Resource = "/tampered.png"
	assert.Equal(t, "/mock-tBL.jpg", ResolveMockup("#0b0b0f"))
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹0", FormatINR(0))
	assert.Equal(t, "₹599", FormatINR(599))
	assert.Equal(t, "₹1,198", FormatINR(1198))
	assert.Equal(t, "₹12,345", FormatINR(12345))
	assert.Equal(t, "₹1,24,999", FormatINR(124999))
	assert.Equal(t, "₹12,34,56,789", FormatINR(123456789))
	assert.Equal(t, "-₹599", FormatINR(-599))
}

func TestSizesAndPrice(t *testing.T) {
	for _, size := range AvailableSizes {
		assert.True(t, IsValidSize(size))
		assert.Equal(t, int64(599), CalculatePrice(size))
	}
	assert.Equal(t, "XL", NormalizeSize(" xl "))
	assert.Equal(t, "XXL", NormalizeSize("2xl"))
	assert.False(t, IsValidSize("XS"))
	assert.False(t, IsValidSize(""))
	assert.Equal(t, BasePrice, CalculatePrice("XS"))
}
