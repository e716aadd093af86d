package utils

import "strings"

// BasePrice is the price of one custom tee, in rupees
const BasePrice int64 = 599

// sizePrices holds the price per size; every size currently costs the same
var sizePrices = map[string]int64{
	"S":   BasePrice,
	"M":   BasePrice,
	"L":   BasePrice,
	"XL":  BasePrice,
	"XXL": BasePrice,
}

// AvailableSizes lists the sizes in display order
var AvailableSizes = []string{"S", "M", "L", "XL", "XXL"}

// NormalizeSize normalizes size values to standard format
// "xl " -> "XL", "2XL" -> "XXL"
func NormalizeSize(size string) string {
	sizeUpper := strings.ToUpper(strings.TrimSpace(size))

	if sizeUpper == "2XL" {
		return "XXL"
	}

	return sizeUpper
}

// IsValidSize reports whether the size is offered
func IsValidSize(size string) bool {
	_, ok := sizePrices[NormalizeSize(size)]
	return ok
}

// CalculatePrice returns the price in rupees for a size
// Unknown sizes fall back to BasePrice
func CalculatePrice(size string) int64 {
	if price, exists := sizePrices[NormalizeSize(size)]; exists {
		return price
	}
	return BasePrice
}
