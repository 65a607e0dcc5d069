package utils

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// ToFloat coerces an arbitrary value to a float64. Strings are parsed,
// numeric types converted, anything unparseable yields 0 rather than an
// error. Monetary fields always pass through this at response boundaries.
func ToFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// ToInt coerces an arbitrary value to an int, defaulting to 0
func ToInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// Round2 rounds a monetary amount to two decimals
func Round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}
