package results

import "forestwatch/internal/types"

// IsZero reports whether a normalized result represents "nothing changed"
// and should suppress notification.
//
// The array/scalar asymmetry is intentional: some layers encode composite
// values as a sequence of {value} entries. A sequence is zero when no
// element carries a positive numeric value; a scalar is zero when it is
// falsy (nil, numeric zero, empty string, or false). Adapters guarantee a
// numeric value, but the falsiness rule covers generic pass-through layers
// whose upstream occasionally sends non-numeric scalars.
func IsZero(result types.NormalizedResult) bool {
	return isZeroValue(result.Value)
}

func isZeroValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case []any:
		for _, el := range val {
			if numericValue(unwrap(el)) > 0 {
				return false
			}
		}
		return true
	case float64:
		return val == 0
	case int:
		return val == 0
	case int64:
		return val == 0
	case string:
		return val == ""
	case bool:
		return !val
	default:
		return false
	}
}

// unwrap peels a nested {value: x} object down to its inner value.
func unwrap(el any) any {
	if obj, ok := el.(map[string]any); ok {
		return obj["value"]
	}
	return el
}

// numericValue coerces a decoded JSON value to float64, treating anything
// non-numeric as zero.
func numericValue(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
