package typeutils

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// AsFloat64 widens any built-in numeric value to float64.
func AsFloat64(v any) (float64, bool) {
	switch v.(type) {
	case int, int8, int16, int32, int64:
		return float64(reflect.ValueOf(v).Int()), true
	case uint, uint8, uint16, uint32, uint64:
		return float64(reflect.ValueOf(v).Uint()), true
	case float32, float64:
		return reflect.ValueOf(v).Float(), true
	}
	return 0, false
}

// Compare returns 0 for equal, -1 if a < b else 1 if a > b. Numeric values
// compare across kinds through float64 widening, with NaN ordered below
// every other number. Operands of incomparable types return an error.
func Compare(a, b any) (int, error) {
	if aFloat, ok := AsFloat64(a); ok {
		bFloat, ok := AsFloat64(b)
		if !ok {
			return 0, incomparable(a, b)
		}
		if math.IsNaN(aFloat) {
			if math.IsNaN(bFloat) {
				return 0, nil
			}
			return -1, nil
		}
		if math.IsNaN(bFloat) {
			return 1, nil
		}
		if aFloat < bFloat {
			return -1, nil
		} else if aFloat > bFloat {
			return 1, nil
		}
		return 0, nil
	}

	switch aVal := a.(type) {
	case string:
		bStr, ok := b.(string)
		if !ok {
			return 0, incomparable(a, b)
		}
		return strings.Compare(aVal, bStr), nil
	case bool:
		bBool, ok := b.(bool)
		if !ok {
			return 0, incomparable(a, b)
		}
		// false < true
		if !aVal && bBool {
			return -1, nil
		} else if aVal && !bBool {
			return 1, nil
		}
		return 0, nil
	}
	return 0, incomparable(a, b)
}

// Equal reports equality with numeric kinds widened, so an injected int64
// line number equals the float64 a JSON document decodes to. Composite
// values compare structurally.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if aFloat, ok := AsFloat64(a); ok {
		bFloat, bOk := AsFloat64(b)
		return bOk && aFloat == bFloat
	}
	return reflect.DeepEqual(a, b)
}

func incomparable(a, b any) error {
	return fmt.Errorf("cannot compare %T with %T", a, b)
}
