package algorithms

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"binarization/internal/models"
)

// intParam reads an integer parameter. TOML decodes integers as int64 and
// YAML or JSON may hand over whole floats, so all three are accepted. Values
// are limited to the int32 range so the conversion is exact on every platform.
func intParam(params map[string]interface{}, key string, defaultValue int) (int, error) {
	raw, ok := params[key]
	if !ok {
		return defaultValue, nil
	}

	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, outOfRange(key, v)
		}
		return int(v), nil
	case float64:
		if math.IsNaN(v) || v != math.Trunc(v) {
			return 0, fmt.Errorf("%s must be an integer, got %v: %w", key, v, models.ErrInvalidParameter)
		}
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, outOfRange(key, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer, got %q: %w", key, v, models.ErrInvalidParameter)
		}
		return int(n), nil
	}
	return 0, fmt.Errorf("%s has unsupported type %T: %w", key, raw, models.ErrInvalidParameter)
}

func outOfRange(key string, v interface{}) error {
	return fmt.Errorf("%s is out of range, got %v: %w", key, v, models.ErrInvalidParameter)
}

func floatParam(params map[string]interface{}, key string, defaultValue float64) (float64, error) {
	raw, ok := params[key]
	if !ok {
		return defaultValue, nil
	}

	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q: %w", key, v, models.ErrInvalidParameter)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("%s has unsupported type %T: %w", key, raw, models.ErrInvalidParameter)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s must be finite, got %v: %w", key, f, models.ErrInvalidParameter)
	}
	return f, nil
}

// checkKeys rejects parameters the method does not define.
func checkKeys(method string, params map[string]interface{}, defaults map[string]interface{}) error {
	var unknown []string
	for k := range params {
		if _, ok := defaults[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%s does not accept parameters %v: %w", method, unknown, models.ErrInvalidParameter)
}
