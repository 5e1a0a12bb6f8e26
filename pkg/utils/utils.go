package utils

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Round2 округляет число до 2 знаков после запятой
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// IsFinite проверяет, является ли число конечным
func IsFinite(value float64) bool {
	return !math.IsInf(value, 0) && !math.IsNaN(value)
}

// Num заменяет NaN и бесконечности нулём
func Num(value float64) float64 {
	if !IsFinite(value) {
		return 0
	}
	return value
}

// SafeDiv делит a на b, возвращая 0 при нулевом знаменателе или нечисловом результате
func SafeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return Num(a / b)
}

// Coerce приводит произвольное значение из JSON-параметров к float64.
// Отсутствующие и нечисловые значения дают 0.
func Coerce(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return Num(v)
	case float32:
		return Num(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return Num(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return Num(f)
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		return 0
	}
}
