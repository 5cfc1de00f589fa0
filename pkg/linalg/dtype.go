package linalg

import (
	"fmt"
	"math"
	"strings"
)

// DType is the element type of an Array.
// Storage is always float64; the dtype decides how values are rounded on store.
type DType int

// Supported element types.
const (
	Float64 DType = iota
	Float32
	Int64
	Int32
	Int16
)

// Size returns the byte size of one element, or 0 for an unknown dtype.
func (dt DType) Size() int {
	switch dt {
	case Float64, Int64:
		return 8
	case Float32, Int32:
		return 4
	case Int16:
		return 2
	default:
		return 0
	}
}

// String returns a human-readable name for the dtype.
func (dt DType) String() string {
	switch dt {
	case Float64:
		return "float64"
	case Float32:
		return "float32"
	case Int64:
		return "int64"
	case Int32:
		return "int32"
	case Int16:
		return "int16"
	default:
		return "unknown"
	}
}

// IsFloat reports whether the dtype is a floating point type.
func (dt DType) IsFloat() bool {
	return dt == Float64 || dt == Float32
}

// ParseDType converts a name such as "float32" or "f4" to a DType.
func ParseDType(name string) (DType, error) {
	switch strings.ToLower(name) {
	case "float64", "f8", "":
		return Float64, nil
	case "float32", "f4":
		return Float32, nil
	case "int64", "i8":
		return Int64, nil
	case "int32", "i4":
		return Int32, nil
	case "int16", "i2":
		return Int16, nil
	default:
		return Float64, fmt.Errorf("unknown dtype %q", name)
	}
}

// cast rounds v to the precision of the dtype.
// Integer casts truncate toward zero; NaN and Inf become 0.
func (dt DType) cast(v float64) float64 {
	switch dt {
	case Float32:
		return float64(float32(v))
	case Int64, Int32, Int16:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		t := math.Trunc(v)
		switch dt {
		case Int32:
			return float64(int32(t))
		case Int16:
			return float64(int16(t))
		}
		return float64(int64(t))
	default:
		return v
	}
}

// promote returns the default result dtype for a set of inputs.
// All-Float32 inputs stay Float32; everything else computes in Float64.
func promote(arrays ...*Array) DType {
	if len(arrays) == 0 {
		return Float64
	}
	for _, a := range arrays {
		if a.dtype != Float32 {
			return Float64
		}
	}
	return Float32
}
