package linalg

import (
	"fmt"
	"math"
)

// Array is a dense row-major n-dimensional array of numbers.
//
// Vectors, quaternions and matrices are Arrays whose trailing dimensions
// are (3), (4) and (4, 4). Leading dimensions form the batch.
type Array struct {
	shape Shape
	data  []float64
	dtype DType
}

// Zeros creates a zero-filled array.
func Zeros(shape Shape, dtype DType) *Array {
	return &Array{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
		dtype: dtype,
	}
}

// Identity4 returns a 4x4 identity matrix.
func Identity4(dtype DType) *Array {
	a := Zeros(Shape{4, 4}, dtype)
	for i := 0; i < 4; i++ {
		a.data[i*5] = 1
	}
	return a
}

// FromSlice builds a Float64 array from data laid out row-major in shape.
// The data is copied.
func FromSlice(data []float64, shape ...int) (*Array, error) {
	s := Shape(shape)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShapeMismatch, len(data), s)
	}
	a := Zeros(s, Float64)
	copy(a.data, data)
	return a, nil
}

// MustFromSlice is FromSlice that panics on error. Meant for literals in tests and examples.
func MustFromSlice(data []float64, shape ...int) *Array {
	a, err := FromSlice(data, shape...)
	if err != nil {
		panic(err)
	}
	return a
}

// Scalar returns a zero-dimensional array.
func Scalar(v float64) *Array {
	return &Array{shape: Shape{}, data: []float64{v}, dtype: Float64}
}

// Vec3 returns a single vector of shape (3).
func Vec3(x, y, z float64) *Array {
	return &Array{shape: Shape{3}, data: []float64{x, y, z}, dtype: Float64}
}

// Quat returns a single quaternion of shape (4).
func Quat(x, y, z, w float64) *Array {
	return &Array{shape: Shape{4}, data: []float64{x, y, z, w}, dtype: Float64}
}

// Mat4 returns a single 4x4 matrix from 16 row-major values.
func Mat4(rows [16]float64) *Array {
	a := Zeros(Shape{4, 4}, Float64)
	copy(a.data, rows[:])
	return a
}

// Shape returns the array's shape. Callers must not modify it.
func (a *Array) Shape() Shape {
	return a.shape
}

// DType returns the element type.
func (a *Array) DType() DType {
	return a.dtype
}

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.data)
}

// Data returns the underlying row-major storage.
// Writes through the slice bypass dtype rounding.
func (a *Array) Data() []float64 {
	return a.data
}

// At returns the element at the given index.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.offset(idx)]
}

// Set stores v at the given index, rounded to the array's dtype.
func (a *Array) Set(v float64, idx ...int) {
	a.data[a.offset(idx)] = a.dtype.cast(v)
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("index %v does not match shape %v", idx, a.shape))
	}
	off := 0
	for i, n := range idx {
		if n < 0 || n >= a.shape[i] {
			panic(fmt.Sprintf("index %v out of range for shape %v", idx, a.shape))
		}
		off = off*a.shape[i] + n
	}
	return off
}

// Clone returns a deep copy.
func (a *Array) Clone() *Array {
	data := make([]float64, len(a.data))
	copy(data, a.data)
	return &Array{shape: a.shape.Clone(), data: data, dtype: a.dtype}
}

// AsType returns a copy converted to dtype.
func (a *Array) AsType(dtype DType) *Array {
	out := Zeros(a.shape, dtype)
	for i, v := range a.data {
		out.data[i] = dtype.cast(v)
	}
	return out
}

// Reshape returns an array sharing storage with a under a new shape.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	s := Shape(shape)
	if s.NumElements() != len(a.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v", ErrShapeMismatch, a.shape, s)
	}
	return &Array{shape: s.Clone(), data: a.data, dtype: a.dtype}, nil
}

// CopyFrom copies src into a. Shapes must match.
func (a *Array) CopyFrom(src *Array) error {
	if !a.shape.Equal(src.shape) {
		return fmt.Errorf("%w: copy %v into %v", ErrShapeMismatch, src.shape, a.shape)
	}
	for i, v := range src.data {
		a.data[i] = a.dtype.cast(v)
	}
	return nil
}

// Equal reports whether both arrays have the same shape and identical values.
// The dtype is not compared.
func (a *Array) Equal(b *Array) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		if a.data[i] != b.data[i] {
			return false
		}
	}
	return true
}

// AllClose reports whether both arrays have the same shape and every pair
// of elements satisfies |a-b| <= atol + rtol*|b|. NaNs never compare close.
func (a *Array) AllClose(b *Array, rtol, atol float64) bool {
	if !a.shape.Equal(b.shape) {
		return false
	}
	for i := range a.data {
		if math.Abs(a.data[i]-b.data[i]) > atol+rtol*math.Abs(b.data[i]) {
			return false
		}
		if math.IsNaN(a.data[i]) || math.IsNaN(b.data[i]) {
			return false
		}
	}
	return true
}

// String formats the array for debugging.
func (a *Array) String() string {
	return fmt.Sprintf("Array(%v, %v, %s)", a.data, a.shape, a.dtype)
}

// batchShape returns the leading dimensions of a once the trailing
// dimensions match inner. It fails if the trailing dimensions differ.
func (a *Array) batchShape(what string, inner ...int) (Shape, error) {
	n := len(a.shape) - len(inner)
	if n < 0 {
		return nil, fmt.Errorf("%w: %s must have trailing shape %v, got %v", ErrShapeMismatch, what, inner, a.shape)
	}
	for i, d := range inner {
		if a.shape[n+i] != d {
			return nil, fmt.Errorf("%w: %s must have trailing shape %v, got %v", ErrShapeMismatch, what, inner, a.shape)
		}
	}
	return a.shape[:n], nil
}

// put stores v at flat offset off, rounded to the array's dtype.
func (a *Array) put(off int, v float64) {
	a.data[off] = a.dtype.cast(v)
}
