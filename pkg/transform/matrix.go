package transform

import (
	"fmt"

	"github.com/Faultbox/linalg/pkg/linalg"
)

// Matrix is a mutable 4x4 homogeneous transform in row-major order.
//
// In-place methods (the I-prefixed ones and Set/SetArray/Compose) keep
// the backing array, so references obtained from Array stay valid.
type Matrix struct {
	val *linalg.Array
}

// NewMatrix returns an identity matrix. The element type defaults to Float64.
func NewMatrix(dtype ...linalg.DType) *Matrix {
	dt := linalg.Float64
	if len(dtype) > 0 {
		dt = dtype[0]
	}
	return &Matrix{val: linalg.Identity4(dt)}
}

// MatrixFrom wraps a copy of an array of shape (4, 4), keeping its dtype.
func MatrixFrom(a *linalg.Array) (*Matrix, error) {
	if !a.Shape().Equal(linalg.Shape{4, 4}) {
		return nil, fmt.Errorf("matrix from %v: %w", a.Shape(), linalg.ErrShapeMismatch)
	}
	return &Matrix{val: a.Clone()}, nil
}

// Array returns the backing array.
func (m *Matrix) Array() *linalg.Array { return m.val }

// DType returns the element type.
func (m *Matrix) DType() linalg.DType { return m.val.DType() }

// At returns the element at row r, column c.
func (m *Matrix) At(r, c int) float64 { return m.val.At(r, c) }

// Set stores v at row r, column c.
func (m *Matrix) Set(v float64, r, c int) { m.val.Set(v, r, c) }

// SetArray overwrites all elements from a (4, 4) array in place.
func (m *Matrix) SetArray(a *linalg.Array) error {
	return m.val.CopyFrom(a)
}

// Copy returns an independent copy with the same dtype.
func (m *Matrix) Copy() *Matrix {
	return &Matrix{val: m.val.Clone()}
}

// Equal reports whether m holds exactly the values of a.
func (m *Matrix) Equal(a *linalg.Array) bool {
	return m.val.Equal(a)
}

// Multiply returns m · other.
func (m *Matrix) Multiply(other *Matrix) (*Matrix, error) {
	out, err := linalg.MatrixMultiply(m.val, other.val)
	if err != nil {
		return nil, err
	}
	return &Matrix{val: out}, nil
}

// IMultiply sets m to m · other.
func (m *Matrix) IMultiply(other *Matrix) error {
	_, err := linalg.MatrixMultiply(m.val, other.val, linalg.WithOut(m.val))
	return err
}

// Premultiply returns other · m.
func (m *Matrix) Premultiply(other *Matrix) (*Matrix, error) {
	out, err := linalg.MatrixMultiply(other.val, m.val)
	if err != nil {
		return nil, err
	}
	return &Matrix{val: out}, nil
}

// IPremultiply sets m to other · m.
func (m *Matrix) IPremultiply(other *Matrix) error {
	_, err := linalg.MatrixMultiply(other.val, m.val, linalg.WithOut(m.val))
	return err
}

// Inverse returns the inverse of m.
func (m *Matrix) Inverse() (*Matrix, error) {
	out, err := linalg.MatrixInverse(m.val)
	if err != nil {
		return nil, err
	}
	return &Matrix{val: out}, nil
}

// IInverse inverts m in place.
func (m *Matrix) IInverse() error {
	_, err := linalg.MatrixInverse(m.val, linalg.WithOut(m.val))
	return err
}

// Compose sets m to translation · rotation · scaling.
func (m *Matrix) Compose(translation *Vector, rotation *Quaternion, scaling *Vector) error {
	_, err := linalg.MatrixCompose(translation.val, rotation.val, scaling.val, linalg.WithOut(m.val))
	return err
}

// Decompose splits m into translation, rotation and scaling.
func (m *Matrix) Decompose() (*Vector, *Quaternion, *Vector, error) {
	t, r, s, err := linalg.MatrixDecompose(m.val)
	if err != nil {
		return nil, nil, nil, err
	}
	return &Vector{val: t}, &Quaternion{val: r}, &Vector{val: s}, nil
}

// DecomposeInto writes the decomposition of m into existing values.
func (m *Matrix) DecomposeInto(translation *Vector, rotation *Quaternion, scaling *Vector) error {
	_, _, _, err := linalg.MatrixDecompose(m.val, linalg.WithOuts(translation.val, rotation.val, scaling.val))
	return err
}

// String formats the matrix row by row.
func (m *Matrix) String() string {
	d := m.val.Data()
	return fmt.Sprintf("Matrix(%v, %v, %v, %v)", d[0:4], d[4:8], d[8:12], d[12:16])
}
