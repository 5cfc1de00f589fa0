// Package transform provides mutable Vector, Quaternion and Matrix values
// backed by linalg arrays, for scene code that works on one transform at a time.
package transform

import (
	"fmt"

	"github.com/Faultbox/linalg/pkg/linalg"
)

// Vector is a 3D vector.
type Vector struct {
	val *linalg.Array
}

// NewVector returns the vector (x, y, z).
func NewVector(x, y, z float64) *Vector {
	return &Vector{val: linalg.Vec3(x, y, z)}
}

// VectorFrom wraps a copy of an array of shape (3).
func VectorFrom(a *linalg.Array) (*Vector, error) {
	if !a.Shape().Equal(linalg.Shape{3}) {
		return nil, fmt.Errorf("vector from %v: %w", a.Shape(), linalg.ErrShapeMismatch)
	}
	return &Vector{val: a.Clone()}, nil
}

// X returns the x component.
func (v *Vector) X() float64 { return v.val.At(0) }

// Y returns the y component.
func (v *Vector) Y() float64 { return v.val.At(1) }

// Z returns the z component.
func (v *Vector) Z() float64 { return v.val.At(2) }

// Array returns the backing array. Changes to it are visible through v.
func (v *Vector) Array() *linalg.Array { return v.val }

// Copy returns an independent copy.
func (v *Vector) Copy() *Vector {
	return &Vector{val: v.val.Clone()}
}

// Equal reports whether v holds exactly the values of a.
func (v *Vector) Equal(a *linalg.Array) bool {
	return v.val.Equal(a)
}

// Normalize returns v scaled to unit length.
func (v *Vector) Normalize() (*Vector, error) {
	out, err := linalg.VectorNormalize(v.val)
	if err != nil {
		return nil, err
	}
	return &Vector{val: out}, nil
}

// INormalize scales v to unit length in place.
func (v *Vector) INormalize() error {
	_, err := linalg.VectorNormalize(v.val, linalg.WithOut(v.val))
	return err
}

// ApplyMatrix returns v transformed by m as a position (w = 1).
func (v *Vector) ApplyMatrix(m *Matrix) (*Vector, error) {
	out, err := linalg.VectorApplyMatrix(v.val, m.val)
	if err != nil {
		return nil, err
	}
	return &Vector{val: out}, nil
}

// ApplyMatrixDirection returns v transformed by m as a direction (w = 0).
func (v *Vector) ApplyMatrixDirection(m *Matrix) (*Vector, error) {
	out, err := linalg.VectorApplyMatrix(v.val, m.val, linalg.WithW(0))
	if err != nil {
		return nil, err
	}
	return &Vector{val: out}, nil
}

// String formats the vector.
func (v *Vector) String() string {
	return fmt.Sprintf("Vector(%g, %g, %g)", v.X(), v.Y(), v.Z())
}
