package transform

import (
	"fmt"

	"github.com/Faultbox/linalg/pkg/linalg"
)

// Quaternion is a rotation stored as (x, y, z, w), W being the scalar part.
type Quaternion struct {
	val *linalg.Array
}

// NewQuaternion returns the quaternion (x, y, z, w).
func NewQuaternion(x, y, z, w float64) *Quaternion {
	return &Quaternion{val: linalg.Quat(x, y, z, w)}
}

// QuaternionIdentity returns an identity quaternion (no rotation).
func QuaternionIdentity() *Quaternion {
	return NewQuaternion(0, 0, 0, 1)
}

// QuaternionFromAxisAngle creates a quaternion from axis-angle rotation.
// angle is in radians; axis need not be normalized.
func QuaternionFromAxisAngle(axis *Vector, angle float64) (*Quaternion, error) {
	out, err := linalg.QuaternionMakeFromAxisAngle(axis.val, linalg.Scalar(angle))
	if err != nil {
		return nil, err
	}
	return &Quaternion{val: out}, nil
}

// QuaternionFromEuler creates a quaternion from Euler angles in the given order.
func QuaternionFromEuler(angles *Vector, order string) (*Quaternion, error) {
	out, err := linalg.QuaternionMakeFromEulerAngles(angles.val, linalg.WithOrder(order))
	if err != nil {
		return nil, err
	}
	return &Quaternion{val: out}, nil
}

// X returns the x component.
func (q *Quaternion) X() float64 { return q.val.At(0) }

// Y returns the y component.
func (q *Quaternion) Y() float64 { return q.val.At(1) }

// Z returns the z component.
func (q *Quaternion) Z() float64 { return q.val.At(2) }

// W returns the scalar part.
func (q *Quaternion) W() float64 { return q.val.At(3) }

// Array returns the backing array. Changes to it are visible through q.
func (q *Quaternion) Array() *linalg.Array { return q.val }

// Copy returns an independent copy.
func (q *Quaternion) Copy() *Quaternion {
	return &Quaternion{val: q.val.Clone()}
}

// Equal reports whether q holds exactly the values of a.
func (q *Quaternion) Equal(a *linalg.Array) bool {
	return q.val.Equal(a)
}

// Multiply returns q * other (apply other, then q).
func (q *Quaternion) Multiply(other *Quaternion) (*Quaternion, error) {
	out, err := linalg.QuaternionMultiply(q.val, other.val)
	if err != nil {
		return nil, err
	}
	return &Quaternion{val: out}, nil
}

// IMultiply sets q to q * other.
func (q *Quaternion) IMultiply(other *Quaternion) error {
	_, err := linalg.QuaternionMultiply(q.val, other.val, linalg.WithOut(q.val))
	return err
}

// Inverse returns the conjugate, which is the inverse of a unit quaternion.
func (q *Quaternion) Inverse() (*Quaternion, error) {
	out, err := linalg.QuaternionInverse(q.val)
	if err != nil {
		return nil, err
	}
	return &Quaternion{val: out}, nil
}

// ToMatrix converts the quaternion to a 4x4 rotation matrix.
func (q *Quaternion) ToMatrix() (*Matrix, error) {
	out, err := linalg.QuaternionToMatrix(q.val)
	if err != nil {
		return nil, err
	}
	return &Matrix{val: out}, nil
}

// String formats the quaternion.
func (q *Quaternion) String() string {
	return fmt.Sprintf("Quaternion(%g, %g, %g, %g)", q.X(), q.Y(), q.Z(), q.W())
}
