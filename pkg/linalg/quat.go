package linalg

import (
	"fmt"
	"math"
)

// Quaternions are stored as (x, y, z, w) with w the scalar part.
// All functions assume unit quaternions and never renormalize their input.

// QuaternionToMatrix builds homogeneous rotation matrices from unit
// quaternions of shape (..., 4). The result has shape (..., 4, 4) with the
// last row and column of the identity.
func QuaternionToMatrix(quaternion *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batch, err := quaternion.batchShape("quaternion", 4)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4, 4), quaternion)
	if err != nil {
		return nil, err
	}

	o.each(batch.NumElements(), func(i int) {
		q := quaternion.data[i*4 : i*4+4]
		m := rotationMatrix(q[0], q[1], q[2], q[3])
		for k, v := range m {
			out.put(i*16+k, v)
		}
	})
	return out, nil
}

// rotationMatrix expands a unit quaternion into a row-major 4x4 rotation.
func rotationMatrix(x, y, z, w float64) [16]float64 {
	x2 := x * 2
	y2 := y * 2
	z2 := z * 2
	xx := x * x2
	xy := x * y2
	xz := x * z2
	yy := y * y2
	yz := y * z2
	zz := z * z2
	wx := w * x2
	wy := w * y2
	wz := w * z2

	return [16]float64{
		1 - (yy + zz), xy - wz, xz + wy, 0,
		xy + wz, 1 - (xx + zz), yz - wx, 0,
		xz - wy, yz + wx, 1 - (xx + yy), 0,
		0, 0, 0, 1,
	}
}

// QuaternionMultiply computes the Hamilton product a * b with broadcasting.
// The product is not commutative: a * b applies b first, then a.
func QuaternionMultiply(a, b *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batchA, err := a.batchShape("a", 4)
	if err != nil {
		return nil, err
	}
	batchB, err := b.batchShape("b", 4)
	if err != nil {
		return nil, err
	}
	batch, err := BroadcastShapes(batchA, batchB)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4), a, b)
	if err != nil {
		return nil, err
	}

	ia := broadcastIndex(batchA, batch)
	ib := broadcastIndex(batchB, batch)
	o.each(batch.NumElements(), func(i int) {
		q := qmul(quat4(a.data, ia[i]), quat4(b.data, ib[i]))
		for k, v := range q {
			out.put(i*4+k, v)
		}
	})
	return out, nil
}

// quat4 copies the quaternion at batch index i out of data.
func quat4(data []float64, i int) [4]float64 {
	return [4]float64{data[i*4], data[i*4+1], data[i*4+2], data[i*4+3]}
}

// qmul returns the Hamilton product a * b.
// xyz = a.w*b.xyz + b.w*a.xyz + cross(a.xyz, b.xyz); w = a.w*b.w - dot(a.xyz, b.xyz).
func qmul(a, b [4]float64) [4]float64 {
	return [4]float64{
		a[3]*b[0] + b[3]*a[0] + (a[1]*b[2] - a[2]*b[1]),
		a[3]*b[1] + b[3]*a[1] + (a[2]*b[0] - a[0]*b[2]),
		a[3]*b[2] + b[3]*a[2] + (a[0]*b[1] - a[1]*b[0]),
		a[3]*b[3] - (a[0]*b[0] + a[1]*b[1] + a[2]*b[2]),
	}
}

// QuaternionInverse returns the conjugate of each quaternion.
//
// This is the inverse only for unit quaternions: the vector part is
// negated and the result is not divided by the squared norm.
func QuaternionInverse(quaternion *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batch, err := quaternion.batchShape("quaternion", 4)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4), quaternion)
	if err != nil {
		return nil, err
	}

	o.each(batch.NumElements(), func(i int) {
		q := quat4(quaternion.data, i)
		out.put(i*4, -q[0])
		out.put(i*4+1, -q[1])
		out.put(i*4+2, -q[2])
		out.put(i*4+3, q[3])
	})
	return out, nil
}

// QuaternionMakeFromAxisAngle creates quaternions rotating by angle radians
// about axis. axis has shape (..., 3) and is normalized first, so its length
// does not matter; a zero axis gives NaN. angle broadcasts against the
// batch dimensions of axis.
func QuaternionMakeFromAxisAngle(axis, angle *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batchAxis, err := axis.batchShape("axis", 3)
	if err != nil {
		return nil, err
	}
	batch, err := BroadcastShapes(batchAxis, angle.shape)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4), axis, angle)
	if err != nil {
		return nil, err
	}

	iAxis := broadcastIndex(batchAxis, batch)
	iAngle := broadcastIndex(angle.shape, batch)
	o.each(batch.NumElements(), func(i int) {
		j := iAxis[i] * 3
		q := axisAngle(axis.data[j], axis.data[j+1], axis.data[j+2], angle.data[iAngle[i]])
		for k, v := range q {
			out.put(i*4+k, v)
		}
	})
	return out, nil
}

// axisAngle normalizes (x, y, z) and builds the rotation quaternion.
func axisAngle(x, y, z, angle float64) [4]float64 {
	n := math.Sqrt(x*x + y*y + z*z)
	s := math.Sin(angle / 2)
	return [4]float64{x / n * s, y / n * s, z / n * s, math.Cos(angle / 2)}
}

// QuaternionMakeFromUnitVectors creates the shortest-arc rotation taking
// source onto target. Non-unit inputs still point source along target.
//
// When source and target are parallel the rotation axis is any vector
// orthogonal to source; see fallbackAxis for the exact choice.
func QuaternionMakeFromUnitVectors(source, target *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batchS, err := source.batchShape("source", 3)
	if err != nil {
		return nil, err
	}
	batchT, err := target.batchShape("target", 3)
	if err != nil {
		return nil, err
	}
	batch, err := BroadcastShapes(batchS, batchT)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4), source, target)
	if err != nil {
		return nil, err
	}

	iS := broadcastIndex(batchS, batch)
	iT := broadcastIndex(batchT, batch)
	o.each(batch.NumElements(), func(i int) {
		s := source.data[iS[i]*3 : iS[i]*3+3]
		t := target.data[iT[i]*3 : iT[i]*3+3]

		ax := s[1]*t[2] - s[2]*t[1]
		ay := s[2]*t[0] - s[0]*t[2]
		az := s[0]*t[1] - s[1]*t[0]
		norm := math.Sqrt(ax*ax + ay*ay + az*az)
		angle := math.Atan2(norm, s[0]*t[0]+s[1]*t[1]+s[2]*t[2])
		if norm == 0 {
			ax, ay, az = fallbackAxis(s[1], s[2])
		}

		q := axisAngle(ax, ay, az, angle)
		for k, v := range q {
			out.put(i*4+k, v)
		}
	})
	return out, nil
}

// fallbackAxis returns a vector orthogonal to (x, y, z) given its y and z:
// (0, 1, 0) if y == 0, else (0, 0, 1) if z == 0, else (0, -z, y).
//
// TODO: confirm whether (0, 0, 1) should win when y and z are both zero.
func fallbackAxis(y, z float64) (float64, float64, float64) {
	switch {
	case y == 0:
		return 0, 1, 0
	case z == 0:
		return 0, 0, 1
	default:
		return 0, -z, y
	}
}

// QuaternionMakeFromEulerAngles creates quaternions from Euler angles.
//
// The order (WithOrder, default "XYZ") lists one axis letter per angle.
// Rotations are folded left to right starting from the first axis:
// an uppercase (extrinsic) letter post-multiplies the accumulated rotation,
// a lowercase (intrinsic) letter pre-multiplies it.
//
// For orders with more than one letter, angles has shape (..., len(order)).
// A single-letter order treats every element of angles as one rotation.
func QuaternionMakeFromEulerAngles(angles *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	axes, extrinsic, err := parseOrder(o.order)
	if err != nil {
		return nil, err
	}

	batch := angles.shape
	if len(axes) > 1 {
		batch, err = angles.batchShape("angles", len(axes))
		if err != nil {
			return nil, err
		}
	}
	out, err := o.result(batch.with(4), angles)
	if err != nil {
		return nil, err
	}

	n := len(axes)
	o.each(batch.NumElements(), func(i int) {
		acc := elementary(axes[0], angles.data[i*n])
		for k := 1; k < n; k++ {
			next := elementary(axes[k], angles.data[i*n+k])
			if extrinsic[k] {
				acc = qmul(acc, next)
			} else {
				acc = qmul(next, acc)
			}
		}
		for k, v := range acc {
			out.put(i*4+k, v)
		}
	})
	return out, nil
}

// elementary returns the rotation by angle about a coordinate axis (0=x, 1=y, 2=z).
func elementary(axis int, angle float64) [4]float64 {
	var q [4]float64
	q[axis] = math.Sin(angle / 2)
	q[3] = math.Cos(angle / 2)
	return q
}

// parseOrder splits an Euler order into axis indices and extrinsic flags.
func parseOrder(order string) ([]int, []bool, error) {
	if order == "" {
		return nil, nil, fmt.Errorf("%w: empty order", ErrInvalidOrder)
	}
	axes := make([]int, 0, len(order))
	extrinsic := make([]bool, 0, len(order))
	for _, c := range order {
		switch c {
		case 'X', 'Y', 'Z':
			axes = append(axes, int(c-'X'))
			extrinsic = append(extrinsic, true)
		case 'x', 'y', 'z':
			axes = append(axes, int(c-'x'))
			extrinsic = append(extrinsic, false)
		default:
			return nil, nil, fmt.Errorf("%w: %q has axis %q", ErrInvalidOrder, order, c)
		}
	}
	return axes, extrinsic, nil
}
