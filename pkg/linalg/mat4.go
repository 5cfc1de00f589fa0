package linalg

import (
	"fmt"
	"math"
)

// Matrices have shape (..., 4, 4) and are stored row-major:
// element (r, c) of a matrix lives at offset 4*r + c.

// mat16 copies the matrix at batch index i out of data.
func mat16(data []float64, i int) [16]float64 {
	var m [16]float64
	copy(m[:], data[i*16:i*16+16])
	return m
}

// MatrixMakeTranslation returns translation matrices for vectors of shape (..., 3).
func MatrixMakeTranslation(vector *Array, opts ...Option) (*Array, error) {
	return fromVector3(vector, opts, func(x, y, z float64) [16]float64 {
		return [16]float64{
			1, 0, 0, x,
			0, 1, 0, y,
			0, 0, 1, z,
			0, 0, 0, 1,
		}
	})
}

// MatrixMakeScaling returns scale matrices for factors of shape (..., 3).
func MatrixMakeScaling(factors *Array, opts ...Option) (*Array, error) {
	return fromVector3(factors, opts, func(x, y, z float64) [16]float64 {
		return [16]float64{
			x, 0, 0, 0,
			0, y, 0, 0,
			0, 0, z, 0,
			0, 0, 0, 1,
		}
	})
}

func fromVector3(vector *Array, opts []Option, build func(x, y, z float64) [16]float64) (*Array, error) {
	o := newOptions(opts)
	batch, err := vector.batchShape("vector", 3)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4, 4), vector)
	if err != nil {
		return nil, err
	}

	o.each(batch.NumElements(), func(i int) {
		m := build(vector.data[i*3], vector.data[i*3+1], vector.data[i*3+2])
		for k, v := range m {
			out.put(i*16+k, v)
		}
	})
	return out, nil
}

// MatrixMakeRotationFromQuaternion returns rotation matrices for unit
// quaternions. It is QuaternionToMatrix under the matrix naming scheme.
func MatrixMakeRotationFromQuaternion(quaternion *Array, opts ...Option) (*Array, error) {
	return QuaternionToMatrix(quaternion, opts...)
}

// MatrixMultiply computes a · b for broadcast batches of 4x4 matrices.
// out may alias a or b.
func MatrixMultiply(a, b *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batchA, err := a.batchShape("a", 4, 4)
	if err != nil {
		return nil, err
	}
	batchB, err := b.batchShape("b", 4, 4)
	if err != nil {
		return nil, err
	}
	batch, err := BroadcastShapes(batchA, batchB)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4, 4), a, b)
	if err != nil {
		return nil, err
	}

	ia := broadcastIndex(batchA, batch)
	ib := broadcastIndex(batchB, batch)
	o.each(batch.NumElements(), func(i int) {
		m := mul4(mat16(a.data, ia[i]), mat16(b.data, ib[i]))
		for k, v := range m {
			out.put(i*16+k, v)
		}
	})
	return out, nil
}

func mul4(a, b [16]float64) [16]float64 {
	var m [16]float64
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m[row*4+col] = a[row*4+0]*b[0*4+col] +
				a[row*4+1]*b[1*4+col] +
				a[row*4+2]*b[2*4+col] +
				a[row*4+3]*b[3*4+col]
		}
	}
	return m
}

// MatrixInverse inverts each 4x4 matrix by cofactor expansion.
// Singular matrices give Inf/NaN entries.
func MatrixInverse(matrix *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batch, err := matrix.batchShape("matrix", 4, 4)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4, 4), matrix)
	if err != nil {
		return nil, err
	}

	o.each(batch.NumElements(), func(i int) {
		inv := inverse4(mat16(matrix.data, i))
		for k, v := range inv {
			out.put(i*16+k, v)
		}
	})
	return out, nil
}

// inverse4 works for either storage order since inv(mᵀ) = inv(m)ᵀ.
func inverse4(m [16]float64) [16]float64 {
	c00 := m[5]*m[10]*m[15] - m[5]*m[11]*m[14] - m[9]*m[6]*m[15] + m[9]*m[7]*m[14] + m[13]*m[6]*m[11] - m[13]*m[7]*m[10]
	c01 := -m[1]*m[10]*m[15] + m[1]*m[11]*m[14] + m[9]*m[2]*m[15] - m[9]*m[3]*m[14] - m[13]*m[2]*m[11] + m[13]*m[3]*m[10]
	c02 := m[1]*m[6]*m[15] - m[1]*m[7]*m[14] - m[5]*m[2]*m[15] + m[5]*m[3]*m[14] + m[13]*m[2]*m[7] - m[13]*m[3]*m[6]
	c03 := -m[1]*m[6]*m[11] + m[1]*m[7]*m[10] + m[5]*m[2]*m[11] - m[5]*m[3]*m[10] - m[9]*m[2]*m[7] + m[9]*m[3]*m[6]

	c10 := -m[4]*m[10]*m[15] + m[4]*m[11]*m[14] + m[8]*m[6]*m[15] - m[8]*m[7]*m[14] - m[12]*m[6]*m[11] + m[12]*m[7]*m[10]
	c11 := m[0]*m[10]*m[15] - m[0]*m[11]*m[14] - m[8]*m[2]*m[15] + m[8]*m[3]*m[14] + m[12]*m[2]*m[11] - m[12]*m[3]*m[10]
	c12 := -m[0]*m[6]*m[15] + m[0]*m[7]*m[14] + m[4]*m[2]*m[15] - m[4]*m[3]*m[14] - m[12]*m[2]*m[7] + m[12]*m[3]*m[6]
	c13 := m[0]*m[6]*m[11] - m[0]*m[7]*m[10] - m[4]*m[2]*m[11] + m[4]*m[3]*m[10] + m[8]*m[2]*m[7] - m[8]*m[3]*m[6]

	c20 := m[4]*m[9]*m[15] - m[4]*m[11]*m[13] - m[8]*m[5]*m[15] + m[8]*m[7]*m[13] + m[12]*m[5]*m[11] - m[12]*m[7]*m[9]
	c21 := -m[0]*m[9]*m[15] + m[0]*m[11]*m[13] + m[8]*m[1]*m[15] - m[8]*m[3]*m[13] - m[12]*m[1]*m[11] + m[12]*m[3]*m[9]
	c22 := m[0]*m[5]*m[15] - m[0]*m[7]*m[13] - m[4]*m[1]*m[15] + m[4]*m[3]*m[13] + m[12]*m[1]*m[7] - m[12]*m[3]*m[5]
	c23 := -m[0]*m[5]*m[11] + m[0]*m[7]*m[9] + m[4]*m[1]*m[11] - m[4]*m[3]*m[9] - m[8]*m[1]*m[7] + m[8]*m[3]*m[5]

	c30 := -m[4]*m[9]*m[14] + m[4]*m[10]*m[13] + m[8]*m[5]*m[14] - m[8]*m[6]*m[13] - m[12]*m[5]*m[10] + m[12]*m[6]*m[9]
	c31 := m[0]*m[9]*m[14] - m[0]*m[10]*m[13] - m[8]*m[1]*m[14] + m[8]*m[2]*m[13] + m[12]*m[1]*m[10] - m[12]*m[2]*m[9]
	c32 := -m[0]*m[5]*m[14] + m[0]*m[6]*m[13] + m[4]*m[1]*m[14] - m[4]*m[2]*m[13] - m[12]*m[1]*m[6] + m[12]*m[2]*m[5]
	c33 := m[0]*m[5]*m[10] - m[0]*m[6]*m[9] - m[4]*m[1]*m[10] + m[4]*m[2]*m[9] + m[8]*m[1]*m[6] - m[8]*m[2]*m[5]

	det := m[0]*c00 + m[4]*c01 + m[8]*c02 + m[12]*c03
	invDet := 1.0 / det

	return [16]float64{
		c00 * invDet, c01 * invDet, c02 * invDet, c03 * invDet,
		c10 * invDet, c11 * invDet, c12 * invDet, c13 * invDet,
		c20 * invDet, c21 * invDet, c22 * invDet, c23 * invDet,
		c30 * invDet, c31 * invDet, c32 * invDet, c33 * invDet,
	}
}

// MatrixCompose builds T · R · S from translations (..., 3), unit quaternions
// (..., 4) and scale factors (..., 3): points are scaled, then rotated, then
// translated. The three batches broadcast together.
func MatrixCompose(translation, rotation, scaling *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batchT, err := translation.batchShape("translation", 3)
	if err != nil {
		return nil, err
	}
	batchR, err := rotation.batchShape("rotation", 4)
	if err != nil {
		return nil, err
	}
	batchS, err := scaling.batchShape("scaling", 3)
	if err != nil {
		return nil, err
	}
	batch, err := BroadcastShapes(batchT, batchR, batchS)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4, 4), translation, rotation, scaling)
	if err != nil {
		return nil, err
	}

	iT := broadcastIndex(batchT, batch)
	iR := broadcastIndex(batchR, batch)
	iS := broadcastIndex(batchS, batch)
	o.each(batch.NumElements(), func(i int) {
		t := translation.data[iT[i]*3 : iT[i]*3+3]
		s := scaling.data[iS[i]*3 : iS[i]*3+3]
		q := quat4(rotation.data, iR[i])

		m := rotationMatrix(q[0], q[1], q[2], q[3])
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				m[row*4+col] *= s[col]
			}
			m[row*4+3] = t[row]
		}
		for k, v := range m {
			out.put(i*16+k, v)
		}
	})
	return out, nil
}

// MatrixDecompose splits homogeneous matrices into translation (..., 3),
// rotation quaternion (..., 4) and scaling (..., 3), the inverse of
// MatrixCompose. WithOuts(translation, rotation, scaling) supplies
// destinations; a single WithOut is rejected with ErrShapeMismatch.
//
// Scale factors are the norms of the upper 3x3 columns; a negative
// determinant flips the sign of the x factor.
func MatrixDecompose(matrix *Array, opts ...Option) (translation, rotation, scaling *Array, err error) {
	o := newOptions(opts)
	if o.out != nil {
		return nil, nil, nil, fmt.Errorf("%w: decompose has three results, use WithOuts", ErrShapeMismatch)
	}
	batch, err := matrix.batchShape("matrix", 4, 4)
	if err != nil {
		return nil, nil, nil, err
	}
	if translation, err = o.nth(0).result(batch.with(3), matrix); err != nil {
		return nil, nil, nil, err
	}
	if rotation, err = o.nth(1).result(batch.with(4), matrix); err != nil {
		return nil, nil, nil, err
	}
	if scaling, err = o.nth(2).result(batch.with(3), matrix); err != nil {
		return nil, nil, nil, err
	}

	o.each(batch.NumElements(), func(i int) {
		m := mat16(matrix.data, i)

		var s [3]float64
		for col := 0; col < 3; col++ {
			s[col] = math.Sqrt(m[col]*m[col] + m[4+col]*m[4+col] + m[8+col]*m[8+col])
		}
		if det3(m) < 0 {
			s[0] = -s[0]
		}

		var r [9]float64
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				r[row*3+col] = m[row*4+col] / s[col]
			}
		}
		q := quatFromRotation(r)

		for k := 0; k < 3; k++ {
			translation.put(i*3+k, m[k*4+3])
			scaling.put(i*3+k, s[k])
		}
		for k, v := range q {
			rotation.put(i*4+k, v)
		}
	})
	return translation, rotation, scaling, nil
}

// det3 is the determinant of the upper 3x3 block.
func det3(m [16]float64) float64 {
	return m[0]*(m[5]*m[10]-m[6]*m[9]) -
		m[1]*(m[4]*m[10]-m[6]*m[8]) +
		m[2]*(m[4]*m[9]-m[5]*m[8])
}

// MatrixToQuaternion converts the rotation block of matrices (..., 4, 4)
// into unit quaternions (..., 4). The block must be a pure rotation.
func MatrixToQuaternion(matrix *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batch, err := matrix.batchShape("matrix", 4, 4)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(4), matrix)
	if err != nil {
		return nil, err
	}

	o.each(batch.NumElements(), func(i int) {
		m := matrix.data[i*16 : i*16+16]
		q := quatFromRotation([9]float64{
			m[0], m[1], m[2],
			m[4], m[5], m[6],
			m[8], m[9], m[10],
		})
		for k, v := range q {
			out.put(i*4+k, v)
		}
	})
	return out, nil
}

// quatFromRotation converts a row-major 3x3 rotation to (x, y, z, w),
// branching on the trace or the largest diagonal element for stability.
func quatFromRotation(r [9]float64) [4]float64 {
	m00, m01, m02 := r[0], r[1], r[2]
	m10, m11, m12 := r[3], r[4], r[5]
	m20, m21, m22 := r[6], r[7], r[8]

	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return [4]float64{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		return [4]float64{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		return [4]float64{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		return [4]float64{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
}
