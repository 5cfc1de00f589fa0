package linalg

import (
	"fmt"
	"math"
)

// VectorNormalize divides each vector along the last axis by its
// Euclidean norm. Zero-length vectors give NaN.
func VectorNormalize(vectors *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if len(vectors.shape) == 0 {
		return nil, fmt.Errorf("%w: vectors must have at least one dimension", ErrShapeMismatch)
	}
	dim := vectors.shape[len(vectors.shape)-1]
	out, err := o.result(vectors.shape, vectors)
	if err != nil {
		return nil, err
	}

	o.each(vectors.shape[:len(vectors.shape)-1].NumElements(), func(i int) {
		row := vectors.data[i*dim : i*dim+dim]
		var sum float64
		for _, v := range row {
			sum += v * v
		}
		norm := math.Sqrt(sum)
		for k := 0; k < dim; k++ {
			out.put(i*dim+k, row[k]/norm)
		}
	})
	return out, nil
}

// VectorMakeHomogeneous appends the homogeneous coordinate (WithW, default 1)
// to every vector: (..., n) becomes (..., n+1).
func VectorMakeHomogeneous(vectors *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	if len(vectors.shape) == 0 {
		return nil, fmt.Errorf("%w: vectors must have at least one dimension", ErrShapeMismatch)
	}
	last := len(vectors.shape) - 1
	dim := vectors.shape[last]
	out, err := o.result(vectors.shape[:last].with(dim+1), vectors)
	if err != nil {
		return nil, err
	}

	o.each(vectors.shape[:last].NumElements(), func(i int) {
		for k := 0; k < dim; k++ {
			out.put(i*(dim+1)+k, vectors.data[i*dim+k])
		}
		out.put(i*(dim+1)+dim, o.w)
	})
	return out, nil
}

// VectorApplyMatrix transforms vectors of shape (..., 3) by homogeneous
// matrices of shape (..., 4, 4).
//
// Vectors are rows: each vector is extended with w (WithW, default 1) and
// multiplied by the transpose of the matrix' top three rows, so
// out[i] = sum_j M[i][j] * v[j]. The resulting w is dropped without a
// perspective divide. Use w=0 to leave directions untranslated.
func VectorApplyMatrix(vectors, matrix *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batchV, err := vectors.batchShape("vectors", 3)
	if err != nil {
		return nil, err
	}
	batchM, err := matrix.batchShape("matrix", 4, 4)
	if err != nil {
		return nil, err
	}
	batch, err := BroadcastShapes(batchV, batchM)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(3), vectors, matrix)
	if err != nil {
		return nil, err
	}

	iV := broadcastIndex(batchV, batch)
	iM := broadcastIndex(batchM, batch)
	o.each(batch.NumElements(), func(i int) {
		j := iV[i] * 3
		x, y, z := vectors.data[j], vectors.data[j+1], vectors.data[j+2]
		m := matrix.data[iM[i]*16 : iM[i]*16+16]
		r0 := m[0]*x + m[1]*y + m[2]*z + m[3]*o.w
		r1 := m[4]*x + m[5]*y + m[6]*z + m[7]*o.w
		r2 := m[8]*x + m[9]*y + m[10]*z + m[11]*o.w
		out.put(i*3, r0)
		out.put(i*3+1, r1)
		out.put(i*3+2, r2)
	})
	return out, nil
}

// VectorEuclideanToSpherical converts vectors of shape (..., 3) to
// spherical coordinates (r, phi, theta).
//
//	r     = |v|
//	phi   = sign(x) * acos(z / sqrt(x² + z²)), 0 when x = z = 0
//	theta = acos(z / r), 0 when r = 0
func VectorEuclideanToSpherical(euclidean *Array, opts ...Option) (*Array, error) {
	o := newOptions(opts)
	batch, err := euclidean.batchShape("euclidean", 3)
	if err != nil {
		return nil, err
	}
	out, err := o.result(batch.with(3), euclidean)
	if err != nil {
		return nil, err
	}

	o.each(batch.NumElements(), func(i int) {
		x, y, z := euclidean.data[i*3], euclidean.data[i*3+1], euclidean.data[i*3+2]
		r := math.Sqrt(x*x + y*y + z*z)

		var phi, theta float64
		if lenXZ := x*x + z*z; lenXZ != 0 {
			phi = sign(x) * math.Acos(z/math.Sqrt(lenXZ))
		}
		if r != 0 {
			theta = math.Acos(z / r)
		}

		out.put(i*3, r)
		out.put(i*3+1, phi)
		out.put(i*3+2, theta)
	})
	return out, nil
}

// sign returns -1, 0 or 1 according to the sign of v. NaN stays NaN.
func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	case v == 0:
		return 0
	default:
		return v
	}
}

// VectorUnproject maps a screen-space vector of shape (2) back to a point
// at the given depth using a camera's intrinsic matrix.
func VectorUnproject(vector, matrix *Array, depth float64, opts ...Option) (*Array, error) {
	return nil, fmt.Errorf("vector unproject: %w", ErrNotImplemented)
}

// VectorApplyQuaternionRotation rotates vectors of shape (..., 3) by
// quaternions of shape (..., 4).
func VectorApplyQuaternionRotation(vector, quaternion *Array, opts ...Option) (*Array, error) {
	return nil, fmt.Errorf("vector apply quaternion rotation: %w", ErrNotImplemented)
}

// VectorSphericalToEuclidean converts (r, phi, theta) back to euclidean coordinates.
func VectorSphericalToEuclidean(spherical *Array, opts ...Option) (*Array, error) {
	return nil, fmt.Errorf("vector spherical to euclidean: %w", ErrNotImplemented)
}

// VectorDistanceBetween returns the distance between two sets of points.
func VectorDistanceBetween(a, b *Array, opts ...Option) (*Array, error) {
	return nil, fmt.Errorf("vector distance between: %w", ErrNotImplemented)
}

// VectorFromMatrixPosition extracts the translation of homogeneous matrices.
func VectorFromMatrixPosition(matrix *Array, opts ...Option) (*Array, error) {
	return nil, fmt.Errorf("vector from matrix position: %w", ErrNotImplemented)
}

// VectorMakeSphericalSafe restricts spherical coordinates to
// phi in (eps, pi-eps) and theta in (0, 2pi).
func VectorMakeSphericalSafe(vector *Array, opts ...Option) (*Array, error) {
	return nil, fmt.Errorf("vector make spherical safe: %w", ErrNotImplemented)
}
