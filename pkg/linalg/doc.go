// Package linalg provides batched vector, quaternion and matrix math for
// 3D scene code.
//
// Every function works on Arrays whose trailing dimensions hold one entity:
// (3) for vectors, (4) for quaternions in (x, y, z, w) order and (4, 4) for
// row-major homogeneous matrices. Leading dimensions are a batch and
// broadcast between inputs (size-1 dimensions stretch):
//
//	axes := linalg.MustFromSlice([]float64{1, 0, 0, 0, 1, 0}, 2, 3)
//	q, err := linalg.QuaternionMakeFromAxisAngle(axes, linalg.Scalar(math.Pi/2))
//	// q has shape (2, 4)
//
// Results are written into a caller buffer with WithOut, which is also
// returned, so per-frame updates can reuse memory:
//
//	m := linalg.Zeros(linalg.Shape{2, 4, 4}, linalg.Float32)
//	_, err = linalg.QuaternionToMatrix(q, linalg.WithOut(m))
//
// Degenerate numeric input (zero-length vectors, parallel arcs, the origin)
// never fails: it yields NaN/Inf or a documented fallback. Errors are
// reserved for shape mismatches, conflicting options and operations that
// are not implemented yet.
package linalg
