package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/linalg/pkg/linalg"
)

func near(t *testing.T, want, got *linalg.Array) {
	t.Helper()
	assert.True(t, want.AllClose(got, 1e-9, 1e-9), "want %v, got %v", want, got)
}

func TestNewMatrix(t *testing.T) {
	m := NewMatrix()
	assert.True(t, m.Equal(linalg.Identity4(linalg.Float64)))
	assert.Equal(t, linalg.Float64, m.DType())

	m32 := NewMatrix(linalg.Float32)
	assert.Equal(t, linalg.Float32, m32.DType())
}

func TestMatrixFromRejectsShape(t *testing.T) {
	_, err := MatrixFrom(linalg.Zeros(linalg.Shape{3, 3}, linalg.Float64))
	assert.ErrorIs(t, err, linalg.ErrShapeMismatch)

	src := linalg.Zeros(linalg.Shape{4, 4}, linalg.Int32)
	m, err := MatrixFrom(src)
	require.NoError(t, err)
	assert.Equal(t, linalg.Int32, m.DType())
	assert.NotSame(t, src, m.Array())
}

func TestMatrixCopyIsIndependent(t *testing.T) {
	m := NewMatrix()
	c := m.Copy()
	c.Set(7, 0, 3)

	assert.Equal(t, 0.0, m.At(0, 3))
	assert.Equal(t, 7.0, c.At(0, 3))
	assert.Equal(t, m.DType(), c.DType())
}

func TestMatrixSetKeepsBuffer(t *testing.T) {
	m := NewMatrix()
	backing := m.Array()

	m.Set(2, 1, 1)
	require.NoError(t, m.SetArray(linalg.Zeros(linalg.Shape{4, 4}, linalg.Float64)))
	assert.Same(t, backing, m.Array())
	assert.Equal(t, 0.0, backing.At(3, 3))

	err := m.SetArray(linalg.Zeros(linalg.Shape{3}, linalg.Float64))
	assert.ErrorIs(t, err, linalg.ErrShapeMismatch)
}

func TestMatrixMultiplyOrder(t *testing.T) {
	tr := NewMatrix()
	tr.Set(5, 0, 3)
	sc := NewMatrix()
	sc.Set(2, 0, 0)

	ts, err := tr.Multiply(sc)
	require.NoError(t, err)
	st, err := tr.Premultiply(sc)
	require.NoError(t, err)

	// T·S leaves the translation alone, S·T scales it.
	assert.Equal(t, 5.0, ts.At(0, 3))
	assert.Equal(t, 10.0, st.At(0, 3))

	in := tr.Copy()
	require.NoError(t, in.IMultiply(sc))
	assert.True(t, in.Equal(ts.Array()))

	pre := tr.Copy()
	backing := pre.Array()
	require.NoError(t, pre.IPremultiply(sc))
	assert.True(t, pre.Equal(st.Array()))
	assert.Same(t, backing, pre.Array())
}

func TestMatrixInverse(t *testing.T) {
	m := NewMatrix()
	require.NoError(t, m.Compose(NewVector(1, 2, 3), QuaternionIdentity(), NewVector(2, 2, 2)))

	inv, err := m.Inverse()
	require.NoError(t, err)
	prod, err := m.Multiply(inv)
	require.NoError(t, err)
	near(t, linalg.Identity4(linalg.Float64), prod.Array())

	backup := m.Copy()
	require.NoError(t, m.IInverse())
	near(t, inv.Array(), m.Array())
	prod, err = backup.Multiply(m)
	require.NoError(t, err)
	near(t, linalg.Identity4(linalg.Float64), prod.Array())
}

func TestMatrixComposeDecompose(t *testing.T) {
	translation := NewVector(2, 2, 2)
	rotation := NewQuaternion(0, 0, math.Sqrt2/2, math.Sqrt2/2)
	scaling := NewVector(1, 2, 1)

	m := NewMatrix()
	backing := m.Array()
	require.NoError(t, m.Compose(translation, rotation, scaling))
	assert.Same(t, backing, m.Array())
	near(t, linalg.Mat4([16]float64{
		0, -2, 0, 2,
		1, 0, 0, 2,
		0, 0, 1, 2,
		0, 0, 0, 1,
	}), m.Array())

	tr, rot, sc, err := m.Decompose()
	require.NoError(t, err)
	near(t, translation.Array(), tr.Array())
	near(t, rotation.Array(), rot.Array())
	near(t, scaling.Array(), sc.Array())

	t2, r2, s2 := NewVector(0, 0, 0), QuaternionIdentity(), NewVector(0, 0, 0)
	require.NoError(t, m.DecomposeInto(t2, r2, s2))
	near(t, translation.Array(), t2.Array())
	near(t, rotation.Array(), r2.Array())
	near(t, scaling.Array(), s2.Array())
}

func TestMatrixFloat32Rounding(t *testing.T) {
	m := NewMatrix(linalg.Float32)
	m.Set(0.1, 0, 0)
	assert.Equal(t, float64(float32(0.1)), m.At(0, 0))

	other := NewMatrix(linalg.Float32)
	require.NoError(t, m.IMultiply(other))
	assert.Equal(t, linalg.Float32, m.DType())
}
