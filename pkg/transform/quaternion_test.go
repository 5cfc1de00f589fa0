package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/linalg/pkg/linalg"
)

func TestQuaternionIdentity(t *testing.T) {
	q := QuaternionIdentity()
	assert.True(t, q.Equal(linalg.Quat(0, 0, 0, 1)))

	m, err := q.ToMatrix()
	require.NoError(t, err)
	assert.True(t, m.Equal(linalg.Identity4(linalg.Float64)))
}

func TestQuaternionFromAxisAngle(t *testing.T) {
	q, err := QuaternionFromAxisAngle(NewVector(0, 0, 2), math.Pi/2)
	require.NoError(t, err)
	near(t, linalg.Quat(0, 0, math.Sqrt2/2, math.Sqrt2/2), q.Array())
}

func TestQuaternionFromEuler(t *testing.T) {
	q, err := QuaternionFromEuler(NewVector(0, 0, math.Pi/2), "XYZ")
	require.NoError(t, err)
	near(t, linalg.Quat(0, 0, math.Sqrt2/2, math.Sqrt2/2), q.Array())

	_, err = QuaternionFromEuler(NewVector(0, 0, 0), "XQZ")
	assert.ErrorIs(t, err, linalg.ErrInvalidOrder)
}

func TestQuaternionMultiplyInverse(t *testing.T) {
	q, err := QuaternionFromAxisAngle(NewVector(1, 1, 0), 0.8)
	require.NoError(t, err)

	inv, err := q.Inverse()
	require.NoError(t, err)
	assert.Equal(t, -q.X(), inv.X())
	assert.Equal(t, q.W(), inv.W())

	id, err := q.Multiply(inv)
	require.NoError(t, err)
	near(t, linalg.Quat(0, 0, 0, 1), id.Array())

	c := q.Copy()
	backing := c.Array()
	require.NoError(t, c.IMultiply(inv))
	assert.Same(t, backing, c.Array())
	near(t, id.Array(), c.Array())
	assert.False(t, q.Equal(c.Array()))
}
