package linalg

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSlice(t *testing.T) {
	a, err := FromSlice([]float64{1, 2, 3, 4, 5, 6}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, a.Shape())
	assert.Equal(t, Float64, a.DType())
	assert.Equal(t, 6.0, a.At(1, 2))

	_, err = FromSlice([]float64{1, 2, 3}, 2, 3)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}

	_, err = FromSlice(nil, 0, 3)
	assert.Error(t, err)
}

func TestArraySetCastsToDType(t *testing.T) {
	f := Zeros(Shape{2}, Float32)
	f.Set(0.1, 0)
	assert.Equal(t, float64(float32(0.1)), f.At(0))

	i := Zeros(Shape{3}, Int16)
	i.Set(-2.7, 0)
	i.Set(2.7, 1)
	i.Set(math.NaN(), 2)
	assert.Equal(t, []float64{-2, 2, 0}, i.Data())
}

func TestArrayCloneAndReshape(t *testing.T) {
	a := MustFromSlice([]float64{1, 2, 3, 4}, 4)

	c := a.Clone()
	c.Set(10, 0)
	assert.Equal(t, 1.0, a.At(0), "Clone must copy storage")

	r, err := a.Reshape(2, 2)
	require.NoError(t, err)
	r.Set(7, 1, 1)
	assert.Equal(t, 7.0, a.At(3), "Reshape must share storage")

	_, err = a.Reshape(3)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestArrayCopyFromAndAsType(t *testing.T) {
	dst := Zeros(Shape{3}, Int32)
	require.NoError(t, dst.CopyFrom(Vec3(1.9, -1.9, 3)))
	assert.Equal(t, []float64{1, -1, 3}, dst.Data())
	assert.ErrorIs(t, dst.CopyFrom(Quat(0, 0, 0, 1)), ErrShapeMismatch)

	f := Vec3(0.1, 0.2, 0.3).AsType(Float32)
	assert.Equal(t, Float32, f.DType())
	assert.Equal(t, float64(float32(0.2)), f.At(1))
}

func TestArrayEqualAndAllClose(t *testing.T) {
	a := Vec3(1, 2, 3)
	assert.True(t, a.Equal(Vec3(1, 2, 3)))
	assert.False(t, a.Equal(Vec3(1, 2, 4)))
	assert.False(t, a.Equal(Quat(1, 2, 3, 0)))

	assert.True(t, a.AllClose(Vec3(1+1e-12, 2, 3), 0, 1e-9))
	assert.False(t, a.AllClose(Vec3(1.1, 2, 3), 0, 1e-9))
	assert.False(t, Vec3(math.NaN(), 0, 0).AllClose(Vec3(math.NaN(), 0, 0), 0, 1))
}

func TestIdentity4(t *testing.T) {
	m := Identity4(Float64)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			if m.At(r, c) != want {
				t.Errorf("Identity4[%d,%d] = %v, want %v", r, c, m.At(r, c), want)
			}
		}
	}
}

func TestParseDType(t *testing.T) {
	tests := map[string]DType{
		"float64": Float64,
		"f4":      Float32,
		"Float32": Float32,
		"i2":      Int16,
		"int32":   Int32,
		"int64":   Int64,
		"":        Float64,
	}
	for name, want := range tests {
		got, err := ParseDType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseDType("complex128")
	assert.Error(t, err)
}

func TestDTypeSize(t *testing.T) {
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 2, Int16.Size())
	assert.Equal(t, 0, DType(42).Size())
	assert.Equal(t, "unknown", DType(42).String())
	assert.Equal(t, "int16", Int16.String())
}

func TestPromote(t *testing.T) {
	f32 := Zeros(Shape{3}, Float32)
	f64 := Zeros(Shape{3}, Float64)
	i32 := Zeros(Shape{3}, Int32)

	assert.Equal(t, Float32, promote(f32, f32))
	assert.Equal(t, Float64, promote(f32, f64))
	assert.Equal(t, Float64, promote(i32))
	assert.Equal(t, Float64, promote())
}
