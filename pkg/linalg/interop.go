package linalg

import (
	"fmt"

	"golang.org/x/image/math/f32"
)

// FromVec3s packs float32 vectors into a Float32 array of shape (n, 3).
func FromVec3s(vs []f32.Vec3) *Array {
	a := Zeros(Shape{len(vs), 3}, Float32)
	for i, v := range vs {
		for k := 0; k < 3; k++ {
			a.data[i*3+k] = float64(v[k])
		}
	}
	return a
}

// FromVec4s packs float32 quaternions or homogeneous vectors into a Float32
// array of shape (n, 4).
func FromVec4s(vs []f32.Vec4) *Array {
	a := Zeros(Shape{len(vs), 4}, Float32)
	for i, v := range vs {
		for k := 0; k < 4; k++ {
			a.data[i*4+k] = float64(v[k])
		}
	}
	return a
}

// FromMat4s packs row-major float32 matrices into a Float32 array of shape (n, 4, 4).
func FromMat4s(ms []f32.Mat4) *Array {
	a := Zeros(Shape{len(ms), 4, 4}, Float32)
	for i, m := range ms {
		for k := 0; k < 16; k++ {
			a.data[i*16+k] = float64(m[k])
		}
	}
	return a
}

// Vec3s flattens an array with trailing shape (3) into float32 vectors.
func (a *Array) Vec3s() ([]f32.Vec3, error) {
	batch, err := a.batchShape("array", 3)
	if err != nil {
		return nil, fmt.Errorf("vec3s: %w", err)
	}
	out := make([]f32.Vec3, batch.NumElements())
	for i := range out {
		for k := 0; k < 3; k++ {
			out[i][k] = float32(a.data[i*3+k])
		}
	}
	return out, nil
}

// Vec4s flattens an array with trailing shape (4) into float32 vectors.
func (a *Array) Vec4s() ([]f32.Vec4, error) {
	batch, err := a.batchShape("array", 4)
	if err != nil {
		return nil, fmt.Errorf("vec4s: %w", err)
	}
	out := make([]f32.Vec4, batch.NumElements())
	for i := range out {
		for k := 0; k < 4; k++ {
			out[i][k] = float32(a.data[i*4+k])
		}
	}
	return out, nil
}

// Mat4s flattens an array with trailing shape (4, 4) into row-major float32 matrices.
func (a *Array) Mat4s() ([]f32.Mat4, error) {
	batch, err := a.batchShape("array", 4, 4)
	if err != nil {
		return nil, fmt.Errorf("mat4s: %w", err)
	}
	out := make([]f32.Mat4, batch.NumElements())
	for i := range out {
		for k := 0; k < 16; k++ {
			out[i][k] = float32(a.data[i*16+k])
		}
	}
	return out, nil
}
