package linalg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name   string
		shapes []Shape
		want   Shape
	}{
		{"equal", []Shape{{3, 5}, {3, 5}}, Shape{3, 5}},
		{"stretch ones", []Shape{{3, 1}, {1, 5}}, Shape{3, 5}},
		{"missing leading", []Shape{{5}, {3, 5}}, Shape{3, 5}},
		{"scalar", []Shape{{}, {2, 4}}, Shape{2, 4}},
		{"three way", []Shape{{2, 1, 3}, {4, 1}, {}}, Shape{2, 4, 3}},
		{"all empty", []Shape{{}, {}}, Shape{}},
		{"none", nil, Shape{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.shapes...)
			require.NoError(t, err)
			if !got.Equal(tt.want) {
				t.Errorf("BroadcastShapes(%v) = %v, want %v", tt.shapes, got, tt.want)
			}
		})
	}
}

func TestBroadcastShapesMismatch(t *testing.T) {
	_, err := BroadcastShapes(Shape{3, 4}, Shape{3, 5})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}

	_, err = BroadcastShapes(Shape{2}, Shape{1}, Shape{3})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBroadcastIndex(t *testing.T) {
	// (3, 1) -> (3, 5): every column repeats the row index.
	idx := broadcastIndex(Shape{3, 1}, Shape{3, 5})
	for i := 0; i < 3; i++ {
		for j := 0; j < 5; j++ {
			assert.Equal(t, i, idx[i*5+j])
		}
	}

	// (5) -> (3, 5): every row repeats 0..4.
	idx = broadcastIndex(Shape{5}, Shape{3, 5})
	for i := 0; i < 3; i++ {
		for j := 0; j < 5; j++ {
			assert.Equal(t, j, idx[i*5+j])
		}
	}

	// (2, 1, 3) -> (2, 4, 3)
	idx = broadcastIndex(Shape{2, 1, 3}, Shape{2, 4, 3})
	for a := 0; a < 2; a++ {
		for b := 0; b < 4; b++ {
			for c := 0; c < 3; c++ {
				assert.Equal(t, a*3+c, idx[a*12+b*3+c])
			}
		}
	}

	assert.Equal(t, []int{0, 0, 0, 0}, broadcastIndex(Shape{}, Shape{2, 2}))
	assert.Equal(t, []int{0, 1, 2, 3}, broadcastIndex(Shape{4}, Shape{4}))
}

func TestShapeHelpers(t *testing.T) {
	s := Shape{2, 3, 4}
	assert.Equal(t, 24, s.NumElements())
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, []int{12, 4, 1}, s.ComputeStrides())
	assert.Error(t, Shape{2, 0}.Validate())
	assert.NoError(t, s.Validate())

	c := s.Clone()
	c[0] = 9
	assert.Equal(t, 2, s[0], "Clone must not share storage")

	w := s[:1].with(4, 4)
	assert.Equal(t, Shape{2, 4, 4}, w)
	assert.Equal(t, 3, s[1], "with must not write into the receiver")
}
