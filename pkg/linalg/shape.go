package linalg

import "fmt"

// Shape represents the dimensions of an array.
type Shape []int

// NumElements returns the total number of elements.
func (s Shape) NumElements() int {
	n := 1 // Scalar has 1 element
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that all dimensions are positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// with returns a new shape with dims appended.
func (s Shape) with(dims ...int) Shape {
	out := make(Shape, 0, len(s)+len(dims))
	out = append(out, s...)
	return append(out, dims...)
}

// BroadcastShapes returns the shape that all of shapes broadcast to.
//
// Shapes are aligned on their trailing dimensions. Two dimensions are
// compatible when they are equal or one of them is 1; missing dimensions
// count as 1.
//
//	(3, 1) + (3, 5) → (3, 5)
//	(5,)   + (3, 5) → (3, 5)
//	()     + (2, 4) → (2, 4)
//	(3, 4) + (3, 5) → error
func BroadcastShapes(shapes ...Shape) (Shape, error) {
	maxLen := 0
	for _, s := range shapes {
		maxLen = max(maxLen, len(s))
	}

	result := make(Shape, maxLen)
	for i := range result {
		result[i] = 1
	}

	for _, s := range shapes {
		for i := 0; i < len(s); i++ {
			dim := s[len(s)-1-i]
			rIdx := maxLen - 1 - i
			switch {
			case dim == result[rIdx]:
			case result[rIdx] == 1:
				result[rIdx] = dim
			case dim == 1:
			default:
				return nil, fmt.Errorf("%w: cannot broadcast %v (dimension %d: %d vs %d)",
					ErrShapeMismatch, shapes, rIdx, result[rIdx], dim)
			}
		}
	}

	return result, nil
}

// broadcastIndex maps every flat index of out to the flat index of in,
// where in broadcasts to out. Size-1 dimensions of in repeat.
func broadcastIndex(in, out Shape) []int {
	n := out.NumElements()
	idx := make([]int, n)
	if in.NumElements() == 1 {
		return idx
	}

	inStrides := in.ComputeStrides()
	// effective stride of each out dimension inside in (0 where broadcast)
	eff := make([]int, len(out))
	offset := len(out) - len(in)
	for d := range out {
		src := d - offset
		if src >= 0 && in[src] != 1 {
			eff[d] = inStrides[src]
		}
	}

	counter := make([]int, len(out))
	pos := 0
	for i := 0; i < n; i++ {
		idx[i] = pos
		for d := len(out) - 1; d >= 0; d-- {
			counter[d]++
			pos += eff[d]
			if counter[d] < out[d] {
				break
			}
			pos -= eff[d] * counter[d]
			counter[d] = 0
		}
	}
	return idx
}
