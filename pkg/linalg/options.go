package linalg

import (
	"fmt"

	"github.com/Faultbox/linalg/internal/parallel"
)

// Option configures a single operation call.
type Option func(*options)

type options struct {
	out      *Array
	outs     []*Array
	dtype    DType
	hasDType bool
	w        float64
	order    string
	par      parallel.Config
}

func newOptions(opts []Option) *options {
	o := &options{
		w:     1,
		order: "XYZ",
		par:   parallel.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithOut writes the result into out and returns it.
// out must have the result shape; its dtype governs rounding.
func WithOut(out *Array) Option {
	return func(o *options) { o.out = out }
}

// WithOuts supplies one destination per result for operations that return
// several arrays, such as MatrixDecompose. nil entries are allocated.
func WithOuts(outs ...*Array) Option {
	return func(o *options) { o.outs = outs }
}

// WithDType overrides the dtype of a freshly allocated result.
func WithDType(dt DType) Option {
	return func(o *options) {
		o.dtype = dt
		o.hasDType = true
	}
}

// WithW sets the homogeneous coordinate appended to vectors.
// Use 1 for positions (default) and 0 for directions.
func WithW(w float64) Option {
	return func(o *options) { o.w = w }
}

// WithOrder sets the Euler axis order, e.g. "XYZ" or "zyx".
// Uppercase letters are extrinsic rotations, lowercase intrinsic.
func WithOrder(order string) Option {
	return func(o *options) { o.order = order }
}

// WithWorkers bounds the goroutines used for large batches. 1 is sequential.
func WithWorkers(n int) Option {
	return func(o *options) { o.par = parallel.WithWorkers(n) }
}

// result returns the array an operation writes into: the caller's out
// buffer, or a new array of shape in the requested or promoted dtype.
func (o *options) result(shape Shape, inputs ...*Array) (*Array, error) {
	if o.out != nil {
		if o.hasDType && o.dtype != o.out.dtype {
			return nil, fmt.Errorf("%w: out is %s, requested %s", ErrDTypeConflict, o.out.dtype, o.dtype)
		}
		if !o.out.shape.Equal(shape) {
			return nil, fmt.Errorf("%w: out has shape %v, result has shape %v", ErrShapeMismatch, o.out.shape, shape)
		}
		return o.out, nil
	}
	dt := promote(inputs...)
	if o.hasDType {
		dt = o.dtype
	}
	return Zeros(shape, dt), nil
}

// nth returns an options copy whose out buffer is the i-th WithOuts entry.
func (o *options) nth(i int) *options {
	c := *o
	c.out = nil
	if i < len(o.outs) {
		c.out = o.outs[i]
	}
	return &c
}

// each runs f for every batch index in [0, n).
func (o *options) each(n int, f func(i int)) {
	parallel.For(n, f, o.par)
}
