package batch

import (
	"fmt"
	"sort"

	"github.com/Faultbox/linalg/pkg/linalg"
)

// Op describes a registered operation.
type Op struct {
	Name string
	// Args are the required argument names, in call order.
	Args []string
	// Outputs name the returned arrays; single-output ops use "result".
	Outputs []string
	call    func(args []*linalg.Array, opts []linalg.Option) ([]*linalg.Array, error)
}

type (
	unary  func(a *linalg.Array, opts ...linalg.Option) (*linalg.Array, error)
	binary func(a, b *linalg.Array, opts ...linalg.Option) (*linalg.Array, error)
)

func op1(name string, f unary, arg string) Op {
	return Op{
		Name:    name,
		Args:    []string{arg},
		Outputs: []string{"result"},
		call: func(args []*linalg.Array, opts []linalg.Option) ([]*linalg.Array, error) {
			out, err := f(args[0], opts...)
			return []*linalg.Array{out}, err
		},
	}
}

func op2(name string, f binary, a, b string) Op {
	return Op{
		Name:    name,
		Args:    []string{a, b},
		Outputs: []string{"result"},
		call: func(args []*linalg.Array, opts []linalg.Option) ([]*linalg.Array, error) {
			out, err := f(args[0], args[1], opts...)
			return []*linalg.Array{out}, err
		},
	}
}

var registry = map[string]Op{}

func register(ops ...Op) {
	for _, op := range ops {
		if _, dup := registry[op.Name]; dup {
			panic("batch: duplicate op " + op.Name)
		}
		registry[op.Name] = op
	}
}

func init() {
	register(
		op1("quaternion_to_matrix", linalg.QuaternionToMatrix, "quaternion"),
		op2("quaternion_multiply", linalg.QuaternionMultiply, "a", "b"),
		op1("quaternion_inverse", linalg.QuaternionInverse, "quaternion"),
		op2("quaternion_make_from_axis_angle", linalg.QuaternionMakeFromAxisAngle, "axis", "angle"),
		op2("quaternion_make_from_unit_vectors", linalg.QuaternionMakeFromUnitVectors, "source", "target"),
		op1("quaternion_make_from_euler_angles", linalg.QuaternionMakeFromEulerAngles, "angles"),

		op1("vector_normalize", linalg.VectorNormalize, "vectors"),
		op1("vector_make_homogeneous", linalg.VectorMakeHomogeneous, "vectors"),
		op2("vector_apply_matrix", linalg.VectorApplyMatrix, "vectors", "matrix"),
		op1("vector_euclidean_to_spherical", linalg.VectorEuclideanToSpherical, "euclidean"),
		op2("vector_apply_quaternion_rotation", linalg.VectorApplyQuaternionRotation, "vector", "quaternion"),
		op1("vector_spherical_to_euclidean", linalg.VectorSphericalToEuclidean, "spherical"),
		op2("vector_distance_between", linalg.VectorDistanceBetween, "a", "b"),
		op1("vector_from_matrix_position", linalg.VectorFromMatrixPosition, "matrix"),
		op1("vector_make_spherical_safe", linalg.VectorMakeSphericalSafe, "vector"),
		Op{
			Name:    "vector_unproject",
			Args:    []string{"vector", "matrix", "depth"},
			Outputs: []string{"result"},
			call: func(args []*linalg.Array, opts []linalg.Option) ([]*linalg.Array, error) {
				if args[2].Len() != 1 {
					return nil, fmt.Errorf("depth must be a scalar, got shape %v: %w", args[2].Shape(), linalg.ErrShapeMismatch)
				}
				out, err := linalg.VectorUnproject(args[0], args[1], args[2].Data()[0], opts...)
				return []*linalg.Array{out}, err
			},
		},

		op1("matrix_make_translation", linalg.MatrixMakeTranslation, "vector"),
		op1("matrix_make_scaling", linalg.MatrixMakeScaling, "factors"),
		op1("matrix_make_rotation_from_quaternion", linalg.MatrixMakeRotationFromQuaternion, "quaternion"),
		op2("matrix_multiply", linalg.MatrixMultiply, "a", "b"),
		op1("matrix_inverse", linalg.MatrixInverse, "matrix"),
		op1("matrix_to_quaternion", linalg.MatrixToQuaternion, "matrix"),
		Op{
			Name:    "matrix_compose",
			Args:    []string{"translation", "rotation", "scaling"},
			Outputs: []string{"result"},
			call: func(args []*linalg.Array, opts []linalg.Option) ([]*linalg.Array, error) {
				out, err := linalg.MatrixCompose(args[0], args[1], args[2], opts...)
				return []*linalg.Array{out}, err
			},
		},
		Op{
			Name:    "matrix_decompose",
			Args:    []string{"matrix"},
			Outputs: []string{"translation", "rotation", "scaling"},
			call: func(args []*linalg.Array, opts []linalg.Option) ([]*linalg.Array, error) {
				t, r, s, err := linalg.MatrixDecompose(args[0], opts...)
				return []*linalg.Array{t, r, s}, err
			},
		},
	)
}

// Lookup returns the registered op with the given name.
func Lookup(name string) (Op, bool) {
	op, ok := registry[name]
	return op, ok
}

// Ops returns all registered ops sorted by name.
func Ops() []Op {
	ops := make([]Op, 0, len(registry))
	for _, op := range registry {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}
