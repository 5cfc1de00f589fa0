// Package batch runs YAML jobs: named steps that call linalg operations on
// literal arrays or on the outputs of earlier steps.
//
// A job looks like:
//
//	dtype: float64
//	steps:
//	  - name: rot
//	    op: quaternion_make_from_euler_angles
//	    args: {angles: [[0, 0, 1.57], [0.1, 0.2, 0.3]]}
//	    options: {order: xyz}
//	  - name: m
//	    op: matrix_compose
//	    args: {translation: [1, 2, 3], rotation: $rot, scaling: [1, 1, 1]}
//
// Multi-output steps are referenced as $step.output, e.g. $dec.rotation.
package batch

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/linalg/pkg/linalg"
)

var (
	// ErrUnknownOp is returned for an op name missing from the registry.
	ErrUnknownOp = errors.New("unknown operation")
	// ErrMissingArg is returned when a step omits a required argument.
	ErrMissingArg = errors.New("missing argument")
	// ErrRagged is returned for nested lists that are not rectangular.
	ErrRagged = errors.New("ragged array")
	// ErrNotNumeric is returned for array leaves that are not numbers.
	ErrNotNumeric = errors.New("not a number")
	// ErrBadReference is returned for a $name that no earlier step produced.
	ErrBadReference = errors.New("bad reference")
	// ErrInvalidJob is returned for structurally invalid jobs.
	ErrInvalidJob = errors.New("invalid job")
)

// Job is a parsed batch file.
type Job struct {
	DType string `yaml:"dtype"`
	Steps []Step `yaml:"steps"`
}

// Step is one operation call.
type Step struct {
	Name    string         `yaml:"name"`
	Op      string         `yaml:"op"`
	Args    map[string]any `yaml:"args"`
	Options StepOptions    `yaml:"options"`
}

// StepOptions maps onto linalg options.
type StepOptions struct {
	W     *float64 `yaml:"w"`
	Order string   `yaml:"order"`
	DType string   `yaml:"dtype"`
}

// Parse decodes and checks a job. Every op must be registered, step names
// must be unique and references may only point backwards.
func Parse(data []byte) (*Job, error) {
	var job Job
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	if len(job.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidJob)
	}
	if _, err := linalg.ParseDType(job.DType); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}

	seen := make(map[string]bool, len(job.Steps))
	for i := range job.Steps {
		s := &job.Steps[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("step%d", i+1)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: duplicate step name %q", ErrInvalidJob, s.Name)
		}
		op, ok := Lookup(s.Op)
		if !ok {
			return nil, fmt.Errorf("step %q: %w %q", s.Name, ErrUnknownOp, s.Op)
		}
		if s.Options.DType != "" {
			if _, err := linalg.ParseDType(s.Options.DType); err != nil {
				return nil, fmt.Errorf("step %q: %w", s.Name, err)
			}
		}
		for _, name := range op.Args {
			v, ok := s.Args[name]
			if !ok {
				return nil, fmt.Errorf("step %q: %w %q for %s", s.Name, ErrMissingArg, name, s.Op)
			}
			if ref, isRef := reference(v); isRef {
				if !seen[strings.SplitN(ref, ".", 2)[0]] {
					return nil, fmt.Errorf("step %q: %w $%s", s.Name, ErrBadReference, ref)
				}
			}
		}
		seen[s.Name] = true
	}
	return &job, nil
}

// reference returns the target of a "$name" argument.
func reference(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "$") {
		return "", false
	}
	return s[1:], true
}

// ParseArray converts a decoded YAML/JSON value into a Float64 array.
// Scalars become 0-d arrays; nested lists must be rectangular.
func ParseArray(v any) (*linalg.Array, error) {
	var shape []int
	if err := probeShape(v, 0, &shape); err != nil {
		return nil, err
	}
	n := 1
	for _, d := range shape {
		n *= d
	}
	data := make([]float64, 0, n)
	data, err := flatten(v, 0, shape, data)
	if err != nil {
		return nil, err
	}
	return linalg.FromSlice(data, shape...)
}

// probeShape records the dimensions along the first element of every level.
func probeShape(v any, depth int, shape *[]int) error {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	if len(list) == 0 {
		return fmt.Errorf("%w: empty list at depth %d", ErrRagged, depth)
	}
	*shape = append(*shape, len(list))
	return probeShape(list[0], depth+1, shape)
}

func flatten(v any, depth int, shape []int, data []float64) ([]float64, error) {
	if depth == len(shape) {
		x, err := number(v)
		if err != nil {
			return nil, err
		}
		return append(data, x), nil
	}
	list, ok := v.([]any)
	if !ok || len(list) != shape[depth] {
		return nil, fmt.Errorf("%w: expected %d elements at depth %d", ErrRagged, shape[depth], depth)
	}
	var err error
	for _, item := range list {
		if data, err = flatten(item, depth+1, shape, data); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func number(v any) (float64, error) {
	switch x := v.(type) {
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		// yaml.v3 already maps .nan and .inf; these cover JSON-style spellings.
		switch strings.ToLower(x) {
		case "nan":
			return math.NaN(), nil
		case "inf", "+inf":
			return math.Inf(1), nil
		case "-inf":
			return math.Inf(-1), nil
		}
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, x)
	case []any:
		return 0, fmt.Errorf("%w: unexpected nested list", ErrRagged)
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrNotNumeric, v, v)
	}
}
