package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/linalg/internal/config"
	"github.com/Faultbox/linalg/internal/logger"
	"github.com/Faultbox/linalg/pkg/linalg"
)

// Output is one named array produced by a step.
type Output struct {
	Name  string
	Array *linalg.Array
}

// Result holds the outputs of one step, in the op's output order.
type Result struct {
	Step    string
	Op      string
	Outputs []Output
}

// Run executes the steps of job in order. cfg supplies the worker count and
// the default input dtype, which the job's own dtype overrides. ctx is
// checked before each step.
func Run(ctx context.Context, job *Job, cfg *config.Config) ([]Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	log := logger.Named("batch")

	dtName := cfg.Compute.DType
	if job.DType != "" {
		dtName = job.DType
	}
	inputType, err := linalg.ParseDType(dtName)
	if err != nil {
		return nil, err
	}

	env := make(map[string]*linalg.Array)
	results := make([]Result, 0, len(job.Steps))
	start := time.Now()

	for _, step := range job.Steps {
		if err := ctx.Err(); err != nil {
			log.Warn("job cancelled", zap.String("before", step.Name), zap.Error(err))
			return results, err
		}

		res, err := runStep(step, env, inputType, cfg.Compute.Workers, log)
		if err != nil {
			log.Error("step failed", zap.String("step", step.Name), zap.String("op", step.Op), zap.Error(err))
			return results, fmt.Errorf("step %q (%s): %w", step.Name, step.Op, err)
		}
		for _, out := range res.Outputs {
			env[res.Step+"."+out.Name] = out.Array
		}
		if len(res.Outputs) == 1 {
			env[res.Step] = res.Outputs[0].Array
		}
		results = append(results, res)
	}

	log.Info("job done", zap.Int("steps", len(results)), zap.Duration("elapsed", time.Since(start)))
	return results, nil
}

func runStep(step Step, env map[string]*linalg.Array, inputType linalg.DType, workers int, log *zap.Logger) (Result, error) {
	op, ok := Lookup(step.Op)
	if !ok {
		return Result{}, fmt.Errorf("%w %q", ErrUnknownOp, step.Op)
	}

	args := make([]*linalg.Array, len(op.Args))
	for i, name := range op.Args {
		v, ok := step.Args[name]
		if !ok {
			return Result{}, fmt.Errorf("%w %q", ErrMissingArg, name)
		}
		a, err := resolve(v, env, inputType)
		if err != nil {
			return Result{}, fmt.Errorf("argument %q: %w", name, err)
		}
		args[i] = a
	}

	t0 := time.Now()
	arrays, err := op.call(args, stepOptions(step.Options, workers))
	if err != nil {
		return Result{}, err
	}

	res := Result{Step: step.Name, Op: step.Op, Outputs: make([]Output, len(arrays))}
	for i, a := range arrays {
		res.Outputs[i] = Output{Name: op.Outputs[i], Array: a}
	}
	log.Debug("step done",
		zap.String("step", step.Name),
		zap.String("op", step.Op),
		zap.Any("shape", []int(arrays[0].Shape())),
		zap.Duration("elapsed", time.Since(t0)),
	)
	return res, nil
}

// resolve turns an argument into an array: a $reference to an earlier
// output, or a literal converted to the job's input dtype.
func resolve(v any, env map[string]*linalg.Array, inputType linalg.DType) (*linalg.Array, error) {
	if ref, ok := reference(v); ok {
		a, found := env[ref]
		if !found {
			if _, multi := env[ref+"."+firstOutput(ref, env)]; multi {
				return nil, fmt.Errorf("%w: $%s has several outputs, name one", ErrBadReference, ref)
			}
			return nil, fmt.Errorf("%w: $%s", ErrBadReference, ref)
		}
		return a, nil
	}
	a, err := ParseArray(v)
	if err != nil {
		return nil, err
	}
	if inputType != linalg.Float64 {
		a = a.AsType(inputType)
	}
	return a, nil
}

// firstOutput finds any output name env holds for step.
func firstOutput(step string, env map[string]*linalg.Array) string {
	prefix := step + "."
	for k := range env {
		if strings.HasPrefix(k, prefix) {
			return k[len(prefix):]
		}
	}
	return ""
}

func stepOptions(so StepOptions, workers int) []linalg.Option {
	var opts []linalg.Option
	if workers > 0 {
		opts = append(opts, linalg.WithWorkers(workers))
	}
	if so.W != nil {
		opts = append(opts, linalg.WithW(*so.W))
	}
	if so.Order != "" {
		opts = append(opts, linalg.WithOrder(so.Order))
	}
	if so.DType != "" {
		// Parse already validated the name.
		dt, _ := linalg.ParseDType(so.DType)
		opts = append(opts, linalg.WithDType(dt))
	}
	return opts
}
