package batch

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/linalg/pkg/linalg"
)

type encodedArray struct {
	Shape []int  `yaml:"shape" json:"shape"`
	DType string `yaml:"dtype" json:"dtype"`
	Data  any    `yaml:"data" json:"data"`
}

type encodedOutput struct {
	Name  string       `yaml:"name" json:"name"`
	Value encodedArray `yaml:"value" json:"value"`
}

type encodedResult struct {
	Step    string          `yaml:"step" json:"step"`
	Op      string          `yaml:"op" json:"op"`
	Outputs []encodedOutput `yaml:"outputs" json:"outputs"`
}

// Encode writes results as "yaml" or "json". Data is nested to the array
// shape. precision > 0 rounds values to that many significant digits;
// any other value keeps the shortest exact representation. JSON has no
// NaN or Inf, so those become the strings "NaN", "+Inf" and "-Inf".
func Encode(results []Result, format string, precision int) ([]byte, error) {
	forJSON := format == "json"
	doc := make([]encodedResult, len(results))
	for i, r := range results {
		doc[i] = encodedResult{Step: r.Step, Op: r.Op, Outputs: make([]encodedOutput, len(r.Outputs))}
		for j, out := range r.Outputs {
			doc[i].Outputs[j] = encodedOutput{Name: out.Name, Value: encodeArray(out.Array, precision, forJSON)}
		}
	}

	switch format {
	case "yaml", "":
		return yaml.Marshal(doc)
	case "json":
		return json.MarshalIndent(doc, "", "  ")
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

func encodeArray(a *linalg.Array, precision int, forJSON bool) encodedArray {
	shape := []int(a.Shape())
	if shape == nil {
		shape = []int{}
	}
	values := make([]any, a.Len())
	for i, v := range a.Data() {
		values[i] = encodeValue(v, precision, forJSON)
	}
	return encodedArray{Shape: shape, DType: a.DType().String(), Data: nest(values, shape)}
}

func encodeValue(v float64, precision int, forJSON bool) any {
	if forJSON && (math.IsNaN(v) || math.IsInf(v, 0)) {
		switch {
		case math.IsNaN(v):
			return "NaN"
		case v > 0:
			return "+Inf"
		default:
			return "-Inf"
		}
	}
	if precision > 0 {
		v, _ = strconv.ParseFloat(strconv.FormatFloat(v, 'g', precision, 64), 64)
	}
	return v
}

// nest folds flat row-major values into lists following shape.
// A 0-d array yields the bare value.
func nest(values []any, shape []int) any {
	if len(shape) == 0 {
		return values[0]
	}
	n := shape[0]
	if n == 0 {
		return []any{}
	}
	step := len(values) / n
	out := make([]any, n)
	for i := range out {
		out[i] = nest(values[i*step:(i+1)*step], shape[1:])
	}
	return out
}
