package optim

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/san-kum/ringsim/internal/experiment"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("grid search: %d params but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("grid search: empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Maximize makes Search look for the largest metric value instead of the
// smallest.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Points returns the number of grid points.
func (g *GridSearch) Points() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// SearchResult is the best grid point found.
type SearchResult struct {
	Params    map[string]float64
	Value     float64
	Evaluated int
	Failed    int
}

// Search runs one experiment per grid point. Points whose experiment cannot
// be built or fails are counted and skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildExperiment func(params map[string]float64) (*experiment.Experiment, error),
	metricName string,
) (*SearchResult, error) {

	res := &SearchResult{Value: math.Inf(1)}
	if g.maximize {
		res.Value = math.Inf(-1)
	}

	if err := g.searchRecursive(ctx, 0, make(map[string]float64), buildExperiment, metricName, res); err != nil {
		return nil, err
	}
	if res.Params == nil {
		return nil, fmt.Errorf("grid search: no point produced %s (%d failed)", metricName, res.Failed)
	}
	return res, nil
}

func (g *GridSearch) better(val, best float64) bool {
	if g.maximize {
		return val > best
	}
	return val < best
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildExperiment func(map[string]float64) (*experiment.Experiment, error),
	metricName string,
	res *SearchResult,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		val, ok := evaluate(current, buildExperiment, metricName)
		if !ok {
			res.Failed++
			return nil
		}
		res.Evaluated++

		if res.Params == nil || g.better(val, res.Value) {
			res.Value = val
			res.Params = make(map[string]float64)
			for k, v := range current {
				res.Params[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, buildExperiment, metricName, res); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(params map[string]float64, build func(map[string]float64) (*experiment.Experiment, error), metricName string) (float64, bool) {
	exp, err := build(params)
	if err != nil {
		return 0, false
	}
	if err := exp.Setup(); err != nil {
		return 0, false
	}
	defer exp.Close()

	result, err := exp.Run()
	if err != nil {
		return 0, false
	}

	val, ok := result.Metrics[metricName]
	if !ok || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseRange reads "name=min:max:num" into a parameter name and num evenly
// spaced values. "name=v" gives the single value v.
func ParseRange(s string) (string, []float64, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid range %q: want name=min:max:num", s)
	}

	parts := strings.Split(spec, ":")
	switch len(parts) {
	case 1:
		v, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return "", nil, fmt.Errorf("invalid range %q: %w", s, err)
		}
		return name, []float64{v}, nil
	case 3:
	default:
		return "", nil, fmt.Errorf("invalid range %q: want name=min:max:num", s)
	}

	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid range %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "", nil, fmt.Errorf("invalid range %q: %w", s, err)
	}
	num, err := strconv.Atoi(parts[2])
	if err != nil || num < 1 {
		return "", nil, fmt.Errorf("invalid range %q: num must be a positive integer", s)
	}

	return name, Linspace(lo, hi, num), nil
}

// Linspace returns num evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, num int) []float64 {
	if num <= 0 {
		return nil
	}
	out := make([]float64, num)
	if num == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(num-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
