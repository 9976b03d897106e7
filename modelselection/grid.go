// Package modelselection implements the tuning side of the benchmark:
// stratified k-fold splitting, repeated cross-validation, and grid search
// over each model family's hyperparameters with ROC AUC selection.
package modelselection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/YuminosukeSato/cytobench/core/model"
	"github.com/YuminosukeSato/cytobench/naive_bayes"
	"github.com/YuminosukeSato/cytobench/neighbors"
	"github.com/YuminosukeSato/cytobench/pkg/errors"
	"github.com/YuminosukeSato/cytobench/svm"
)

// ParamPoint is one hyperparameter setting of a model family's grid.
type ParamPoint map[string]interface{}

// String renders the point with sorted keys, for log lines and reports.
func (p ParamPoint) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, p[k]))
	}
	return strings.Join(parts, ", ")
}

// ModelSpec couples a model family name with its tuning grid and a
// factory producing an unfitted classifier for any point of the grid.
type ModelSpec struct {
	Name  string
	Grid  []ParamPoint
	Build func(p ParamPoint) (model.Classifier, error)
}

// KNNSpec tunes the number of neighbors over k = 1..20.
func KNNSpec() ModelSpec {
	grid := make([]ParamPoint, 20)
	for i := range grid {
		grid[i] = ParamPoint{"k": i + 1}
	}
	return ModelSpec{
		Name: "knn",
		Grid: grid,
		Build: func(p ParamPoint) (model.Classifier, error) {
			k, ok := p["k"].(int)
			if !ok {
				return nil, errors.NewValidationError("k", "must be an int", p["k"])
			}
			return neighbors.NewKNN(neighbors.WithK(k)), nil
		},
	}
}

// SVMSpec tunes the misclassification cost over 11 evenly spaced values
// from 1 to 10.
func SVMSpec() ModelSpec {
	grid := make([]ParamPoint, 11)
	for i := range grid {
		grid[i] = ParamPoint{"cost": 1.0 + float64(i)*0.9}
	}
	return ModelSpec{
		Name: "svm",
		Grid: grid,
		Build: func(p ParamPoint) (model.Classifier, error) {
			cost, ok := p["cost"].(float64)
			if !ok {
				return nil, errors.NewValidationError("cost", "must be a float64", p["cost"])
			}
			return svm.NewLinearSVC(svm.WithCost(cost)), nil
		},
	}
}

// NBSpec tunes the Laplace smoothing over 11 evenly spaced values from 0
// to 100, with kernel density estimation always on.
func NBSpec() ModelSpec {
	grid := make([]ParamPoint, 11)
	for i := range grid {
		grid[i] = ParamPoint{"laplace": float64(i) * 10.0, "usekernel": true}
	}
	return ModelSpec{
		Name: "nb",
		Grid: grid,
		Build: func(p ParamPoint) (model.Classifier, error) {
			laplace, ok := p["laplace"].(float64)
			if !ok {
				return nil, errors.NewValidationError("laplace", "must be a float64", p["laplace"])
			}
			kernel, ok := p["usekernel"].(bool)
			if !ok {
				return nil, errors.NewValidationError("usekernel", "must be a bool", p["usekernel"])
			}
			return naive_bayes.NewKernelNB(
				naive_bayes.WithLaplace(laplace),
				naive_bayes.WithKernel(kernel),
			), nil
		},
	}
}

// SpecByName resolves a model family name to its spec. Valid names are
// "knn", "svm" and "nb".
func SpecByName(name string) (ModelSpec, error) {
	switch name {
	case "knn":
		return KNNSpec(), nil
	case "svm":
		return SVMSpec(), nil
	case "nb":
		return NBSpec(), nil
	default:
		return ModelSpec{}, errors.NewValidationError("model", "unknown model family", name)
	}
}
