package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// Transformer is one preprocessing step: statistics are learned in Fit
// and applied unchanged in Transform.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (mat.Matrix, error)
}

// Pipeline chains preprocessing steps. Fit runs each step on the training
// fold only, feeding every step the output of the previous one, so a
// downstream scaler never sees raw missing values. Transform applies the
// learned statistics identically to any row set, held-out rows included.
type Pipeline struct {
	names []string
	steps []Transformer
}

// NewPipeline builds a pipeline from named steps.
func NewPipeline(names []string, steps []Transformer) (*Pipeline, error) {
	if len(names) != len(steps) {
		return nil, errors.NewDimensionError("NewPipeline", len(steps), len(names), 0)
	}
	return &Pipeline{names: names, steps: steps}, nil
}

// NewStandardPipeline is the benchmark's fixed preprocessing recipe:
// nearest-neighbor imputation, then centering and scaling.
func NewStandardPipeline(imputeNeighbors int) *Pipeline {
	return &Pipeline{
		names: []string{"impute", "scale"},
		steps: []Transformer{
			NewKNNImputer(imputeNeighbors),
			NewStandardScalerDefault(),
		},
	}
}

// StepNames returns the configured step names in order.
func (p *Pipeline) StepNames() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// Fit learns each step's statistics from X, transforming along the way.
func (p *Pipeline) Fit(X mat.Matrix) error {
	current := X
	for i, step := range p.steps {
		if err := step.Fit(current); err != nil {
			return errors.Wrapf(err, "pipeline step %q", p.names[i])
		}
		transformed, err := step.Transform(current)
		if err != nil {
			return errors.Wrapf(err, "pipeline step %q", p.names[i])
		}
		current = transformed
	}
	return nil
}

// Transform applies every fitted step in order.
func (p *Pipeline) Transform(X mat.Matrix) (mat.Matrix, error) {
	current := X
	for i, step := range p.steps {
		transformed, err := step.Transform(current)
		if err != nil {
			return nil, errors.Wrapf(err, "pipeline step %q", p.names[i])
		}
		current = transformed
	}
	return current, nil
}

// FitTransform fits on X and returns the transformed X.
func (p *Pipeline) FitTransform(X mat.Matrix) (mat.Matrix, error) {
	if err := p.Fit(X); err != nil {
		return nil, err
	}
	return p.Transform(X)
}

// Clone returns an unfitted pipeline with the same step configuration.
// Each cross-validation fold fits its own clone.
func (p *Pipeline) Clone() *Pipeline {
	steps := make([]Transformer, len(p.steps))
	for i, step := range p.steps {
		switch s := step.(type) {
		case *KNNImputer:
			steps[i] = NewKNNImputer(s.NNeighbors)
		case *StandardScaler:
			steps[i] = NewStandardScaler(s.WithMean, s.WithStd)
		default:
			// Unknown steps cannot be cloned safely; reuse is the
			// caller's responsibility.
			steps[i] = step
		}
	}
	names := make([]string, len(p.names))
	copy(names, p.names)
	return &Pipeline{names: names, steps: steps}
}
