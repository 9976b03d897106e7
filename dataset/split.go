package dataset

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// Partition is a disjoint, exhaustive train/test split of row indices.
// Both slices are sorted ascending.
type Partition struct {
	Train []int
	Test  []int
}

// TrainMask returns a boolean mask over n rows, true for training rows.
func (p *Partition) TrainMask(n int) []bool {
	mask := make([]bool, n)
	for _, idx := range p.Train {
		mask[idx] = true
	}
	return mask
}

// TrainTestSplit produces a stratified partition of the label vector:
// round(frac × class size) rows of each class are selected for training,
// so label proportions are preserved within one sample per class. The
// split is deterministic for a fixed seed.
func TrainTestSplit(labels []int, frac float64, seed uint64) (*Partition, error) {
	if len(labels) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset: cannot split an empty label vector")
	}
	if frac <= 0 || frac >= 1 {
		return nil, errors.NewValidationError("train_fraction", "must be in (0, 1)", frac)
	}

	// Group row indices by class.
	classIndices := make(map[int][]int)
	for i, label := range labels {
		classIndices[label] = append(classIndices[label], i)
	}
	for label, indices := range classIndices {
		if len(indices) == 0 {
			return nil, errors.Wrapf(errors.ErrDegenerateClass, "dataset: class %d", label)
		}
	}

	r := rand.New(rand.NewPCG(seed, seed))

	partition := &Partition{}

	// Deterministic class order: maps iterate randomly.
	classes := make([]int, 0, len(classIndices))
	for label := range classIndices {
		classes = append(classes, label)
	}
	sort.Ints(classes)

	for _, label := range classes {
		indices := classIndices[label]
		shuffled := make([]int, len(indices))
		copy(shuffled, indices)
		r.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		take := int(math.Round(frac * float64(len(shuffled))))
		// Never let a class vanish entirely from either side.
		if take == 0 {
			take = 1
		}
		if take == len(shuffled) {
			take = len(shuffled) - 1
		}

		partition.Train = append(partition.Train, shuffled[:take]...)
		partition.Test = append(partition.Test, shuffled[take:]...)
	}

	sort.Ints(partition.Train)
	sort.Ints(partition.Test)
	return partition, nil
}
