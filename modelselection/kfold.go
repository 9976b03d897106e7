package modelselection

import (
	"math/rand/v2"
	"sort"

	"github.com/YuminosukeSato/cytobench/pkg/errors"
)

// CVFold is one train/test index pair of a cross-validation split.
// Indices refer to rows of the matrix handed to the splitter.
type CVFold struct {
	Repeat       int
	Fold         int
	TrainIndices []int
	TestIndices  []int
}

// StratifiedKFold splits rows into k folds preserving the class
// proportions of the full label vector in every fold. The shuffle is
// seeded, so the same seed always yields the same folds.
type StratifiedKFold struct {
	NSplits int
	Seed    uint64
}

// NewStratifiedKFold creates a stratified splitter. nSplits below 2
// falls back to 5.
func NewStratifiedKFold(nSplits int, seed uint64) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 5
	}
	return &StratifiedKFold{NSplits: nSplits, Seed: seed}
}

// Split generates the folds for the given labels. Classes are iterated
// in sorted order and each class's rows are shuffled then dealt
// round-robin, so fold class counts differ by at most one per class.
func (skf *StratifiedKFold) Split(labels []int) ([]CVFold, error) {
	n := len(labels)
	if n < skf.NSplits {
		return nil, errors.NewValueError("StratifiedKFold.Split",
			"fewer samples than folds")
	}

	byClass := map[int][]int{}
	for i, l := range labels {
		byClass[l] = append(byClass[l], i)
	}
	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewPCG(skf.Seed, skf.Seed))
	assignment := make([][]int, skf.NSplits)
	for _, c := range classes {
		idx := byClass[c]
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		for pos, row := range idx {
			f := pos % skf.NSplits
			assignment[f] = append(assignment[f], row)
		}
	}

	folds := make([]CVFold, skf.NSplits)
	for f := range folds {
		test := assignment[f]
		sort.Ints(test)

		inTest := make([]bool, n)
		for _, row := range test {
			inTest[row] = true
		}
		train := make([]int, 0, n-len(test))
		for row := 0; row < n; row++ {
			if !inTest[row] {
				train = append(train, row)
			}
		}

		folds[f] = CVFold{Fold: f, TrainIndices: train, TestIndices: test}
	}
	return folds, nil
}

// RepeatedStratifiedKFold runs a stratified k-fold split several times
// with a different derived seed per repeat. Every (repeat, fold) pair
// becomes one resampling unit of the grid search.
type RepeatedStratifiedKFold struct {
	NSplits  int
	NRepeats int
	Seed     uint64
}

// NewRepeatedStratifiedKFold creates the repeated splitter. nRepeats
// below 1 falls back to 10.
func NewRepeatedStratifiedKFold(nSplits, nRepeats int, seed uint64) *RepeatedStratifiedKFold {
	if nRepeats < 1 {
		nRepeats = 10
	}
	return &RepeatedStratifiedKFold{
		NSplits:  nSplits,
		NRepeats: nRepeats,
		Seed:     seed,
	}
}

// Split generates NSplits × NRepeats folds. Repeat r reuses the base
// seed offset by r, so repeats give distinct but reproducible splits.
func (rskf *RepeatedStratifiedKFold) Split(labels []int) ([]CVFold, error) {
	out := make([]CVFold, 0, rskf.NSplits*rskf.NRepeats)
	for r := 0; r < rskf.NRepeats; r++ {
		inner := NewStratifiedKFold(rskf.NSplits, rskf.Seed+uint64(r))
		folds, err := inner.Split(labels)
		if err != nil {
			return nil, errors.Wrapf(err, "repeat %d", r)
		}
		for _, fold := range folds {
			fold.Repeat = r
			out = append(out, fold)
		}
	}
	return out, nil
}
