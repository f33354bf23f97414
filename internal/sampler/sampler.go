package sampler

// #region imports
import (
	"fmt"
	"math/rand"

	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/categories"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/dataset"
)

// #endregion

// #region types

// Sampler draws balanced training sets from the filtered dataset. The
// generator is injected so a run is reproducible and composable: same
// seed + threshold + dataset yields a bit-identical partition.
type Sampler struct {
	rng *rand.Rand
}

// New creates a sampler around an explicit generator instance.
func New(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Metrics records how the training set was assembled.
type Metrics struct {
	PerCategory     map[string]int
	TriggerDrawn    int
	NontriggerDrawn int
	DistinctIDs     int

	// DuplicateIDs counts training rows whose ID was drawn more than
	// once. A row carrying two large-category indicators can be drawn
	// by both categories' draws; the duplication is preserved in the
	// training set, not collapsed.
	DuplicateIDs int
}

// Result is the training/evaluation partition for one run.
type Result struct {
	Train   *dataset.Table
	Eval    *dataset.Table
	Metrics Metrics
}

// #endregion types

// #region draw

// Draw builds the balanced training set: exactly threshold rows per
// large category, drawn uniformly without replacement, then an equal
// total number of nontrigger rows. The evaluation set is every filtered
// row whose ID was not drawn, which removes all instances of any
// duplicated ID from the evaluation pool.
func (s *Sampler) Draw(filtered *dataset.Table, sel categories.Selection, threshold int) (Result, error) {
	train := &dataset.Table{Categories: filtered.Categories}

	perCategory := make(map[string]int, len(sel.Large)+1)
	for _, c := range sel.Large {
		subset := filtered.Where(c)
		drawn, err := s.sample(subset.Rows, threshold)
		if err != nil {
			return Result{}, fmt.Errorf("draw %s: %w", c, err)
		}
		train.Rows = append(train.Rows, drawn...)
		perCategory[c] = len(drawn)
	}

	k := len(train.Rows)
	nontrigger := filtered.Where(dataset.Nontrigger)
	drawn, err := s.sample(nontrigger.Rows, k)
	if err != nil {
		return Result{}, fmt.Errorf("draw %s: %w", dataset.Nontrigger, err)
	}
	train.Rows = append(train.Rows, drawn...)
	perCategory[dataset.Nontrigger] = len(drawn)

	ids := train.IDs()
	eval := filtered.Without(ids)

	return Result{
		Train: train,
		Eval:  eval,
		Metrics: Metrics{
			PerCategory:     perCategory,
			TriggerDrawn:    k,
			NontriggerDrawn: len(drawn),
			DistinctIDs:     len(ids),
			DuplicateIDs:    len(train.Rows) - len(ids),
		},
	}, nil
}

// sample draws n rows uniformly without replacement via a partial
// Fisher-Yates shuffle over a copy of the subset.
func (s *Sampler) sample(rows []*dataset.SentenceRecord, n int) ([]*dataset.SentenceRecord, error) {
	if n > len(rows) {
		return nil, fmt.Errorf("cannot draw %d from %d rows", n, len(rows))
	}
	pool := append([]*dataset.SentenceRecord(nil), rows...)
	for i := 0; i < n; i++ {
		j := i + s.rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n], nil
}

// #endregion draw
