package sampler

// #region imports
import (
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/dataset"
)

// #endregion

// #region derive-labels

// DeriveLabels assigns the binary target to every row: 0 when the row
// is flagged nontrigger, 1 otherwise. Pure per-row, no cross-row state.
func DeriveLabels(t *dataset.Table) {
	for _, r := range t.Rows {
		if r.Indicators[dataset.Nontrigger] == 1 {
			r.IsTrigger = 0
		} else {
			r.IsTrigger = 1
		}
	}
}

// Labels extracts the derived binary targets in row order.
func Labels(t *dataset.Table) []int {
	out := make([]int, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.IsTrigger
	}
	return out
}

// #endregion derive-labels
