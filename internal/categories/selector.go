package categories

// #region imports
import (
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/dataset"
)

// #endregion

// #region selection

// Selection partitions trigger categories into large and small relative
// to an occurrence threshold. nontrigger and unspecified are never
// ordinary trigger categories and are excluded from the partition.
type Selection struct {
	Threshold int

	// Large holds trigger categories whose occurrence count, over the
	// Total ∈ {1,2} filtered subset, strictly exceeds the threshold.
	// Order follows the dataset's category column order.
	Large []string

	// Small holds the remaining trigger categories (at or below threshold).
	Small []string

	// Counts are the per-category occurrence counts over the filtered
	// subset the partition was computed from.
	Counts map[string]int

	// InTrainSet records, for every non-unspecified category including
	// nontrigger, whether its count exceeded the threshold. Used later
	// to annotate the misclassification report.
	InTrainSet map[string]bool
}

// #endregion selection

// #region select

// Select filters the table to rows carrying one or two indicators,
// counts occurrences per category over that subset, and partitions the
// trigger categories against the threshold. An empty large set is a
// valid degenerate selection, not an error.
func Select(t *dataset.Table, threshold int) (Selection, *dataset.Table) {
	filtered := t.FilterTotal(1, 2)
	counts := filtered.Counts()

	sel := Selection{
		Threshold:  threshold,
		Counts:     counts,
		InTrainSet: make(map[string]bool, len(t.Categories)),
	}

	for _, c := range t.Categories {
		if c == dataset.Unspecified {
			continue
		}
		exceeds := counts[c] > threshold
		sel.InTrainSet[c] = exceeds
		if c == dataset.Nontrigger {
			continue
		}
		if exceeds {
			sel.Large = append(sel.Large, c)
		} else {
			sel.Small = append(sel.Small, c)
		}
	}

	return sel, filtered
}

// #endregion select
