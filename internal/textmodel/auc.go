package textmodel

// #region imports
import (
	"math"
	"sort"
)

// #endregion

// #region roc-auc

// RocAUC computes the area under the ROC curve from predicted scores
// and true 0/1 labels using the rank statistic, with tied scores
// receiving their average rank. Returns NaN when only one class is
// present, since the curve is undefined.
func RocAUC(scores []float64, labels []int) float64 {
	n := len(scores)
	if n == 0 || n != len(labels) {
		return math.NaN()
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return scores[order[a]] < scores[order[b]]
	})

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[order[j+1]] == scores[order[i]] {
			j++
		}
		// Average rank across the tie group (1-based ranks).
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var pos, rankSum float64
	for i, y := range labels {
		if y == 1 {
			pos++
			rankSum += ranks[i]
		}
	}
	neg := float64(n) - pos
	if pos == 0 || neg == 0 {
		return math.NaN()
	}
	return (rankSum - pos*(pos+1)/2) / (pos * neg)
}

// #endregion roc-auc
