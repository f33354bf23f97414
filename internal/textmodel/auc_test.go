package textmodel

import (
	"math"
	"testing"
)

func TestRocAUCPerfectRanking(t *testing.T) {
	scores := []float64{0.1, 0.2, 0.8, 0.9}
	labels := []int{0, 0, 1, 1}
	if got := RocAUC(scores, labels); got != 1.0 {
		t.Fatalf("expected AUC 1.0, got %v", got)
	}
}

func TestRocAUCReversedRanking(t *testing.T) {
	scores := []float64{0.9, 0.8, 0.2, 0.1}
	labels := []int{0, 0, 1, 1}
	if got := RocAUC(scores, labels); got != 0.0 {
		t.Fatalf("expected AUC 0.0, got %v", got)
	}
}

func TestRocAUCAllTiedScores(t *testing.T) {
	scores := []float64{0.5, 0.5, 0.5, 0.5}
	labels := []int{0, 1, 0, 1}
	if got := RocAUC(scores, labels); got != 0.5 {
		t.Fatalf("expected AUC 0.5 for fully tied scores, got %v", got)
	}
}

func TestRocAUCKnownMixedRanking(t *testing.T) {
	// One inversion among 2x2 pos/neg pairs: 3 of 4 pairs ordered
	// correctly -> AUC 0.75.
	scores := []float64{0.1, 0.6, 0.4, 0.9}
	labels := []int{0, 0, 1, 1}
	if got := RocAUC(scores, labels); got != 0.75 {
		t.Fatalf("expected AUC 0.75, got %v", got)
	}
}

func TestRocAUCSingleClassIsNaN(t *testing.T) {
	if got := RocAUC([]float64{0.1, 0.9}, []int{1, 1}); !math.IsNaN(got) {
		t.Fatalf("expected NaN for single-class labels, got %v", got)
	}
	if got := RocAUC(nil, nil); !math.IsNaN(got) {
		t.Fatalf("expected NaN for empty input, got %v", got)
	}
}
