package report

// #region imports
import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/dataset"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/sampler"
	"github.com/mgreene-ml/cashtrap/go-pipeline/internal/textmodel"
)

// #endregion

// #region types

// Row is the per-category misclassification accounting for the
// evaluation set.
type Row struct {
	Category             string
	FullTestSet          int
	NumMisclassified     int
	PercentMisclassified float64 // NaN when FullTestSet == 0
	InTrainSet           bool
}

// Report aggregates per-category misclassification over the evaluation
// set, annotated with training-set membership.
type Report struct {
	Rows []Row

	// Observability scores, not part of the report contract.
	TrainAUC float64
	EvalAUC  float64
}

// #endregion types

// #region build

// Build predicts every evaluation row, identifies misclassified rows,
// and aggregates per-category totals vs misclassified counts. A
// category with zero evaluation-set occurrences reports NaN percent
// rather than raising.
func Build(model *textmodel.Pipeline, eval *dataset.Table, inTrainSet map[string]bool) (*Report, error) {
	if eval.Len() == 0 {
		return nil, errors.New("evaluation set is empty")
	}

	docs := make([]string, eval.Len())
	for i, r := range eval.Rows {
		docs[i] = r.Lemmas
	}
	labels := sampler.Labels(eval)
	preds := model.Predict(docs)

	totals := make(map[string]int, len(eval.Categories))
	mis := make(map[string]int, len(eval.Categories))
	for i, r := range eval.Rows {
		wrong := preds[i] != labels[i]
		for _, c := range eval.Categories {
			v := r.Indicators[c]
			totals[c] += v
			if wrong {
				mis[c] += v
			}
		}
	}

	rep := &Report{EvalAUC: textmodel.RocAUC(model.Proba(docs), labels)}
	for _, c := range eval.Categories {
		rep.Rows = append(rep.Rows, Row{
			Category:             c,
			FullTestSet:          totals[c],
			NumMisclassified:     mis[c],
			PercentMisclassified: percent(mis[c], totals[c]),
			InTrainSet:           inTrainSet[c],
		})
	}
	return rep, nil
}

// percent is round(100*mis/total, 1), NaN when total is zero.
func percent(mis, total int) float64 {
	if total == 0 {
		return math.NaN()
	}
	return math.Round(100*float64(mis)/float64(total)*10) / 10
}

// #endregion build

// #region headline

// SmallClassRecall is the headline metric: among trigger categories
// never seen during training, the percentage of their evaluation-set
// occurrences the model still identified as triggers,
// 100 * (1 − Σmisclassified/Σtotal). The reserved pseudo-categories are
// excluded. NaN when no such category has evaluation-set occurrences.
func (r *Report) SmallClassRecall() float64 {
	var total, mis int
	for _, row := range r.Rows {
		if row.InTrainSet || row.Category == dataset.Nontrigger || row.Category == dataset.Unspecified {
			continue
		}
		total += row.FullTestSet
		mis += row.NumMisclassified
	}
	if total == 0 {
		return math.NaN()
	}
	return 100 * (1 - float64(mis)/float64(total))
}

// Headline formats the scalar result line.
func (r *Report) Headline() string {
	recall := r.SmallClassRecall()
	if math.IsNaN(recall) {
		return "no small-class occurrences in the evaluation set"
	}
	return fmt.Sprintf("%.1f%% of the small classes were predicted correctly", recall)
}

// #endregion headline

// #region render

// Render writes the per-category results table.
func (r *Report) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"category", "full_test_set", "num_misclassified", "percent_misclassified", "in_train_set"})
	for _, row := range r.Rows {
		pct := "n/a"
		if !math.IsNaN(row.PercentMisclassified) {
			pct = fmt.Sprintf("%.1f", row.PercentMisclassified)
		}
		t.AppendRow(table.Row{row.Category, row.FullTestSet, row.NumMisclassified, pct, yesNo(row.InTrainSet)})
	}
	t.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// #endregion render
