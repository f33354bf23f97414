package dataset

// #region imports
import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// #endregion

// #region columns

// Reserved pseudo-categories. Neither is an ordinary trigger type:
// nontrigger marks a sentence with no trigger clause, unspecified marks
// a trigger sentence whose type the annotator could not assign.
const (
	Nontrigger  = "nontrigger"
	Unspecified = "unspecified"
)

// Text columns required in the source CSV.
const (
	ColDocument = "Document"
	ColSentence = "Sentence"
	ColTokens   = "SentenceTokens"
	ColLemmas   = "SentenceLemmas"
)

// CategoryColumns lists every indicator column the loader requires,
// in canonical dataset order.
var CategoryColumns = []string{
	"loan_default",
	"aggregate_dscr_fall",
	"dscr_fall",
	"unspecified",
	"debt_yield_fall",
	"aggregate_debt_yield_fall",
	"mezzanine_default",
	"tenant_failure",
	"mezzanine_outstanding",
	"operator_termination",
	"bankruptcy",
	"sponsor_termination",
	"renovations",
	"nontrigger",
	"sff",
	"delayed_repayment",
}

// #endregion columns

// #region errors

// ErrMissingColumn indicates a required CSV column was not found in the header.
var ErrMissingColumn = errors.New("missing required column")

// #endregion errors

// #region record

// SentenceRecord is one labeled sentence from a financing agreement.
// ID is the stable row identifier assigned at load time; all set
// operations downstream work on IDs, never on slice positions.
type SentenceRecord struct {
	ID         int
	Document   string
	Sentence   string
	Tokens     string
	Lemmas     string
	Indicators map[string]int

	// Derived fields.
	Total     int // row-wise sum of indicators
	IsTrigger int // 0 iff nontrigger == 1, assigned by the sampler stage
}

// #endregion record

// #region table

// Table is an ordered collection of sentence records plus the category
// column order they were loaded with.
type Table struct {
	Rows       []*SentenceRecord
	Categories []string
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// FilterTotal returns the rows whose indicator Total lies in [lo, hi].
func (t *Table) FilterTotal(lo, hi int) *Table {
	out := &Table{Categories: t.Categories}
	for _, r := range t.Rows {
		if r.Total >= lo && r.Total <= hi {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Where returns the rows whose indicator for the given category is set.
func (t *Table) Where(category string) *Table {
	out := &Table{Categories: t.Categories}
	for _, r := range t.Rows {
		if r.Indicators[category] == 1 {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Without returns the rows whose ID is not present in the given set.
func (t *Table) Without(ids map[int]bool) *Table {
	out := &Table{Categories: t.Categories}
	for _, r := range t.Rows {
		if !ids[r.ID] {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Counts sums each category's indicator column across the table.
func (t *Table) Counts() map[string]int {
	counts := make(map[string]int, len(t.Categories))
	for _, c := range t.Categories {
		counts[c] = 0
	}
	for _, r := range t.Rows {
		for _, c := range t.Categories {
			counts[c] += r.Indicators[c]
		}
	}
	return counts
}

// IDs returns the set of row IDs in the table. Duplicate rows (a row
// concatenated into the table more than once) collapse to one entry.
func (t *Table) IDs() map[int]bool {
	ids := make(map[int]bool, len(t.Rows))
	for _, r := range t.Rows {
		ids[r.ID] = true
	}
	return ids
}

// #endregion table

// #region loader

// LoadCSV reads the labeled sentence table produced by the upstream
// preprocessing stage. The header is matched case-insensitively; extra
// columns are ignored. Indicator values must be 0 or 1 and every row
// must carry at least one indicator.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses the sentence table from an open reader.
func Read(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx, err := locateColumns(header)
	if err != nil {
		return nil, err
	}

	t := &Table{Categories: append([]string(nil), CategoryColumns...)}
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", rowNum, err)
		}

		rec := &SentenceRecord{
			ID:         len(t.Rows),
			Document:   record[colIdx[ColDocument]],
			Sentence:   record[colIdx[ColSentence]],
			Tokens:     record[colIdx[ColTokens]],
			Lemmas:     record[colIdx[ColLemmas]],
			Indicators: make(map[string]int, len(CategoryColumns)),
		}
		for _, c := range CategoryColumns {
			v, err := parseIndicator(record[colIdx[c]])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", rowNum, c, err)
			}
			rec.Indicators[c] = v
			rec.Total += v
		}
		if rec.Total == 0 {
			return nil, fmt.Errorf("row %d: no indicator set", rowNum)
		}
		t.Rows = append(t.Rows, rec)
	}

	if len(t.Rows) == 0 {
		return nil, errors.New("dataset is empty")
	}
	return t, nil
}

// locateColumns maps each required column name to its header position.
func locateColumns(header []string) (map[string]int, error) {
	required := []string{ColDocument, ColSentence, ColTokens, ColLemmas}
	required = append(required, CategoryColumns...)

	idx := make(map[string]int, len(required))
	for _, want := range required {
		found := -1
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), want) {
				found = i
				break
			}
		}
		if found == -1 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, want)
		}
		idx[want] = found
	}
	return idx, nil
}

// parseIndicator accepts 0/1 values, tolerating float formatting ("1.0")
// left over from the upstream reshaping step.
func parseIndicator(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		if v == 0 || v == 1 {
			return v, nil
		}
		return 0, fmt.Errorf("indicator out of range: %d", v)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid indicator value %q", s)
	}
	if f == 0 || f == 1 {
		return int(f), nil
	}
	return 0, fmt.Errorf("indicator out of range: %v", f)
}

// #endregion loader
