package dataset

import (
	"errors"
	"strings"
	"testing"
)

// testCSV builds a minimal valid CSV with the full column set. Each row
// map sets the named indicators to one; all others are zero.
func testCSV(rows []map[string]int) string {
	var b strings.Builder
	b.WriteString("Document,Sentence,SentenceTokens,SentenceLemmas")
	for _, c := range CategoryColumns {
		b.WriteString("," + c)
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("doc,sentence text,sentence token,sentence lemma")
		for _, c := range CategoryColumns {
			if row[c] == 1 {
				b.WriteString(",1")
			} else {
				b.WriteString(",0")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func TestReadAssignsStableIDsAndTotals(t *testing.T) {
	csv := testCSV([]map[string]int{
		{"loan_default": 1},
		{"loan_default": 1, "dscr_fall": 1},
		{Nontrigger: 1},
	})
	tab, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tab.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tab.Len())
	}
	for i, r := range tab.Rows {
		if r.ID != i {
			t.Fatalf("row %d: expected ID %d, got %d", i, i, r.ID)
		}
	}
	if tab.Rows[0].Total != 1 || tab.Rows[1].Total != 2 || tab.Rows[2].Total != 1 {
		t.Fatalf("unexpected totals: %d %d %d", tab.Rows[0].Total, tab.Rows[1].Total, tab.Rows[2].Total)
	}
}

func TestReadRejectsMissingColumn(t *testing.T) {
	csv := "Document,Sentence,SentenceTokens\ndoc,text,tok\n"
	_, err := Read(strings.NewReader(csv))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadRejectsAllZeroRow(t *testing.T) {
	csv := testCSV([]map[string]int{{}})
	_, err := Read(strings.NewReader(csv))
	if err == nil {
		t.Fatal("expected error for row with no indicator set")
	}
}

func TestReadAcceptsFloatIndicators(t *testing.T) {
	csv := testCSV([]map[string]int{{"bankruptcy": 1}})
	csv = strings.Replace(csv, ",1", ",1.0", 1)
	tab, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if tab.Rows[0].Indicators["bankruptcy"] != 1 {
		t.Fatal("expected bankruptcy indicator set")
	}
}

func TestReadRejectsOutOfRangeIndicator(t *testing.T) {
	csv := testCSV([]map[string]int{{"bankruptcy": 1}})
	csv = strings.Replace(csv, ",1", ",2", 1)
	if _, err := Read(strings.NewReader(csv)); err == nil {
		t.Fatal("expected error for indicator value 2")
	}
}

func TestReadMatchesHeaderCaseInsensitively(t *testing.T) {
	csv := testCSV([]map[string]int{{"sff": 1}})
	csv = strings.Replace(csv, "Document", "DOCUMENT", 1)
	if _, err := Read(strings.NewReader(csv)); err != nil {
		t.Fatalf("Read: %v", err)
	}
}

func TestFilterTotal(t *testing.T) {
	csv := testCSV([]map[string]int{
		{"loan_default": 1},
		{"loan_default": 1, "dscr_fall": 1},
		{"loan_default": 1, "dscr_fall": 1, "sff": 1},
	})
	tab, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	got := tab.FilterTotal(1, 2)
	if got.Len() != 2 {
		t.Fatalf("expected 2 rows with Total in [1,2], got %d", got.Len())
	}
}

func TestWhereAndCounts(t *testing.T) {
	csv := testCSV([]map[string]int{
		{"loan_default": 1},
		{"loan_default": 1},
		{Nontrigger: 1},
	})
	tab, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := tab.Where("loan_default").Len(); got != 2 {
		t.Fatalf("expected 2 loan_default rows, got %d", got)
	}
	counts := tab.Counts()
	if counts["loan_default"] != 2 || counts[Nontrigger] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
	if counts["bankruptcy"] != 0 {
		t.Fatalf("expected zero count for bankruptcy, got %d", counts["bankruptcy"])
	}
}

func TestWithoutComplementsByID(t *testing.T) {
	csv := testCSV([]map[string]int{
		{"loan_default": 1},
		{Nontrigger: 1},
		{"sff": 1},
	})
	tab, err := Read(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	rest := tab.Without(map[int]bool{1: true})
	if rest.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", rest.Len())
	}
	for _, r := range rest.Rows {
		if r.ID == 1 {
			t.Fatal("excluded ID still present")
		}
	}
}
