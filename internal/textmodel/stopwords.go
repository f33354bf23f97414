package textmodel

// #region imports
import (
	"strings"
	"unicode"
)

// #endregion

// #region stopword-lists

// Stop-word list identifiers used in the hyperparameter grid.
const (
	StopCurated  = "curated"
	StopStandard = "standard"
)

// curatedStopWords is the short hand-picked list.
var curatedStopWords = []string{
	"the", "a", "an", "and", "or", "of", "to", "in", "on", "for",
	"by", "with", "as", "at", "be", "is", "are", "was", "were",
	"any", "such", "each", "other", "its", "this", "that", "which",
}

// standardStopWords is the larger conventional English list.
var standardStopWords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am",
	"an", "and", "any", "are", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can",
	"did", "do", "does", "doing", "down", "during", "each", "few",
	"for", "from", "further", "had", "has", "have", "having", "he",
	"her", "here", "hers", "him", "his", "how", "i", "if", "in",
	"into", "is", "it", "its", "itself", "just", "me", "more", "most",
	"my", "myself", "no", "nor", "not", "now", "of", "off", "on",
	"once", "only", "or", "other", "our", "ours", "out", "over",
	"own", "same", "she", "should", "so", "some", "such", "than",
	"that", "the", "their", "theirs", "them", "then", "there",
	"these", "they", "this", "those", "through", "to", "too", "under",
	"until", "up", "very", "was", "we", "were", "what", "when",
	"where", "which", "while", "who", "whom", "why", "will", "with",
	"you", "your", "yours",
}

// domainStopWords are boilerplate tokens of financing agreements that
// carry no signal about trigger type. Both lists are augmented with them.
var domainStopWords = []string{
	"borrower", "lender", "shall", "hereunder", "hereof", "thereof",
	"agreement", "section",
}

// StopWordSet builds the lookup set for a named list. Unknown names
// fall back to the curated list.
func StopWordSet(name string) map[string]bool {
	base := curatedStopWords
	if name == StopStandard {
		base = standardStopWords
	}
	set := make(map[string]bool, len(base)+len(domainStopWords))
	for _, w := range base {
		set[w] = true
	}
	for _, w := range domainStopWords {
		set[w] = true
	}
	return set
}

// #endregion stopword-lists

// #region tokenize

// Tokenize splits text into lowercase word tokens, dropping stop words
// and single characters. Order and duplicates are preserved so term
// frequencies and n-grams stay meaningful.
func Tokenize(text string, stop map[string]bool) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var tokens []string
	for _, w := range words {
		if len(w) < 2 || stop[w] {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// #endregion tokenize
