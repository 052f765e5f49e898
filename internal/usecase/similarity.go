package usecase

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

// MinSimilarityScore is the lowest TokenSortRatio accepted as a substitution
const MinSimilarityScore = 70.0

// TokenSortRatio scores two product names in [0, 100], ignoring token order.
//
// Both names are lower-cased, every non letter/digit rune becomes a separator,
// and the resulting tokens are sorted and re-joined with single spaces.
// The score is the Indel ratio of the two joined strings:
//
//	100 * 2*LCS(a, b) / (len(a) + len(b))
//
// where LCS is the longest common subsequence length and lengths count runes.
// Identical token multisets score 100; if either side has no tokens the score is 0.
func TokenSortRatio(a, b string) float64 {
	sa := sortedTokens(a)
	sb := sortedTokens(b)
	if sa == "" || sb == "" {
		return 0
	}
	if sa == sb {
		return 100
	}

	total := utf8.RuneCountInString(sa) + utf8.RuneCountInString(sb)
	lcs := matchr.LongestCommonSubsequence(sa, sb)
	return 100 * float64(2*lcs) / float64(total)
}

// sortedTokens normalises s into its sorted, space-joined token form
func sortedTokens(s string) string {
	tokens := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
