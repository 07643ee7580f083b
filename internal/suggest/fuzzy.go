package suggest

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// normalize lower-cases s, turns every non-alphanumeric rune into a space
// and trims the result.
func normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.TrimSpace(mapped)
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// TokenSortRatio scores two strings from 0 to 100 after normalizing them and
// sorting their words, so word order does not matter.
func TokenSortRatio(a, b string) float64 {
	return ratio(sortTokens(normalize(a)), sortTokens(normalize(b)))
}

// ratio is the insert/delete similarity of a and b: the share of both
// strings covered by their longest common subsequence.
func ratio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	return 100 * float64(2*edlib.LCS(a, b)) / float64(la+lb)
}

// BestMatch returns the candidate with the highest TokenSortRatio against
// query. Ties go to the earlier candidate.
func BestMatch(query string, candidates []string) (string, float64) {
	var best string
	bestScore := -1.0
	for _, c := range candidates {
		if score := TokenSortRatio(query, c); score > bestScore {
			best, bestScore = c, score
		}
	}
	if bestScore < 0 {
		return "", 0
	}
	return best, bestScore
}
