package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "st  louis", normalize("  St. Louis! "))
	assert.Equal(t, "", normalize("..."))
}

func TestTokenSortRatio(t *testing.T) {
	assert.Equal(t, 100.0, TokenSortRatio("York New", "new york"))
	assert.Equal(t, 87.5, TokenSortRatio("new yrok", "New York"))
	assert.Equal(t, 0.0, TokenSortRatio("", "London"))
	assert.Less(t, TokenSortRatio("qqqq", "Paris"), DefaultMatchThreshold)
}

func TestTokenSortRatio_CountsInsertionsAndDeletions(t *testing.T) {
	// "frisco" is a subsequence of "francisco san": 2*6/(6+13)
	score := TokenSortRatio("Frisco", "San Francisco")
	assert.InDelta(t, 63.16, score, 0.01)
	assert.GreaterOrEqual(t, score, DefaultMatchThreshold)

	assert.InDelta(t, 50.0, TokenSortRatio("ab", "ba"), 0.01)
}

func TestBestMatch(t *testing.T) {
	cities := []string{"Chicago", "London", "New York", "Newark"}

	city, score := BestMatch("londn", cities)
	assert.Equal(t, "London", city)
	assert.InDelta(t, 90.91, score, 0.01)

	city, _ = BestMatch("NEW YORK", cities)
	assert.Equal(t, "New York", city)

	city, score = BestMatch("anything", nil)
	assert.Empty(t, city)
	assert.Zero(t, score)
}
