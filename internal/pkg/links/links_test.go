package links

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"diacritics", "Atlético Madrid", "atletico-madrid"},
		{"punctuation and padding", "  A.C. Milan!! ", "ac-milan"},
		{"plain", "Barcelona", "barcelona"},
		{"multiple spaces", "Real   Madrid", "real-madrid"},
		{"existing hyphens", "Saint-Étienne", "saint-etienne"},
		{"leading trailing hyphens", "-West Ham-", "west-ham"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestGenerate(t *testing.T) {
	got := Generate("Real Madrid", "Barcelona")

	assert.Equal(t, "ppv-real-madrid-vs-barcelona", got.Identifier)
	for _, url := range []string{got.URL1, got.URL2, got.URL3, got.URL4} {
		assert.Equal(t, 1, strings.Count(url, got.Identifier), "identifier should appear exactly once in %s", url)
	}
}

func TestGenerateDigitSuffixPassThrough(t *testing.T) {
	got := Generate("12345", "Barcelona")

	assert.Equal(t, "12345", got.Identifier)
	assert.Contains(t, got.URL1, "12345")
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate("Real Madrid", "Barcelona")
	b := Generate("Real Madrid", "Barcelona")
	assert.Equal(t, a, b)
}

func TestAllVariants(t *testing.T) {
	primary, reversed := AllVariants("Real Madrid", "Barcelona")

	assert.Equal(t, "ppv-real-madrid-vs-barcelona", primary.Identifier)
	assert.Equal(t, "ppv-barcelona-vs-real-madrid", reversed.Identifier)
}
