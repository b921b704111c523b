package links

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Playback URL templates, each parameterized by the event identifier.
// Three third-party embed providers plus one direct player endpoint.
const (
	embedTemplateAlpha   = "https://embedsports.top/embed/alpha/%s/1"
	embedTemplateBravo   = "https://embedrun.store/embed/%s?autoplay=1"
	embedTemplateVivid   = "https://vividembed.net/embed/%s?autoplay=true"
	directPlayerTemplate = "https://ppv.to/live/%s"
)

// identifierPrefix composes slugged team pairs into the provider naming scheme.
const identifierPrefix = "ppv"

var (
	digitSuffix  = regexp.MustCompile(`\d+$`)
	multiHyphen  = regexp.MustCompile(`-+`)
	slugStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Links is the fixed set of candidate playback URLs for one identifier.
type Links struct {
	Identifier string `json:"identifier"`
	URL1       string `json:"url1"`
	URL2       string `json:"url2"`
	URL3       string `json:"url3"`
	URL4       string `json:"url4"`
}

// Slugify lowercases a name, strips diacritics, drops everything outside
// [a-z0-9\s-], and collapses whitespace and repeated hyphens into single
// hyphens with no leading or trailing hyphen.
func Slugify(name string) string {
	s := strings.ToLower(name)
	if stripped, _, err := transform.String(slugStripper, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	s = strings.Join(strings.Fields(b.String()), "-")
	s = multiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Identifier derives the provider identifier for a pairing. A home value
// ending in digits is treated as a pre-existing external identifier and
// passed through verbatim.
func Identifier(home, away string) string {
	if digitSuffix.MatchString(home) {
		return home
	}
	return fmt.Sprintf("%s-%s-vs-%s", identifierPrefix, Slugify(home), Slugify(away))
}

// Generate maps a team pairing (or an existing identifier) to its candidate
// playback URLs. Pure and deterministic.
func Generate(home, away string) Links {
	id := Identifier(home, away)
	return Links{
		Identifier: id,
		URL1:       fmt.Sprintf(embedTemplateAlpha, id),
		URL2:       fmt.Sprintf(embedTemplateBravo, id),
		URL3:       fmt.Sprintf(embedTemplateVivid, id),
		URL4:       fmt.Sprintf(directPlayerTemplate, id),
	}
}

// AllVariants returns both directional pairings. The reversed variant is the
// fallback when the upstream provider slugged the fixture the other way round.
func AllVariants(home, away string) (primary, reversed Links) {
	return Generate(home, away), Generate(away, home)
}
