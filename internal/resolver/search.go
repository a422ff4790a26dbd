package resolver

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s and strips diacritics so that "perito agrario" matches
// "Perito agrário".
func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Fold().String(strings.TrimSpace(out))
}

// Search returns the descriptions containing q, ignoring case and accents,
// in table order. An empty q matches everything. limit <= 0 means no limit.
func (r *Resolver) Search(q string, limit int) []string {
	needle := fold(q)
	var out []string
	for _, desc := range r.ordered {
		if needle != "" && !strings.Contains(r.folded[desc], needle) {
			continue
		}
		out = append(out, desc)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
