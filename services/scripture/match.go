package scripture

import (
	"strings"

	"github.com/antzucaro/matchr"
)

// below this similarity a query is considered to not name any book
const minBookSimilarity = 0.8

func normalizeBookQuery(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ResolveBook maps a client-provided book value to a canonical slug.
// Exact slugs pass through; anything else is matched against the
// localized book names for the language (and the slugs themselves)
// by Jaro-Winkler similarity.
func (s *Service) ResolveBook(book, lang string) (string, bool) {
	book = normalizeBookQuery(book)
	if IsBookSlug(book) {
		return book, true
	}

	names := s.names[lang]

	var bestSlug string
	var bestSimilarity float64
	for _, slug := range BookSlugs {
		candidates := []string{slug}
		if name, ok := names[slug]; ok {
			candidates = append(candidates, normalizeBookQuery(name))
		}
		for _, cand := range candidates {
			similarity := matchr.JaroWinkler(book, cand, false)
			if similarity > bestSimilarity {
				bestSimilarity = similarity
				bestSlug = slug
			}
		}
	}

	if bestSimilarity < minBookSimilarity {
		return "", false
	}
	return bestSlug, true
}
