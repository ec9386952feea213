package scripture

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
)

// BookNames is the precomputed localized title table from
// booksnames.json: language code -> slug -> localized title.
type BookNames map[string]map[string]string

// LoadBookNames reads booksnames.json, degrading to an empty table
// when the file is missing or corrupt so the scrape fallback kicks in.
func LoadBookNames(path string) BookNames {
	if path == "" {
		return BookNames{}
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		slog.Warn("booksnames file unavailable, falling back to live titles", "path", path, "err", err)
		return BookNames{}
	}
	var names BookNames
	err = json.Unmarshal(raw, &names)
	if err != nil {
		slog.Warn("booksnames file corrupt, falling back to live titles", "path", path, "err", err)
		return BookNames{}
	}
	return names
}

// BooksForLang builds the localized books list for a language, served
// from booksnames.json when present and scraped title-by-title
// otherwise. Results are cached per language.
func (s *Service) BooksForLang(ctx context.Context, lang string) ([]Book, error) {
	if cached, hit := s.books.Get(lang); hit {
		return cached, nil
	}

	names := s.names[lang]
	out := make([]Book, 0, len(BookSlugs))

	if len(names) > 0 {
		for _, slug := range BookSlugs {
			name, ok := names[slug]
			if !ok {
				name = strings.ToUpper(slug)
			}
			out = append(out, Book{
				Abbr:     slug,
				Name:     name,
				Chapters: BookChapters[slug],
			})
		}
		s.books.Add(lang, out)
		return out, nil
	}

	// fallback: compute on the fly
	for _, slug := range BookSlugs {
		name, err := s.scrapeBookTitle(ctx, slug, lang)
		if err != nil {
			return nil, err
		}
		out = append(out, Book{
			Abbr:     slug,
			Name:     name,
			Chapters: BookChapters[slug],
		})
	}
	s.books.Add(lang, out)
	return out, nil
}
