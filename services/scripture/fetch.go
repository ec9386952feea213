package scripture

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"

	"github.com/vscarantav/parallelscriptures/lib/htmlutil"
	"github.com/vscarantav/parallelscriptures/lib/textutil"
)

// corpus building, used by cmd/corpus-fetch to snapshot whole
// languages into all_books/<lang>.json

var digitsRegex = regexp.MustCompile(`\d+`)

// FetchChapterWord finds the localized word for "Chapter" by reading
// the chapter heading of 1 Nephi 1. Falls back to "Chapter".
func (s *Service) FetchChapterWord(ctx context.Context, lang string) string {
	ctx, span := tracer.Start(ctx, "FetchChapterWord")
	defer span.End()

	doc, err := s.fetchDocument(ctx, s.chapterURL("1-ne", 1, lang))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch chapter heading")
		return "Chapter"
	}

	heading := strings.TrimSpace(doc.Find("p.title-number").First().Text())
	word := strings.TrimSpace(digitsRegex.ReplaceAllString(heading, ""))
	if word == "" {
		return "Chapter"
	}
	return textutil.CleanSpaces(word)
}

// FetchBookName reads the localized book title off chapter 1. Returns
// the slug itself when the page gives nothing usable.
func (s *Service) FetchBookName(ctx context.Context, slug, lang string) string {
	ctx, span := tracer.Start(ctx, "FetchBookName")
	defer span.End()

	doc, err := s.fetchDocument(ctx, s.chapterURL(slug, 1, lang))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch book page")
		return slug
	}

	h1 := doc.Find("h1#title1").First()
	if t := strings.TrimSpace(h1.Find("span.dominant").First().Text()); t != "" {
		return textutil.CleanSpaces(t)
	}
	if t := strings.TrimSpace(h1.Text()); t != "" {
		return textutil.CleanSpaces(t)
	}
	return slug
}

// FetchChapterContent scrapes one chapter into corpus form: verse
// number -> text, plus "subtitle" and "intro" entries when the page
// carries them. Verses without a number get key "0".
func (s *Service) FetchChapterContent(ctx context.Context, slug string, chapter int, lang string) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "FetchChapterContent")
	defer span.End()

	doc, err := s.fetchDocument(ctx, s.chapterURL(slug, chapter, lang))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch chapter page")
		return nil, err
	}

	content := map[string]string{}

	if t := textutil.CleanSpaces(htmlutil.StrippedText(doc.Find(subtitleSelector).First())); t != "" {
		content["subtitle"] = t
	}

	var intro []string
	doc.Find("p.intro").Each(func(_ int, p *goquery.Selection) {
		if t := textutil.CleanSpaces(htmlutil.StrippedText(p)); t != "" {
			intro = append(intro, t)
		}
	})
	if len(intro) > 0 {
		content["intro"] = strings.Join(intro, "\n\n")
	}

	doc.Find("p.verse").Each(func(_ int, v *goquery.Selection) {
		num := strings.TrimSpace(v.Find(".verse-number").First().Text())
		v.Find(".verse-number").Remove()
		if num == "" {
			num = "0"
		}

		text := textutil.CleanSpaces(htmlutil.StrippedText(v))
		text = strings.TrimSpace(strings.TrimPrefix(text, num))
		text = textutil.FixPunctuationSpacing(text)

		content[num] = text
	})

	return content, nil
}

// FetchBook snapshots a whole book. Chapters that fail to fetch are
// logged and stored empty so a partial corpus still round-trips.
func (s *Service) FetchBook(ctx context.Context, slug, lang, chapterWord string) CorpusBook {
	ctx, span := tracer.Start(ctx, "FetchBook")
	defer span.End()

	book := CorpusBook{
		Meta: CorpusBookMeta{
			Slug:        slug,
			Name:        s.FetchBookName(ctx, slug, lang),
			ChapterWord: chapterWord,
		},
		Chapters: map[string]map[string]string{},
	}

	for chapter := 1; chapter <= BookChapters[slug]; chapter++ {
		content, err := s.FetchChapterContent(ctx, slug, chapter, lang)
		if err != nil {
			slog.WarnContext(ctx, "failed to fetch chapter",
				"book", slug, "chapter", chapter, "lang", lang, "err", err)
			content = map[string]string{}
		}
		book.Chapters[strconv.Itoa(chapter)] = content
	}
	return book
}

// FetchLanguage snapshots every book of one language.
func (s *Service) FetchLanguage(ctx context.Context, lang string) CorpusLanguage {
	ctx, span := tracer.Start(ctx, "FetchLanguage")
	defer span.End()

	chapterWord := s.FetchChapterWord(ctx, lang)
	slog.InfoContext(ctx, "localized chapter word", "lang", lang, "word", chapterWord)

	corpus := CorpusLanguage{}
	for _, slug := range BookSlugs {
		book := s.FetchBook(ctx, slug, lang, chapterWord)
		slog.InfoContext(ctx, "fetched book",
			"lang", lang, "book", slug, "name", book.Meta.Name)
		corpus[slug] = book
	}
	return corpus
}
