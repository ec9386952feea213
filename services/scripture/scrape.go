package scripture

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/vscarantav/parallelscriptures/lib/htmlutil"
	"github.com/vscarantav/parallelscriptures/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/scripture")

const DefaultBaseURL = "https://www.churchofjesuschrist.org/study/scriptures/bofm"

var ErrNotAvailable = fmt.Errorf("page not available")

func (s *Service) chapterURL(book string, chapter int, lang string) string {
	return fmt.Sprintf(
		"%s/%s/%d?%s",
		s.opts.BaseURL, book, chapter,
		url.Values{"lang": {lang}}.Encode(),
	)
}

func (s *Service) fetchDocument(ctx context.Context, link string) (*goquery.Document, error) {
	res, err := s.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() == 404 {
		return nil, ErrNotAvailable
	}
	if res.IsError() {
		return nil, fmt.Errorf("upstream returned status %d", res.StatusCode())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// scrapeVerses pulls cleaned "N text" verse strings out of a chapter page.
func (s *Service) scrapeVerses(ctx context.Context, book string, chapter int, lang string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "scrapeVerses")
	defer span.End()

	doc, err := s.fetchDocument(ctx, s.chapterURL(book, chapter, lang))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch chapter page")
		return nil, err
	}

	verses := []string{}
	doc.Find("p.verse").Each(func(_ int, v *goquery.Selection) {
		num := strings.TrimSpace(v.Find(".verse-number").First().Text())
		v.Find(".verse-number").Remove()

		text := textutil.CleanSpaces(htmlutil.StrippedText(v))
		if num != "" {
			// the number sometimes leaks into the verse body too
			dup := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(num) + `[\s.\x{00A0}:\-–—]*`)
			text = dup.ReplaceAllString(text, "")
		}
		text = textutil.FixPunctuationSpacing(text)

		verses = append(verses, strings.TrimSpace(num+" "+text))
	})

	return verses, nil
}

// extractTitle digs the localized book title out of a chapter page,
// trying the selectors the site has used over time.
func extractTitle(doc *goquery.Document) string {
	cand := doc.Find(`span[class*="contentTitle"] div`).First()
	if t := strings.TrimSpace(cand.Text()); t != "" {
		return t
	}

	cand = doc.Find("h1 span.dominant").First()
	if t := strings.TrimSpace(cand.Text()); t != "" {
		return t
	}

	cand = doc.Find("h1").First()
	if t := strings.TrimSpace(cand.Text()); t != "" {
		return t
	}

	if og, ok := doc.Find(`meta[property="og:title"]`).First().Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}

	return "<UNKNOWN>"
}

// scrapeBookTitle is the fallback when a language is missing from
// booksnames.json: fetch chapter 1 and clean the leaked chapter
// headings and trailing numbers out of the title.
func (s *Service) scrapeBookTitle(ctx context.Context, slug, lang string) (string, error) {
	ctx, span := tracer.Start(ctx, "scrapeBookTitle")
	defer span.End()

	doc, err := s.fetchDocument(ctx, s.chapterURL(slug, 1, lang))
	if err == ErrNotAvailable {
		return "<NOT AVAILABLE>", nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch book title page")
		return "", err
	}

	title := extractTitle(doc)
	title = textutil.StripChapterHeading(title)
	title = textutil.CleanSpaces(textutil.StripTrailingNumber(textutil.CleanSpaces(title)))
	return title, nil
}

// selectors the site has used for the subtitle/introduction blocks
const (
	subtitleSelector = `p.subtitle, [id^="subtitle"], [data-aid^="subtitle"]`
	introSelector    = `p.intro, [id^="intro"], [data-aid^="intro"]`
)

type Extras struct {
	Subtitle     string `json:"subtitle"`
	Introduction string `json:"introduction"`
}

// scrapeExtras extracts the subtitle and introduction blocks of
// 1 Nephi 1. Some locales embed the scripture text in an iframe,
// either inline (srcdoc) or by reference.
func (s *Service) scrapeExtras(ctx context.Context, lang string) (Extras, error) {
	ctx, span := tracer.Start(ctx, "scrapeExtras")
	defer span.End()

	pageURL := s.chapterURL("1-ne", 1, lang)
	outer, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch intro page")
		return Extras{}, err
	}

	doc := outer
	if srcdoc, ok := outer.Find("iframe[srcdoc]").First().Attr("srcdoc"); ok {
		doc, err = goquery.NewDocumentFromReader(strings.NewReader(srcdoc))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse srcdoc iframe")
			return Extras{}, err
		}
	} else if src := findScriptureIframe(outer); src != "" {
		iframeURL, err := resolveRef(pageURL, src)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to resolve iframe url")
			return Extras{}, err
		}
		doc, err = s.fetchDocument(ctx, iframeURL)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to fetch iframe document")
			return Extras{}, err
		}
	}

	subtitle := htmlutil.StrippedText(doc.Find(subtitleSelector).First())
	intro := htmlutil.StrippedText(doc.Find(introSelector).First())

	return Extras{
		Subtitle:     textutil.Demojibake(textutil.CleanSpaces(subtitle)),
		Introduction: textutil.Demojibake(textutil.CleanSpaces(intro)),
	}, nil
}

// findScriptureIframe prefers the iframe under the content section,
// then any scripture iframe, then the first iframe that is not a
// login/silent-auth frame.
func findScriptureIframe(doc *goquery.Document) string {
	if src, ok := doc.Find(`section#content iframe[src*="/study/scriptures/"]`).First().Attr("src"); ok {
		return src
	}
	if src, ok := doc.Find(`iframe[src*="/study/scriptures/"]`).First().Attr("src"); ok {
		return src
	}

	var fallback string
	doc.Find("iframe[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src := sel.AttrOr("src", "")
		if strings.Contains(src, "login") || strings.Contains(src, "silent") {
			return true
		}
		fallback = src
		return false
	})
	return fallback
}

func resolveRef(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
