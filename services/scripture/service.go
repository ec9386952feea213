package scripture

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vscarantav/parallelscriptures/lib/httputil"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

type Options struct {
	// upstream scripture site, DefaultBaseURL when empty
	BaseURL string
	// path to booksnames.json, optional
	BooksNamesFile string
	// directory of per-language corpus files, optional
	CorpusDir string
	// language assumed when the client sends none
	DefaultLang string
}

type Service struct {
	http   *resty.Client
	opts   Options
	names  BookNames
	books  *expirable.LRU[string, []Book]
	corpus *corpusCache
}

func NewService(opts Options) *Service {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.DefaultLang == "" {
		opts.DefaultLang = "por"
	}
	return &Service{
		http:   NewUpstreamClient(),
		opts:   opts,
		names:  LoadBookNames(opts.BooksNamesFile),
		books:  expirable.NewLRU[string, []Book](256, nil, time.Hour*24),
		corpus: newCorpusCache(opts.CorpusDir, time.Hour),
	}
}

func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /api/books", s.handleBooks)
	mux.HandleFunc("GET /api/chapter", s.handleChapter)
	mux.HandleFunc("GET /api/intro", s.handleIntro)
}

func (s *Service) handleHealthz(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Service) lang(r *http.Request) string {
	lang, ok := SanitizeLang(r.URL.Query().Get("lang"))
	if !ok {
		return s.opts.DefaultLang
	}
	return lang
}

type booksResponse struct {
	Lang  string `json:"lang"`
	Books []Book `json:"books"`
}

func (s *Service) handleBooks(w http.ResponseWriter, r *http.Request) {
	lang := s.lang(r)

	books, err := s.BooksForLang(r.Context(), lang)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to load books", "lang", lang, "err", err)
		httputil.WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load books for %s", lang))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, booksResponse{Lang: lang, Books: books})
}

type chapterResponse struct {
	Verses  []string `json:"verses"`
	Book    string   `json:"book"`
	Chapter int      `json:"chapter"`
	Lang    string   `json:"lang"`
}

func (s *Service) handleChapter(w http.ResponseWriter, r *http.Request) {
	book := r.URL.Query().Get("book")
	chapterRaw := r.URL.Query().Get("chapter")
	if book == "" || chapterRaw == "" {
		httputil.WriteError(w, http.StatusBadRequest, "Missing 'book' or 'chapter' parameter")
		return
	}
	chapter, err := strconv.Atoi(chapterRaw)
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "Invalid 'chapter' parameter")
		return
	}
	lang := s.lang(r)

	slug, ok := s.ResolveBook(book, lang)
	if !ok {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Unknown book %q", book))
		return
	}
	if chapter < 1 || chapter > BookChapters[slug] {
		httputil.WriteError(w, http.StatusBadRequest, fmt.Sprintf("Book %q has no chapter %d", slug, chapter))
		return
	}

	// the local corpus wins over the live site when it covers the language
	if corpus, ok := s.corpus.Language(lang); ok {
		if verses, ok := corpus[slug].Verses(chapter); ok {
			httputil.WriteJSON(w, http.StatusOK, chapterResponse{
				Verses: verses, Book: slug, Chapter: chapter, Lang: lang,
			})
			return
		}
	}

	verses, err := s.scrapeVerses(r.Context(), slug, chapter, lang)
	if err != nil {
		slog.ErrorContext(r.Context(), "upstream chapter fetch failed",
			"book", slug, "chapter", chapter, "lang", lang, "err", err)
		httputil.WriteError(w, http.StatusBadGateway, fmt.Sprintf("Upstream fetch failed: %s", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, chapterResponse{
		Verses: verses, Book: slug, Chapter: chapter, Lang: lang,
	})
}

func (s *Service) handleIntro(w http.ResponseWriter, r *http.Request) {
	book := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("book")))
	chapter, _ := strconv.Atoi(r.URL.Query().Get("chapter"))
	lang := s.lang(r)

	// only 1 Nephi 1 carries a subtitle/introduction block
	if book != "1-ne" || chapter != 1 {
		httputil.WriteJSON(w, http.StatusOK, Extras{})
		return
	}

	if corpus, ok := s.corpus.Language(lang); ok {
		if intro, ok := corpus["1-ne"].Intro(1); ok {
			if subtitle, ok := corpus["1-ne"].Subtitle(1); ok {
				httputil.WriteJSON(w, http.StatusOK, Extras{Subtitle: subtitle, Introduction: intro})
				return
			}
			// corpus files written before subtitles were captured only
			// carry the intro, the subtitle still comes from the site
			extras, err := s.scrapeExtras(r.Context(), lang)
			if err != nil {
				slog.WarnContext(r.Context(), "subtitle scrape failed", "lang", lang, "err", err)
				httputil.WriteJSON(w, http.StatusOK, Extras{Introduction: intro})
				return
			}
			httputil.WriteJSON(w, http.StatusOK, Extras{Subtitle: extras.Subtitle, Introduction: intro})
			return
		}
	}

	extras, err := s.scrapeExtras(r.Context(), lang)
	if err != nil {
		// don't fail the chapter page over a scraping hiccup
		slog.WarnContext(r.Context(), "intro scrape failed", "lang", lang, "err", err)
		httputil.WriteJSON(w, http.StatusOK, Extras{})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, extras)
}
