package scripture

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// corpus files are written by cmd/corpus-fetch, one per language:
// all_books/<lang>.json

type CorpusBookMeta struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	ChapterWord string `json:"chapterWord"`
}

type CorpusBook struct {
	Meta CorpusBookMeta `json:"meta"`
	// chapter number -> verse number -> text, plus optional "intro"
	// and "subtitle" keys alongside the verse numbers
	Chapters map[string]map[string]string `json:"chapters"`
}

type CorpusLanguage map[string]CorpusBook

type corpusCache struct {
	dir   string
	cache *expirable.LRU[string, CorpusLanguage]
}

func newCorpusCache(dir string, ttl time.Duration) *corpusCache {
	return &corpusCache{
		dir:   dir,
		cache: expirable.NewLRU[string, CorpusLanguage](64, nil, ttl),
	}
}

// Language loads the corpus file for a (sanitized) language code.
// A missing file is not an error, the caller falls back to scraping.
func (c *corpusCache) Language(lang string) (CorpusLanguage, bool) {
	if c.dir == "" {
		return nil, false
	}
	cached, hit := c.cache.Get(lang)
	if hit {
		return cached, cached != nil
	}

	raw, err := os.ReadFile(filepath.Join(c.dir, lang+".json"))
	if err != nil {
		c.cache.Add(lang, nil)
		return nil, false
	}
	var corpus CorpusLanguage
	err = json.Unmarshal(raw, &corpus)
	if err != nil {
		c.cache.Add(lang, nil)
		return nil, false
	}

	c.cache.Add(lang, corpus)
	return corpus, true
}

// Verses returns chapter verses from the corpus in "N text" form,
// ordered by verse number, skipping the intro entry.
func (b CorpusBook) Verses(chapter int) ([]string, bool) {
	verses, ok := b.Chapters[strconv.Itoa(chapter)]
	if !ok || len(verses) == 0 {
		return nil, false
	}

	nums := make([]int, 0, len(verses))
	for k := range verses {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	if len(nums) == 0 {
		return nil, false
	}
	sort.Ints(nums)

	out := make([]string, 0, len(nums))
	for _, n := range nums {
		text := verses[strconv.Itoa(n)]
		if n == 0 {
			out = append(out, strings.TrimSpace(text))
			continue
		}
		out = append(out, strings.TrimSpace(strconv.Itoa(n)+" "+text))
	}
	return out, true
}

// Intro returns the chapter's introduction paragraphs, if the corpus
// carries them.
func (b CorpusBook) Intro(chapter int) (string, bool) {
	verses, ok := b.Chapters[strconv.Itoa(chapter)]
	if !ok {
		return "", false
	}
	intro, ok := verses["intro"]
	return intro, ok && intro != ""
}

// Subtitle returns the book subtitle stored alongside the chapter's
// verses, if the corpus carries it.
func (b CorpusBook) Subtitle(chapter int) (string, bool) {
	verses, ok := b.Chapters[strconv.Itoa(chapter)]
	if !ok {
		return "", false
	}
	subtitle, ok := verses["subtitle"]
	return subtitle, ok && subtitle != ""
}

// SanitizeLang reduces a client-provided language code to a safe file
// path component. Returns false when nothing usable remains.
func SanitizeLang(lang string) (string, bool) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	var b strings.Builder
	for _, c := range lang {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' {
			b.WriteRune(c)
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" || len(out) > 16 {
		return "", false
	}
	return out, true
}
