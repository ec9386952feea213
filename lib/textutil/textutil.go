package textutil

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var innerWhitespace = regexp.MustCompile(`\s+`)

// CleanSpaces normalizes NBSP/thin-space to plain spaces, strips the
// stray 'Â' that latin-1 mojibake leaves behind, and collapses runs
// of whitespace.
func CleanSpaces(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = strings.ReplaceAll(s, "\u202F", " ")
	s = strings.ReplaceAll(s, "\u00C2", "")
	return strings.TrimSpace(innerWhitespace.ReplaceAllString(s, " "))
}

// Demojibake fixes 'Ã¼/Ã¤/Ã¶/ÃŸ' style text that was UTF-8 bytes
// mistakenly decoded as latin-1. It only rewrites the string when the
// telltale 'Ã'/'Â' pattern is present.
func Demojibake(s string) string {
	if !looksMojibake(s) {
		return s
	}

	// re-encode as latin-1, dropping runes outside its range
	raw := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0xFF {
			continue
		}
		raw = append(raw, byte(r))
	}

	// decode as UTF-8, dropping invalid sequences
	var out strings.Builder
	for len(raw) > 0 {
		r, size := utf8.DecodeRune(raw)
		if r == utf8.RuneError && size == 1 {
			raw = raw[1:]
			continue
		}
		out.WriteRune(r)
		raw = raw[size:]
	}
	return out.String()
}

func looksMojibake(s string) bool {
	runes := []rune(s)
	for i := 0; i+1 < len(runes); i++ {
		if (runes[i] == 'Ã' || runes[i] == 'Â') &&
			runes[i+1] >= 0x80 && runes[i+1] <= 0xBF {
			return true
		}
	}
	return false
}

// StripTrailingNumber drops a final bare integer token. Some locales
// leak a lonely chapter number after the book title.
func StripTrailingNumber(s string) string {
	parts := strings.Fields(s)
	if len(parts) > 0 && isDigits(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	return strings.Join(parts, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// localized words meaning "Chapter", for stripping leading
// "Chapter 1 " sequences leaked into titles
var chapterWords = []string{
	// English & Romance
	"chapter", "capítulo", "capitulo", "chapitre", "capitolo", "capítol",
	// Germanic / Nordic
	"kapitel", "kapittel", "hoofstuk", "hoofdstuk",
	// Slavic (romanized) and Cyrillic
	"glava", "глава", "глава́", "раздел",
	// Misc variants
	"cap",
}

var synopsisDash = regexp.MustCompile(`\s+[—–-]\s+`)
var chapterHeading *regexp.Regexp

func init() {
	escaped := make([]string, len(chapterWords))
	for i, w := range chapterWords {
		escaped[i] = regexp.QuoteMeta(w)
	}
	chapterHeading = regexp.MustCompile(`(?i)^(?:` + strings.Join(escaped, "|") + `)\s*\d+\s+`)
}

// StripChapterHeading removes a leading "Chapter 1 " / "Capítulo 1 "
// prefix when a page puts the chapter heading where the book title is
// expected, and drops any synopsis following an em/en dash.
func StripChapterHeading(s string) string {
	t := CleanSpaces(s)
	t = synopsisDash.Split(t, 2)[0]
	t = chapterHeading.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

var spaceBeforePunct = regexp.MustCompile(`\s+([,.;:!?…)\]}”’†])`)

// FixPunctuationSpacing removes spaces that precede punctuation,
// a side effect of stripping inline footnote markup out of verses.
func FixPunctuationSpacing(s string) string {
	return spaceBeforePunct.ReplaceAllString(s, "$1")
}
