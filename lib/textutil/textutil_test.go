package textutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCleanSpaces(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		{
			text:     "  And it came to pass  ",
			expected: "And it came to pass",
		},
		{
			text:     "1 Néphi",
			expected: "1 Néphi",
		},
		{
			text:     "CapítuloÂ 1",
			expected: "Capítulo 1",
		},
		{
			text:     "a\n\t b",
			expected: "a b",
		},
		{
			text:     "",
			expected: "",
		},
	}

	for _, c := range testCases {
		got := CleanSpaces(c.text)
		if diff := cmp.Diff(c.expected, got); diff != "" {
			t.Fatalf("CleanSpaces(%q) mismatch (-want +got):\n%s", c.text, diff)
		}
	}
}

func TestDemojibake(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		// utf-8 read as latin-1
		{
			text:     "CapÃ­tulo",
			expected: "Capítulo",
		},
		{
			text:     "KÃ¶nig Ã¼ber GlÃ¤ubige",
			expected: "König über Gläubige",
		},
		// clean text must pass through untouched
		{
			text:     "1 Néphi",
			expected: "1 Néphi",
		},
		{
			text:     "Ãngelo", // 'Ã' followed by plain ascii is legitimate
			expected: "Ãngelo",
		},
		{
			text:     "",
			expected: "",
		},
	}

	for _, c := range testCases {
		got := Demojibake(c.text)
		if diff := cmp.Diff(c.expected, got); diff != "" {
			t.Fatalf("Demojibake(%q) mismatch (-want +got):\n%s", c.text, diff)
		}
	}
}

func TestStripTrailingNumber(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		{
			text:     "1 Nephi 1",
			expected: "1 Nephi",
		},
		{
			text:     "Alma",
			expected: "Alma",
		},
		{
			text:     "3 Nephi",
			expected: "3 Nephi",
		},
		{
			text:     "",
			expected: "",
		},
	}

	for _, c := range testCases {
		got := StripTrailingNumber(c.text)
		if diff := cmp.Diff(c.expected, got); diff != "" {
			t.Fatalf("StripTrailingNumber(%q) mismatch (-want +got):\n%s", c.text, diff)
		}
	}
}

func TestStripChapterHeading(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		{
			text:     "Chapter 1 The First Book of Nephi",
			expected: "The First Book of Nephi",
		},
		{
			text:     "Capítulo 3 Alma",
			expected: "Alma",
		},
		// synopsis after a dash is dropped
		{
			text:     "Alma — Nephi prophesies of many things",
			expected: "Alma",
		},
		{
			text:     "Kapitel 12 Ether – synopsis text here",
			expected: "Ether",
		},
		// no heading, nothing happens
		{
			text:     "Words of Mormon",
			expected: "Words of Mormon",
		},
	}

	for _, c := range testCases {
		got := StripChapterHeading(c.text)
		if diff := cmp.Diff(c.expected, got); diff != "" {
			t.Fatalf("StripChapterHeading(%q) mismatch (-want +got):\n%s", c.text, diff)
		}
	}
}

func TestFixPunctuationSpacing(t *testing.T) {
	testCases := []struct {
		text     string
		expected string
	}{
		{
			text:     "wherefore , I make a record ; yea .",
			expected: "wherefore, I make a record; yea.",
		},
		{
			text:     "goodness of God †",
			expected: "goodness of God†",
		},
		{
			text:     "no change here.",
			expected: "no change here.",
		},
	}

	for _, c := range testCases {
		got := FixPunctuationSpacing(c.text)
		if diff := cmp.Diff(c.expected, got); diff != "" {
			t.Fatalf("FixPunctuationSpacing(%q) mismatch (-want +got):\n%s", c.text, diff)
		}
	}
}
