package scripture

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFetchChapterWord(t *testing.T) {
	service := newTestService(t, chapterHandler("/1-ne/1", chapterPage))
	require.Equal(t, "Chapter", service.FetchChapterWord(context.Background(), "eng"))

	localized := newTestService(t, chapterHandler("/1-ne/1",
		`<html><body><p class="title-number">Capítulo 1</p></body></html>`))
	require.Equal(t, "Capítulo", localized.FetchChapterWord(context.Background(), "por"))

	// unreachable pages fall back to the english word
	unavailable := newTestService(t, http.NotFoundHandler())
	require.Equal(t, "Chapter", unavailable.FetchChapterWord(context.Background(), "xx"))
}

func TestFetchBookName(t *testing.T) {
	service := newTestService(t, chapterHandler("/1-ne/1", chapterPage))
	require.Equal(t, "First Book of Nephi 1",
		service.FetchBookName(context.Background(), "1-ne", "eng"))

	unavailable := newTestService(t, http.NotFoundHandler())
	require.Equal(t, "moro", unavailable.FetchBookName(context.Background(), "moro", "xx"))
}

func TestFetchChapterContent(t *testing.T) {
	service := newTestService(t, chapterHandler("/1-ne/1", chapterPage))

	content, err := service.FetchChapterContent(context.Background(), "1-ne", 1, "eng")
	require.NoError(t, err)

	expected := map[string]string{
		"intro": "An account of Lehi and his wife Sariah.",
		"1":     "I, Nephi, having been born of goodly parents, was taught somewhat.",
		"2":     "Yea, I make a record of my proceedings.",
	}
	if diff := cmp.Diff(expected, content); diff != "" {
		t.Fatalf("content mismatch (-want +got):\n%s", diff)
	}
}

func TestFetchChapterContentCapturesSubtitle(t *testing.T) {
	service := newTestService(t, chapterHandler("/1-ne/1", `<html><body>
<p class="subtitle">Another Testament of Jesus Christ</p>
<p class="intro">An account of Lehi.</p>
<p class="verse"><span class="verse-number">1</span>I, Nephi.</p>
</body></html>`))

	content, err := service.FetchChapterContent(context.Background(), "1-ne", 1, "eng")
	require.NoError(t, err)
	require.Equal(t, "Another Testament of Jesus Christ", content["subtitle"])
	require.Equal(t, "An account of Lehi.", content["intro"])
	require.Equal(t, "I, Nephi.", content["1"])
}
