package scripture

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveBook(t *testing.T) {
	service := NewService(Options{})
	service.names = BookNames{
		"eng": {
			"1-ne":   "1 Nephi",
			"w-of-m": "Words of Mormon",
			"hel":    "Helaman",
		},
	}

	testCases := []struct {
		query    string
		expected string
		ok       bool
	}{
		// canonical slugs pass straight through
		{query: "1-ne", expected: "1-ne", ok: true},
		{query: "W-OF-M", expected: "w-of-m", ok: true},
		// localized names, with typos and case noise
		{query: "1 nephi", expected: "1-ne", ok: true},
		{query: "1 nefi", expected: "1-ne", ok: true},
		{query: "words of  mormon", expected: "w-of-m", ok: true},
		{query: "helaman", expected: "hel", ok: true},
		{query: "helamann", expected: "hel", ok: true},
		// nothing close enough
		{query: "genesis", ok: false},
		{query: "zzzzzz", ok: false},
	}

	for _, c := range testCases {
		got, ok := service.ResolveBook(c.query, "eng")
		require.Equal(t, c.ok, ok, c.query)
		if c.ok {
			require.Equal(t, c.expected, got, c.query)
		}
	}
}

func TestResolveBookWithoutNames(t *testing.T) {
	service := NewService(Options{})

	// slugs still resolve when no localized names are loaded
	got, ok := service.ResolveBook("moro", "xx")
	require.True(t, ok)
	require.Equal(t, "moro", got)

	got, ok = service.ResolveBook("mosiah", "xx")
	require.True(t, ok)
	require.Equal(t, "mosiah", got)
}
