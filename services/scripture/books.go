package scripture

// canonical Book of Mormon book slugs, in reading order
var BookSlugs = []string{
	"1-ne", "2-ne", "jacob", "enos", "jarom", "omni",
	"w-of-m", "mosiah", "alma", "hel", "3-ne", "4-ne", "morm", "ether", "moro",
}

var BookChapters = map[string]int{
	"1-ne": 22, "2-ne": 33, "jacob": 7, "enos": 1, "jarom": 1, "omni": 1,
	"w-of-m": 1, "mosiah": 29, "alma": 63, "hel": 16, "3-ne": 30, "4-ne": 1,
	"morm": 9, "ether": 15, "moro": 10,
}

func IsBookSlug(s string) bool {
	_, ok := BookChapters[s]
	return ok
}

// Book is one entry of the /api/books response.
type Book struct {
	Abbr     string `json:"abbr"`
	Name     string `json:"name"`
	Chapters int    `json:"chapters"`
}
