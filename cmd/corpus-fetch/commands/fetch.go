package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vscarantav/parallelscriptures/lib/serviceutil"
	"github.com/vscarantav/parallelscriptures/services/scripture"
)

type language struct {
	Code string `json:"code"`
	Name string `json:"language name"`
}

var (
	fetchLanguages *string
	fetchOutput    *string
	fetchNames     *string
)

func init() {
	fetchLanguages = fetchCmd.Flags().String("languages", "languages.json", "The list of languages to snapshot.")
	fetchOutput = fetchCmd.Flags().String("out", "all_books", "The directory to write corpus files to.")
	fetchNames = fetchCmd.Flags().String("names", "booksnames.json", "The localized book titles file to update.")
	rootCmd.AddCommand(fetchCmd)
}

func readLanguages(path string) ([]language, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var languages []language
	err = json.Unmarshal(raw, &languages)
	return languages, err
}

func writeJSON(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

// updateBookNames folds the freshly fetched titles into the names
// file the server uses for /api/books.
func updateBookNames(path string, lang string, corpus scripture.CorpusLanguage) error {
	names := scripture.LoadBookNames(path)
	if names == nil {
		names = scripture.BookNames{}
	}
	titles := map[string]string{}
	for slug, book := range corpus {
		titles[slug] = book.Meta.Name
	}
	names[lang] = titles
	return writeJSON(path, names)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--languages <languages.json>] [--out <dir>]",
	Short: "Snapshots every listed language into per-language corpus files.",
	Run: func(cmd *cobra.Command, args []string) {
		languages, err := readLanguages(*fetchLanguages)
		if err != nil {
			serviceutil.Fatal("read languages file", err)
		}
		err = os.MkdirAll(*fetchOutput, 0755)
		if err != nil {
			serviceutil.Fatal("create output directory", err)
		}

		service := scripture.NewService(scripture.Options{})

		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Language", "Code", "Books", "Duration"})

		for _, lang := range languages {
			code, ok := scripture.SanitizeLang(lang.Code)
			if !ok {
				fmt.Fprintf(os.Stderr, "skipping unusable language code %q\n", lang.Code)
				continue
			}

			t1 := time.Now()
			corpus := service.FetchLanguage(cmd.Context(), code)
			t2 := time.Now()

			err = writeJSON(filepath.Join(*fetchOutput, code+".json"), corpus)
			if err != nil {
				serviceutil.Fatal("write corpus file", err)
			}
			err = updateBookNames(*fetchNames, code, corpus)
			if err != nil {
				serviceutil.Fatal("update book names file", err)
			}

			t.AppendRow(table.Row{
				lang.Name, code, len(corpus), t2.Sub(t1).Round(time.Second),
			})
		}

		t.Render()
	},
}
