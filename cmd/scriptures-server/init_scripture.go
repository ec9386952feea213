package main

import (
	"net/http"

	"github.com/vscarantav/parallelscriptures/services/scripture"
)

type ScriptureConfig struct {
	// BaseURL overrides the upstream scripture site, used in testing.
	BaseURL string `json:"base_url"`
	// BooksNamesFile holds localized book titles per language.
	BooksNamesFile string `json:"books_names_file"`
	// CorpusDir holds pre-fetched per-language corpus files. Chapters
	// found there are served without touching the upstream site.
	CorpusDir   string `json:"corpus_dir"`
	DefaultLang string `json:"default_lang"`
}

func InitScripture(mux *http.ServeMux, cfg ScriptureConfig) error {
	service := scripture.NewService(scripture.Options{
		BaseURL:        cfg.BaseURL,
		BooksNamesFile: cfg.BooksNamesFile,
		CorpusDir:      cfg.CorpusDir,
		DefaultLang:    cfg.DefaultLang,
	})
	service.RegisterRoutes(mux)
	return nil
}
