// Package docsource loads raw documents for ingestion: institution PDFs read
// page by page, plus the built-in static manual split into titled sections.
package docsource

import (
	_ "embed"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/phuslu/log"

	"polyi/internal/model"
	"polyi/internal/pkg/pdfextract"
)

//go:embed static_manual_ko.txt
var staticManual string

var sectionTitleRe = regexp.MustCompile(`^\d+#`)

// StaticManual returns the full built-in manual text. Used as the last-resort
// corpus when nothing else yields chunks.
func StaticManual() string { return staticManual }

// StaticSections splits the built-in manual into one document per titled
// section. A line starting with "#" (or "<n>#") opens a new section and
// becomes its title.
func StaticSections() []model.Document {
	return SplitSections(staticManual)
}

// SplitSections splits manual-style text on title lines into documents tagged
// with the static origin and 1-based section numbers.
func SplitSections(text string) []model.Document {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var docs []model.Document
	currentTitle := model.StaticFile
	var currentLines []string

	flush := func() {
		body := strings.TrimSpace(strings.Join(currentLines, "\n"))
		if body == "" {
			return
		}
		docs = append(docs, model.Document{
			Text:    body,
			File:    model.StaticFile,
			Page:    len(docs) + 1,
			Section: currentTitle,
		})
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped != "" && (strings.HasPrefix(stripped, "#") || sectionTitleRe.MatchString(stripped)) {
			flush()
			currentLines = nil
			currentTitle = stripped
		}
		currentLines = append(currentLines, line)
	}
	flush()
	return docs
}

// LoadPDFDir extracts one document per page from every .pdf file in dir,
// sorted by file name. A missing directory or an unreadable file is logged
// and skipped, never fatal; ingestion degrades to whatever else is available.
func LoadPDFDir(dir string) []model.Document {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("pdf directory not readable, skipping")
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var docs []model.Document
	for _, name := range names {
		path := filepath.Join(dir, name)
		f, err := os.Open(path)
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("open pdf failed, skipping")
			continue
		}
		pages, err := pdfextract.ExtractPages(f)
		f.Close()
		if err != nil {
			log.Warn().Err(err).Str("file", name).Msg("extract pdf text failed, skipping")
			continue
		}
		pageCount := 0
		for i, page := range pages {
			page = strings.TrimSpace(strings.ReplaceAll(page, "\x00", " "))
			if page == "" {
				continue
			}
			docs = append(docs, model.Document{
				Text: page,
				File: name,
				Page: i + 1,
			})
			pageCount++
		}
		log.Info().Str("file", name).Int("pages", pageCount).Msg("pdf loaded")
	}
	return docs
}

// LoadAll returns the full ingestion corpus: PDF pages from dir followed by
// the static manual sections.
func LoadAll(pdfDir string) []model.Document {
	docs := LoadPDFDir(pdfDir)
	return append(docs, StaticSections()...)
}
