// Command deckimport loads a deck from a spreadsheet or a JSON/YAML file
// into the content store.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mind-engage/mindengage-flashcards/internal/config"
	"github.com/mind-engage/mindengage-flashcards/internal/content"
	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
	"github.com/mind-engage/mindengage-flashcards/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	var (
		id          = flag.String("id", "", "content id (default: file name without extension)")
		base        = flag.String("blobs", cfg.BlobBasePath, "blob store base path")
		title       = flag.String("title", "", "deck title")
		description = flag.String("description", "", "deck description")
		caseSens    = flag.Bool("case-sensitive", false, "compare answers case-sensitively")
		sheet       = flag.String("sheet", "", "worksheet name (xlsx only)")
		noHeader    = flag.Bool("no-header", false, "first row holds a card, not column titles")
		cols        = flag.String("columns", "A,B,C,D,E", "columns for text,answer,image,alt text,tip")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] deck.(xlsx|csv|json|yaml)\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)
	if *id == "" {
		*id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	c, err := load(path, *cols, *sheet, !*noHeader)
	if err != nil {
		log.Fatalf("%s: %v", path, err)
	}
	if *title != "" {
		c.Title = *title
	}
	if *description != "" {
		c.Description = *description
	}
	if *caseSens {
		c.CaseSensitive = true
	}
	if c.Title == "" {
		c.Title = *id
	}

	bs, err := storage.NewFSStore(*base)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}
	store := content.NewStore(bs)
	if err := store.Put(*id, c); err != nil {
		log.Fatalf("store: %v", err)
	}
	loc, _ := store.Location(*id)
	log.Printf("stored %d card(s) as %q at %s", len(c.Cards), *id, loc)
}

func load(path, cols, sheet string, header bool) (flashcards.Content, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return flashcards.Content{}, err
		}
		return content.Parse(data, content.FormatFor(path))
	}

	cfg := content.DefaultImportConfig()
	cfg.SheetName = sheet
	cfg.SkipHeader = header
	letters := strings.Split(cols, ",")
	for i, dst := range []*string{&cfg.TextColumn, &cfg.AnswerColumn, &cfg.ImageColumn, &cfg.AltTextColumn, &cfg.TipColumn} {
		*dst = ""
		if i < len(letters) {
			*dst = strings.TrimSpace(letters[i])
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return flashcards.Content{}, err
	}
	defer f.Close()
	res, err := content.ImportCards(path, f, cfg)
	if err != nil {
		return flashcards.Content{}, err
	}
	for _, e := range res.Errors {
		log.Printf("warning: %s", e)
	}
	log.Printf("read %d row(s), skipped %d", res.Read, res.Skipped)
	return flashcards.Content{Cards: res.Cards}, nil
}
