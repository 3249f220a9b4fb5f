// Package content loads, validates and stores flashcard decks.
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound       = errors.New("content not found")
	ErrInvalidContent = errors.New("invalid content")
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks a format from a content type or file name.
func FormatFor(contentTypeOrName string) Format {
	s := strings.ToLower(contentTypeOrName)
	if strings.Contains(s, "yaml") || strings.HasSuffix(s, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// document is the authored schema. Cards may carry the image either as a
// path string or as {path, alt}, with imageAltText alongside.
type document struct {
	Title                      string          `json:"title" yaml:"title"`
	Description                string          `json:"description" yaml:"description"`
	Cards                      []cardDoc       `json:"cards" yaml:"cards"`
	CaseSensitive              bool            `json:"caseSensitive" yaml:"caseSensitive"`
	ShowSolutionsRequiresInput *bool           `json:"showSolutionsRequiresInput" yaml:"showSolutionsRequiresInput"`
	L10n                       flashcards.L10n `json:"l10n" yaml:"l10n"`
}

type cardDoc struct {
	Text         string    `json:"text" yaml:"text"`
	Answer       string    `json:"answer" yaml:"answer"`
	Image        *imageDoc `json:"image" yaml:"image"`
	ImageAltText string    `json:"imageAltText" yaml:"imageAltText"`
	Tip          string    `json:"tip" yaml:"tip"`
}

type imageDoc struct {
	Path string `json:"path" yaml:"path"`
	Alt  string `json:"alt" yaml:"alt"`
}

func (i *imageDoc) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		i.Path = s
		return nil
	}
	type plain imageDoc
	return json.Unmarshal(b, (*plain)(i))
}

func (i *imageDoc) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		i.Path = n.Value
		return nil
	}
	type plain imageDoc
	return n.Decode((*plain)(i))
}

// Parse decodes an authored deck and validates it.
func Parse(data []byte, f Format) (flashcards.Content, error) {
	var doc document
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return flashcards.Content{}, fmt.Errorf("%w: yaml: %v", ErrInvalidContent, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return flashcards.Content{}, fmt.Errorf("%w: json: %v", ErrInvalidContent, err)
		}
	}
	c := doc.content()
	if err := Validate(c); err != nil {
		return flashcards.Content{}, err
	}
	return c, nil
}

func (d document) content() flashcards.Content {
	c := flashcards.Content{
		Title:                      d.Title,
		Description:                d.Description,
		CaseSensitive:              d.CaseSensitive,
		ShowSolutionsRequiresInput: d.ShowSolutionsRequiresInput,
		L10n:                       d.L10n,
		Cards:                      make([]flashcards.Card, 0, len(d.Cards)),
	}
	for _, cd := range d.Cards {
		card := flashcards.Card{Text: cd.Text, Answer: cd.Answer, Tip: cd.Tip}
		if cd.Image != nil && cd.Image.Path != "" {
			alt := cd.Image.Alt
			if alt == "" {
				alt = cd.ImageAltText
			}
			card.Image = &flashcards.Image{Path: cd.Image.Path, AltText: alt}
		}
		c.Cards = append(c.Cards, card)
	}
	return c
}

// Validate rejects decks the quiz cannot run. Missing optional card fields
// are fine.
func Validate(c flashcards.Content) error {
	if len(c.Cards) == 0 {
		return fmt.Errorf("%w: deck has no cards", ErrInvalidContent)
	}
	for i, card := range c.Cards {
		if card.Text == "" && !card.HasImage() {
			return fmt.Errorf("%w: card %d has neither text nor image", ErrInvalidContent, i+1)
		}
		if card.Image != nil && strings.Contains(card.Image.Path, "..") {
			return fmt.Errorf("%w: card %d image path %q", ErrInvalidContent, i+1, card.Image.Path)
		}
	}
	return nil
}
