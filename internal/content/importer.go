package content

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mind-engage/mindengage-flashcards/internal/flashcards"
	"github.com/xuri/excelize/v2"
)

// ImportConfig maps spreadsheet columns to card fields. Columns are
// letters as in a spreadsheet ("A", "B", ...); an empty column is unused.
type ImportConfig struct {
	TextColumn    string
	AnswerColumn  string
	ImageColumn   string
	AltTextColumn string
	TipColumn     string
	SheetName     string // xlsx only; empty means the first sheet
	SkipHeader    bool
}

func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TextColumn:    "A",
		AnswerColumn:  "B",
		ImageColumn:   "C",
		AltTextColumn: "D",
		TipColumn:     "E",
		SkipHeader:    true,
	}
}

// ImportResult reports what an import produced.
type ImportResult struct {
	Cards   []flashcards.Card `json:"-"`
	Read    int               `json:"read"`
	Skipped int               `json:"skipped"`
	Errors  []string          `json:"errors,omitempty"`
}

// ImportCards reads cards from an .xlsx or .csv stream; name decides the
// format.
func ImportCards(name string, r io.Reader, cfg ImportConfig) (*ImportResult, error) {
	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		rows, err = csvRows(r)
	case ".xlsx", ".xlsm":
		rows, err = excelRows(r, cfg.SheetName)
	default:
		return nil, fmt.Errorf("%w: unsupported spreadsheet %q", ErrInvalidContent, name)
	}
	if err != nil {
		return nil, err
	}
	return rowsToCards(rows, cfg)
}

func excelRows(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrInvalidContent, err)
	}
	defer f.Close()
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidContent)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrInvalidContent, sheet, err)
	}
	return rows, nil
}

func csvRows(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: csv: %v", ErrInvalidContent, err)
	}
	return rows, nil
}

func rowsToCards(rows [][]string, cfg ImportConfig) (*ImportResult, error) {
	cols := map[string]int{}
	for field, letter := range map[string]string{
		"text": cfg.TextColumn, "answer": cfg.AnswerColumn, "image": cfg.ImageColumn,
		"alt": cfg.AltTextColumn, "tip": cfg.TipColumn,
	} {
		if letter == "" {
			cols[field] = -1
			continue
		}
		n, err := excelize.ColumnNameToNumber(letter)
		if err != nil {
			return nil, fmt.Errorf("column for %s: %w", field, err)
		}
		cols[field] = n - 1
	}
	cell := func(row []string, field string) string {
		i := cols[field]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	res := &ImportResult{}
	for i, row := range rows {
		if i == 0 && cfg.SkipHeader {
			continue
		}
		res.Read++
		card := flashcards.Card{
			Text:   cell(row, "text"),
			Answer: cell(row, "answer"),
			Tip:    cell(row, "tip"),
		}
		if p := cell(row, "image"); p != "" {
			card.Image = &flashcards.Image{Path: p, AltText: cell(row, "alt")}
		}
		if card.Text == "" && card.Image == nil {
			if card.Answer != "" || card.Tip != "" {
				res.Errors = append(res.Errors, fmt.Sprintf("row %d: no question text or image", i+1))
			}
			res.Skipped++
			continue
		}
		res.Cards = append(res.Cards, card)
	}
	if len(res.Cards) == 0 {
		return res, fmt.Errorf("%w: no cards found", ErrInvalidContent)
	}
	return res, nil
}
