// Package impex imports and exports the word database as tabular
// (native_word, learned_word, notes, dictionary_name) rows, in CSV or
// XLSX form.
package impex

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/powerlang/internal/database"
	"github.com/xuri/excelize/v2"
)

// header is the canonical column order of the exchange format.
var header = []string{"native_word", "learned_word", "notes", "dictionary_name"}

const sheetName = "Sheet1"

// Export writes every word to the given file, picking the format from
// the extension (.xlsx for Excel, anything else is CSV). It returns
// the number of exported words.
func Export(path string) (int, error) {
	rows, err := database.NewWordRepository().GetAllForExport()
	if err != nil {
		return 0, err
	}

	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return len(rows), exportXLSX(path, rows)
	}
	return len(rows), exportCSV(path, rows)
}

func exportCSV(path string, rows []database.ExportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write([]string{r.NativeWord, r.LearnedWord, r.Notes, r.DictionaryName}); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush export: %w", err)
	}
	return nil
}

func exportXLSX(path string, rows []database.ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, h := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, h)
	}
	for n, r := range rows {
		values := []string{r.NativeWord, r.LearnedWord, r.Notes, r.DictionaryName}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, n+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func openWorkbook(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return f, nil
}
