package impex

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/powerlang/internal/database"
	"github.com/example/powerlang/pkg/models"
)

// Result holds the outcome of an import. Malformed rows never abort
// the run; they are reported here while the rest of the file goes
// through.
type Result struct {
	Imported            int
	DictionariesCreated int
	Errors              []string
}

// Import reads words from the given file, picking the format from the
// extension (.xlsx for Excel, anything else is CSV). Dictionaries are
// matched by name and created when missing, so re-importing an export
// merges into existing dictionaries instead of duplicating them.
func Import(path string) (*Result, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return importXLSX(path)
	}
	return importCSV(path)
}

func importCSV(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// Header row.
	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return &Result{}, nil
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	imp := newImporter()
	rowNum := 1
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		imp.addRow(rowNum, row)
	}

	return imp.result, nil
}

func importXLSX(path string) (*Result, error) {
	f, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	imp := newImporter()
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		imp.addRow(i+1, row)
	}

	return imp.result, nil
}

// importer carries the per-run dictionary cache so each name is looked
// up or created only once.
type importer struct {
	dictRepo *database.DictionaryRepository
	wordRepo *database.WordRepository
	dicts    map[string]int64
	result   *Result
}

func newImporter() *importer {
	return &importer{
		dictRepo: database.NewDictionaryRepository(),
		wordRepo: database.NewWordRepository(),
		dicts:    map[string]int64{},
		result:   &Result{},
	}
}

// addRow imports one (native, learned, notes, dictionary) row. Any
// problem is recorded against the row and the import moves on.
func (imp *importer) addRow(rowNum int, row []string) {
	if len(row) < 4 {
		imp.result.Errors = append(imp.result.Errors,
			fmt.Sprintf("row %d: expected 4 fields, got %d: %v", rowNum, len(row), row))
		return
	}

	native, learned, notes, dictName := row[0], row[1], row[2], row[3]
	if strings.TrimSpace(native) == "" || strings.TrimSpace(learned) == "" || strings.TrimSpace(dictName) == "" {
		imp.result.Errors = append(imp.result.Errors,
			fmt.Sprintf("row %d: empty required field: %v", rowNum, row))
		return
	}

	dictID, ok := imp.dicts[dictName]
	if !ok {
		existing, err := imp.dictRepo.GetByName(dictName)
		if err != nil {
			imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			return
		}
		if existing != nil {
			dictID = existing.ID
		} else {
			dict := &models.Dictionary{Name: dictName}
			if err := imp.dictRepo.Create(dict); err != nil {
				imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
				return
			}
			dictID = dict.ID
			imp.result.DictionariesCreated++
		}
		imp.dicts[dictName] = dictID
	}

	word := &models.Word{
		NativeWord:   native,
		LearnedWord:  learned,
		Notes:        notes,
		DictionaryID: dictID,
	}
	if err := imp.wordRepo.Create(word); err != nil {
		imp.result.Errors = append(imp.result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		return
	}
	imp.result.Imported++
}
