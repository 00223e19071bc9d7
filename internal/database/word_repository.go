package database

import (
	"fmt"
	"time"

	"github.com/example/powerlang/pkg/models"
)

// WordRepository handles database operations for words
type WordRepository struct{}

// NewWordRepository creates a new repository instance
func NewWordRepository() *WordRepository {
	return &WordRepository{}
}

const wordColumns = `id, native_word, learned_word, notes, dictionary_id, easiness, "interval", next_review_date`

// GetByDictionary returns the words of one dictionary ordered by
// native word.
func (r *WordRepository) GetByDictionary(dictionaryID int64) ([]models.Word, error) {
	var words []models.Word
	query := rebind("SELECT " + wordColumns + " FROM words WHERE dictionary_id = ? ORDER BY native_word")
	if err := DB.Select(&words, query, dictionaryID); err != nil {
		return nil, fmt.Errorf("failed to get words by dictionary: %w", err)
	}
	return words, nil
}

// GetByID returns a word by ID
func (r *WordRepository) GetByID(id int64) (*models.Word, error) {
	var word models.Word
	query := rebind("SELECT " + wordColumns + " FROM words WHERE id = ?")
	if err := DB.Get(&word, query, id); err != nil {
		return nil, fmt.Errorf("failed to get word by ID: %w", err)
	}
	return &word, nil
}

// Create inserts a new word with default SRS state: easiness 2.5,
// interval 1, due today.
func (r *WordRepository) Create(word *models.Word) error {
	word.Easiness = models.DefaultEasiness
	word.Interval = models.DefaultInterval
	word.NextReviewDate = time.Now().Format(models.DateFormat)

	if DB.DriverName() == "postgres" {
		err := DB.QueryRow(`
			INSERT INTO words (native_word, learned_word, notes, dictionary_id, easiness, "interval", next_review_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`,
			word.NativeWord,
			word.LearnedWord,
			word.Notes,
			word.DictionaryID,
			word.Easiness,
			word.Interval,
			word.NextReviewDate,
		).Scan(&word.ID)
		if err != nil {
			return fmt.Errorf("failed to create word: %w", err)
		}
		return nil
	}

	result, err := DB.Exec(`
		INSERT INTO words (native_word, learned_word, notes, dictionary_id, easiness, "interval", next_review_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		word.NativeWord,
		word.LearnedWord,
		word.Notes,
		word.DictionaryID,
		word.Easiness,
		word.Interval,
		word.NextReviewDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create word: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	word.ID = id
	return nil
}

// Update modifies the editable fields of a word. SRS state is not
// touched here; that belongs to UpdateSRS.
func (r *WordRepository) Update(word *models.Word) error {
	query := rebind("UPDATE words SET native_word = ?, learned_word = ?, notes = ? WHERE id = ?")
	_, err := DB.Exec(query, word.NativeWord, word.LearnedWord, word.Notes, word.ID)
	if err != nil {
		return fmt.Errorf("failed to update word: %w", err)
	}
	return nil
}

// Delete removes a word
func (r *WordRepository) Delete(id int64) error {
	if _, err := DB.Exec(rebind("DELETE FROM words WHERE id = ?"), id); err != nil {
		return fmt.Errorf("failed to delete word: %w", err)
	}
	return nil
}

// UpdateSRS persists the scheduler's output for one word.
func (r *WordRepository) UpdateSRS(wordID int64, easiness float64, interval int, nextReview time.Time) error {
	query := rebind(`UPDATE words SET easiness = ?, "interval" = ?, next_review_date = ? WHERE id = ?`)
	_, err := DB.Exec(query, easiness, interval, nextReview.Format(models.DateFormat), wordID)
	if err != nil {
		return fmt.Errorf("failed to update SRS state: %w", err)
	}
	return nil
}

// GetDueWords returns every word whose review date has passed, in
// random order. The shuffle happens at selection time so each session
// sees its own ordering.
func (r *WordRepository) GetDueWords(today time.Time) ([]models.Word, error) {
	var words []models.Word
	query := rebind("SELECT " + wordColumns + " FROM words WHERE next_review_date <= ? ORDER BY RANDOM()")
	if err := DB.Select(&words, query, today.Format(models.DateFormat)); err != nil {
		return nil, fmt.Errorf("failed to get due words: %w", err)
	}
	return words, nil
}

// CountDue returns how many words are due on or before today.
func (r *WordRepository) CountDue(today time.Time) (int, error) {
	var count int
	query := rebind("SELECT COUNT(*) FROM words WHERE next_review_date <= ?")
	if err := DB.Get(&count, query, today.Format(models.DateFormat)); err != nil {
		return 0, fmt.Errorf("failed to count due words: %w", err)
	}
	return count, nil
}

// GetRandomWords returns up to count random words across all
// dictionaries.
func (r *WordRepository) GetRandomWords(count int) ([]models.Word, error) {
	var words []models.Word
	query := rebind("SELECT " + wordColumns + " FROM words ORDER BY RANDOM() LIMIT ?")
	if err := DB.Select(&words, query, count); err != nil {
		return nil, fmt.Errorf("failed to get random words: %w", err)
	}
	return words, nil
}

// ExportRow is one row of the tabular export format.
type ExportRow struct {
	NativeWord     string `db:"native_word"`
	LearnedWord    string `db:"learned_word"`
	Notes          string `db:"notes"`
	DictionaryName string `db:"dictionary_name"`
}

// GetAllForExport returns every word joined with its dictionary name,
// ordered by dictionary then native word.
func (r *WordRepository) GetAllForExport() ([]ExportRow, error) {
	var rows []ExportRow
	err := DB.Select(&rows, `
		SELECT w.native_word, w.learned_word, w.notes, d.name AS dictionary_name
		FROM words w
		JOIN dictionaries d ON w.dictionary_id = d.id
		ORDER BY d.name, w.native_word
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get words for export: %w", err)
	}
	return rows, nil
}
