package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/powerlang/pkg/models"
)

// ErrDuplicateName is returned when creating a dictionary whose name
// is already taken.
var ErrDuplicateName = errors.New("dictionary name already exists")

// DictionaryRepository handles database operations for dictionaries
type DictionaryRepository struct{}

// NewDictionaryRepository creates a new repository instance
func NewDictionaryRepository() *DictionaryRepository {
	return &DictionaryRepository{}
}

// GetAll returns all dictionaries ordered by name
func (r *DictionaryRepository) GetAll() ([]models.Dictionary, error) {
	var dicts []models.Dictionary
	err := DB.Select(&dicts, "SELECT id, name FROM dictionaries ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to get dictionaries: %w", err)
	}
	return dicts, nil
}

// GetByID returns a dictionary by ID
func (r *DictionaryRepository) GetByID(id int64) (*models.Dictionary, error) {
	var dict models.Dictionary
	err := DB.Get(&dict, rebind("SELECT id, name FROM dictionaries WHERE id = ?"), id)
	if err != nil {
		return nil, fmt.Errorf("failed to get dictionary by ID: %w", err)
	}
	return &dict, nil
}

// GetByName returns a dictionary by its unique name, or nil if absent
func (r *DictionaryRepository) GetByName(name string) (*models.Dictionary, error) {
	var dicts []models.Dictionary
	err := DB.Select(&dicts, rebind("SELECT id, name FROM dictionaries WHERE name = ?"), name)
	if err != nil {
		return nil, fmt.Errorf("failed to get dictionary by name: %w", err)
	}
	if len(dicts) == 0 {
		return nil, nil
	}
	return &dicts[0], nil
}

// Create inserts a new dictionary. A duplicate name is rejected with
// ErrDuplicateName.
func (r *DictionaryRepository) Create(dict *models.Dictionary) error {
	if DB.DriverName() == "postgres" {
		err := DB.QueryRow(
			"INSERT INTO dictionaries (name) VALUES ($1) RETURNING id",
			dict.Name,
		).Scan(&dict.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateName
			}
			return fmt.Errorf("failed to create dictionary: %w", err)
		}
		return nil
	}

	result, err := DB.Exec("INSERT INTO dictionaries (name) VALUES (?)", dict.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateName
		}
		return fmt.Errorf("failed to create dictionary: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}
	dict.ID = id
	return nil
}

// GetOrCreate returns the dictionary with the given name, creating it
// first if it doesn't exist yet.
func (r *DictionaryRepository) GetOrCreate(name string) (*models.Dictionary, error) {
	dict, err := r.GetByName(name)
	if err != nil {
		return nil, err
	}
	if dict != nil {
		return dict, nil
	}
	dict = &models.Dictionary{Name: name}
	if err := r.Create(dict); err != nil {
		if errors.Is(err, ErrDuplicateName) {
			return r.GetByName(name)
		}
		return nil, err
	}
	return dict, nil
}

// Delete removes a dictionary and all words it contains. Words are
// deleted first, in the same transaction, to preserve referential
// integrity.
func (r *DictionaryRepository) Delete(id int64) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	if _, err := tx.Exec(rebind("DELETE FROM words WHERE dictionary_id = ?"), id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete words: %w", err)
	}

	if _, err := tx.Exec(rebind("DELETE FROM dictionaries WHERE id = ?"), id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete dictionary: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique constraint error
// from either backend.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}
