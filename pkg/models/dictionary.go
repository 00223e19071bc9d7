package models

// Dictionary represents a named collection of words, unique by name
type Dictionary struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
