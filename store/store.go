// Package store is the persistence layer for posts and users. All writes are
// atomic per call; storage failures are mapped to the sentinel errors below so
// callers never see driver-specific messages.
package store

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound signals that the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername signals a username uniqueness violation.
	ErrDuplicateUsername = errors.New("username already exists")
)

// Store wraps a gorm connection with the operations the services need.
type Store struct {
	db *gorm.DB
}

// New creates a Store backed by the given connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// forUpdate adds a row lock so concurrent writes to the same record are
// serialized. SQLite has no row locks; its single-writer model already
// serializes them.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
