package store

import (
	"context"
	"errors"
)

// ErrNoRecord is returned by backends when an id is unknown. Stores turn it
// into a domain.NotFoundError.
var ErrNoRecord = errors.New("record not found")

// ErrDuplicateID is returned by Insert when the id is already taken.
var ErrDuplicateID = errors.New("duplicate record id")

// Entity is a record that a Backend can keep.
type Entity interface {
	EntityID() int64
}

// Backend persists one kind of record. List returns records in insertion
// order, which stores rely on since ids are assigned monotonically.
type Backend[T Entity] interface {
	// Insert adds a new record, failing with ErrDuplicateID if the id exists
	Insert(ctx context.Context, rec T) error

	// Update replaces an existing record, failing with ErrNoRecord if absent
	Update(ctx context.Context, rec T) error

	// Delete removes a record, failing with ErrNoRecord if absent
	Delete(ctx context.Context, id int64) error

	// Get retrieves a record by id
	Get(ctx context.Context, id int64) (T, error)

	// List returns all records in insertion order
	List(ctx context.Context) ([]T, error)
}
