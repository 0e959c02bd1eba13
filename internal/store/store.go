package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("store: record not found")
	ErrDuplicateID = errors.New("store: duplicate id")
)

// Predicate selects records in Find and Filter.
type Predicate func(Record) bool

// Collection is an ordered sequence of records addressed by their "id" field.
// Records are returned as copies; mutating them has no effect on the store.
//
//go:generate mockgen -destination=mock/collection_mock.go -package=mock . Collection
type Collection interface {
	Name() string
	All(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id any) (Record, error)
	Find(ctx context.Context, pred Predicate) (Record, error)
	Filter(ctx context.Context, pred Predicate) ([]Record, error)
	Count(ctx context.Context) (int, error)
	// Push appends rec, assigning id = max numeric id + 1 when rec carries none.
	Push(ctx context.Context, rec Record) (Record, error)
	// Assign shallow-merges patch into the record.
	Assign(ctx context.Context, id any, patch Record) (Record, error)
	// Replace swaps the whole record, keeping its id.
	Replace(ctx context.Context, id any, rec Record) (Record, error)
	Remove(ctx context.Context, id any) error
}

//go:generate mockgen -destination=mock/store_mock.go -package=mock . Store
type Store interface {
	Collection(name string) Collection
	Collections(ctx context.Context) ([]string, error)
	Close() error
}
