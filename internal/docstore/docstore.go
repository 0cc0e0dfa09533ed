// Package docstore provides a small document-store abstraction with MongoDB,
// PostgreSQL (JSONB) and in-memory backends sharing the same semantics.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	// ErrNotFound indicates no document matched the filter.
	ErrNotFound = errors.New("document not found")
	// ErrConflict indicates a document with the same _id already exists.
	ErrConflict = errors.New("document conflict")
)

// IDField is the primary key field present on every document.
const IDField = "_id"

// Document is a schema-less record.
type Document map[string]any

// Filter is an equality conjunction over top-level fields.
type Filter map[string]any

// ByID returns a filter matching a single document identifier.
func ByID(id string) Filter {
	return Filter{IDField: id}
}

// Direction orders sorted results.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

// Sort names the field results are ordered by.
type Sort struct {
	Field     string
	Direction Direction
}

// FindOptions shapes the result set of Find. A nil Sort returns documents
// most recently inserted first; a zero Limit means unbounded.
type FindOptions struct {
	Sort  *Sort
	Limit int64
}

// Collection is the capability every backend implements for a named collection.
type Collection interface {
	Find(ctx context.Context, filter Filter, opts FindOptions) ([]Document, error)
	FindOne(ctx context.Context, filter Filter) (Document, error)
	Insert(ctx context.Context, doc Document) (Document, error)
	// Update merges set into the first matching document and reports how many matched.
	Update(ctx context.Context, filter Filter, set Document) (int64, error)
	// Increment adds delta to a numeric field of the first match and returns the
	// document as it is after the update.
	Increment(ctx context.Context, filter Filter, field string, delta int64) (Document, error)
	Upsert(ctx context.Context, filter Filter, set Document) error
	Delete(ctx context.Context, filter Filter) (int64, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Database groups collections behind a single backend.
type Database interface {
	Collection(name string) Collection
	// Backend names the implementation, e.g. "mongo" or "memory".
	Backend() string
	Close(ctx context.Context) error
}

// Encode converts a value with bson tags into a Document.
func Encode(v any) (Document, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return Document(doc), nil
}

// Decode populates v from a Document.
func Decode(doc Document, v any) error {
	raw, err := bson.Marshal(bson.M(doc))
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if err := bson.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// DecodeAll decodes each document into a new element of the returned slice.
func DecodeAll[T any](docs []Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := Decode(doc, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func clone(doc Document) (Document, error) {
	if doc == nil {
		return nil, nil
	}
	return Encode(bson.M(doc))
}
