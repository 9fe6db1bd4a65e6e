package db

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid id")
	ErrDuplicate = errors.New("duplicate key")
)

// Fields maps dotted document paths to values.
type Fields map[string]any

// Search is a case-insensitive literal substring match OR-ed across Paths.
// Array paths match when any element matches.
type Search struct {
	Term  string
	Paths []string
}

// Filter selects documents. Equals entries are AND-ed; an array path matches
// when any element equals the value.
type Filter struct {
	Equals Fields
	NotID  string
	Search *Search
}

type SortField struct {
	Path string
	Desc bool
}

// Query is a filtered, sorted read. Omit lists paths left out of the result.
type Query struct {
	Filter Filter
	Sort   []SortField
	Omit   []string
}

// Where is shorthand for an equality-only filter.
func Where(fields Fields) Filter {
	return Filter{Equals: fields}
}

// Asc and Desc build sort keys.
func Asc(path string) SortField  { return SortField{Path: path} }
func Desc(path string) SortField { return SortField{Path: path, Desc: true} }

// Repository is the document store surface the handlers use. Every method
// touches exactly one collection and, except SetMany, one document.
type Repository[T any] interface {
	Find(ctx context.Context, q Query) ([]T, error)
	FindOne(ctx context.Context, q Query) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Insert(ctx context.Context, doc *T) error
	Replace(ctx context.Context, id string, doc *T) error
	Set(ctx context.Context, id string, fields Fields) (*T, error)
	SetMany(ctx context.Context, f Filter, fields Fields) (int64, error)
	Toggle(ctx context.Context, id string, path string) (*T, error)
	Delete(ctx context.Context, id string) (*T, error)
}

// ParseID converts a hex id from a URL into an ObjectID.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: cast to ObjectId failed for value %q", ErrInvalidID, id)
	}
	return oid, nil
}
