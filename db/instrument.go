package db

import (
	"context"
	"errors"
	"time"

	"kuic/metrics"
)

// instrumented records operation counts and latency for a Repository.
type instrumented[T any] struct {
	next       Repository[T]
	collection string
	m          *metrics.Registry
}

// Instrument wraps repo so every call is counted by collection, op and outcome.
// A nil registry returns repo unchanged.
func Instrument[T any](repo Repository[T], collection string, m *metrics.Registry) Repository[T] {
	if m == nil {
		return repo
	}
	return &instrumented[T]{next: repo, collection: collection, m: m}
}

func (r *instrumented[T]) observe(op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrDuplicate):
		outcome = "rejected"
	default:
		outcome = "error"
	}
	r.m.StoreOperationsTotal.WithLabelValues(r.collection, op, outcome).Inc()
	r.m.StoreOperationDuration.WithLabelValues(r.collection, op).Observe(time.Since(start).Seconds())
}

func (r *instrumented[T]) Find(ctx context.Context, q Query) ([]T, error) {
	start := time.Now()
	docs, err := r.next.Find(ctx, q)
	r.observe("find", start, err)
	return docs, err
}

func (r *instrumented[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	start := time.Now()
	doc, err := r.next.FindOne(ctx, q)
	r.observe("find_one", start, err)
	return doc, err
}

func (r *instrumented[T]) FindByID(ctx context.Context, id string) (*T, error) {
	start := time.Now()
	doc, err := r.next.FindByID(ctx, id)
	r.observe("find_by_id", start, err)
	return doc, err
}

func (r *instrumented[T]) Insert(ctx context.Context, doc *T) error {
	start := time.Now()
	err := r.next.Insert(ctx, doc)
	r.observe("insert", start, err)
	return err
}

func (r *instrumented[T]) Replace(ctx context.Context, id string, doc *T) error {
	start := time.Now()
	err := r.next.Replace(ctx, id, doc)
	r.observe("replace", start, err)
	return err
}

func (r *instrumented[T]) Set(ctx context.Context, id string, fields Fields) (*T, error) {
	start := time.Now()
	doc, err := r.next.Set(ctx, id, fields)
	r.observe("set", start, err)
	return doc, err
}

func (r *instrumented[T]) SetMany(ctx context.Context, f Filter, fields Fields) (int64, error) {
	start := time.Now()
	n, err := r.next.SetMany(ctx, f, fields)
	r.observe("set_many", start, err)
	return n, err
}

func (r *instrumented[T]) Toggle(ctx context.Context, id string, path string) (*T, error) {
	start := time.Now()
	doc, err := r.next.Toggle(ctx, id, path)
	r.observe("toggle", start, err)
	return doc, err
}

func (r *instrumented[T]) Delete(ctx context.Context, id string) (*T, error) {
	start := time.Now()
	doc, err := r.next.Delete(ctx, id)
	r.observe("delete", start, err)
	return doc, err
}
