package db

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"kuic/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository keeps a collection in process. Documents are stored in
// their BSON form so filters, sorts and updates follow Mongo's field paths.
// It backs the tests and the "memory" store driver.
type MemoryRepository[T any] struct {
	name   string
	unique []string

	mu   sync.RWMutex
	docs []bson.M
	now  func() time.Time
}

func NewMemoryRepository[T any](name string, unique ...string) *MemoryRepository[T] {
	return &MemoryRepository[T]{
		name:   name,
		unique: unique,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryRepository[T]) Find(_ context.Context, q Query) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched, err := r.match(q.Filter)
	if err != nil {
		return nil, err
	}
	sortDocs(matched, q.Sort)

	out := make([]T, 0, len(matched))
	for _, m := range matched {
		doc, err := r.decode(m, q.Omit)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, nil
}

func (r *MemoryRepository[T]) FindOne(_ context.Context, q Query) (*T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched, err := r.match(q.Filter)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, ErrNotFound
	}
	sortDocs(matched, q.Sort)
	return r.decode(matched[0], q.Omit)
}

func (r *MemoryRepository[T]) FindByID(_ context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(oid)
	if i < 0 {
		return nil, ErrNotFound
	}
	return r.decode(r.docs[i], nil)
}

func (r *MemoryRepository[T]) Insert(_ context.Context, doc *T) error {
	meta := any(doc).(models.Document).Meta()
	now := r.now()
	meta.ID = primitive.NewObjectID()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	m, err := toDoc(doc)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(m, -1); err != nil {
		return err
	}
	r.docs = append(r.docs, m)
	return nil
}

func (r *MemoryRepository[T]) Replace(_ context.Context, id string, doc *T) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}
	meta := any(doc).(models.Document).Meta()
	meta.ID = oid
	meta.UpdatedAt = r.now()

	m, err := toDoc(doc)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(oid)
	if i < 0 {
		return ErrNotFound
	}
	if err := r.checkUnique(m, i); err != nil {
		return err
	}
	r.docs[i] = m
	return nil
}

func (r *MemoryRepository[T]) Set(_ context.Context, id string, fields Fields) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(oid)
	if i < 0 {
		return nil, ErrNotFound
	}
	if err := r.apply(i, fields); err != nil {
		return nil, err
	}
	return r.decode(r.docs[i], nil)
}

func (r *MemoryRepository[T]) SetMany(_ context.Context, f Filter, fields Fields) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for i, m := range r.docs {
		ok, err := matches(m, f)
		if err != nil {
			return n, err
		}
		if !ok {
			continue
		}
		if err := r.apply(i, fields); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (r *MemoryRepository[T]) Toggle(_ context.Context, id string, path string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(oid)
	if i < 0 {
		return nil, ErrNotFound
	}
	current, _ := lookup(r.docs[i], path)
	b, _ := current.(bool)
	if err := r.apply(i, Fields{path: !b}); err != nil {
		return nil, err
	}
	return r.decode(r.docs[i], nil)
}

func (r *MemoryRepository[T]) Delete(_ context.Context, id string) (*T, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(oid)
	if i < 0 {
		return nil, ErrNotFound
	}
	doc, err := r.decode(r.docs[i], nil)
	if err != nil {
		return nil, err
	}
	r.docs = append(r.docs[:i], r.docs[i+1:]...)
	return doc, nil
}

// apply sets fields on docs[i]; the caller holds the write lock.
func (r *MemoryRepository[T]) apply(i int, fields Fields) error {
	m, err := clone(r.docs[i])
	if err != nil {
		return err
	}
	for path, v := range fields {
		setPath(m, path, v)
	}
	setPath(m, "updatedAt", r.now())

	m, err = clone(m)
	if err != nil {
		return err
	}
	// the result must still decode into T
	if _, err := r.decode(m, nil); err != nil {
		return err
	}
	if err := r.checkUnique(m, i); err != nil {
		return err
	}
	r.docs[i] = m
	return nil
}

func (r *MemoryRepository[T]) match(f Filter) ([]bson.M, error) {
	var out []bson.M
	for _, m := range r.docs {
		ok, err := matches(m, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryRepository[T]) indexOf(oid primitive.ObjectID) int {
	for i, m := range r.docs {
		if id, ok := m["_id"].(primitive.ObjectID); ok && id == oid {
			return i
		}
	}
	return -1
}

func (r *MemoryRepository[T]) checkUnique(m bson.M, skip int) error {
	for _, path := range r.unique {
		v, ok := lookup(m, path)
		if !ok {
			continue
		}
		for i, other := range r.docs {
			if i == skip {
				continue
			}
			if ov, ok := lookup(other, path); ok && equal(ov, v) {
				return fmt.Errorf("%w: %s index: %s dup key: { %s: %v }", ErrDuplicate, r.name, path, path, v)
			}
		}
	}
	return nil
}

func (r *MemoryRepository[T]) decode(m bson.M, omit []string) (*T, error) {
	if len(omit) > 0 {
		c, err := clone(m)
		if err != nil {
			return nil, err
		}
		for _, path := range omit {
			unsetPath(c, path)
		}
		m = c
	}
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s document: %w", r.name, err)
	}
	var doc T
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", r.name, err)
	}
	return &doc, nil
}

func toDoc(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	m := bson.M{}
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// clone deep-copies m and normalises its values to the types the decoder produces.
func clone(m bson.M) (bson.M, error) {
	return toDoc(m)
}

func matches(m bson.M, f Filter) (bool, error) {
	for path, want := range f.Equals {
		got, ok := lookup(m, path)
		if !ok {
			if want != nil {
				return false, nil
			}
			continue
		}
		if !equalOrContains(got, want) {
			return false, nil
		}
	}
	if f.NotID != "" {
		oid, err := ParseID(f.NotID)
		if err != nil {
			return false, err
		}
		if id, _ := m["_id"].(primitive.ObjectID); id == oid {
			return false, nil
		}
	}
	if f.Search != nil && f.Search.Term != "" {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(f.Search.Term))
		hit := false
		for _, path := range f.Search.Paths {
			v, ok := lookup(m, path)
			if ok && matchesRegex(v, re) {
				hit = true
				break
			}
		}
		if !hit {
			return false, nil
		}
	}
	return true, nil
}

func matchesRegex(v any, re *regexp.Regexp) bool {
	switch x := v.(type) {
	case string:
		return re.MatchString(x)
	case primitive.A:
		for _, e := range x {
			if matchesRegex(e, re) {
				return true
			}
		}
	case []any:
		for _, e := range x {
			if matchesRegex(e, re) {
				return true
			}
		}
	}
	return false
}

func lookup(m bson.M, path string) (any, bool) {
	var cur any = m
	for _, key := range strings.Split(path, ".") {
		node, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = node[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func setPath(m bson.M, path string, v any) {
	keys := strings.Split(path, ".")
	node := m
	for _, key := range keys[:len(keys)-1] {
		next, ok := asMap(node[key])
		if !ok {
			next = bson.M{}
		}
		node[key] = next
		node = next
	}
	node[keys[len(keys)-1]] = v
}

func unsetPath(m bson.M, path string) {
	keys := strings.Split(path, ".")
	node := m
	for _, key := range keys[:len(keys)-1] {
		next, ok := asMap(node[key])
		if !ok {
			return
		}
		node[key] = next
		node = next
	}
	delete(node, keys[len(keys)-1])
}

// asMap returns v as a bson.M, converting other document shapes.
func asMap(v any) (bson.M, bool) {
	switch d := v.(type) {
	case bson.M:
		return d, true
	case map[string]any:
		return bson.M(d), true
	case bson.D:
		return d.Map(), true
	}
	return nil, false
}

func equalOrContains(got, want any) bool {
	if equal(got, want) {
		return true
	}
	if arr, ok := got.(primitive.A); ok {
		for _, e := range arr {
			if equal(e, want) {
				return true
			}
		}
	}
	return false
}

func equal(a, b any) bool {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		return ok && fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func sortDocs(docs []bson.M, fields []SortField) {
	if len(fields) == 0 {
		return
	}
	sort.SliceStable(docs, func(i, j int) bool {
		for _, f := range fields {
			a, _ := lookup(docs[i], f.Path)
			b, _ := lookup(docs[j], f.Path)
			c := compare(a, b)
			if c == 0 {
				continue
			}
			if f.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

// compare orders values the way Mongo does for the types stored here;
// a missing value sorts first.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if fa, ok := number(a); ok {
		if fb, ok := number(b); ok {
			return cmpFloat(fa, fb)
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case primitive.DateTime:
		if y, ok := b.(primitive.DateTime); ok {
			return cmpFloat(float64(x), float64(y))
		}
	case primitive.ObjectID:
		if y, ok := b.(primitive.ObjectID); ok {
			return bytes.Compare(x[:], y[:])
		}
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
