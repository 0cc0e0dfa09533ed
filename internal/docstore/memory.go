package docstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryDatabase is a non-persistent Database used when no real store is reachable.
type MemoryDatabase struct {
	mu          sync.Mutex
	collections map[string]*MemoryCollection
}

// NewMemoryDatabase returns an empty in-memory database.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{collections: make(map[string]*MemoryCollection)}
}

// Collection returns the named collection, creating it on first use.
func (d *MemoryDatabase) Collection(name string) Collection {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.collections[name]
	if !ok {
		c = &MemoryCollection{}
		d.collections[name] = c
	}
	return c
}

// Backend implements Database.
func (d *MemoryDatabase) Backend() string { return "memory" }

// Close implements Database. Data is kept until the process exits.
func (d *MemoryDatabase) Close(context.Context) error { return nil }

// MemoryCollection keeps documents most-recent-first and scans linearly.
type MemoryCollection struct {
	mu   sync.RWMutex
	docs []Document
}

func (c *MemoryCollection) Find(_ context.Context, filter Filter, opts FindOptions) ([]Document, error) {
	c.mu.RLock()
	var out []Document
	for _, doc := range c.docs {
		if !matches(doc, filter) {
			continue
		}
		cp, err := clone(doc)
		if err != nil {
			c.mu.RUnlock()
			return nil, err
		}
		out = append(out, cp)
	}
	c.mu.RUnlock()

	if opts.Sort != nil {
		field, desc := opts.Sort.Field, opts.Sort.Direction == Descending
		sort.SliceStable(out, func(i, j int) bool {
			cmp := compareValues(out[i][field], out[j][field])
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (c *MemoryCollection) FindOne(_ context.Context, filter Filter) (Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexLocked(filter); i >= 0 {
		return clone(c.docs[i])
	}
	return nil, ErrNotFound
}

func (c *MemoryCollection) Insert(_ context.Context, doc Document) (Document, error) {
	cp, err := clone(doc)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := cp[IDField]; ok {
		if c.indexLocked(Filter{IDField: id}) >= 0 {
			return nil, fmt.Errorf("insert %v: %w", id, ErrConflict)
		}
	}
	c.docs = append([]Document{cp}, c.docs...)
	return clone(cp)
}

func (c *MemoryCollection) Update(_ context.Context, filter Filter, set Document) (int64, error) {
	patch, err := clone(set)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(filter)
	if i < 0 {
		return 0, nil
	}
	for k, v := range patch {
		if k == IDField {
			continue
		}
		c.docs[i][k] = v
	}
	return 1, nil
}

func (c *MemoryCollection) Increment(_ context.Context, filter Filter, field string, delta int64) (Document, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(filter)
	if i < 0 {
		return nil, ErrNotFound
	}

	current, ok := toInt64(c.docs[i][field])
	if !ok && c.docs[i][field] != nil {
		return nil, fmt.Errorf("increment %s: field is not numeric", field)
	}
	c.docs[i][field] = current + delta
	return clone(c.docs[i])
}

func (c *MemoryCollection) Upsert(ctx context.Context, filter Filter, set Document) error {
	matched, err := c.Update(ctx, filter, set)
	if err != nil || matched > 0 {
		return err
	}

	doc := Document{}
	for k, v := range filter {
		doc[k] = v
	}
	for k, v := range set {
		doc[k] = v
	}
	_, err = c.Insert(ctx, doc)
	return err
}

func (c *MemoryCollection) Delete(_ context.Context, filter Filter) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(filter)
	if i < 0 {
		return 0, nil
	}
	c.docs = append(c.docs[:i], c.docs[i+1:]...)
	return 1, nil
}

func (c *MemoryCollection) Count(_ context.Context, filter Filter) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, doc := range c.docs {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (c *MemoryCollection) indexLocked(filter Filter) int {
	for i, doc := range c.docs {
		if matches(doc, filter) {
			return i
		}
	}
	return -1
}

func matches(doc Document, filter Filter) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok {
			if want != nil {
				return false
			}
			continue
		}
		if !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func valuesEqual(a, b any) bool {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return x == y
		}
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders nil first, then numbers, strings and times by value.
// Mixed types fall back to comparing their formatted form.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return cmpOrdered(x, y)
		}
	}
	if x, ok := toTime(a); ok {
		if y, ok := toTime(b); ok {
			return x.Compare(y)
		}
	}
	if x, ok := a.(string); ok {
		if y, ok := b.(string); ok {
			return cmpOrdered(x, y)
		}
	}
	return cmpOrdered(fmt.Sprint(a), fmt.Sprint(b))
}

func cmpOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
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

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}
