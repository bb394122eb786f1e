// Package memstore is an in-memory goalter.Store for fixtures and tests.
package memstore

import (
	"context"
	"reflect"
	"sync"

	goalter "github.com/reoring/goalter"
	"github.com/reoring/goalter/internal/coerce"
)

// Store holds documents and answers Get with the first one whose Criteria
// key matches. Numbers compare by value, so 1, 1.0 and int64(1) all match.
type Store struct {
	mu   sync.RWMutex
	docs []map[string]any
}

var _ goalter.Store = (*Store)(nil)

// New returns a Store holding deep copies of docs.
func New(docs ...map[string]any) *Store {
	s := &Store{}
	s.Add(docs...)
	return s
}

// Add appends deep copies of docs.
func (s *Store) Add(docs ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		if d == nil {
			continue
		}
		s.docs = append(s.docs, goalter.Clone(d).(map[string]any))
	}
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *Store) Get(ctx context.Context, c goalter.Criteria) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := c.Key
	if key == "" {
		key = goalter.DefaultKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if v, ok := d[key]; ok && equal(v, c.Value) {
			return goalter.Clone(d).(map[string]any), nil
		}
	}
	return nil, nil
}

func equal(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		fa, _ := coerce.ToFloat(a)
		fb, _ := coerce.ToFloat(b)
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	default:
		return false
	}
}
