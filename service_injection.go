package goalter

import (
	"fmt"
	"sync"
)

// Container is the service-locator capability the engine resolves callables,
// stores and hydrators through. Get may fail for an id Has reported; such a
// failure is a configuration defect and aborts Alter.
type Container interface {
	Has(id string) bool
	Get(id string) (any, error)
}

// Factory lazily builds a service on first Get.
type Factory func() (any, error)

// Services is a concurrency-safe Container holding eager values and lazy
// factories. A factory runs at most once; its error is returned on every Get.
type Services struct {
	mu        sync.RWMutex
	values    map[string]any
	factories map[string]*lazy
}

type lazy struct {
	once sync.Once
	fn   Factory
	v    any
	err  error
}

// NewServices returns an empty Services container.
func NewServices() *Services {
	return &Services{values: map[string]any{}, factories: map[string]*lazy{}}
}

// Set registers a ready service under id, replacing any previous entry.
func (s *Services) Set(id string, v any) *Services {
	s.mu.Lock()
	delete(s.factories, id)
	s.values[id] = v
	s.mu.Unlock()
	return s
}

// SetFactory registers a lazily built service under id.
func (s *Services) SetFactory(id string, fn Factory) *Services {
	s.mu.Lock()
	delete(s.values, id)
	s.factories[id] = &lazy{fn: fn}
	s.mu.Unlock()
	return s
}

func (s *Services) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.values[id]; ok {
		return true
	}
	_, ok := s.factories[id]
	return ok
}

func (s *Services) Get(id string) (any, error) {
	s.mu.RLock()
	v, ok := s.values[id]
	l, lok := s.factories[id]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}
	if !lok {
		return nil, fmt.Errorf("service %q not found", id)
	}
	l.once.Do(func() {
		if l.fn == nil {
			l.err = fmt.Errorf("service %q has a nil factory", id)
			return
		}
		l.v, l.err = l.fn()
	})
	return l.v, l.err
}

// Service retrieves a typed service from c. found is false when c does not
// hold id or holds something that is not a T; err reports a failing Get.
func Service[T any](c Container, id string) (v T, found bool, err error) {
	if c == nil || id == "" || !c.Has(id) {
		return v, false, nil
	}
	raw, err := c.Get(id)
	if err != nil {
		return v, false, err
	}
	tv, ok := raw.(T)
	if !ok {
		return v, false, nil
	}
	return tv, true, nil
}
