package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"medtrack-backend/internal/model"
)

type cloneable[E any] interface {
	model.Entity
	Clone() E
}

// memCollection keeps one collection in a slice guarded by its own lock, so
// each collection has a single writer at a time.
type memCollection[E cloneable[E]] struct {
	mu    sync.RWMutex
	items []E
	rev   *atomic.Uint64
}

func newMemCollection[E cloneable[E]](rev *atomic.Uint64) *memCollection[E] {
	return &memCollection[E]{items: []E{}, rev: rev}
}

func (c *memCollection[E]) List(_ context.Context) ([]E, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]E, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out, nil
}

func (c *memCollection[E]) Get(_ context.Context, id string) (E, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if item.Key() == id {
			return item.Clone(), nil
		}
	}
	var zero E
	return zero, fmt.Errorf("get %q: %w", id, ErrNotFound)
}

func (c *memCollection[E]) Add(_ context.Context, e E) error {
	if err := model.Validate(e); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items {
		if item.Key() == e.Key() {
			return fmt.Errorf("add %q: %w", e.Key(), ErrDuplicateID)
		}
	}
	c.items = append(c.items, e.Clone())
	c.rev.Add(1)
	return nil
}

func (c *memCollection[E]) Update(_ context.Context, e E) (Outcome, error) {
	if err := model.Validate(e); err != nil {
		return OutcomeNotFound, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, item := range c.items {
		if item.Key() == e.Key() {
			c.items[i] = e.Clone()
			c.rev.Add(1)
			return OutcomeApplied, nil
		}
	}
	return OutcomeNotFound, nil
}

func (c *memCollection[E]) Modify(_ context.Context, id string, fn func(*E) error) (E, Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero E
	for i, item := range c.items {
		if item.Key() != id {
			continue
		}
		next := item.Clone()
		if err := fn(&next); err != nil {
			return zero, OutcomeNotFound, err
		}
		if next.Key() != id {
			return zero, OutcomeNotFound, fmt.Errorf("modify %q: %w", id, ErrIDChanged)
		}
		if err := model.Validate(next); err != nil {
			return zero, OutcomeNotFound, err
		}
		c.items[i] = next
		c.rev.Add(1)
		return next.Clone(), OutcomeApplied, nil
	}
	return zero, OutcomeNotFound, nil
}

func (c *memCollection[E]) Remove(_ context.Context, id string) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if item.Key() == id {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	if removed == 0 {
		return OutcomeNotFound, nil
	}
	// Clear the tail so removed records are not retained by the backing array.
	clear(c.items[len(kept):])
	c.items = kept
	c.rev.Add(1)
	return OutcomeApplied, nil
}

// memoryStore is the process-local Store implementation.
type memoryStore struct {
	rev     atomic.Uint64
	loading atomic.Bool

	devices       *memCollection[model.Device]
	installations *memCollection[model.Installation]
	visits        *memCollection[model.ServiceVisit]
	contracts     *memCollection[model.AMCContract]
	alerts        *memCollection[model.Alert]
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() Store {
	s := &memoryStore{}
	s.devices = newMemCollection[model.Device](&s.rev)
	s.installations = newMemCollection[model.Installation](&s.rev)
	s.visits = newMemCollection[model.ServiceVisit](&s.rev)
	s.contracts = newMemCollection[model.AMCContract](&s.rev)
	s.alerts = newMemCollection[model.Alert](&s.rev)
	return s
}

func (s *memoryStore) Devices() Collection[model.Device]             { return s.devices }
func (s *memoryStore) Installations() Collection[model.Installation] { return s.installations }
func (s *memoryStore) ServiceVisits() Collection[model.ServiceVisit] { return s.visits }
func (s *memoryStore) Contracts() Collection[model.AMCContract]      { return s.contracts }
func (s *memoryStore) Alerts() Collection[model.Alert]               { return s.alerts }

func (s *memoryStore) SetDevicesLoading(loading bool) { s.loading.Store(loading) }
func (s *memoryStore) DevicesLoading() bool           { return s.loading.Load() }
func (s *memoryStore) Revision() uint64               { return s.rev.Load() }
