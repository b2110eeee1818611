package circulation

import (
	"slices"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

// registry is an identity-keyed collection that remembers insertion order, so list queries are deterministic.
type registry[T any] struct {
	items map[identity.ID]T
	order []identity.ID
}

func newRegistry[T any]() registry[T] {
	return registry[T]{items: make(map[identity.ID]T)}
}

func (r *registry[T]) has(id identity.ID) bool {
	_, ok := r.items[id]
	return ok
}

func (r *registry[T]) get(id identity.ID) (T, bool) {
	item, ok := r.items[id]
	return item, ok
}

func (r *registry[T]) insert(id identity.ID, item T) {
	r.items[id] = item
	r.order = append(r.order, id)
}

func (r *registry[T]) remove(id identity.ID) {
	delete(r.items, id)
	r.order = slices.DeleteFunc(r.order, func(candidate identity.ID) bool { return candidate == id })
}

func (r *registry[T]) len() int {
	return len(r.items)
}

// filter returns the items matching predicate in insertion order.
func (r *registry[T]) filter(predicate func(T) bool) []T {
	matched := make([]T, 0)

	for _, id := range r.order {
		item := r.items[id]
		if predicate(item) {
			matched = append(matched, item)
		}
	}

	return matched
}

func (r *registry[T]) all() []T {
	return r.filter(func(T) bool { return true })
}
