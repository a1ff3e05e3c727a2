package sequence

import "iter"

// List is an immutable ordered collection. The zero value is an empty list.
// Values are copied in on construction and never exposed for mutation, so a
// List can be shared freely between tick-to-tick snapshots.
type List[T any] struct {
	items []T
}

// NewList copies items into a new List.
func NewList[T any](items ...T) List[T] {
	if len(items) == 0 {
		return List[T]{}
	}
	cp := make([]T, len(items))
	copy(cp, items)
	return List[T]{items: cp}
}

// Len returns the number of elements.
func (l List[T]) Len() int { return len(l.items) }

// All yields index/value pairs in order.
func (l List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.items {
			if !yield(i, v) {
				return
			}
		}
	}
}
