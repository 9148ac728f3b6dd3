// internal/domain/ordering.go
package domain

import (
	"fmt"
	"sort"
)

// orderedChild is an item kept in a 1-based, gap-free ordered collection.
// K is the uniqueness key inside the collection (phase type, catalog exercise ID).
type orderedChild[K comparable] interface {
	orderKey() K
	position() int
	setPosition(order int)
}

// keyLabel renders a key for error messages. ObjectIDs print as plain hex.
func keyLabel(key interface{}) string {
	if h, ok := key.(interface{ Hex() string }); ok {
		return h.Hex()
	}
	return fmt.Sprint(key)
}

func indexOfChild[K comparable, T orderedChild[K]](items []T, key K) int {
	for i, item := range items {
		if item.orderKey() == key {
			return i
		}
	}
	return -1
}

// appendChild places item at the end of the collection (Order = count+1).
func appendChild[K comparable, T orderedChild[K]](collection string, items []T, item T) ([]T, error) {
	key := item.orderKey()
	if indexOfChild(items, key) >= 0 {
		return items, &DuplicateKeyError{Collection: collection, Key: keyLabel(key)}
	}
	item.setPosition(len(items) + 1)
	return append(items, item), nil
}

// removeChild drops the item with key and renumbers the rest 1..N-1,
// keeping their relative order.
func removeChild[K comparable, T orderedChild[K]](collection string, items []T, key K) ([]T, error) {
	idx := indexOfChild(items, key)
	if idx < 0 {
		return items, &NotFoundError{Collection: collection, Key: keyLabel(key)}
	}

	remaining := make([]T, 0, len(items)-1)
	remaining = append(remaining, items[:idx]...)
	remaining = append(remaining, items[idx+1:]...)

	sort.SliceStable(remaining, func(i, j int) bool {
		return remaining[i].position() < remaining[j].position()
	})
	for i, item := range remaining {
		item.setPosition(i + 1)
	}
	return remaining, nil
}

// moveChild puts the item with key at newOrder and shifts only the items
// whose original position lies between the old and the new slot.
// Reports false when the item already sits at newOrder.
func moveChild[K comparable, T orderedChild[K]](collection string, items []T, key K, newOrder int) (bool, error) {
	idx := indexOfChild(items, key)
	if idx < 0 {
		return false, &NotFoundError{Collection: collection, Key: keyLabel(key)}
	}
	if newOrder < 1 || newOrder > len(items) {
		return false, &InvalidOrderError{Collection: collection, Requested: newOrder, Count: len(items)}
	}

	target := items[idx]
	oldOrder := target.position()
	if oldOrder == newOrder {
		return false, nil
	}

	for i, item := range items {
		if i == idx {
			continue
		}
		original := item.position()
		switch {
		case oldOrder < newOrder && original > oldOrder && original <= newOrder:
			item.setPosition(original - 1)
		case oldOrder > newOrder && original >= newOrder && original < oldOrder:
			item.setPosition(original + 1)
		}
	}
	target.setPosition(newOrder)
	return true, nil
}

// sortedChildren returns a copy of items ordered by position. The stored slice is
// not re-sorted after a move.
func sortedChildren[K comparable, T orderedChild[K]](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].position() < out[j].position()
	})
	return out
}
