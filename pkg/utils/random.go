package utils

import "math/rand"

// PickRandom returns a uniformly random element of items.
// The slice must be non-empty.
func PickRandom[T any](items []T) T {
	return items[rand.Intn(len(items))]
}
