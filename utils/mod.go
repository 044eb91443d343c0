package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Without returns a new slice holding every element of slice except those at
// the given positions, in their original order.
func Without[T any](slice []T, positions ...int) []T {
	out := make([]T, 0, len(slice))
	for i, v := range slice {
		if FindIndex(positions, i) >= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}
