package util

// IndexOf returns the index of the first occurrence of elem in slice or -1.
func IndexOf[T comparable](slice []T, elem T) int {
	for i, x := range slice {
		if x == elem {
			return i
		}
	}

	return -1
}

// Contains reports whether elem occurs in slice.
func Contains[T comparable](slice []T, elem T) bool {
	return IndexOf(slice, elem) != -1
}

// Map returns a new slice holding f applied to each element of slice.
func Map[T, R any](slice []T, f func(T) R) []R {
	out := make([]R, len(slice))
	for i, elem := range slice {
		out[i] = f(elem)
	}

	return out
}

// Filter returns the elements of slice for which keep is true in their
// original order.
func Filter[T any](slice []T, keep func(T) bool) []T {
	var out []T
	for _, elem := range slice {
		if keep(elem) {
			out = append(out, elem)
		}
	}

	return out
}
