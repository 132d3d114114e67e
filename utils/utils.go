package utils

// Ternary mimics the conditional operator. Both branches are evaluated
// eagerly and the caller type-asserts the result.
func Ternary(cond bool, a, b any) any {
	if cond {
		return a
	}
	return b
}

// ArrayContains returns the index of the first element satisfying found.
func ArrayContains[T any](array []T, found func(elem T) bool) (int, bool) {
	for idx, elem := range array {
		if found(elem) {
			return idx, true
		}
	}
	return -1, false
}

// Chunk splits array into consecutive slices of at most size elements.
func Chunk[T any](array []T, size int) [][]T {
	if size <= 0 || len(array) == 0 {
		return nil
	}
	var chunks [][]T
	for size < len(array) {
		array, chunks = array[size:], append(chunks, array[:size:size])
	}
	return append(chunks, array)
}
