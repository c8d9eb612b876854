package lox

func MapErr[T any, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	var err error

	result := make([]R, len(collection))

	for i, item := range collection {
		result[i], err = iteratee(item)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}

// Take returns at most n leading items of collection without copying.
func Take[T any](collection []T, n int) []T {
	if n < 0 {
		n = 0
	}

	if n > len(collection) {
		n = len(collection)
	}

	return collection[:n]
}
