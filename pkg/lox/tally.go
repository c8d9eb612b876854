package lox

type number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Tally accumulates a value per key and remembers the order in which keys
// were first seen. Extremes are resolved in that order: on equal totals the
// earliest key wins.
type Tally[K comparable, V any] struct {
	order  []K
	totals map[K]V
	add    func(V, V) V
	less   func(V, V) bool
}

// NewTally builds a tally over a built-in numeric type.
func NewTally[K comparable, V number]() *Tally[K, V] {
	return NewTallyFunc[K, V](
		func(a, b V) V { return a + b },
		func(a, b V) bool { return a < b },
	)
}

// NewTallyFunc builds a tally over any value type with explicit addition
// and ordering, e.g. decimal amounts.
func NewTallyFunc[K comparable, V any](add func(V, V) V, less func(V, V) bool) *Tally[K, V] {
	return &Tally[K, V]{
		totals: make(map[K]V),
		add:    add,
		less:   less,
	}
}

func (t *Tally[K, V]) Add(key K, value V) {
	current, ok := t.totals[key]
	if !ok {
		t.order = append(t.order, key)
		t.totals[key] = value

		return
	}

	t.totals[key] = t.add(current, value)
}

func (t *Tally[K, V]) Len() int {
	return len(t.order)
}

func (t *Tally[K, V]) Get(key K) (V, bool) {
	v, ok := t.totals[key]
	return v, ok
}

// Max returns the key with the highest total. ok is false for an empty tally.
func (t *Tally[K, V]) Max() (key K, total V, ok bool) {
	return t.extreme(func(candidate, best V) bool { return t.less(best, candidate) })
}

// Min returns the key with the lowest total. ok is false for an empty tally.
func (t *Tally[K, V]) Min() (key K, total V, ok bool) {
	return t.extreme(t.less)
}

// Entries returns the keys and totals in first-seen order.
func (t *Tally[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, len(t.order))

	for _, k := range t.order {
		entries = append(entries, Entry[K, V]{Key: k, Total: t.totals[k]})
	}

	return entries
}

type Entry[K comparable, V any] struct {
	Key   K
	Total V
}

func (t *Tally[K, V]) extreme(better func(candidate, best V) bool) (key K, total V, ok bool) {
	for i, k := range t.order {
		v := t.totals[k]
		if i == 0 || better(v, total) {
			key, total, ok = k, v, true
		}
	}

	return key, total, ok
}
