// Package omap is a small insertion-ordered map, used by eval.Value for
// HCL objects and by the object-for grouping accumulator. Its shape is
// adapted from Tangerg-lynx's pkg/kv.OrderedKV (an insertion-order-tracking
// generic map), trimmed to the Set/Get/Keys/ForEach subset this module
// needs plus in-place value mutation for grouping accumulation.
package omap

// Map is an insertion-order-preserving map from K to V.
type Map[K comparable, V any] struct {
	m    map[K]V
	keys []K
}

// New returns an empty Map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{m: make(map[K]V)}
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int { return len(m.keys) }

// Get returns the value for k and whether it was present.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.m[k]
	return v, ok
}

// Has reports whether k is present.
func (m *Map[K, V]) Has(k K) bool {
	_, ok := m.m[k]
	return ok
}

// Set inserts or overwrites the value for k, preserving k's original
// position if it was already present (last-write-wins value, first-seen
// position).
func (m *Map[K, V]) Set(k K, v V) {
	if _, ok := m.m[k]; !ok {
		m.keys = append(m.keys, k)
	}
	m.m[k] = v
}

// Delete removes k, if present.
func (m *Map[K, V]) Delete(k K) {
	if _, ok := m.m[k]; !ok {
		return
	}
	delete(m.m, k)
	for i, kk := range m.keys {
		if kk == k {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (m *Map[K, V]) Keys() []K { return m.keys }

// ForEach applies f to every entry in insertion order.
func (m *Map[K, V]) ForEach(f func(k K, v V)) {
	for _, k := range m.keys {
		f(k, m.m[k])
	}
}

// Update sets k's value to f(current, existed); used to accumulate grouped
// values during object-for evaluation without a separate Get+Set pair.
func (m *Map[K, V]) Update(k K, f func(cur V, existed bool) V) {
	cur, ok := m.m[k]
	m.Set(k, f(cur, ok))
}
