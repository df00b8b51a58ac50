package cfgfile

// Map is a string keyed map that remembers insertion order. Values are
// int64, float64, bool, string, nil or a []any of those.
type Map struct {
	keys   []string
	values map[string]any
}

// NewMap creates an empty map
func NewMap() *Map {
	return &Map{values: make(map[string]any)}
}

// Set stores v under key. A new key goes to the end of the order; an
// existing key keeps its position.
func (m *Map) Set(key string, v any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// List returns the value under key as a list. Scalars become a one
// element list; a missing key yields nil.
func (m *Map) List(key string) []any {
	v, ok := m.values[key]
	if !ok {
		return nil
	}
	if list, ok := v.([]any); ok {
		out := make([]any, len(list))
		copy(out, list)
		return out
	}
	return []any{v}
}

// Delete removes key, keeping the order of the others
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys
func (m *Map) Len() int {
	return len(m.keys)
}

// Each calls fn for every entry in insertion order
func (m *Map) Each(fn func(key string, v any)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}
