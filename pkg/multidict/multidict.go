// Package multidict provides an ordered multi-valued string mapping.
//
// A MultiDict keeps every (key, value) pair in insertion order, so the
// same key can be stored multiple times without the later values
// overwriting the earlier ones. This is the natural shape for HTTP
// request data such as parsed Cookie headers, where duplicate names are
// legal and their order carries meaning.
package multidict

// Pair is a single (key, value) entry.
type Pair struct {
	Key   string
	Value string
}

// MultiDict is an ordered mapping from string keys to one or more string
// values. The zero value is not ready for use; construct instances with
// New or FromPairs.
type MultiDict struct {
	pairs []Pair
	index map[string][]int
}

// New creates an empty MultiDict.
func New() *MultiDict {
	return &MultiDict{
		index: make(map[string][]int),
	}
}

// FromPairs creates a MultiDict holding the given pairs in order.
func FromPairs(pairs []Pair) *MultiDict {
	d := New()
	for _, p := range pairs {
		d.Add(p.Key, p.Value)
	}
	return d
}

// Add appends a value for key, preserving insertion order.
func (d *MultiDict) Add(key, value string) {
	d.index[key] = append(d.index[key], len(d.pairs))
	d.pairs = append(d.pairs, Pair{Key: key, Value: value})
}

// Get returns the first value stored for key. The second return value
// reports whether the key is present at all.
func (d *MultiDict) Get(key string) (string, bool) {
	positions, ok := d.index[key]
	if !ok {
		return "", false
	}
	return d.pairs[positions[0]].Value, true
}

// GetList returns all values stored for key, in insertion order.
// A missing key yields a nil slice.
func (d *MultiDict) GetList(key string) []string {
	positions, ok := d.index[key]
	if !ok {
		return nil
	}
	values := make([]string, len(positions))
	for i, pos := range positions {
		values[i] = d.pairs[pos].Value
	}
	return values
}

// Has reports whether key is present.
func (d *MultiDict) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Len returns the total number of stored pairs, counting duplicates.
func (d *MultiDict) Len() int {
	return len(d.pairs)
}

// Pairs returns a copy of all stored pairs in insertion order.
func (d *MultiDict) Pairs() []Pair {
	out := make([]Pair, len(d.pairs))
	copy(out, d.pairs)
	return out
}

// Keys returns the distinct keys in first-seen order.
func (d *MultiDict) Keys() []string {
	seen := make(map[string]bool, len(d.index))
	keys := make([]string, 0, len(d.index))
	for _, p := range d.pairs {
		if !seen[p.Key] {
			seen[p.Key] = true
			keys = append(keys, p.Key)
		}
	}
	return keys
}
