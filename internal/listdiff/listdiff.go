// Package listdiff matches the elements of two snapshots of a list by key.
package listdiff

// Modified pairs the old and new element stored under one key.
type Modified struct {
	Key string
	Old any
	New any
}

// Result partitions the new list against the old one. Unmodified, Modified and
// Added follow the order of the new list; Removed follows the old list.
type Result struct {
	Unmodified []string
	Modified   []Modified
	Added      []Modified // Old is always nil
	Removed    []string
	// Duplicates lists keys that occur more than once in either list.
	Duplicates []string
}

// Compare matches oldList and newList by key. Elements under the same key are
// unmodified when same reports true and modified otherwise; positions play no
// part. When a key repeats, the last old element with that key is the one
// compared against.
func Compare(oldList, newList []any, key func(any) string, same func(a, b any) bool) Result {
	var res Result
	oldByKey := make(map[string]any, len(oldList))
	dup := map[string]struct{}{}
	for _, el := range oldList {
		k := key(el)
		if _, seen := oldByKey[k]; seen {
			dup[k] = struct{}{}
		}
		oldByKey[k] = el
	}
	newKeys := make(map[string]struct{}, len(newList))
	for _, el := range newList {
		k := key(el)
		if _, seen := newKeys[k]; seen {
			dup[k] = struct{}{}
		}
		newKeys[k] = struct{}{}
		prev, existed := oldByKey[k]
		switch {
		case !existed:
			res.Added = append(res.Added, Modified{Key: k, New: el})
		case same(prev, el):
			res.Unmodified = append(res.Unmodified, k)
		default:
			res.Modified = append(res.Modified, Modified{Key: k, Old: prev, New: el})
		}
	}
	removed := map[string]struct{}{}
	for _, el := range oldList {
		k := key(el)
		if _, still := newKeys[k]; still {
			continue
		}
		if _, done := removed[k]; done {
			continue
		}
		removed[k] = struct{}{}
		res.Removed = append(res.Removed, k)
	}
	for _, el := range append(append([]any(nil), oldList...), newList...) {
		k := key(el)
		if _, ok := dup[k]; ok {
			res.Duplicates = append(res.Duplicates, k)
			delete(dup, k)
		}
	}
	return res
}
