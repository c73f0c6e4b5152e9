package domain

import "encoding/json"

// KeySet is an immutable, insertion-ordered set of element keys.
// The zero value is an empty set. With and Without return new sets.
type KeySet struct {
	keys  []string
	index map[string]struct{}
}

// NewKeySet returns a set of keys in first-seen order, dropping duplicates.
func NewKeySet(keys ...string) KeySet {
	return KeySet{}.With(keys...)
}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Len returns the number of keys.
func (s KeySet) Len() int {
	return len(s.keys)
}

// Keys returns a copy of the keys in insertion order.
func (s KeySet) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// With returns a set with keys appended. Keys already present keep
// their position.
func (s KeySet) With(keys ...string) KeySet {
	out := s.clone(len(keys))
	for _, k := range keys {
		if _, ok := out.index[k]; ok {
			continue
		}
		out.index[k] = struct{}{}
		out.keys = append(out.keys, k)
	}
	return out
}

// Without returns a set with keys removed. Absent keys are ignored.
func (s KeySet) Without(keys ...string) KeySet {
	drop := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if s.Has(k) {
			drop[k] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return s
	}

	out := KeySet{
		keys:  make([]string, 0, len(s.keys)-len(drop)),
		index: make(map[string]struct{}, len(s.keys)-len(drop)),
	}
	for _, k := range s.keys {
		if _, ok := drop[k]; ok {
			continue
		}
		out.index[k] = struct{}{}
		out.keys = append(out.keys, k)
	}
	return out
}

// Equal reports whether both sets hold the same keys, ignoring order.
func (s KeySet) Equal(other KeySet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, k := range s.keys {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the set as a JSON array.
func (s KeySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Keys())
}

// UnmarshalJSON decodes a JSON array, dropping duplicates.
func (s *KeySet) UnmarshalJSON(data []byte) error {
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	*s = NewKeySet(keys...)
	return nil
}

func (s KeySet) clone(extra int) KeySet {
	out := KeySet{
		keys:  make([]string, len(s.keys), len(s.keys)+extra),
		index: make(map[string]struct{}, len(s.keys)+extra),
	}
	copy(out.keys, s.keys)
	for _, k := range s.keys {
		out.index[k] = struct{}{}
	}
	return out
}
