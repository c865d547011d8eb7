package nbt

import "strings"

type compoundEntry struct {
	Key      string
	Declared TagID
	Value    Value
}

// Compound is an ordered, string-keyed mapping (§3). Unlike a bare Go
// map, it preserves insertion order across read → write (invariant I4),
// which is why it is backed by a slice of entries plus a key→index index
// rather than map[string]Value the way the teacher's nbt.Compound was.
type Compound struct {
	entries []compoundEntry
	index   map[string]int
}

// NewCompound returns an empty compound.
func NewCompound() *Compound {
	return &Compound{index: make(map[string]int)}
}

func (c *Compound) Tag() TagID { return TagCompound }

func (c *Compound) String() string {
	parts := make([]string, len(c.entries))
	for i, e := range c.entries {
		parts[i] = e.Key + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.entries) }

// Keys returns the keys in insertion order.
func (c *Compound) Keys() []string {
	keys := make([]string, len(c.entries))
	for i, e := range c.entries {
		keys[i] = e.Key
	}
	return keys
}

// Get returns the value at key and whether it is present.
func (c *Compound) Get(key string) (Value, bool) {
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.entries[i].Value, true
}

// DeclaredKind returns the declared kind of key and whether it is present.
func (c *Compound) DeclaredKind(key string) (TagID, bool) {
	i, ok := c.index[key]
	if !ok {
		return 0, false
	}
	return c.entries[i].Declared, true
}

// Range calls f for every entry in insertion order, stopping early if f
// returns false.
func (c *Compound) Range(f func(key string, kind TagID, v Value) bool) {
	for _, e := range c.entries {
		if !f(e.Key, e.Declared, e.Value) {
			return
		}
	}
}

// SetKind declares key's kind. If absent, the entry is created holding
// kind's default/zero value. If present and the existing value already
// has kind's own tag, it is a no-op re-declaration. If present and the
// existing value is the default/empty value of its current kind, the
// entry may be re-kinded: it is reset to the new kind's default value
// (I5 — kind may change only when the current value is the default for
// the new kind). Otherwise it fails with KindMismatchError.
func (c *Compound) SetKind(key string, kind TagID) error {
	if !compoundAcceptable(kind) {
		return KindMismatchError{Key: key, Declared: kind, Got: kind}
	}
	if i, ok := c.index[key]; ok {
		cur := c.entries[i]
		if cur.Value.Tag() == kind {
			c.entries[i].Declared = kind
			return nil
		}
		if !isDefaultValue(cur.Value) {
			return KindMismatchError{Key: key, Declared: kind, Got: cur.Value.Tag()}
		}
		c.entries[i].Declared = kind
		c.entries[i].Value = zeroValueFor(kind)
		return nil
	}
	c.appendEntry(key, kind, zeroValueFor(kind))
	return nil
}

// Insert sets key to value. If key exists, value must match key's
// existing declared kind, either by its own tag or by its default-kind
// category (KindMismatchError otherwise). If key is new,
// the declared kind is the default-kind-inference category from §4.2
// (defaultKind in value.go) — e.g. any integer scalar declares LONG, so
// a later Insert at the same key with a different-width integer still
// succeeds.
func (c *Compound) Insert(key string, value Value) error {
	if i, ok := c.index[key]; ok {
		if value.Tag() != c.entries[i].Declared && defaultKind(value) != c.entries[i].Declared {
			return KindMismatchError{Key: key, Declared: c.entries[i].Declared, Got: value.Tag()}
		}
		c.entries[i].Value = value
		return nil
	}
	kind := defaultKind(value)
	if !compoundAcceptable(kind) {
		return KindMismatchError{Key: key, Declared: kind, Got: kind}
	}
	c.appendEntry(key, kind, value)
	return nil
}

func (c *Compound) appendEntry(key string, kind TagID, v Value) {
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, compoundEntry{Key: key, Declared: kind, Value: v})
}

// Delete removes key, if present. Deleting does not affect the insertion
// order of the remaining keys, matching the teacher's Compound.Read,
// which rebuilds the map wholesale rather than splicing it.
func (c *Compound) Delete(key string) {
	i, ok := c.index[key]
	if !ok {
		return
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	delete(c.index, key)
	for k := i; k < len(c.entries); k++ {
		c.index[c.entries[k].Key] = k
	}
}
