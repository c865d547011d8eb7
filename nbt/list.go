package nbt

import (
	"strings"
)

// List is a homogeneous ordered sequence (§3). Kind is TagUnknown only
// while Items is empty; every element in Items must satisfy Kind's
// acceptance predicate (invariant I2).
type List struct {
	Kind  TagID
	Items []Value
}

// NewList returns an empty list with no kind fixed yet.
func NewList() *List {
	return &List{Kind: TagUnknown}
}

func (l *List) Tag() TagID { return TagList }

func (l *List) String() string {
	parts := make([]string, len(l.Items))
	for i, v := range l.Items {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Len() int { return len(l.Items) }

// accepts reports whether v may live in a list of kind l.Kind.
func (l *List) accepts(v Value) bool {
	if l.Kind == TagUnknown {
		return len(l.Items) == 0
	}
	return v.Tag() == l.Kind
}

// SetKind changes the list's declared kind. Allowed when the list is
// empty, or when every current element already satisfies kind.
func (l *List) SetKind(kind TagID) error {
	if kind != TagUnknown && !compoundAcceptable(kind) {
		return KindMismatchError{Declared: kind, Got: kind}
	}
	prev := l.Kind
	l.Kind = kind
	for _, v := range l.Items {
		if !l.accepts(v) {
			l.Kind = prev
			return KindMismatchError{Declared: kind, Got: v.Tag()}
		}
	}
	return nil
}

// Push appends v. If the list is empty and its kind is unset, the kind
// is inferred from v's own tag; otherwise v must match the declared
// kind.
func (l *List) Push(v Value) error {
	if len(l.Items) == 0 && l.Kind == TagUnknown {
		l.Kind = v.Tag()
	} else if !l.accepts(v) {
		return KindMismatchError{Declared: l.Kind, Got: v.Tag()}
	}
	l.Items = append(l.Items, v)
	return nil
}

// Get returns the i'th element, or nil if i is out of range.
func (l *List) Get(i int) Value {
	if i < 0 || i >= len(l.Items) {
		return nil
	}
	return l.Items[i]
}
