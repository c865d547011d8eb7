package nbt

import "fmt"

// Value is the common interface of every NBT variant: the integer and
// float scalars, Str, List and Compound. The zero value of each scalar
// type is its NBT default (I3: integer scalars are bounded by their
// declared width by virtue of being that Go integer type).
type Value interface {
	// Tag returns the variant's own wire tag. For List and Compound this
	// is always TagList / TagCompound; the BYTE_ARRAY/INT_ARRAY wire
	// promotion is a codec-level concern (§4.4), not a value-model one.
	Tag() TagID
	String() string
}

type Byte int8

func (b Byte) Tag() TagID    { return TagByte }
func (b Byte) String() string { return fmt.Sprintf("%d", int8(b)) }

type Short int16

func (s Short) Tag() TagID     { return TagShort }
func (s Short) String() string { return fmt.Sprintf("%d", int16(s)) }

type Int int32

func (i Int) Tag() TagID     { return TagInt }
func (i Int) String() string { return fmt.Sprintf("%d", int32(i)) }

type Long int64

func (l Long) Tag() TagID     { return TagLong }
func (l Long) String() string { return fmt.Sprintf("%d", int64(l)) }

type Float float32

func (f Float) Tag() TagID     { return TagFloat }
func (f Float) String() string { return fmt.Sprintf("%g", float32(f)) }

type Double float64

func (d Double) Tag() TagID     { return TagDouble }
func (d Double) String() string { return fmt.Sprintf("%g", float64(d)) }

type Str string

func (s Str) Tag() TagID     { return TagString }
func (s Str) String() string { return string(s) }

// defaultKind reports the kind a bare Value is admitted under when no
// kind has been declared yet, per §4.2's default-kind-inference table:
// any integer scalar defaults to LONG, any float scalar to DOUBLE, text
// to STRING, sequences to LIST, mappings to COMPOUND. This widens past
// the value's own constructor-picked width on purpose — it is what lets
// a later insert of a different-width same-category value (e.g. Long
// after an initial Int) succeed against the same declared kind.
func defaultKind(v Value) TagID {
	switch v.(type) {
	case Byte, Short, Int, Long:
		return TagLong
	case Float, Double:
		return TagDouble
	case Str:
		return TagString
	case *List:
		return TagList
	case *Compound:
		return TagCompound
	default:
		return v.Tag()
	}
}

// isDefaultValue reports whether v is the zero/default value for its own
// tag (Compound.SetKind's re-kinding path per I5 is only legal when this
// holds).
func isDefaultValue(v Value) bool {
	switch t := v.(type) {
	case Byte:
		return t == 0
	case Short:
		return t == 0
	case Int:
		return t == 0
	case Long:
		return t == 0
	case Float:
		return t == 0
	case Double:
		return t == 0
	case Str:
		return t == ""
	case *List:
		return t.Kind == TagUnknown && len(t.Items) == 0
	case *Compound:
		return t.Len() == 0
	default:
		return false
	}
}

func zeroValueFor(kind TagID) Value {
	switch kind {
	case TagByte:
		return Byte(0)
	case TagShort:
		return Short(0)
	case TagInt:
		return Int(0)
	case TagLong:
		return Long(0)
	case TagFloat:
		return Float(0)
	case TagDouble:
		return Double(0)
	case TagString:
		return Str("")
	case TagList:
		return &List{Kind: TagUnknown}
	case TagCompound:
		return NewCompound()
	default:
		panic(fmt.Sprintf("nbt: zeroValueFor: invalid declared kind %s", kind))
	}
}
