package nbt

import (
	"fmt"
	"io"

	"github.com/nictuku/anvil/binaryio"
)

// Write writes one named tag to w: a tag byte, (if not the END
// sentinel) its name, then its payload. It is the exact inverse of Read,
// including the BYTE_ARRAY/INT_ARRAY re-promotion of §4.4.
func Write(w io.Writer, name string, v Value) error {
	return writeNamedTag(w, name, v)
}

// WriteCompound writes c as the conventional anonymous root tag.
func WriteCompound(w io.Writer, c *Compound) error {
	return writeNamedTag(w, "", c)
}

// wireTagFor decides the tag byte used to introduce v as a named tag.
// Lists whose element kind is BYTE or INT are promoted to the
// BYTE_ARRAY / INT_ARRAY wire optimizations; everything else writes
// under its own tag.
func wireTagFor(v Value) TagID {
	if l, ok := v.(*List); ok {
		switch l.Kind {
		case TagByte:
			return TagByteArray
		case TagInt:
			return TagIntArray
		default:
			return TagList
		}
	}
	return v.Tag()
}

func writeNamedTag(w io.Writer, name string, v Value) error {
	wireTag := wireTagFor(v)
	if err := binaryio.WriteI8(w, int8(wireTag)); err != nil {
		return err
	}
	if err := binaryio.WriteString(w, name); err != nil {
		return err
	}
	return writePayload(w, wireTag, v)
}

func writePayload(w io.Writer, wireTag TagID, v Value) error {
	switch wireTag {
	case TagByte:
		return binaryio.WriteI8(w, int8(v.(Byte)))
	case TagShort:
		return binaryio.WriteI16(w, int16(v.(Short)))
	case TagInt:
		return binaryio.WriteI32(w, int32(v.(Int)))
	case TagLong:
		return binaryio.WriteI64(w, int64(v.(Long)))
	case TagFloat:
		return binaryio.WriteF32(w, float32(v.(Float)))
	case TagDouble:
		return binaryio.WriteF64(w, float64(v.(Double)))
	case TagString:
		return binaryio.WriteString(w, string(v.(Str)))
	case TagByteArray:
		return writeByteArrayPayload(w, v.(*List))
	case TagIntArray:
		return writeIntArrayPayload(w, v.(*List))
	case TagList:
		return writeListPayload(w, v.(*List))
	case TagCompound:
		return writeCompoundPayload(w, v.(*Compound))
	default:
		return fmt.Errorf("nbt: cannot write tag %s", wireTag)
	}
}

func writeByteArrayPayload(w io.Writer, l *List) error {
	arr := make([]int8, l.Len())
	for i, it := range l.Items {
		arr[i] = int8(it.(Byte))
	}
	return binaryio.WriteByteArray(w, arr)
}

func writeIntArrayPayload(w io.Writer, l *List) error {
	arr := make([]int32, l.Len())
	for i, it := range l.Items {
		arr[i] = int32(it.(Int))
	}
	return binaryio.WriteIntArray(w, arr)
}

// writeListPayload writes a LIST payload: inner_tag, count, then count
// bare payloads of inner_tag. When the list is empty with TagUnknown
// kind, inner_tag is END. When the list's element kind is itself LIST
// (list-of-lists), the shared inner_tag byte is decided by inspecting
// every element per the §4.4 promotion rule, including the "all inner
// lists empty → BYTE_ARRAY" convention (the "deuce" case).
func writeListPayload(w io.Writer, l *List) error {
	var innerTag TagID
	switch {
	case l.Kind == TagUnknown:
		innerTag = TagEnd
	case l.Kind == TagList:
		innerTag = promotedInnerTagForListOfLists(l.Items)
	default:
		innerTag = l.Kind
	}

	if err := binaryio.WriteI8(w, int8(innerTag)); err != nil {
		return err
	}
	if err := binaryio.WriteI32(w, int32(l.Len())); err != nil {
		return err
	}
	for _, item := range l.Items {
		if err := writePayload(w, innerTag, item); err != nil {
			return err
		}
	}
	return nil
}

// promotedInnerTagForListOfLists decides the wire inner_tag shared by
// every element of a list-of-lists: BYTE_ARRAY if every non-empty
// sub-list has kind BYTE, INT_ARRAY if every non-empty sub-list has kind
// INT, BYTE_ARRAY if all sub-lists are empty (the "deuce" convention
// inherited from the source implementation; see DESIGN.md), else LIST.
func promotedInnerTagForListOfLists(items []Value) TagID {
	allByte, allInt, anyNonEmpty := true, true, false
	for _, it := range items {
		sub := it.(*List)
		if sub.Len() == 0 {
			continue
		}
		anyNonEmpty = true
		if sub.Kind != TagByte {
			allByte = false
		}
		if sub.Kind != TagInt {
			allInt = false
		}
	}
	if !anyNonEmpty {
		return TagByteArray
	}
	if allByte {
		return TagByteArray
	}
	if allInt {
		return TagIntArray
	}
	return TagList
}

func writeCompoundPayload(w io.Writer, c *Compound) error {
	for _, e := range c.entries {
		if err := writeNamedTag(w, e.Key, e.Value); err != nil {
			return err
		}
	}
	return binaryio.WriteI8(w, int8(TagEnd))
}
