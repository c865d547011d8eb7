package nbt

import (
	"errors"
	"io"

	"github.com/nictuku/anvil/binaryio"
)

// ErrExpectedCompound is returned by ReadFile/ReadCompound when the top-level tag
// is not a Compound (the conventional anonymous root of an NBT file).
var ErrExpectedCompound = errors.New("nbt: expected compound at top level")

func mapBinaryioErr(err error) error {
	switch err {
	case binaryio.ErrUnexpectedEOF:
		return ErrUnexpectedEOF
	case binaryio.ErrInvalidUTF8:
		return ErrInvalidUTF8
	case binaryio.ErrNegativeLength:
		return ErrNegativeLength
	default:
		return err
	}
}

// Read reads one named tag from r: a tag byte, (if not END) its name,
// then its payload. The decoder does not assume the root name or kind;
// callers that expect a Compound root should check the returned Value's
// Tag() (or use ReadCompound).
func Read(r io.Reader) (name string, v Value, err error) {
	tagByte, err := binaryio.ReadI8(r)
	if err != nil {
		return "", nil, mapBinaryioErr(err)
	}
	tag := TagID(byte(tagByte))
	if tag == TagEnd {
		return "", nil, nil
	}

	name, err = binaryio.ReadString(r)
	if err != nil {
		return "", nil, mapBinaryioErr(err)
	}

	v, err = readPayload(r, tag)
	if err != nil {
		return "", nil, err
	}
	return name, v, nil
}

// ReadCompound reads one named tag and requires it to decode to a
// Compound, returning the compound directly (the name is discarded, as
// the conventional root tag is unnamed).
func ReadCompound(r io.Reader) (*Compound, error) {
	_, v, err := Read(r)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errors.New("nbt: end tag found at top level")
	}
	c, ok := v.(*Compound)
	if !ok {
		return nil, ErrExpectedCompound
	}
	return c, nil
}

func readPayload(r io.Reader, tag TagID) (Value, error) {
	switch tag {
	case TagByte:
		i, err := binaryio.ReadI8(r)
		return Byte(i), mapBinaryioErr(err)
	case TagShort:
		i, err := binaryio.ReadI16(r)
		return Short(i), mapBinaryioErr(err)
	case TagInt:
		i, err := binaryio.ReadI32(r)
		return Int(i), mapBinaryioErr(err)
	case TagLong:
		i, err := binaryio.ReadI64(r)
		return Long(i), mapBinaryioErr(err)
	case TagFloat:
		f, err := binaryio.ReadF32(r)
		return Float(f), mapBinaryioErr(err)
	case TagDouble:
		f, err := binaryio.ReadF64(r)
		return Double(f), mapBinaryioErr(err)
	case TagString:
		s, err := binaryio.ReadString(r)
		return Str(s), mapBinaryioErr(err)
	case TagByteArray:
		return readByteArrayAsList(r)
	case TagIntArray:
		return readIntArrayAsList(r)
	case TagList:
		return readList(r)
	case TagCompound:
		return readCompoundBody(r)
	default:
		return nil, UnknownTagError(byte(tag))
	}
}

// readByteArrayAsList decodes a BYTE_ARRAY payload into a List with kind
// BYTE: the value model has no array variant, so BYTE_ARRAY and
// INT_ARRAY are normalized away on read (§4.3).
func readByteArrayAsList(r io.Reader) (Value, error) {
	raw, err := binaryio.ReadByteArray(r)
	if err != nil {
		return nil, mapBinaryioErr(err)
	}
	items := make([]Value, len(raw))
	for i, b := range raw {
		items[i] = Byte(b)
	}
	return &List{Kind: TagByte, Items: items}, nil
}

func readIntArrayAsList(r io.Reader) (Value, error) {
	raw, err := binaryio.ReadIntArray(r)
	if err != nil {
		return nil, mapBinaryioErr(err)
	}
	items := make([]Value, len(raw))
	for i, v := range raw {
		items[i] = Int(v)
	}
	return &List{Kind: TagInt, Items: items}, nil
}

func readList(r io.Reader) (Value, error) {
	innerByte, err := binaryio.ReadI8(r)
	if err != nil {
		return nil, mapBinaryioErr(err)
	}
	inner := TagID(byte(innerByte))

	count, err := binaryio.ReadI32(r)
	if err != nil {
		return nil, mapBinaryioErr(err)
	}
	if count < 0 {
		return nil, ErrNegativeLength
	}

	if count == 0 {
		// inner may legitimately be END here; decoded List has empty
		// items and unknown kind regardless of what the writer chose.
		return &List{Kind: TagUnknown}, nil
	}

	items := make([]Value, count)
	for i := range items {
		v, err := readPayload(r, inner)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	kind := inner
	if inner == TagByteArray || inner == TagIntArray {
		// Array elements decode to Lists, so the element kind is LIST.
		kind = TagList
	}
	return &List{Kind: kind, Items: items}, nil
}

func readCompoundBody(r io.Reader) (Value, error) {
	c := NewCompound()
	for {
		tagByte, err := binaryio.ReadI8(r)
		if err != nil {
			return nil, mapBinaryioErr(err)
		}
		tag := TagID(byte(tagByte))
		if tag == TagEnd {
			return c, nil
		}

		name, err := binaryio.ReadString(r)
		if err != nil {
			return nil, mapBinaryioErr(err)
		}

		v, err := readPayload(r, tag)
		if err != nil {
			return nil, err
		}

		// Decoder accepts duplicate keys last-writer-wins (§8 boundary
		// cases); writers must never emit duplicates.
		declared := v.Tag()
		if i, ok := c.index[name]; ok {
			c.entries[i] = compoundEntry{Key: name, Declared: declared, Value: v}
		} else {
			c.appendEntry(name, declared, v)
		}
	}
}
