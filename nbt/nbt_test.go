package nbt

import (
	"bytes"
	"testing"
)

func roundTrip(t *testing.T, name string, v Value) (string, Value) {
	t.Helper()
	buf := new(bytes.Buffer)
	if err := Write(buf, name, v); err != nil {
		t.Fatalf("Write: %v", err)
	}
	gotName, gotV, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return gotName, gotV
}

func TestScalarBoundaries(t *testing.T) {
	cases := []Value{
		Byte(-128), Byte(127),
		Short(-32768), Short(32767),
		Int(-2147483648), Int(2147483647),
		Long(-9223372036854775808), Long(9223372036854775807),
	}
	for _, v := range cases {
		_, got := roundTrip(t, "x", v)
		if got.Tag() != v.Tag() || got.String() != v.String() {
			t.Fatalf("round trip mismatch for %v: got %v", v, got)
		}
	}
}

func TestEmptyString(t *testing.T) {
	_, got := roundTrip(t, "x", Str(""))
	if got.(Str) != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestEmptyListWireFormat(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := Write(buf, "items", NewList()); err != nil {
		t.Fatal(err)
	}
	// tag(1) + name-len(2) + name(5) + inner_tag(1=END) + count(4=0)
	want := []byte{byte(TagList), 0, 5, 'i', 't', 'e', 'm', 's', byte(TagEnd), 0, 0, 0, 0}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("wire mismatch:\n got %x\nwant %x", buf.Bytes(), want)
	}

	_, v, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	l := v.(*List)
	if l.Kind != TagUnknown || l.Len() != 0 {
		t.Fatalf("expected empty unknown-kind list, got %+v", l)
	}
}

func TestListOfEmptyListsPromotesToByteArray(t *testing.T) {
	outer := NewList()
	if err := outer.Push(NewList()); err != nil {
		t.Fatal(err)
	}
	if err := outer.Push(NewList()); err != nil {
		t.Fatal(err)
	}

	buf := new(bytes.Buffer)
	if err := Write(buf, "deuce", outer); err != nil {
		t.Fatal(err)
	}

	_, v, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	got := v.(*List)
	if got.Kind != TagList || got.Len() != 2 {
		t.Fatalf("expected list of 2 empty byte-arrays, got kind=%s len=%d", got.Kind, got.Len())
	}
	for _, item := range got.Items {
		if item.(*List).Len() != 0 {
			t.Fatalf("expected nested empty list, got %v", item)
		}
	}
}

func TestByteArrayNormalizesToListOfByte(t *testing.T) {
	buf := new(bytes.Buffer)
	// Hand-encode a named BYTE_ARRAY tag: [-1, 0, 1].
	buf.Write([]byte{byte(TagByteArray), 0, 1, 'a'})
	buf.Write([]byte{0, 0, 0, 3}) // length
	buf.Write([]byte{0xff, 0x00, 0x01})

	name, v, err := Read(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if name != "a" {
		t.Fatalf("name = %q", name)
	}
	l, ok := v.(*List)
	if !ok || l.Kind != TagByte {
		t.Fatalf("expected List of Byte, got %#v", v)
	}
	want := []int8{-1, 0, 1}
	for i, w := range want {
		if l.Items[i].(Byte) != Byte(w) {
			t.Fatalf("item %d = %v, want %v", i, l.Items[i], w)
		}
	}

	// Writing it back must re-promote to BYTE_ARRAY and reproduce the
	// original bytes exactly.
	out := new(bytes.Buffer)
	if err := Write(out, name, v); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(out.Bytes(), buf.Bytes()) {
		t.Fatalf("round trip mismatch:\n got %x\nwant %x", out.Bytes(), buf.Bytes())
	}
}

func TestCompoundPreservesInsertionOrder(t *testing.T) {
	c := NewCompound()
	keys := []string{"zebra", "apple", "mango", "banana"}
	for i, k := range keys {
		if err := c.Insert(k, Int(int32(i))); err != nil {
			t.Fatal(err)
		}
	}

	buf := new(bytes.Buffer)
	if err := WriteCompound(buf, c); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCompound(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if got.Keys() == nil {
		t.Fatal("expected keys")
	}
	for i, k := range got.Keys() {
		if k != keys[i] {
			t.Fatalf("key order mismatch at %d: got %q, want %q", i, k, keys[i])
		}
	}
}

func TestCompoundDuplicateKeysLastWriterWins(t *testing.T) {
	buf := new(bytes.Buffer)
	buf.Write([]byte{byte(TagCompound), 0, 0}) // unnamed root compound

	writeNamedTag(buf, "dup", Int(1))
	writeNamedTag(buf, "dup", Int(2))
	buf.Write([]byte{byte(TagEnd)})

	c, err := ReadCompound(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after dedup, got %d", c.Len())
	}
	v, _ := c.Get("dup")
	if v.(Int) != 2 {
		t.Fatalf("expected last-writer-wins value 2, got %v", v)
	}
}

func TestInsertDefaultKindWidensIntegersToLong(t *testing.T) {
	c := NewCompound()
	if err := c.Insert("k", Int(1)); err != nil {
		t.Fatal(err)
	}
	kind, ok := c.DeclaredKind("k")
	if !ok || kind != TagLong {
		t.Fatalf("expected a fresh integer insert to declare Long, got %v", kind)
	}
	// A later Long insert into the same key must succeed: the declared
	// kind is the category (LONG), not the first value's own width.
	if err := c.Insert("k", Long(2)); err != nil {
		t.Fatalf("expected same-category Long insert to succeed: %v", err)
	}
}

func TestInsertDefaultKindWidensFloatsToDouble(t *testing.T) {
	c := NewCompound()
	if err := c.Insert("k", Float(1.5)); err != nil {
		t.Fatal(err)
	}
	kind, ok := c.DeclaredKind("k")
	if !ok || kind != TagDouble {
		t.Fatalf("expected a fresh float insert to declare Double, got %v", kind)
	}
	if err := c.Insert("k", Double(2.5)); err != nil {
		t.Fatalf("expected same-category Double insert to succeed: %v", err)
	}
}

func TestInsertKindMismatch(t *testing.T) {
	c := NewCompound()
	if err := c.Insert("k", Int(1)); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert("k", Str("x")); err == nil {
		t.Fatal("expected KindMismatchError for a different-category value")
	}
}

func TestSetKindCreatesDefault(t *testing.T) {
	c := NewCompound()
	if err := c.SetKind("s", TagString); err != nil {
		t.Fatal(err)
	}
	v, ok := c.Get("s")
	if !ok || v.(Str) != "" {
		t.Fatalf("expected default empty string, got %v", v)
	}
}

func TestSetKindRekindsStillDefaultValue(t *testing.T) {
	c := NewCompound()
	if err := c.SetKind("s", TagByte); err != nil {
		t.Fatal(err)
	}
	// The entry still holds Byte(0), its default: I5 permits re-kinding.
	if err := c.SetKind("s", TagLong); err != nil {
		t.Fatalf("expected re-kind of a still-default value to succeed: %v", err)
	}
	v, ok := c.Get("s")
	if !ok || v.(Long) != 0 {
		t.Fatalf("expected default Long(0) after re-kind, got %v", v)
	}
}

func TestSetKindRejectsRekindOfNonDefaultValue(t *testing.T) {
	c := NewCompound()
	if err := c.SetKind("s", TagByte); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert("s", Byte(5)); err != nil {
		t.Fatal(err)
	}
	if err := c.SetKind("s", TagLong); err == nil {
		t.Fatal("expected rejection: current value is not the default for its kind")
	}
}

func TestSetKindRejectsArrayTags(t *testing.T) {
	c := NewCompound()
	if err := c.SetKind("bad", TagByteArray); err == nil {
		t.Fatal("expected rejection of BYTE_ARRAY as a declared compound kind")
	}
	if err := c.SetKind("bad", TagEnd); err == nil {
		t.Fatal("expected rejection of END as a declared compound kind")
	}
}

func TestListPushKindMismatch(t *testing.T) {
	l := NewList()
	if err := l.Push(Byte(1)); err != nil {
		t.Fatal(err)
	}
	if err := l.Push(Short(1)); err == nil {
		t.Fatal("expected KindMismatchError")
	}
}

func TestListOfCompounds(t *testing.T) {
	l := NewList()
	for i := 0; i < 3; i++ {
		c := NewCompound()
		c.Insert("n", Int(int32(i)))
		if err := l.Push(c); err != nil {
			t.Fatal(err)
		}
	}

	_, got := roundTrip(t, "list", l)
	gl := got.(*List)
	if gl.Kind != TagCompound || gl.Len() != 3 {
		t.Fatalf("unexpected list: %+v", gl)
	}
	for i, item := range gl.Items {
		v, _ := item.(*Compound).Get("n")
		if v.(Int) != Int(int32(i)) {
			t.Fatalf("compound %d: n = %v", i, v)
		}
	}
}
