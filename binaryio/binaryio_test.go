package binaryio

import (
	"bytes"
	"testing"
)

func TestIntRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := WriteI8(buf, -128); err != nil {
		t.Fatal(err)
	}
	if err := WriteI16(buf, -32768); err != nil {
		t.Fatal(err)
	}
	if err := WriteI32(buf, -2147483648); err != nil {
		t.Fatal(err)
	}
	if err := WriteI64(buf, -9223372036854775808); err != nil {
		t.Fatal(err)
	}

	if v, err := ReadI8(buf); err != nil || v != -128 {
		t.Fatalf("ReadI8 = %v, %v", v, err)
	}
	if v, err := ReadI16(buf); err != nil || v != -32768 {
		t.Fatalf("ReadI16 = %v, %v", v, err)
	}
	if v, err := ReadI32(buf); err != nil || v != -2147483648 {
		t.Fatalf("ReadI32 = %v, %v", v, err)
	}
	if v, err := ReadI64(buf); err != nil || v != -9223372036854775808 {
		t.Fatalf("ReadI64 = %v, %v", v, err)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	WriteF32(buf, 1.5)
	WriteF64(buf, 2.25)

	f32, err := ReadF32(buf)
	if err != nil || f32 != 1.5 {
		t.Fatalf("ReadF32 = %v, %v", f32, err)
	}
	f64, err := ReadF64(buf)
	if err != nil || f64 != 2.25 {
		t.Fatalf("ReadF64 = %v, %v", f64, err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	if err := WriteString(buf, ""); err != nil {
		t.Fatal(err)
	}
	if err := WriteString(buf, "hello"); err != nil {
		t.Fatal(err)
	}

	s1, err := ReadString(buf)
	if err != nil || s1 != "" {
		t.Fatalf("ReadString = %q, %v", s1, err)
	}
	s2, err := ReadString(buf)
	if err != nil || s2 != "hello" {
		t.Fatalf("ReadString = %q, %v", s2, err)
	}
}

func TestStringInvalidUTF8(t *testing.T) {
	buf := new(bytes.Buffer)
	WriteI16(buf, 2)
	buf.Write([]byte{0xff, 0xfe})

	if _, err := ReadString(buf); err != ErrInvalidUTF8 {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestByteArrayRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	in := []int8{-128, 0, 127}
	if err := WriteByteArray(buf, in); err != nil {
		t.Fatal(err)
	}
	out, err := ReadByteArray(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("length mismatch: %v vs %v", out, in)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("element %d mismatch: %v vs %v", i, in[i], out[i])
		}
	}
}

func TestIntArrayRoundTrip(t *testing.T) {
	buf := new(bytes.Buffer)
	in := []int32{-2147483648, 0, 2147483647}
	if err := WriteIntArray(buf, in); err != nil {
		t.Fatal(err)
	}
	out, err := ReadIntArray(buf)
	if err != nil {
		t.Fatal(err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Fatalf("element %d mismatch: %v vs %v", i, in[i], out[i])
		}
	}
}

func TestNegativeLength(t *testing.T) {
	buf := new(bytes.Buffer)
	WriteI32(buf, -1)
	if _, err := ReadByteArray(buf); err != ErrNegativeLength {
		t.Fatalf("expected ErrNegativeLength, got %v", err)
	}
}

func TestUnexpectedEOF(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0x01})
	if _, err := ReadI32(buf); err != ErrUnexpectedEOF {
		t.Fatalf("expected ErrUnexpectedEOF, got %v", err)
	}
}
