// Package binaryio provides the fixed-width, big-endian read/write
// primitives that the NBT codec and the Region store build on: signed
// integers of every NBT width, IEEE-754 floats, length-prefixed UTF-8
// strings, and length-prefixed homogeneous integer arrays.
package binaryio

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"unicode/utf8"
)

var (
	// ErrUnexpectedEOF is returned when a stream ends mid-field.
	ErrUnexpectedEOF = errors.New("binaryio: unexpected end of stream")
	// ErrInvalidUTF8 is returned when string bytes do not decode as UTF-8.
	ErrInvalidUTF8 = errors.New("binaryio: invalid utf-8 in string")
	// ErrNegativeLength is returned when an array length prefix is
	// negative.
	ErrNegativeLength = errors.New("binaryio: negative length prefix")
)

func wrapEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrUnexpectedEOF
	}
	return err
}

func ReadI8(r io.Reader) (int8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapEOF(err)
	}
	return int8(buf[0]), nil
}

func WriteI8(w io.Writer, v int8) error {
	_, err := w.Write([]byte{byte(v)})
	return err
}

func ReadI16(r io.Reader) (int16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapEOF(err)
	}
	return int16(binary.BigEndian.Uint16(buf[:])), nil
}

func WriteI16(w io.Writer, v int16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], uint16(v))
	_, err := w.Write(buf[:])
	return err
}

func ReadI32(r io.Reader) (int32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapEOF(err)
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

func WriteI32(w io.Writer, v int32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

func ReadI64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, wrapEOF(err)
	}
	return int64(binary.BigEndian.Uint64(buf[:])), nil
}

func WriteI64(w io.Writer, v int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

func ReadF32(r io.Reader) (float32, error) {
	bits, err := ReadI32(r)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(bits)), nil
}

func WriteF32(w io.Writer, v float32) error {
	return WriteI32(w, int32(math.Float32bits(v)))
}

func ReadF64(r io.Reader) (float64, error) {
	bits, err := ReadI64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(bits)), nil
}

func WriteF64(w io.Writer, v float64) error {
	return WriteI64(w, int64(math.Float64bits(v)))
}

// ReadString reads a u16-length-prefixed UTF-8 string.
func ReadString(r io.Reader) (string, error) {
	prefix, err := ReadI16(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, uint16(prefix))
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", wrapEOF(err)
	}
	if !utf8.Valid(buf) {
		return "", ErrInvalidUTF8
	}
	return string(buf), nil
}

// WriteString writes a u16-length-prefixed UTF-8 string.
func WriteString(w io.Writer, s string) error {
	if err := WriteI16(w, int16(len(s))); err != nil {
		return err
	}
	_, err := w.Write([]byte(s))
	return err
}

// ReadByteArray reads an i32-length-prefixed array of signed bytes.
func ReadByteArray(r io.Reader) ([]int8, error) {
	length, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, ErrNegativeLength
	}
	raw := make([]byte, length)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, wrapEOF(err)
	}
	out := make([]int8, length)
	for i, b := range raw {
		out[i] = int8(b)
	}
	return out, nil
}

// WriteByteArray writes an i32-length-prefixed array of signed bytes.
func WriteByteArray(w io.Writer, v []int8) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	raw := make([]byte, len(v))
	for i, b := range v {
		raw[i] = byte(b)
	}
	_, err := w.Write(raw)
	return err
}

// ReadIntArray reads an i32-length-prefixed array of i32 values.
func ReadIntArray(r io.Reader) ([]int32, error) {
	length, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, ErrNegativeLength
	}
	out := make([]int32, length)
	for i := range out {
		v, err := ReadI32(r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WriteIntArray writes an i32-length-prefixed array of i32 values.
func WriteIntArray(w io.Writer, v []int32) error {
	if err := WriteI32(w, int32(len(v))); err != nil {
		return err
	}
	for _, x := range v {
		if err := WriteI32(w, x); err != nil {
			return err
		}
	}
	return nil
}
