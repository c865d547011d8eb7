// Package region implements the Minecraft Region ("Anvil") file format: a
// random-access container holding up to 1024 independently addressable
// NBT payloads, indexed by a two-sector header of packed location words
// and timestamps, with a free-sector allocator that reuses space freed by
// rewrites or wipes before ever growing the file.
package region

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/nictuku/anvil/binaryio"
	"github.com/nictuku/anvil/nbt"
)

const (
	sectorSize      = 4096
	slotCount       = 1024
	headerSectors   = 2
	chunkHeaderSize = 5 // payload_length(4) covers comp_type(1) + compressed bytes, but not itself

	compressionGzip = 1
	compressionZlib = 2
)

type slotMeta struct {
	offset    uint32
	length    uint8
	timestamp uint32
}

func (m slotMeta) location() uint32 {
	return (m.offset << 8) | uint32(m.length)
}

func decodeLocation(loc uint32) (offset uint32, length uint8) {
	return loc >> 8, uint8(loc & 0xff)
}

func (m slotMeta) empty() bool { return m.length == 0 }

// Store is a single open Region file. It holds exclusive ownership of
// its file handle for its entire lifetime — concurrent access to the
// same Store from multiple goroutines is outside this package's
// contract; callers must serialize (§5 of the spec this implements).
type Store struct {
	f           *os.File
	path        string
	fromPath    bool
	meta        [slotCount]slotMeta
	free        map[uint32]struct{}
	sectorCount uint32
}

// Open opens path for read-write access, creating it (as an empty,
// two-sector-header file) if it does not exist. The returned Store owns
// path: closing a Store opened this way removes the file from disk once
// every slot is empty.
func Open(path string) (*Store, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, &IoError{Op: "open", Err: err}
	}
	s, err := newStore(f, true, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// OpenStream wraps an already-open, seekable read-write stream as a
// Store. Unlike Open, the Store never removes rw from anything on
// Close — it has no path to unlink.
func OpenStream(rw *os.File) (*Store, error) {
	return newStore(rw, false, "")
}

func newStore(f *os.File, fromPath bool, path string) (*Store, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, &IoError{Op: "stat", Err: err}
	}

	s := &Store{
		f:        f,
		path:     path,
		fromPath: fromPath,
		free:     make(map[uint32]struct{}),
	}

	size := info.Size()
	s.sectorCount = uint32(size / sectorSize)

	if s.sectorCount == 0 {
		s.sectorCount = headerSectors
		zero := make([]byte, headerSectors*sectorSize)
		if _, err := f.WriteAt(zero, 0); err != nil {
			return nil, &IoError{Op: "init", Err: err}
		}
		return s, nil
	}

	for i := uint32(headerSectors); i < s.sectorCount; i++ {
		s.free[i] = struct{}{}
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, &IoError{Op: "seek", Err: err}
	}
	for i := 0; i < slotCount; i++ {
		loc, err := binaryio.ReadI32(f)
		if err != nil {
			return nil, &IoError{Op: "read header locations", Err: err}
		}
		offset, length := decodeLocation(uint32(loc))
		s.meta[i].offset = offset
		s.meta[i].length = length
	}
	for i := 0; i < slotCount; i++ {
		ts, err := binaryio.ReadI32(f)
		if err != nil {
			return nil, &IoError{Op: "read header timestamps", Err: err}
		}
		s.meta[i].timestamp = uint32(ts)
	}

	for i := range s.meta {
		m := s.meta[i]
		if m.empty() {
			continue
		}
		for sec := m.offset; sec < m.offset+uint32(m.length); sec++ {
			delete(s.free, sec)
		}
	}

	return s, nil
}

func checkIndex(index int) error {
	if index < 0 || index >= slotCount {
		return ErrIndexOutOfRange
	}
	return nil
}

func indexFor(rz, rx int) (int, error) {
	if rz < 0 || rz >= 32 || rx < 0 || rx >= 32 {
		return 0, ErrIndexOutOfRange
	}
	return 32*rz + rx, nil
}

// Load decodes and returns the payload stored at index, or (nil, nil) if
// the slot is empty.
func (s *Store) Load(index int) (nbt.Value, error) {
	if err := checkIndex(index); err != nil {
		return nil, err
	}
	m := s.meta[index]
	if m.empty() {
		return nil, nil
	}

	if _, err := s.f.Seek(int64(m.offset)*sectorSize, io.SeekStart); err != nil {
		return nil, &IoError{Op: "seek payload", Err: err}
	}

	payloadLen, err := binaryio.ReadI32(s.f)
	if err != nil {
		return nil, &IoError{Op: "read payload length", Err: err}
	}
	compType, err := binaryio.ReadI8(s.f)
	if err != nil {
		return nil, &IoError{Op: "read compression type", Err: err}
	}

	compressed := make([]byte, int(payloadLen)-1)
	if _, err := io.ReadFull(s.f, compressed); err != nil {
		return nil, &IoError{Op: "read payload body", Err: err}
	}

	raw, err := decompress(byte(compType), compressed)
	if err != nil {
		return nil, err
	}

	_, v, err := nbt.Read(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return v, nil
}

// LoadAt is the (rz, rx) pseudo-coordinate form of Load, where
// index = 32*rz + rx.
func (s *Store) LoadAt(rz, rx int) (nbt.Value, error) {
	index, err := indexFor(rz, rx)
	if err != nil {
		return nil, err
	}
	return s.Load(index)
}

func decompress(compType byte, compressed []byte) ([]byte, error) {
	switch compType {
	case compressionGzip:
		gz, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, &CompressionError{Op: "gunzip", Err: err}
		}
		defer gz.Close()
		out, err := io.ReadAll(gz)
		if err != nil {
			return nil, &CompressionError{Op: "gunzip", Err: err}
		}
		return out, nil
	case compressionZlib:
		zr, err := zlib.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, &CompressionError{Op: "zlib inflate", Err: err}
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, &CompressionError{Op: "zlib inflate", Err: err}
		}
		return out, nil
	default:
		return nil, &CompressionError{Op: "decompress", Err: fmt.Errorf("unknown compression type %d", compType)}
	}
}

// Save encodes v as NBT, zlib-compresses it, and stores it at index,
// allocating the lowest run of contiguous free sectors that fits (or
// appending to the end of the file if none is free). The payload is
// written to disk before the header is updated. The slot's old sectors
// are freed before allocation and may be part of the chosen run, so a
// failure mid-write can leave the header pointing at a partially
// overwritten payload.
func (s *Store) Save(index int, v nbt.Value) error {
	if err := checkIndex(index); err != nil {
		return err
	}

	var raw bytes.Buffer
	if err := nbt.Write(&raw, "", v); err != nil {
		return err
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		zw.Close()
		return &CompressionError{Op: "zlib deflate", Err: err}
	}
	if err := zw.Close(); err != nil {
		return &CompressionError{Op: "zlib deflate", Err: err}
	}

	total := compressed.Len() + chunkHeaderSize
	needed := (total + sectorSize - 1) / sectorSize
	if needed > 255 {
		return ErrChunkTooLarge
	}

	old := s.meta[index]
	if !old.empty() {
		for sec := old.offset; sec < old.offset+uint32(old.length); sec++ {
			s.free[sec] = struct{}{}
		}
	}

	offset, appended := s.allocate(uint32(needed))

	if _, err := s.f.Seek(int64(offset)*sectorSize, io.SeekStart); err != nil {
		return &IoError{Op: "seek new payload", Err: err}
	}
	if err := binaryio.WriteI32(s.f, int32(total-4)); err != nil {
		return &IoError{Op: "write payload length", Err: err}
	}
	if err := binaryio.WriteI8(s.f, compressionZlib); err != nil {
		return &IoError{Op: "write compression type", Err: err}
	}
	if _, err := s.f.Write(compressed.Bytes()); err != nil {
		return &IoError{Op: "write payload body", Err: err}
	}
	if appended {
		pad := (sectorSize - total%sectorSize) % sectorSize
		if pad > 0 {
			if _, err := s.f.Write(make([]byte, pad)); err != nil {
				return &IoError{Op: "write padding", Err: err}
			}
		}
	}

	newMeta := slotMeta{offset: offset, length: uint8(needed), timestamp: uint32(time.Now().Unix())}
	if err := s.writeHeader(index, newMeta); err != nil {
		return err
	}
	s.meta[index] = newMeta

	return nil
}

// SaveAt is the (rz, rx) pseudo-coordinate form of Save.
func (s *Store) SaveAt(rz, rx int, v nbt.Value) error {
	index, err := indexFor(rz, rx)
	if err != nil {
		return err
	}
	return s.Save(index, v)
}

// allocate finds the lowest contiguous run of needed free sectors,
// scanning the free set in ascending order (favoring compaction toward
// the file head and never moving existing payloads), or appends to the
// end of the file if no run is free.
func (s *Store) allocate(needed uint32) (offset uint32, appended bool) {
	candidates := make([]uint32, 0, len(s.free))
	for sec := range s.free {
		candidates = append(candidates, sec)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	for _, start := range candidates {
		fits := true
		for sec := start; sec < start+needed; sec++ {
			if _, ok := s.free[sec]; !ok {
				fits = false
				break
			}
		}
		if fits {
			for sec := start; sec < start+needed; sec++ {
				delete(s.free, sec)
			}
			return start, false
		}
	}

	offset = s.sectorCount
	s.sectorCount += needed
	return offset, true
}

func (s *Store) writeHeader(index int, m slotMeta) error {
	locBuf := make([]byte, 4)
	putU32(locBuf, m.location())
	if _, err := s.f.WriteAt(locBuf, int64(4*index)); err != nil {
		return &IoError{Op: "write location word", Err: err}
	}

	tsBuf := make([]byte, 4)
	putU32(tsBuf, m.timestamp)
	if _, err := s.f.WriteAt(tsBuf, sectorSize+int64(4*index)); err != nil {
		return &IoError{Op: "write timestamp word", Err: err}
	}
	return nil
}

func putU32(buf []byte, v uint32) {
	buf[0] = byte(v >> 24)
	buf[1] = byte(v >> 16)
	buf[2] = byte(v >> 8)
	buf[3] = byte(v)
}

// Wipe clears the payload at index. It is a no-op if the slot is already
// empty. The offset field is left unchanged on disk (only the length
// byte need become zero for the slot to read as empty), but Load and
// Indexes always treat it as empty once Wipe has run.
func (s *Store) Wipe(index int) error {
	if err := checkIndex(index); err != nil {
		return err
	}
	m := s.meta[index]
	if m.empty() {
		return nil
	}

	for sec := m.offset; sec < m.offset+uint32(m.length); sec++ {
		s.free[sec] = struct{}{}
	}

	m.length = 0
	m.timestamp = uint32(time.Now().Unix())
	if err := s.writeHeader(index, m); err != nil {
		return err
	}
	s.meta[index] = m
	return nil
}

// WipeAt is the (rz, rx) pseudo-coordinate form of Wipe.
func (s *Store) WipeAt(rz, rx int) error {
	index, err := indexFor(rz, rx)
	if err != nil {
		return err
	}
	return s.Wipe(index)
}

// Indexes returns, in ascending order, every slot index currently
// holding a payload.
func (s *Store) Indexes() []int {
	var out []int
	for i, m := range s.meta {
		if !m.empty() {
			out = append(out, i)
		}
	}
	return out
}

// Len returns the number of currently populated slots.
func (s *Store) Len() int {
	n := 0
	for _, m := range s.meta {
		if !m.empty() {
			n++
		}
	}
	return n
}

// Entries loads every populated slot and returns its (index, value)
// pair in ascending index order. It stops and returns the first error
// encountered.
func (s *Store) Entries() ([]int, []nbt.Value, error) {
	indexes := s.Indexes()
	values := make([]nbt.Value, len(indexes))
	for i, idx := range indexes {
		v, err := s.Load(idx)
		if err != nil {
			return nil, nil, err
		}
		values[i] = v
	}
	return indexes, values, nil
}

// Close closes the underlying file handle. If the Store was opened by
// path (via Open) and every slot is empty, the file is also removed
// from the filesystem — a Store opened from an existing stream
// (OpenStream) is never unlinked.
func (s *Store) Close() error {
	empty := true
	for _, m := range s.meta {
		if !m.empty() {
			empty = false
			break
		}
	}

	err := s.f.Close()
	if err != nil {
		return &IoError{Op: "close", Err: err}
	}

	if s.fromPath && empty {
		if rmErr := os.Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
			return &IoError{Op: "remove", Err: rmErr}
		}
	}
	return nil
}
