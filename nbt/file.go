package nbt

import (
	"os"

	"github.com/klauspost/compress/gzip"
)

// ReadFile reads a whole gzip-wrapped NBT file from path and decodes its
// root tag as a Compound. Callers reading from an already-decompressed
// stream should use Read/ReadCompound directly instead — the reader
// itself never assumes compression.
func ReadFile(path string) (*Compound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	return ReadCompound(gz)
}

// WriteFile gzip-compresses and writes c to path as the anonymous root
// tag, creating or truncating the file.
func WriteFile(path string, c *Compound) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if err := WriteCompound(gz, c); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}
