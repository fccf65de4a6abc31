package snapshot

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the codec wrapped around the CSV stream.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionLZ4  Compression = "lz4"
	CompressionZstd Compression = "zstd"
)

// AllCompressions returns every supported codec.
func AllCompressions() []Compression {
	return []Compression{CompressionNone, CompressionGzip, CompressionLZ4, CompressionZstd}
}

// IsValid reports whether c is a supported codec.
func (c Compression) IsValid() bool {
	switch c {
	case CompressionNone, CompressionGzip, CompressionLZ4, CompressionZstd:
		return true
	}
	return false
}

// Extension returns the file suffix for c, empty for none.
func (c Compression) Extension() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionLZ4:
		return ".lz4"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// ParseCompression parses a codec name; the empty string means none.
func ParseCompression(s string) (Compression, error) {
	c := Compression(strings.ToLower(strings.TrimSpace(s)))
	if c == "" {
		return CompressionNone, nil
	}
	if !c.IsValid() {
		return "", fmt.Errorf("unknown compression %q", s)
	}
	return c, nil
}

// CompressionFromPath infers the codec from a file extension.
func CompressionFromPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CompressionGzip
	case ".lz4":
		return CompressionLZ4
	case ".zst", ".zstd":
		return CompressionZstd
	default:
		return CompressionNone
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// newWriter wraps w with the compressor for c. Closing the result flushes
// the compressor but leaves w open.
func newWriter(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionNone, "":
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return zw, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

type zstdReadCloser struct{ *zstd.Decoder }

func (z zstdReadCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// newReader wraps r with the decompressor for c.
func newReader(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionNone, "":
		return io.NopCloser(r), nil
	case CompressionGzip:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		return gr, nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		return zstdReadCloser{zr}, nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}
