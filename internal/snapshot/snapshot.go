// Package snapshot moves metric samples in and out of CSV files, optionally
// compressed with gzip, lz4 or zstd.
//
// A snapshot has a "timestamp,value" header followed by one row per sample.
// Timestamps are written as RFC 3339 with nanoseconds; on import plain
// RFC 3339 and integer unix milliseconds are accepted as well.
package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/willibrandon/tswindow/internal/metrics"
)

var header = []string{"timestamp", "value"}

// ErrMalformed marks an unreadable snapshot.
var ErrMalformed = errors.New("malformed snapshot")

// Stats describes a written snapshot file.
type Stats struct {
	Path        string
	Rows        int
	SizeBytes   int64
	Checksum    string
	Compression Compression
}

// checkEvery is how many rows pass between context checks.
const checkEvery = 4096

// Write encodes points as CSV through the compressor for c.
func Write(ctx context.Context, w io.Writer, points []metrics.DataPoint, c Compression) (int, error) {
	cw, err := newWriter(w, c)
	if err != nil {
		return 0, err
	}

	enc := csv.NewWriter(cw)
	if err := enc.Write(header); err != nil {
		cw.Close()
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	record := make([]string, 2)
	for i, dp := range points {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				cw.Close()
				return rows, err
			}
		}
		record[0] = dp.Timestamp.Format(time.RFC3339Nano)
		record[1] = strconv.FormatFloat(dp.Value, 'g', -1, 64)
		if err := enc.Write(record); err != nil {
			cw.Close()
			return rows, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		rows++
	}

	enc.Flush()
	if err := enc.Error(); err != nil {
		cw.Close()
		return rows, fmt.Errorf("failed to flush csv: %w", err)
	}
	if err := cw.Close(); err != nil {
		return rows, fmt.Errorf("failed to close compression writer: %w", err)
	}
	return rows, nil
}

// Read decodes a snapshot stream compressed with c.
func Read(ctx context.Context, r io.Reader, c Compression) ([]metrics.DataPoint, error) {
	cr, err := newReader(r, c)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	dec := csv.NewReader(cr)
	dec.FieldsPerRecord = 2
	dec.ReuseRecord = true

	first, err := dec.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !strings.EqualFold(first[0], header[0]) || !strings.EqualFold(first[1], header[1]) {
		return nil, fmt.Errorf("%w: expected header %q, got %q", ErrMalformed, header, first)
	}

	var points []metrics.DataPoint
	for line := 2; ; line++ {
		if line%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := dec.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		ts, err := parseTimestamp(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		points = append(points, metrics.NewDataPointAt(ts, value))
	}
	return points, nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// ExportFile writes points to path. When c is empty the codec is inferred
// from the extension.
func ExportFile(ctx context.Context, path string, points []metrics.DataPoint, c Compression) (*Stats, error) {
	if c == "" {
		c = CompressionFromPath(path)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	rows, err := Write(ctx, io.MultiWriter(file, hasher), points, c)
	if err != nil {
		return nil, err
	}
	if err := file.Sync(); err != nil {
		return nil, fmt.Errorf("failed to sync %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &Stats{
		Path:        path,
		Rows:        rows,
		SizeBytes:   info.Size(),
		Checksum:    "sha256:" + hex.EncodeToString(hasher.Sum(nil)),
		Compression: c,
	}, nil
}

// ImportFile reads the snapshot at path, inferring the codec from its
// extension.
func ImportFile(ctx context.Context, path string) ([]metrics.DataPoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	points, err := Read(ctx, file, CompressionFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return points, nil
}
