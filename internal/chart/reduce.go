package chart

import (
	"fmt"

	"github.com/willibrandon/tswindow/internal/metrics"
	"github.com/willibrandon/tswindow/internal/timerange"
)

// Request describes one reduction.
type Request struct {
	Samples   []metrics.DataPoint
	MaxCount  int
	Strategy  Strategy
	Formatter CoordinateFormatter

	// Range is the window the samples were fetched for. Required by the
	// partition strategies; MiddlePick and Average only use it to lay out
	// zero entries for an empty series.
	Range *timerange.Limits

	// Post anchors EqualCountPartition buckets at Range.To instead of Range.From.
	Post bool
}

// Reduce runs the requested strategy. Samples should be sorted by timestamp.
func Reduce(req Request) ([]Entry, error) {
	if err := checkMaxCount(req.MaxCount); err != nil {
		return nil, err
	}
	if req.Strategy.NeedsRange() && req.Range == nil {
		return nil, fmt.Errorf("%w: strategy %s requires a range", timerange.ErrInvalidArgument, req.Strategy)
	}

	switch req.Strategy {
	case MiddlePick, Average:
		if len(req.Samples) == 0 && req.Range != nil {
			return ReduceFixedPartition(nil, req.MaxCount, req.Formatter, *req.Range)
		}
		if req.Strategy == MiddlePick {
			return ReduceMiddlePick(req.Samples, req.MaxCount, req.Formatter)
		}
		return ReduceAverage(req.Samples, req.MaxCount, req.Formatter)
	case FixedPartition:
		return ReduceFixedPartition(req.Samples, req.MaxCount, req.Formatter, *req.Range)
	case EqualCountPartition:
		return ReduceEqualCountPartition(req.Samples, req.MaxCount, req.Formatter, *req.Range, req.Post)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %d", timerange.ErrInvalidArgument, int(req.Strategy))
	}
}

// ReduceMiddlePick keeps min(maxCount, len(samples)) samples, each the one
// nearest the middle of its index bucket. With maxCount >= 2 the first and
// last samples are always kept.
func ReduceMiddlePick(samples []metrics.DataPoint, maxCount int, f CoordinateFormatter) ([]Entry, error) {
	if err := checkMaxCount(maxCount); err != nil {
		return nil, err
	}

	spans := indexSpans(len(samples), maxCount)
	entries := make([]Entry, len(spans))
	for i, sp := range spans {
		s := samples[sp.lo+(sp.hi-sp.lo-1)/2]
		entries[i] = newEntry(f.ToCoordinate(s.Timestamp), s.Value)
	}
	return entries, nil
}

// ReduceAverage reduces to min(maxCount, len(samples)) entries holding the
// mean of each index bucket, placed at the bucket's first sample. With
// maxCount >= 2 the first and last buckets hold a single sample each.
func ReduceAverage(samples []metrics.DataPoint, maxCount int, f CoordinateFormatter) ([]Entry, error) {
	if err := checkMaxCount(maxCount); err != nil {
		return nil, err
	}

	spans := indexSpans(len(samples), maxCount)
	entries := make([]Entry, len(spans))
	for i, sp := range spans {
		var acc accumulator
		for _, s := range samples[sp.lo:sp.hi] {
			acc.add(s.Value)
		}
		entries[i] = newEntry(f.ToCoordinate(samples[sp.lo].Timestamp), acc.mean())
	}
	return entries, nil
}

// ReduceFixedPartition reduces to exactly maxCount entries laid out over limits.
//
// The range [From, To) is cut into maxCount-2 equal-duration partitions and
// To itself forms a final partition. Entry 0 sits at From and holds the first
// sample of partition 0; the following entries hold the mean of each
// partition (partition 0 without the sample already reported) at the
// partition's midpoint; the last entry sits at To. Empty partitions report 0
// and samples outside [From, To] are ignored.
func ReduceFixedPartition(samples []metrics.DataPoint, maxCount int, f CoordinateFormatter, limits timerange.Limits) ([]Entry, error) {
	if err := checkMaxCount(maxCount); err != nil {
		return nil, err
	}

	cFrom := f.ToCoordinate(limits.From)
	cTo := f.ToCoordinate(limits.To)

	if maxCount == 1 {
		var acc accumulator
		for _, s := range samples {
			if c := f.ToCoordinate(s.Timestamp); c >= cFrom && c <= cTo {
				acc.add(s.Value)
			}
		}
		return []Entry{newEntry(cTo, acc.mean())}, nil
	}

	g := newRangeGrid(cFrom, cTo, maxCount-2)
	buckets := make([]accumulator, g.count)
	var first, end accumulator

	for _, s := range samples {
		c := f.ToCoordinate(s.Timestamp)
		if c < cFrom || c > cTo {
			continue
		}
		if c == cTo {
			end.add(s.Value)
			continue
		}

		i := max(g.index(c), 0)
		if i == 0 && first.count == 0 {
			first.add(s.Value)
			continue
		}
		if i < len(buckets) {
			buckets[i].add(s.Value)
		}
	}

	entries := make([]Entry, 0, maxCount)
	entries = append(entries, newEntry(cFrom, first.mean()))
	for i, b := range buckets {
		entries = append(entries, newEntry(g.center(i), b.mean()))
	}
	return append(entries, newEntry(cTo, end.mean())), nil
}

// ReduceEqualCountPartition reduces to exactly maxCount entries, the means of
// equal-duration buckets over [limits.From, limits.To]. Buckets are anchored
// at From, or at To when post is set, so post decides which boundary bucket
// takes the remainder when the range does not split evenly. Unlike
// ReduceFixedPartition the boundary buckets are averaged like any other, so
// the first and last raw samples are not preserved.
func ReduceEqualCountPartition(samples []metrics.DataPoint, maxCount int, f CoordinateFormatter, limits timerange.Limits, post bool) ([]Entry, error) {
	if err := checkMaxCount(maxCount); err != nil {
		return nil, err
	}

	g := newEqualGrid(f.ToCoordinate(limits.From), f.ToCoordinate(limits.To), maxCount, post)
	buckets := make([]accumulator, maxCount)

	for _, s := range samples {
		if i := g.index(f.ToCoordinate(s.Timestamp)); i >= 0 {
			buckets[i].add(s.Value)
		}
	}

	entries := make([]Entry, maxCount)
	for i, b := range buckets {
		entries[i] = newEntry(g.position(i), b.mean())
	}
	return entries, nil
}

func checkMaxCount(maxCount int) error {
	if maxCount < 1 {
		return fmt.Errorf("%w: max count must be >= 1, got %d", timerange.ErrInvalidArgument, maxCount)
	}
	return nil
}
