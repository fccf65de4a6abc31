package chart

import "math"

// span is a contiguous run of sample indexes [lo, hi).
type span struct {
	lo, hi int
}

// indexSpans splits n samples into min(k, n) contiguous spans.
// For k >= 2 the first and last samples get spans of their own and the
// interior samples are split into k-2 spans as evenly as possible; with k == 2
// the interior is dropped.
func indexSpans(n, k int) []span {
	if n == 0 || k < 1 {
		return nil
	}
	if n <= k {
		spans := make([]span, n)
		for i := range spans {
			spans[i] = span{i, i + 1}
		}
		return spans
	}
	if k == 1 {
		return []span{{0, n}}
	}

	spans := make([]span, 0, k)
	spans = append(spans, span{0, 1})

	inner, parts := n-2, k-2
	for j := 0; j < parts; j++ {
		spans = append(spans, span{
			lo: 1 + j*inner/parts,
			hi: 1 + (j+1)*inner/parts,
		})
	}

	return append(spans, span{n - 1, n})
}

// grid maps coordinates in [from, to] to count equal-width buckets.
// A forward grid is anchored at from with buckets [lo, hi); the last bucket
// absorbs any remainder up to and including to. A backward (post) grid is
// anchored at to with buckets (lo, hi]; the first bucket absorbs the remainder
// down to and including from.
type grid struct {
	from, to float64
	width    float64
	count    int
	post     bool
}

// newEqualGrid builds a grid of count buckets. When the span holds at least
// one whole unit per bucket the width is floored to whole units, leaving a
// remainder for the boundary bucket on the side opposite the anchor.
func newEqualGrid(from, to float64, count int, post bool) grid {
	span := to - from
	width := span / float64(count)
	if span >= float64(count) {
		width = math.Floor(width)
	}
	return grid{from: from, to: to, width: width, count: count, post: post}
}

// newRangeGrid builds a forward grid of count buckets of exactly equal width.
func newRangeGrid(from, to float64, count int) grid {
	var width float64
	if count > 0 {
		width = (to - from) / float64(count)
	}
	return grid{from: from, to: to, width: width, count: count}
}

// index returns the bucket for coordinate c, or -1 when c is outside [from, to].
func (g grid) index(c float64) int {
	if c < g.from || c > g.to || g.count < 1 {
		return -1
	}
	if g.width <= 0 {
		if g.post {
			return g.count - 1
		}
		return 0
	}

	if g.post {
		i := g.count - 1 - int(math.Floor((g.to-c)/g.width))
		return max(i, 0)
	}
	i := int(math.Floor((c - g.from) / g.width))
	return min(i, g.count-1)
}

// position returns the X coordinate reported for bucket i: the anchored edge
// of the bucket, its start for forward grids and its end for post grids.
func (g grid) position(i int) float64 {
	if g.post {
		return g.to - float64(g.count-1-i)*g.width
	}
	return g.from + float64(i)*g.width
}

// center returns the midpoint of forward bucket i.
func (g grid) center(i int) float64 {
	return g.from + (float64(i)+0.5)*g.width
}

// accumulator is a running mean. NaN values propagate.
type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

// mean returns the average, or 0 for an empty accumulator.
func (a accumulator) mean() float64 {
	if a.count == 0 {
		return 0
	}
	return a.sum / float64(a.count)
}
