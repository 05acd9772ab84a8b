// Package table implements the piecewise-linear table function: an
// immutable, strictly-ascending sequence of (x,y) samples queried by
// linear interpolation between the two samples that bracket the
// argument, with a tolerance band so that a query that lands within
// floating-point noise of either endpoint clamps rather than errors.
package table

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/halvardsen/numwb/internal/wberrors"
)

// Sample is one (x, y) pair of a table function.
type Sample struct {
	X, Y float64
}

// Table is an ordered, strictly-ascending-by-x sequence of samples plus a
// derived tolerance epsilon: the minimum consecutive delta-x divided by
// the sample count, or 0 for an empty or single-point table. A Table is
// immutable once built.
type Table struct {
	samples []Sample
	eps     float64
}

// FromSamples sorts a copy of pts ascending by X and derives its tolerance.
// Duplicate X values are permitted by this constructor; Apply resolves a
// query against the first bracketing pair it finds, matching the reference
// implementation's linear scan.
func FromSamples(pts []Sample) *Table {
	sorted := make([]Sample, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	return &Table{samples: sorted, eps: epsilonOf(sorted)}
}

func epsilonOf(sorted []Sample) float64 {
	if len(sorted) < 2 {
		return 0
	}
	minDx := sorted[1].X - sorted[0].X
	for i := 2; i < len(sorted); i++ {
		if dx := sorted[i].X - sorted[i-1].X; dx < minDx {
			minDx = dx
		}
	}
	return minDx / float64(len(sorted))
}

// FromCSV reads "x,y" lines (extra fields per line are ignored, matching
// the reference reader's take(2)) and builds a Table from them. A
// malformed line surfaces *wberrors.InvalidCSV naming its 0-based line
// number.
func FromCSV(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	var pts []Sample

	for line := 0; scanner.Scan(); line++ {
		text := scanner.Text()
		fields := strings.SplitN(text, ",", 3)
		if len(fields) < 2 {
			return nil, &wberrors.InvalidCSV{Line: line, Text: text, Err: strconv.ErrSyntax}
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, &wberrors.InvalidCSV{Line: line, Text: text, Err: err}
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, &wberrors.InvalidCSV{Line: line, Text: text, Err: err}
		}
		pts = append(pts, Sample{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return FromSamples(pts), nil
}

// Len reports the number of samples in t.
func (t *Table) Len() int { return len(t.samples) }

// Epsilon returns t's derived tolerance band.
func (t *Table) Epsilon() float64 { return t.eps }

// Apply interpolates t at arg. An empty table returns wberrors.ErrTableEmpty.
// arg within Epsilon of either endpoint clamps to that endpoint's y value;
// otherwise arg strictly outside [x_min, x_max] returns *wberrors.OutOfBounds.
func (t *Table) Apply(arg float64) (float64, error) {
	if len(t.samples) == 0 {
		return 0, wberrors.ErrTableEmpty
	}

	first, last := t.samples[0], t.samples[len(t.samples)-1]

	if len(t.samples) == 1 {
		if arg == first.X {
			return first.Y, nil
		}
		return 0, &wberrors.OutOfBounds{Arg: arg, LowerX: first.X, UpperX: last.X}
	}

	if arg < first.X {
		if first.X-arg <= t.eps {
			return first.Y, nil
		}
		return 0, &wberrors.OutOfBounds{Arg: arg, LowerX: first.X, UpperX: last.X}
	}
	if arg > last.X {
		if arg-last.X <= t.eps {
			return last.Y, nil
		}
		return 0, &wberrors.OutOfBounds{Arg: arg, LowerX: first.X, UpperX: last.X}
	}

	for i := 1; i < len(t.samples); i++ {
		prev, cur := t.samples[i-1], t.samples[i]
		if prev.X <= arg && arg <= cur.X {
			return lerp(prev.X, cur.X, arg, prev.Y, cur.Y), nil
		}
	}

	return 0, &wberrors.OutOfBounds{Arg: arg, LowerX: first.X, UpperX: last.X}
}

func lerp(minX, maxX, x, fromY, toY float64) float64 {
	if maxX == minX {
		return fromY
	}
	frac := (x - minX) / (maxX - minX)
	return fromY*(1-frac) + toY*frac
}

// Samples returns a copy of t's sorted (x,y) pairs.
func (t *Table) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}
