// Package sequence turns frame-level feature matrices into per-utterance
// sequences and pads sequences for batched consumers.
package sequence

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Group splits x into one matrix per run of rows sharing a name. Frames
// belonging to an utterance must be contiguous; a name that reappears
// after a different one is an error, since silently merging the runs
// would reorder frames. Sequences keep their order of first appearance.
// starts holds the row index where each sequence begins, so callers can
// recover per-sequence metadata from the frame-level rows.
func Group(x *mat.Dense, names []string) (seqs []*mat.Dense, groupNames []string, starts []int, err error) {
	rows, cols := x.Dims()
	if len(names) != rows {
		return nil, nil, nil, fmt.Errorf("%d names for %d rows", len(names), rows)
	}
	if rows == 0 {
		return nil, nil, nil, fmt.Errorf("no frames to group")
	}
	seen := make(map[string]int, rows)
	start := 0
	flush := func(end int) {
		sub := mat.NewDense(end-start, cols, nil)
		sub.Copy(x.Slice(start, end, 0, cols))
		seqs = append(seqs, sub)
		groupNames = append(groupNames, names[start])
		starts = append(starts, start)
	}
	for i, name := range names {
		if i > 0 && name == names[i-1] {
			continue
		}
		if first, ok := seen[name]; ok {
			return nil, nil, nil, fmt.Errorf("frames for %q are not contiguous (rows %d and %d)", name, first, i)
		}
		seen[name] = i
		if i > 0 {
			flush(i)
			start = i
		}
	}
	flush(rows)
	return seqs, groupNames, starts, nil
}

// Pad post-pads each sequence with zero rows up to the next multiple of
// the given length. Sequences already on a boundary are returned as-is,
// so padding is idempotent. The input slice is not modified.
func Pad(seqs []*mat.Dense, multiple int) ([]*mat.Dense, error) {
	if multiple < 1 {
		return nil, fmt.Errorf("pad multiple must be positive, got %d", multiple)
	}
	out := make([]*mat.Dense, len(seqs))
	for i, s := range seqs {
		rows, cols := s.Dims()
		if rows == 0 {
			return nil, fmt.Errorf("sequence %d is empty", i)
		}
		target := (rows + multiple - 1) / multiple * multiple
		if target == rows {
			out[i] = s
			continue
		}
		padded := mat.NewDense(target, cols, nil)
		padded.Slice(0, rows, 0, cols).(*mat.Dense).Copy(s)
		out[i] = padded
	}
	return out, nil
}
