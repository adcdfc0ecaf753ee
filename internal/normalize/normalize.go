// Package normalize standardizes feature matrices to zero mean and unit
// variance per column, either over all rows or within each speaker's rows.
package normalize

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Method selects the rows a scaler is fitted on.
type Method string

const (
	// All fits one scaler over every row.
	All Method = "all"
	// Speaker fits an independent scaler per speaker.
	Speaker Method = "speaker"
	// None passes features through unchanged.
	None Method = "none"
)

// ParseMethod validates a method name from configuration or flags.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case All, Speaker, None:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown normalization method %q (have all, speaker, none)", s)
}

// Standardize returns a standardized copy of x; the input is never
// modified. Column moments use the population variance, and a zero
// variance column divides by one so constant features map to zero instead
// of failing. With method Speaker, speakerIdx assigns each row to a
// speaker in [0, nSpeakers) and each speaker's rows are fitted
// independently; speakers without rows are skipped.
func Standardize(x *mat.Dense, speakerIdx []int, nSpeakers int, method Method) (*mat.Dense, error) {
	rows, cols := x.Dims()
	out := mat.DenseCopyOf(x)
	switch method {
	case None:
		return out, nil
	case All:
		all := make([]int, rows)
		for i := range all {
			all[i] = i
		}
		scaleRows(out, all, cols)
		return out, nil
	case Speaker:
		if len(speakerIdx) != rows {
			return nil, fmt.Errorf("%d speaker indices for %d rows", len(speakerIdx), rows)
		}
		if nSpeakers < 1 {
			return nil, fmt.Errorf("speaker normalization needs a roster, got %d speakers", nSpeakers)
		}
		groups := make([][]int, nSpeakers)
		for i, s := range speakerIdx {
			if s < 0 || s >= nSpeakers {
				return nil, fmt.Errorf("row %d has speaker index %d outside [0, %d)", i, s, nSpeakers)
			}
			groups[s] = append(groups[s], i)
		}
		for _, group := range groups {
			if len(group) == 0 {
				continue
			}
			scaleRows(out, group, cols)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown normalization method %q", method)
}

// scaleRows standardizes the given rows of m in place, column by column.
func scaleRows(m *mat.Dense, rows []int, cols int) {
	vals := make([]float64, len(rows))
	for j := 0; j < cols; j++ {
		for k, i := range rows {
			vals[k] = m.At(i, j)
		}
		mean := stat.Mean(vals, nil)
		std := stat.PopStdDev(vals, nil)
		if std == 0 {
			std = 1
		}
		for _, i := range rows {
			m.Set(i, j, (m.At(i, j)-mean)/std)
		}
	}
}
