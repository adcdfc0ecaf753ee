// Package annotations reads the label files that accompany feature
// artifacts. Annotation files are CSV with a header row; the first column
// is the instance name and the remaining columns carry labels or numeric
// ratings.
package annotations

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// ErrMissingLabel is returned when an instance present in a feature
// artifact has no entry in the annotation file.
var ErrMissingLabel = errors.New("missing label")

// ParseClassification reads a two-column annotation file mapping instance
// names to label tokens. Extra columns beyond the second are ignored.
func ParseClassification(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read annotation header in %s: %w", path, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("annotation file %s needs a name and a label column", path)
	}

	labels := make(map[string]string)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read annotations from %s: %w", path, err)
		}
		labels[record[0]] = record[1]
	}
	return labels, nil
}

// ParseRegression reads an annotation file whose columns after the first
// hold numeric ratings, e.g. valence and arousal scores. The result maps
// instance name to column name to value.
func ParseRegression(path string) (map[string]map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read annotation header in %s: %w", path, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("annotation file %s needs a name and at least one rating column", path)
	}

	ratings := make(map[string]map[string]float64)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read annotations from %s: %w", path, err)
		}
		row := make(map[string]float64, len(header)-1)
		for i, col := range header[1:] {
			v, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("annotation %s column %s: %w", record[0], col, err)
			}
			row[col] = v
		}
		ratings[record[0]] = row
	}
	return ratings, nil
}

// Require looks up the label for an instance name and reports a missing
// entry as ErrMissingLabel.
func Require(labels map[string]string, name string) (string, error) {
	label, ok := labels[name]
	if !ok {
		return "", fmt.Errorf("instance %q: %w", name, ErrMissingLabel)
	}
	return label, nil
}
