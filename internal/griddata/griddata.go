// Package griddata reads gridded array containers: a numeric feature block
// with a parallel list of source filenames, as written by the feature
// generation tools. Labels live in a separate annotation file and are
// joined by instance name.
package griddata

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"serdata/internal/annotations"
	"serdata/internal/dataset"
	"serdata/internal/ncfile"
)

// Container is the gridded artifact collaborator. The built in
// implementation is the netCDF classic reader; tests substitute fakes.
type Container interface {
	Floats(variable string) ([][]float64, error)
	Strings(variable string) ([]string, error)
	Close() error
}

// Variable names used by the feature artifacts.
const (
	FeaturesVar = "features"
	FilenameVar = "filename"
)

// Open opens a container file with the built in netCDF classic reader.
func Open(path string) (Container, error) {
	f, err := ncfile.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gridded container: %w: %w", dataset.ErrSourceRead, err)
	}
	return f, nil
}

// Read extracts the feature block and instance names from c and joins each
// instance's label from the annotation map. Instance names are the stems
// of the recorded filenames, and all columns are re-sorted into ascending
// name order so row order does not depend on how the artifact was written.
// The container is closed before returning, also on error.
func Read(c Container, labels map[string]string) (dataset.Table, error) {
	defer c.Close()

	block, err := c.Floats(FeaturesVar)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("read feature block: %w", err)
	}
	files, err := c.Strings(FilenameVar)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("read filename list: %w", err)
	}
	if len(block) != len(files) {
		return dataset.Table{}, fmt.Errorf(
			"feature block has %d rows for %d filenames", len(block), len(files))
	}
	if len(block) == 0 {
		return dataset.Table{}, fmt.Errorf("container holds no instances")
	}
	width := len(block[0])
	for i, row := range block {
		if len(row) != width {
			return dataset.Table{}, fmt.Errorf(
				"feature block row %d has %d columns, want %d", i, len(row), width)
		}
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = stem(f)
	}
	tokens := make([]string, len(names))
	for i, name := range names {
		label, err := annotations.Require(labels, name)
		if err != nil {
			return dataset.Table{}, err
		}
		tokens[i] = label
	}

	// Row order in the container follows the conversion tool's directory
	// walk; normalize to name order.
	perm := sortedPerm(names)

	n := len(names)
	data := make([]float64, n*width)
	sortedNames := make([]string, n)
	sortedTokens := make([]string, n)
	for dst, src := range perm {
		copy(data[dst*width:(dst+1)*width], block[src])
		sortedNames[dst] = names[src]
		sortedTokens[dst] = tokens[src]
	}

	attrs := make([]string, width)
	for i := range attrs {
		attrs[i] = fmt.Sprintf("representation_%d", i+1)
	}
	return dataset.Table{
		Names:  sortedNames,
		Attrs:  attrs,
		Tokens: sortedTokens,
		X:      mat.NewDense(n, width, data),
	}, nil
}

// ReadFile opens path and reads it with labels from the annotation file.
func ReadFile(path, annotationPath string) (dataset.Table, error) {
	labels, err := annotations.ParseClassification(annotationPath)
	if err != nil {
		return dataset.Table{}, err
	}
	c, err := Open(path)
	if err != nil {
		return dataset.Table{}, err
	}
	tbl, err := Read(c, labels)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("gridded container %s: %w", path, err)
	}
	return tbl, nil
}

// sortedPerm returns the source index for each destination position of the
// ascending name order.
func sortedPerm(names []string) []int {
	perm := make([]int, len(names))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		return names[perm[a]] < names[perm[b]]
	})
	return perm
}

func stem(path string) string {
	base := filepath.Base(strings.TrimSpace(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
