package arff

import (
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"serdata/internal/dataset"
)

// Table converts a relation into the readers' common raw table. The first
// attribute is the instance name, the last is the label token, and the
// attributes in between are numeric feature dimensions. The relation name
// becomes the table's corpus hint.
func Table(rel *Relation) (dataset.Table, error) {
	if len(rel.Attributes) < 3 {
		return dataset.Table{}, fmt.Errorf(
			"relation %s declares %d attributes, need a name, features, and a label",
			rel.Name, len(rel.Attributes))
	}
	nFeatures := len(rel.Attributes) - 2
	attrs := make([]string, nFeatures)
	for i, a := range rel.Attributes[1 : len(rel.Attributes)-1] {
		attrs[i] = a.Name
	}

	n := len(rel.Rows)
	names := make([]string, n)
	tokens := make([]string, n)
	data := make([]float64, n*nFeatures)
	for i, row := range rel.Rows {
		names[i] = row[0]
		tokens[i] = row[len(row)-1]
		for j, field := range row[1 : len(row)-1] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return dataset.Table{}, fmt.Errorf(
					"relation %s row %d column %s: %w", rel.Name, i+1, attrs[j], err)
			}
			data[i*nFeatures+j] = v
		}
	}

	var x *mat.Dense
	if n > 0 {
		x = mat.NewDense(n, nFeatures, data)
	}
	return dataset.Table{
		Corpus: rel.Name,
		Names:  names,
		Attrs:  attrs,
		Tokens: tokens,
		X:      x,
	}, nil
}
