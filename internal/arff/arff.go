// Package arff reads attribute-relation text files and their packed binary
// variant. The text format is parsed here; the binary layout is owned by
// the producing tool and handled through the Decoder interface.
package arff

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"serdata/internal/dataset"
)

// Attribute is one declared column: a name and the raw type text, e.g.
// "numeric" or "string".
type Attribute struct {
	Name string
	Type string
}

// Relation is a parsed attribute file: the relation name, the declared
// attributes, and the data rows as raw string fields.
type Relation struct {
	Name       string
	Attributes []Attribute
	Rows       [][]string
}

// Decoder turns a packed binary attribute file into a Relation.
type Decoder interface {
	Decode(r io.Reader) (*Relation, error)
}

// Load reads and parses a text attribute file.
func Load(path string) (*Relation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("attribute file %s: %w: %w", path, dataset.ErrSourceRead, err)
	}
	defer f.Close()
	rel, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("attribute file %s: %w", path, err)
	}
	return rel, nil
}

// LoadPacked reads a packed binary attribute file through dec.
func LoadPacked(path string, dec Decoder) (*Relation, error) {
	if dec == nil {
		return nil, fmt.Errorf("attribute file %s is packed but no decoder is configured", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("attribute file %s: %w: %w", path, dataset.ErrSourceRead, err)
	}
	defer f.Close()
	rel, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode packed attribute file %s: %w: %w",
			path, dataset.ErrSourceRead, err)
	}
	return rel, nil
}

// Parse reads the text format: an @relation line, @attribute declarations,
// and comma separated data rows after @data. Comment lines start with %.
// Single quoted fields may contain commas and spaces.
func Parse(r io.Reader) (*Relation, error) {
	scanner := bufio.NewScanner(r)
	// Feature rows with thousands of columns exceed the default token
	// size.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	rel := &Relation{}
	inData := false
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		if !inData {
			lower := strings.ToLower(line)
			switch {
			case strings.HasPrefix(lower, "@relation"):
				rel.Name = unquote(strings.TrimSpace(line[len("@relation"):]))
			case strings.HasPrefix(lower, "@attribute"):
				attr, err := parseAttribute(strings.TrimSpace(line[len("@attribute"):]))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				rel.Attributes = append(rel.Attributes, attr)
			case strings.HasPrefix(lower, "@data"):
				inData = true
			default:
				return nil, fmt.Errorf("line %d: unexpected header line %q", lineNo, line)
			}
			continue
		}
		fields, err := splitFields(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(fields) != len(rel.Attributes) {
			return nil, fmt.Errorf("line %d: %d fields for %d attributes",
				lineNo, len(fields), len(rel.Attributes))
		}
		rel.Rows = append(rel.Rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrSourceRead, err)
	}
	if rel.Name == "" {
		return nil, fmt.Errorf("missing @relation declaration")
	}
	if !inData {
		return nil, fmt.Errorf("missing @data section")
	}
	return rel, nil
}

// parseAttribute splits "name type" where the name may be single quoted.
func parseAttribute(s string) (Attribute, error) {
	if s == "" {
		return Attribute{}, fmt.Errorf("attribute declaration without a name")
	}
	if s[0] == '\'' {
		end := strings.IndexByte(s[1:], '\'')
		if end < 0 {
			return Attribute{}, fmt.Errorf("unterminated quoted attribute name in %q", s)
		}
		name := s[1 : 1+end]
		typ := strings.TrimSpace(s[2+end:])
		if typ == "" {
			return Attribute{}, fmt.Errorf("attribute %q has no type", name)
		}
		return Attribute{Name: name, Type: typ}, nil
	}
	name, typ, found := strings.Cut(s, " ")
	if !found {
		name, typ, found = strings.Cut(s, "\t")
	}
	if !found || strings.TrimSpace(typ) == "" {
		return Attribute{}, fmt.Errorf("attribute declaration %q has no type", s)
	}
	return Attribute{Name: name, Type: strings.TrimSpace(typ)}, nil
}

// splitFields splits a data row on commas, honoring single quoted fields.
func splitFields(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case c == ',' && !inQuote:
			fields = append(fields, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in data row")
	}
	fields = append(fields, strings.TrimSpace(cur.String()))
	return fields, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}
