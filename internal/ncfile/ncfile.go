// Package ncfile reads netCDF classic containers (CDF-1 and CDF-2).
//
// The classic format is a big endian header listing dimensions, attributes,
// and variables, followed by a data section. Fixed size variables are
// stored contiguously at their recorded offset; variables along the record
// dimension are interleaved per record. This package covers the subset the
// feature artifacts use: numeric matrices and fixed width character
// matrices, plus header metadata.
package ncfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// Type is a netCDF external data type.
type Type uint32

const (
	Byte   Type = 1
	Char   Type = 2
	Short  Type = 3
	Int    Type = 4
	Float  Type = 5
	Double Type = 6
)

func (t Type) size() int64 {
	switch t {
	case Byte, Char:
		return 1
	case Short:
		return 2
	case Int, Float:
		return 4
	case Double:
		return 8
	}
	return 0
}

func (t Type) String() string {
	switch t {
	case Byte:
		return "byte"
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	}
	return fmt.Sprintf("type(%d)", uint32(t))
}

// Dim is a named dimension. The record dimension has Length 0 in the
// header; its effective length is the file's record count.
type Dim struct {
	Name   string
	Length int64
}

// Var is a variable declaration from the header.
type Var struct {
	Name string
	Type Type
	// DimIDs are indices into the file's dimension list, outermost first.
	DimIDs []int
	Atts   map[string]any

	begin  int64
	record bool
}

const (
	tagDimension = 0x0A
	tagVariable  = 0x0B
	tagAttribute = 0x0C

	streamingRecs = 0xFFFFFFFF
)

// File is an open container. Concurrent reads of distinct variables are
// safe; Close invalidates all pending reads.
type File struct {
	f       *os.File
	path    string
	version byte
	numRecs int64
	dims    []Dim
	atts    map[string]any
	vars    []Var
	varIdx  map[string]int
	recSize int64
}

// Open parses the header of a netCDF classic file.
func Open(path string) (*File, error) {
	osf, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	f, err := parseHeader(osf, path)
	if err != nil {
		osf.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	return f.f.Close()
}

// Version returns 1 for CDF-1 and 2 for CDF-2 containers.
func (f *File) Version() int {
	return int(f.version)
}

// NumRecords returns the length of the record dimension.
func (f *File) NumRecords() int64 {
	return f.numRecs
}

// Dimensions returns the declared dimensions in file order.
func (f *File) Dimensions() []Dim {
	return f.dims
}

// DimLength returns the effective length of a named dimension, resolving
// the record dimension to the record count.
func (f *File) DimLength(name string) (int64, bool) {
	for _, d := range f.dims {
		if d.Name == name {
			if d.Length == 0 {
				return f.numRecs, true
			}
			return d.Length, true
		}
	}
	return 0, false
}

// Attributes returns the global attributes.
func (f *File) Attributes() map[string]any {
	return f.atts
}

// Variables returns the declared variable names in file order.
func (f *File) Variables() []string {
	names := make([]string, len(f.vars))
	for i, v := range f.vars {
		names[i] = v.Name
	}
	return names
}

// Var returns a variable declaration by name.
func (f *File) Var(name string) (Var, bool) {
	i, ok := f.varIdx[name]
	if !ok {
		return Var{}, false
	}
	return f.vars[i], true
}

// dimLen resolves a dimension ID to its effective length.
func (f *File) dimLen(id int) int64 {
	if f.dims[id].Length == 0 {
		return f.numRecs
	}
	return f.dims[id].Length
}

// shape returns the effective lengths of a variable's dimensions.
func (f *File) shape(v Var) []int64 {
	out := make([]int64, len(v.DimIDs))
	for i, id := range v.DimIDs {
		out[i] = f.dimLen(id)
	}
	return out
}

// slabSize returns the byte size of one record's worth of a record
// variable, or the full payload of a fixed variable, without padding.
func (f *File) slabSize(v Var) int64 {
	size := v.Type.size()
	for i, id := range v.DimIDs {
		if i == 0 && v.record {
			continue
		}
		size *= f.dims[id].Length
	}
	return size
}

// Floats reads a two dimensional numeric variable as rows of float64.
func (f *File) Floats(name string) ([][]float64, error) {
	v, ok := f.Var(name)
	if !ok {
		return nil, fmt.Errorf("%s: no variable %q", f.path, name)
	}
	if v.Type == Char {
		return nil, fmt.Errorf("%s: variable %q is char, not numeric", f.path, name)
	}
	shape := f.shape(v)
	if len(shape) != 2 {
		return nil, fmt.Errorf("%s: variable %q has %d dimensions, want 2", f.path, name, len(shape))
	}
	rows, cols := shape[0], shape[1]
	out := make([][]float64, rows)
	buf := make([]byte, cols*v.Type.size())
	for r := int64(0); r < rows; r++ {
		if err := f.readSlab(v, r, buf); err != nil {
			return nil, fmt.Errorf("%s: variable %q row %d: %w", f.path, name, r, err)
		}
		row := make([]float64, cols)
		for c := int64(0); c < cols; c++ {
			row[c] = decodeValue(v.Type, buf[c*v.Type.size():])
		}
		out[r] = row
	}
	return out, nil
}

// Strings reads a two dimensional char variable as one string per row,
// trimmed of NUL padding and trailing spaces.
func (f *File) Strings(name string) ([]string, error) {
	v, ok := f.Var(name)
	if !ok {
		return nil, fmt.Errorf("%s: no variable %q", f.path, name)
	}
	if v.Type != Char {
		return nil, fmt.Errorf("%s: variable %q is %s, not char", f.path, name, v.Type)
	}
	shape := f.shape(v)
	if len(shape) != 2 {
		return nil, fmt.Errorf("%s: variable %q has %d dimensions, want 2", f.path, name, len(shape))
	}
	rows, width := shape[0], shape[1]
	out := make([]string, rows)
	buf := make([]byte, width)
	for r := int64(0); r < rows; r++ {
		if err := f.readSlab(v, r, buf); err != nil {
			return nil, fmt.Errorf("%s: variable %q row %d: %w", f.path, name, r, err)
		}
		out[r] = trimChar(buf)
	}
	return out, nil
}

// readSlab fills buf with row r of a two dimensional variable. For record
// variables rows are strided by the record size, for fixed variables they
// are contiguous.
func (f *File) readSlab(v Var, r int64, buf []byte) error {
	var off int64
	if v.record {
		off = v.begin + r*f.recSize
	} else {
		off = v.begin + r*int64(len(buf))
	}
	_, err := f.f.ReadAt(buf, off)
	return err
}

func decodeValue(t Type, b []byte) float64 {
	switch t {
	case Byte:
		return float64(int8(b[0]))
	case Short:
		return float64(int16(binary.BigEndian.Uint16(b)))
	case Int:
		return float64(int32(binary.BigEndian.Uint32(b)))
	case Float:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
	case Double:
		return math.Float64frombits(binary.BigEndian.Uint64(b))
	}
	return 0
}

func trimChar(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), " ")
}

// header parsing

type parser struct {
	r   *bufio.Reader
	off int64
	err error
}

func (p *parser) read(n int) []byte {
	if p.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(p.r, buf); err != nil {
		p.err = fmt.Errorf("truncated header at offset %d: %w", p.off, err)
		return nil
	}
	p.off += int64(n)
	return buf
}

func (p *parser) u32() uint32 {
	b := p.read(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

func (p *parser) i64(width int) int64 {
	b := p.read(width)
	if b == nil {
		return 0
	}
	if width == 8 {
		return int64(binary.BigEndian.Uint64(b))
	}
	return int64(binary.BigEndian.Uint32(b))
}

// pad skips to the next 4 byte boundary.
func (p *parser) pad() {
	if rem := p.off % 4; rem != 0 {
		p.read(int(4 - rem))
	}
}

func (p *parser) name() string {
	n := p.u32()
	if p.err != nil {
		return ""
	}
	b := p.read(int(n))
	p.pad()
	return string(b)
}

func parseHeader(osf *os.File, path string) (*File, error) {
	p := &parser{r: bufio.NewReader(osf)}

	magic := p.read(4)
	if p.err != nil {
		return nil, p.err
	}
	if string(magic[:3]) != "CDF" {
		return nil, fmt.Errorf("not a netCDF classic file")
	}
	version := magic[3]
	if version != 1 && version != 2 {
		return nil, fmt.Errorf("unsupported netCDF format version %d", version)
	}
	offsetWidth := 4
	if version == 2 {
		offsetWidth = 8
	}

	f := &File{
		f:       osf,
		path:    path,
		version: version,
		atts:    map[string]any{},
		varIdx:  map[string]int{},
	}

	numRecs := p.u32()
	if numRecs == streamingRecs {
		return nil, fmt.Errorf("streaming record counts are not supported")
	}
	f.numRecs = int64(numRecs)

	// Dimension list.
	tag, n := p.u32(), p.u32()
	if p.err != nil {
		return nil, p.err
	}
	if tag != 0 || n != 0 {
		if tag != tagDimension {
			return nil, fmt.Errorf("expected dimension list, found tag %#x", tag)
		}
		for i := uint32(0); i < n; i++ {
			name := p.name()
			length := p.u32()
			f.dims = append(f.dims, Dim{Name: name, Length: int64(length)})
		}
	}

	// Global attributes.
	atts, err := parseAttList(p)
	if err != nil {
		return nil, err
	}
	f.atts = atts

	// Variables.
	tag, n = p.u32(), p.u32()
	if p.err != nil {
		return nil, p.err
	}
	if tag != 0 || n != 0 {
		if tag != tagVariable {
			return nil, fmt.Errorf("expected variable list, found tag %#x", tag)
		}
		for i := uint32(0); i < n; i++ {
			v := Var{Name: p.name()}
			rank := p.u32()
			for d := uint32(0); d < rank; d++ {
				id := p.u32()
				if p.err == nil && int(id) >= len(f.dims) {
					return nil, fmt.Errorf("variable %q references dimension %d of %d",
						v.Name, id, len(f.dims))
				}
				v.DimIDs = append(v.DimIDs, int(id))
			}
			v.Atts, err = parseAttList(p)
			if err != nil {
				return nil, err
			}
			v.Type = Type(p.u32())
			if p.err == nil && v.Type.size() == 0 {
				return nil, fmt.Errorf("variable %q has unknown type %d", v.Name, uint32(v.Type))
			}
			p.u32() // stored vsize, recomputed below
			v.begin = p.i64(offsetWidth)
			v.record = len(v.DimIDs) > 0 && f.dims[v.DimIDs[0]].Length == 0
			f.varIdx[v.Name] = len(f.vars)
			f.vars = append(f.vars, v)
		}
	}
	if p.err != nil {
		return nil, p.err
	}

	f.recSize = computeRecSize(f)
	return f, nil
}

func parseAttList(p *parser) (map[string]any, error) {
	atts := map[string]any{}
	tag, n := p.u32(), p.u32()
	if p.err != nil {
		return nil, p.err
	}
	if tag == 0 && n == 0 {
		return atts, nil
	}
	if tag != tagAttribute {
		return nil, fmt.Errorf("expected attribute list, found tag %#x", tag)
	}
	for i := uint32(0); i < n; i++ {
		name := p.name()
		typ := Type(p.u32())
		count := p.u32()
		if p.err != nil {
			return nil, p.err
		}
		if typ.size() == 0 {
			return nil, fmt.Errorf("attribute %q has unknown type %d", name, uint32(typ))
		}
		raw := p.read(int(int64(count) * typ.size()))
		p.pad()
		if p.err != nil {
			return nil, p.err
		}
		if typ == Char {
			atts[name] = trimChar(raw)
			continue
		}
		vals := make([]float64, count)
		for j := uint32(0); j < count; j++ {
			vals[j] = decodeValue(typ, raw[int64(j)*typ.size():])
		}
		atts[name] = vals
	}
	return atts, nil
}

// computeRecSize derives the byte stride between consecutive records. Each
// record variable contributes its slab rounded up to 4 bytes, except that
// a file with a single record variable packs it without padding.
func computeRecSize(f *File) int64 {
	var recVars []int
	for i, v := range f.vars {
		if v.record {
			recVars = append(recVars, i)
		}
	}
	if len(recVars) == 0 {
		return 0
	}
	if len(recVars) == 1 {
		return f.slabSize(f.vars[recVars[0]])
	}
	var total int64
	for _, i := range recVars {
		slab := f.slabSize(f.vars[i])
		total += (slab + 3) &^ 3
	}
	return total
}
