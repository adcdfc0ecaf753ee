package dataset

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrSourceRead marks a missing or unreadable feature artifact. All
	// format readers wrap it so callers can classify read failures.
	ErrSourceRead = errors.New("source read failure")

	// ErrUnknownLabel marks a label token that resolves to no class in
	// the corpus vocabulary.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrUnknownSpeaker marks an instance name whose derived speaker ID
	// is not in the corpus roster.
	ErrUnknownSpeaker = errors.New("unknown speaker")
)

// Granularity states what one row of a dataset represents.
type Granularity string

const (
	// Utterances: one feature vector per utterance.
	Utterances Granularity = "utterances"
	// Frames: one feature vector per analysis frame, names repeat across
	// consecutive rows of the same utterance.
	Frames Granularity = "frames"
	// Sequences: one variable-length matrix per utterance.
	Sequences Granularity = "sequences"
)

// Table is the uniform raw table every format reader produces. Exactly one
// of X and Seqs is set: X holds one row per table row, Seqs holds one
// variable-length matrix per table row.
type Table struct {
	// Corpus is the reader's corpus hint, e.g. the ARFF relation name.
	// May be empty when the artifact does not name its corpus.
	Corpus string

	Names  []string
	Attrs  []string
	Tokens []string // per-row label tokens, "" when the artifact has none

	X    *mat.Dense
	Seqs []*mat.Dense
}

// Rows returns the number of table rows.
func (t Table) Rows() int {
	return len(t.Names)
}

// Dataset is an assembled corpus: numeric payload plus every index view the
// training code selects folds with. All slices are index-aligned with
// Names.
type Dataset struct {
	Corpus      string
	Granularity Granularity

	// Classes is the label vocabulary in declaration order. Y values are
	// positions in this slice.
	Classes []string

	Names []string
	Attrs []string

	X    *mat.Dense
	Seqs []*mat.Dense

	Y []int

	// Speakers is the corpus roster; SpeakerIndices holds per-instance
	// positions in it. SpeakerGroupIndices collapses speakers into
	// recording groups and equals SpeakerIndices for corpora without a
	// group table.
	Speakers            []string
	SpeakerIndices      []int
	SpeakerGroupIndices []int

	// GenderIndices holds instance index views: "all" always, "m" and
	// "f" when the corpus defines gender rosters.
	GenderIndices map[string][]int

	// Labels holds label views: "all" is Y itself; with binarization one
	// 0/1 view per class plus "arousal" and "valence" when the corpus
	// defines polarity groups.
	Labels map[string][]int
}

// NumInstances returns the number of instances (or frames at frame
// granularity).
func (d *Dataset) NumInstances() int {
	return len(d.Names)
}

// NumFeatures returns the width of the numeric payload.
func (d *Dataset) NumFeatures() int {
	return len(d.Attrs)
}

// NumClasses returns the size of the label vocabulary.
func (d *Dataset) NumClasses() int {
	return len(d.Classes)
}

// NumSpeakers returns the roster size.
func (d *Dataset) NumSpeakers() int {
	return len(d.Speakers)
}

// ClassCounts returns per-class instance counts in vocabulary order.
func (d *Dataset) ClassCounts() []int {
	counts := make([]int, len(d.Classes))
	for _, y := range d.Y {
		counts[y]++
	}
	return counts
}

// SpeakerCounts returns per-speaker instance counts in roster order.
func (d *Dataset) SpeakerCounts() []int {
	counts := make([]int, len(d.Speakers))
	for _, s := range d.SpeakerIndices {
		counts[s]++
	}
	return counts
}
