package dataset

import (
	"fmt"

	"serdata/internal/corpus"
)

// Options control view construction during assembly.
type Options struct {
	// Binarize adds one 0/1 label view per class and, when the corpus
	// defines polarity groups, arousal and valence views.
	Binarize bool
}

// Assemble resolves a raw table against corpus metadata. Every row must
// yield a class and a roster speaker; resolution failures abort with
// ErrUnknownLabel or ErrUnknownSpeaker rather than dropping rows.
func Assemble(tbl Table, meta corpus.Meta, opts Options) (*Dataset, error) {
	n := tbl.Rows()
	if n == 0 {
		return nil, fmt.Errorf("corpus %s: table has no rows", meta.ID)
	}
	if err := checkShape(tbl, n); err != nil {
		return nil, fmt.Errorf("corpus %s: %w", meta.ID, err)
	}

	classes := meta.Classes()
	if len(classes) == 0 {
		return nil, fmt.Errorf("corpus %s has no label vocabulary", meta.ID)
	}
	classIndex := make(map[string]int, len(classes))
	for i, c := range classes {
		classIndex[c] = i
	}

	ds := &Dataset{
		Corpus:      meta.ID,
		Granularity: Utterances,
		Classes:     classes,
		Names:       tbl.Names,
		Attrs:       tbl.Attrs,
		X:           tbl.X,
		Seqs:        tbl.Seqs,
		Speakers:    meta.Speakers,
	}
	if tbl.Seqs != nil {
		ds.Granularity = Sequences
	}

	ds.Y = make([]int, n)
	for i, name := range tbl.Names {
		token := ""
		if tbl.Tokens != nil {
			token = tbl.Tokens[i]
		}
		y, err := resolveLabel(meta, classIndex, name, token)
		if err != nil {
			return nil, err
		}
		ds.Y[i] = y
	}

	ds.SpeakerIndices = make([]int, n)
	for i, name := range tbl.Names {
		id := meta.SpeakerRule(name)
		idx, ok := meta.SpeakerIndex(id)
		if !ok {
			return nil, fmt.Errorf("corpus %s: instance %q: speaker %q: %w",
				meta.ID, name, id, ErrUnknownSpeaker)
		}
		ds.SpeakerIndices[i] = idx
	}

	ds.SpeakerGroupIndices = make([]int, n)
	for i, s := range ds.SpeakerIndices {
		if meta.SpeakerGroups != nil {
			ds.SpeakerGroupIndices[i] = meta.SpeakerGroups[s]
		} else {
			ds.SpeakerGroupIndices[i] = s
		}
	}

	ds.GenderIndices = genderViews(meta, ds.SpeakerIndices, n)

	ds.Labels = map[string][]int{"all": ds.Y}
	if opts.Binarize {
		addBinaryViews(ds, meta)
	}
	return ds, nil
}

func checkShape(tbl Table, n int) error {
	if tbl.X == nil && tbl.Seqs == nil {
		return fmt.Errorf("table has no payload")
	}
	if tbl.X != nil && tbl.Seqs != nil {
		return fmt.Errorf("table has both matrix and sequence payloads")
	}
	if tbl.X != nil {
		r, c := tbl.X.Dims()
		if r != n {
			return fmt.Errorf("payload has %d rows for %d names", r, n)
		}
		if c != len(tbl.Attrs) {
			return fmt.Errorf("payload has %d columns for %d attributes", c, len(tbl.Attrs))
		}
	}
	if tbl.Seqs != nil && len(tbl.Seqs) != n {
		return fmt.Errorf("payload has %d sequences for %d names", len(tbl.Seqs), n)
	}
	if tbl.Tokens != nil && len(tbl.Tokens) != n {
		return fmt.Errorf("table has %d tokens for %d names", len(tbl.Tokens), n)
	}
	return nil
}

// resolveLabel turns a row's label token into a class index. Canonical
// names resolve directly, artifact codes resolve through the corpus label
// map, and rows without a token fall back to the corpus label rule on the
// instance name.
func resolveLabel(meta corpus.Meta, classIndex map[string]int, name, token string) (int, error) {
	if token == "" {
		if meta.LabelRule == nil {
			return 0, fmt.Errorf("corpus %s: instance %q has no label token and the corpus has no label rule: %w",
				meta.ID, name, ErrUnknownLabel)
		}
		token = meta.LabelRule(name)
	}
	if y, ok := classIndex[token]; ok {
		return y, nil
	}
	if canonical, ok := meta.Label(token); ok {
		if y, ok := classIndex[canonical]; ok {
			return y, nil
		}
	}
	return 0, fmt.Errorf("corpus %s: instance %q: label %q: %w",
		meta.ID, name, token, ErrUnknownLabel)
}

func genderViews(meta corpus.Meta, speakerIndices []int, n int) map[string][]int {
	views := make(map[string][]int, 3)
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	views["all"] = all
	if !meta.HasGenders() {
		return views
	}
	male := make(map[int]bool, len(meta.MaleSpeakers))
	for _, id := range meta.MaleSpeakers {
		if idx, ok := meta.SpeakerIndex(id); ok {
			male[idx] = true
		}
	}
	var m, f []int
	for i, s := range speakerIndices {
		if male[s] {
			m = append(m, i)
		} else {
			f = append(f, i)
		}
	}
	views["m"] = m
	views["f"] = f
	return views
}

func addBinaryViews(ds *Dataset, meta corpus.Meta) {
	for c, class := range ds.Classes {
		view := make([]int, len(ds.Y))
		for i, y := range ds.Y {
			if y == c {
				view[i] = 1
			}
		}
		ds.Labels[class] = view
	}
	if meta.Arousal == nil || meta.Valence == nil {
		return
	}
	// Class polarity lookup tables; a class listed in neither group of a
	// dimension stays 0.
	arousal := make([]int, len(ds.Classes))
	valence := make([]int, len(ds.Classes))
	for c, class := range ds.Classes {
		if meta.Arousal.IsPositive(class) {
			arousal[c] = 1
		}
		if meta.Valence.IsPositive(class) {
			valence[c] = 1
		}
	}
	arousalView := make([]int, len(ds.Y))
	valenceView := make([]int, len(ds.Y))
	for i, y := range ds.Y {
		arousalView[i] = arousal[y]
		valenceView[i] = valence[y]
	}
	ds.Labels["arousal"] = arousalView
	ds.Labels["valence"] = valenceView
}
