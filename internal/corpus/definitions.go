package corpus

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition files extend or override the built-in corpora. Example:
//
//	corpora:
//	  - id: mycorpus
//	    labels:
//	      - {code: A, label: anger}
//	      - {code: N, label: neutral}
//	    male_speakers: [m1, m2]
//	    female_speakers: [f1]
//	    label_rule: {kind: char, index: 3}
//	    speaker_rule: {kind: prefix, length: 2}

type definitionFile struct {
	Corpora []corpusDef `yaml:"corpora"`
}

type corpusDef struct {
	ID             string       `yaml:"id"`
	Labels         []labelDef   `yaml:"labels"`
	Arousal        *polarityDef `yaml:"arousal"`
	Valence        *polarityDef `yaml:"valence"`
	MaleSpeakers   []string     `yaml:"male_speakers"`
	FemaleSpeakers []string     `yaml:"female_speakers"`
	Speakers       []string     `yaml:"speakers"`
	LabelRule      *ruleDef     `yaml:"label_rule"`
	SpeakerRule    *ruleDef     `yaml:"speaker_rule"`
	SpeakerGroups  []int        `yaml:"speaker_groups"`
}

type labelDef struct {
	Code  string `yaml:"code"`
	Label string `yaml:"label"`
}

type polarityDef struct {
	Negative []string `yaml:"negative"`
	Positive []string `yaml:"positive"`
}

// ruleDef is the serialized form of a Rule. Kind selects the constructor
// and the remaining fields supply its arguments.
type ruleDef struct {
	Kind    string `yaml:"kind"`
	From    int    `yaml:"from"`
	To      int    `yaml:"to"`
	Length  int    `yaml:"length"`
	Index   int    `yaml:"index"`
	Sep     string `yaml:"sep"`
	Pattern string `yaml:"pattern"`
	Group   int    `yaml:"group"`
}

func (d ruleDef) compile() (Rule, error) {
	switch d.Kind {
	case "char":
		return CharAt(d.Index), nil
	case "slice":
		return Slice(d.From, d.To), nil
	case "slice_from_end":
		return SliceFromEnd(d.From, d.To), nil
	case "prefix":
		return Prefix(d.Length), nil
	case "suffix":
		return Suffix(d.Length), nil
	case "before":
		if d.Sep == "" {
			return nil, fmt.Errorf("rule kind %q requires sep", d.Kind)
		}
		return BeforeFirst(d.Sep), nil
	case "after_last":
		if d.Sep == "" {
			return nil, fmt.Errorf("rule kind %q requires sep", d.Kind)
		}
		return AfterLast(d.Sep), nil
	case "regexp":
		rule, err := compileMatch(d.Pattern, d.Group)
		if err != nil {
			return nil, fmt.Errorf("rule pattern %q: %w", d.Pattern, err)
		}
		return rule, nil
	case "":
		return nil, fmt.Errorf("rule is missing a kind")
	default:
		return nil, fmt.Errorf("unknown rule kind %q", d.Kind)
	}
}

func (d corpusDef) meta() (Meta, error) {
	m := Meta{
		ID:             d.ID,
		MaleSpeakers:   d.MaleSpeakers,
		FemaleSpeakers: d.FemaleSpeakers,
		Speakers:       d.Speakers,
		SpeakerGroups:  d.SpeakerGroups,
	}
	for _, l := range d.Labels {
		m.Labels = append(m.Labels, LabelPair{Code: l.Code, Label: l.Label})
	}
	if d.Arousal != nil {
		m.Arousal = &Polarity{Negative: d.Arousal.Negative, Positive: d.Arousal.Positive}
	}
	if d.Valence != nil {
		m.Valence = &Polarity{Negative: d.Valence.Negative, Positive: d.Valence.Positive}
	}
	if d.LabelRule != nil {
		rule, err := d.LabelRule.compile()
		if err != nil {
			return Meta{}, fmt.Errorf("label rule: %w", err)
		}
		m.LabelRule = rule
	}
	if d.SpeakerRule == nil {
		return Meta{}, fmt.Errorf("missing speaker rule")
	}
	rule, err := d.SpeakerRule.compile()
	if err != nil {
		return Meta{}, fmt.Errorf("speaker rule: %w", err)
	}
	m.SpeakerRule = rule
	return m, nil
}

// LoadDefinitions reads a YAML definition file and registers every corpus
// it declares. Unknown YAML fields are rejected so typos in hand-written
// definitions fail loudly.
func (r *Registry) LoadDefinitions(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read corpus definitions: %w", err)
	}
	var file definitionFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return fmt.Errorf("parse corpus definitions %s: %w", path, err)
	}
	for _, def := range file.Corpora {
		m, err := def.meta()
		if err != nil {
			return fmt.Errorf("corpus definition %q in %s: %w", def.ID, path, err)
		}
		if err := r.Add(m); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
