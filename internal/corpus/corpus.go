package corpus

import "errors"

// LabelPair maps one artifact label code to its canonical label name.
type LabelPair struct {
	Code  string
	Label string
}

// Polarity splits canonical labels into negative and positive groups for a
// binary dimension such as arousal or valence.
type Polarity struct {
	Negative []string
	Positive []string
}

// IsPositive reports whether label belongs to the positive group.
func (p *Polarity) IsPositive(label string) bool {
	if p == nil {
		return false
	}
	for _, l := range p.Positive {
		if l == label {
			return true
		}
	}
	return false
}

// Meta describes one corpus. Values returned by a Registry share backing
// arrays with the registry and must not be modified.
type Meta struct {
	ID string

	// Labels maps artifact label codes to canonical names. Order matters:
	// the distinct canonical names, in declaration order, form the class
	// vocabulary.
	Labels []LabelPair

	// Arousal and Valence are optional polarity groupings over the
	// canonical names. Binary views are emitted only when both exist.
	Arousal *Polarity
	Valence *Polarity

	// MaleSpeakers and FemaleSpeakers are optional gender rosters. When
	// both are present Speakers is derived as male followed by female.
	MaleSpeakers   []string
	FemaleSpeakers []string

	// Speakers is the full roster. Speaker indices are positions here.
	Speakers []string

	// LabelRule recovers a label code from an instance name for corpora
	// whose artifacts carry no label column. Nil when every artifact does.
	LabelRule Rule

	// SpeakerRule recovers a speaker ID from an instance name.
	SpeakerRule Rule

	// SpeakerGroups collapses speaker indices into recording groups
	// (e.g. sessions shared by a male and a female speaker). Indexed by
	// speaker index. Nil means every speaker is its own group.
	SpeakerGroups []int
}

// Classes returns the distinct canonical label names in declaration order.
func (m Meta) Classes() []string {
	seen := make(map[string]struct{}, len(m.Labels))
	out := make([]string, 0, len(m.Labels))
	for _, p := range m.Labels {
		if _, ok := seen[p.Label]; ok {
			continue
		}
		seen[p.Label] = struct{}{}
		out = append(out, p.Label)
	}
	return out
}

// Label resolves an artifact label code to its canonical name.
func (m Meta) Label(code string) (string, bool) {
	for _, p := range m.Labels {
		if p.Code == code {
			return p.Label, true
		}
	}
	return "", false
}

// SpeakerIndex returns the roster position of a speaker ID.
func (m Meta) SpeakerIndex(id string) (int, bool) {
	for i, s := range m.Speakers {
		if s == id {
			return i, true
		}
	}
	return -1, false
}

// HasGenders reports whether both gender rosters are present.
func (m Meta) HasGenders() bool {
	return len(m.MaleSpeakers) > 0 && len(m.FemaleSpeakers) > 0
}

// derive fills Speakers from the gender rosters when both are present.
// The derived roster is always male speakers followed by female speakers.
func (m *Meta) derive() {
	if !m.HasGenders() {
		return
	}
	roster := make([]string, 0, len(m.MaleSpeakers)+len(m.FemaleSpeakers))
	roster = append(roster, m.MaleSpeakers...)
	roster = append(roster, m.FemaleSpeakers...)
	m.Speakers = roster
}

func (m Meta) validate() error {
	if m.ID == "" {
		return errors.New("missing corpus ID")
	}
	if m.SpeakerRule == nil {
		return errors.New("missing speaker rule")
	}
	if len(m.Speakers) == 0 {
		return errors.New("empty speaker roster")
	}
	seen := make(map[string]struct{}, len(m.Speakers))
	for _, s := range m.Speakers {
		if s == "" {
			return errors.New("empty speaker ID in roster")
		}
		if _, ok := seen[s]; ok {
			return errors.New("duplicate speaker ID " + s)
		}
		seen[s] = struct{}{}
	}
	for _, p := range m.Labels {
		if p.Code == "" || p.Label == "" {
			return errors.New("label mapping with empty code or name")
		}
	}
	if m.SpeakerGroups != nil {
		if len(m.SpeakerGroups) != len(m.Speakers) {
			return errors.New("speaker group table does not cover the roster")
		}
		for _, g := range m.SpeakerGroups {
			if g < 0 {
				return errors.New("negative speaker group index")
			}
		}
	}
	return nil
}
