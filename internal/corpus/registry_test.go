package corpus

import (
	"errors"
	"testing"
)

func TestBuiltinRoster(t *testing.T) {
	r := Builtin()
	ids := []string{
		"cafe", "crema-d", "demos", "emodb", "emofilm", "enterface",
		"iemocap", "jl", "msp-improv", "portuguese", "ravdess", "savee",
		"semaine", "shemo", "smartkom", "tess",
	}
	if r.Len() != len(ids) {
		t.Fatalf("registry holds %d corpora, want %d", r.Len(), len(ids))
	}
	for _, id := range ids {
		if _, err := r.Resolve(id); err != nil {
			t.Errorf("Resolve(%q) failed: %v", id, err)
		}
	}
}

func TestResolveUnknown(t *testing.T) {
	r := Builtin()
	_, err := r.Resolve("nonexistent")
	if !errors.Is(err, ErrUnknownCorpus) {
		t.Fatalf("Resolve(nonexistent) = %v, want ErrUnknownCorpus", err)
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	r := Builtin()
	m, err := r.Resolve(" EmoDB ")
	if err != nil {
		t.Fatalf("Resolve(EmoDB) failed: %v", err)
	}
	if m.ID != "emodb" {
		t.Errorf("resolved ID = %q, want emodb", m.ID)
	}
}

// The roster of a gendered corpus is always the male speakers followed by
// the female speakers, regardless of how the definition orders them.
func TestSpeakersDerivedFromGenders(t *testing.T) {
	r := Builtin()
	for _, id := range r.IDs() {
		m, err := r.Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", id, err)
		}
		if !m.HasGenders() {
			continue
		}
		want := append(append([]string{}, m.MaleSpeakers...), m.FemaleSpeakers...)
		if len(m.Speakers) != len(want) {
			t.Fatalf("%s: roster has %d speakers, want %d", id, len(m.Speakers), len(want))
		}
		for i := range want {
			if m.Speakers[i] != want[i] {
				t.Errorf("%s: speaker[%d] = %q, want %q", id, i, m.Speakers[i], want[i])
			}
		}
	}
}

func TestRosterCounts(t *testing.T) {
	tests := []struct {
		id   string
		want int
	}{
		{"cafe", 12},
		{"crema-d", 91},
		{"demos", 59},
		{"emodb", 10},
		{"emofilm", 3},
		{"enterface", 43},
		{"iemocap", 10},
		{"jl", 4},
		{"msp-improv", 12},
		{"portuguese", 2},
		{"ravdess", 24},
		{"savee", 4},
		{"semaine", 22},
		{"shemo", 87},
		{"smartkom", 86},
		{"tess", 2},
	}
	r := Builtin()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			m, err := r.Resolve(tt.id)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tt.id, err)
			}
			if len(m.Speakers) != tt.want {
				t.Errorf("%s roster has %d speakers, want %d", tt.id, len(m.Speakers), tt.want)
			}
		})
	}
}

func TestClassesDeclarationOrder(t *testing.T) {
	r := Builtin()
	m, err := r.Resolve("emodb")
	if err != nil {
		t.Fatalf("Resolve(emodb) failed: %v", err)
	}
	want := []string{"anger", "boredom", "disgust", "fear", "happiness", "sadness", "neutral"}
	got := m.Classes()
	if len(got) != len(want) {
		t.Fatalf("emodb has %d classes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("class[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClassesDeduplicate(t *testing.T) {
	m := Meta{Labels: []LabelPair{
		{"a", "anger"}, {"ang", "anger"}, {"n", "neutral"},
	}}
	got := m.Classes()
	if len(got) != 2 || got[0] != "anger" || got[1] != "neutral" {
		t.Errorf("Classes() = %v, want [anger neutral]", got)
	}
}

func TestSpeakerGroupsCoverRoster(t *testing.T) {
	r := Builtin()
	for _, id := range []string{"iemocap", "msp-improv"} {
		m, err := r.Resolve(id)
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", id, err)
		}
		if len(m.SpeakerGroups) != len(m.Speakers) {
			t.Errorf("%s: group table covers %d speakers, want %d",
				id, len(m.SpeakerGroups), len(m.Speakers))
		}
	}

	// Sessions pair male and female speakers with the same number.
	m, _ := r.Resolve("iemocap")
	maleIdx, _ := m.SpeakerIndex("02M")
	femaleIdx, _ := m.SpeakerIndex("02F")
	if m.SpeakerGroups[maleIdx] != m.SpeakerGroups[femaleIdx] {
		t.Errorf("02M and 02F map to groups %d and %d, want equal",
			m.SpeakerGroups[maleIdx], m.SpeakerGroups[femaleIdx])
	}
}

func TestLabelLookup(t *testing.T) {
	r := Builtin()
	m, err := r.Resolve("emodb")
	if err != nil {
		t.Fatalf("Resolve(emodb) failed: %v", err)
	}
	if got, ok := m.Label("W"); !ok || got != "anger" {
		t.Errorf("Label(W) = %q, %v, want anger, true", got, ok)
	}
	if _, ok := m.Label("Z"); ok {
		t.Error("Label(Z) resolved, want miss")
	}
}

func TestAddValidation(t *testing.T) {
	tests := []struct {
		desc string
		meta Meta
	}{
		{"missing ID", Meta{Speakers: []string{"a"}, SpeakerRule: Prefix(1)}},
		{"missing speaker rule", Meta{ID: "x", Speakers: []string{"a"}}},
		{"empty roster", Meta{ID: "x", SpeakerRule: Prefix(1)}},
		{"duplicate speaker", Meta{
			ID: "x", Speakers: []string{"a", "a"}, SpeakerRule: Prefix(1),
		}},
		{"group table too short", Meta{
			ID: "x", Speakers: []string{"a", "b"}, SpeakerRule: Prefix(1),
			SpeakerGroups: []int{0},
		}},
		{"negative group", Meta{
			ID: "x", Speakers: []string{"a"}, SpeakerRule: Prefix(1),
			SpeakerGroups: []int{-1},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if err := NewRegistry().Add(tt.meta); err == nil {
				t.Error("Add accepted invalid metadata")
			}
		})
	}
}

func TestPolarityMembership(t *testing.T) {
	r := Builtin()
	m, err := r.Resolve("emodb")
	if err != nil {
		t.Fatalf("Resolve(emodb) failed: %v", err)
	}
	if !m.Arousal.IsPositive("anger") {
		t.Error("anger should be arousal positive for emodb")
	}
	if m.Arousal.IsPositive("boredom") {
		t.Error("boredom should not be arousal positive for emodb")
	}
	var none *Polarity
	if none.IsPositive("anything") {
		t.Error("nil polarity should report negative")
	}
}
