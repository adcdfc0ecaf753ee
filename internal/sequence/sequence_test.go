package sequence

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestGroup(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
		7, 8,
	})
	names := []string{"u1", "u1", "u1", "u2"}
	seqs, groupNames, starts, err := Group(x, names)
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(seqs) != 2 {
		t.Fatalf("got %d sequences, want 2", len(seqs))
	}
	if groupNames[0] != "u1" || groupNames[1] != "u2" {
		t.Errorf("group names = %v", groupNames)
	}
	if starts[0] != 0 || starts[1] != 3 {
		t.Errorf("starts = %v, want [0 3]", starts)
	}
	if r, _ := seqs[0].Dims(); r != 3 {
		t.Errorf("first sequence has %d rows, want 3", r)
	}
	if r, _ := seqs[1].Dims(); r != 1 {
		t.Errorf("second sequence has %d rows, want 1", r)
	}
	if got := seqs[0].At(2, 1); got != 6 {
		t.Errorf("seqs[0][2][1] = %g, want 6", got)
	}
	if got := seqs[1].At(0, 0); got != 7 {
		t.Errorf("seqs[1][0][0] = %g, want 7", got)
	}
	// Sequences own their storage.
	seqs[0].Set(0, 0, -1)
	if x.At(0, 0) != 1 {
		t.Error("grouping shares storage with the frame matrix")
	}
}

func TestGroupSingleUtterance(t *testing.T) {
	x := mat.NewDense(2, 1, []float64{1, 2})
	seqs, groupNames, starts, err := Group(x, []string{"only", "only"})
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(seqs) != 1 || groupNames[0] != "only" || starts[0] != 0 {
		t.Errorf("got %d sequences, names %v, starts %v", len(seqs), groupNames, starts)
	}
}

func TestGroupErrors(t *testing.T) {
	x := mat.NewDense(3, 1, []float64{1, 2, 3})
	tests := []struct {
		name  string
		names []string
	}{
		{"non-contiguous frames", []string{"a", "b", "a"}},
		{"name count mismatch", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := Group(x, tt.names); err == nil {
				t.Error("expected an error")
			}
		})
	}
	empty := mat.NewDense(1, 1, nil)
	if _, _, _, err := Group(empty, nil); err == nil {
		t.Error("mismatched empty names should fail")
	}
}

func TestPad(t *testing.T) {
	seqs := []*mat.Dense{
		mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6}),
		mat.NewDense(4, 2, nil),
	}
	padded, err := Pad(seqs, 4)
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	if r, _ := padded[0].Dims(); r != 4 {
		t.Errorf("padded[0] has %d rows, want 4", r)
	}
	if padded[1] != seqs[1] {
		t.Error("aligned sequence should pass through unchanged")
	}
	// Original rows survive, the pad row is zero.
	if got := padded[0].At(2, 1); got != 6 {
		t.Errorf("padded[0][2][1] = %g, want 6", got)
	}
	if got := padded[0].At(3, 0); got != 0 {
		t.Errorf("pad row value = %g, want 0", got)
	}
	// Padding is idempotent.
	again, err := Pad(padded, 4)
	if err != nil {
		t.Fatalf("Pad (second pass): %v", err)
	}
	for i := range again {
		if again[i] != padded[i] {
			t.Errorf("second pass re-padded sequence %d", i)
		}
	}
}

func TestPadMultipleOfOne(t *testing.T) {
	seqs := []*mat.Dense{mat.NewDense(3, 1, []float64{1, 2, 3})}
	padded, err := Pad(seqs, 1)
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}
	if padded[0] != seqs[0] {
		t.Error("multiple of one should never pad")
	}
}

func TestPadErrors(t *testing.T) {
	if _, err := Pad([]*mat.Dense{mat.NewDense(1, 1, nil)}, 0); err == nil {
		t.Error("non-positive multiple should fail")
	}
	empty := &mat.Dense{}
	if _, err := Pad([]*mat.Dense{empty}, 4); err == nil {
		t.Error("empty sequence should fail")
	}
}
