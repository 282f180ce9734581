package mro

import (
	"testing"

	"github.com/LayneInNL/dmf/internal/object"
)

func TestLinearizeDiamond(t *testing.T) {
	// O is the implicit root; A, B both derive from O; C derives from
	// (A, B), the classic diamond.
	o := object.NewClass("object", object.ArtificialClassKind, 1, nil)
	a := object.NewClass("A", object.AnalysisClassKind, 2, [][]*object.Class{{o}})
	b := object.NewClass("B", object.AnalysisClassKind, 3, [][]*object.Class{{o}})
	c := object.NewClass("C", object.AnalysisClassKind, 4, [][]*object.Class{{a, b}})

	mros := LinearizeAll(c)
	if len(mros) != 1 {
		t.Fatalf("expected exactly one MRO candidate for a single base-list, got %d", len(mros))
	}
	got := mros[0]
	want := []*object.Class{c, a, b, o}
	if len(got) != len(want) {
		t.Fatalf("MRO length mismatch: got %v, want %v", names(got), names(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MRO[%d] = %s, want %s (full: %v)", i, got[i].Name, want[i].Name, names(got))
		}
	}
}

func TestLinearizeInconsistentOrderDegradesGracefully(t *testing.T) {
	o := object.NewClass("object", object.ArtificialClassKind, 1, nil)
	a := object.NewClass("A", object.AnalysisClassKind, 2, [][]*object.Class{{o}})
	b := object.NewClass("B", object.AnalysisClassKind, 3, [][]*object.Class{{o}})
	// X(A, B), Y(B, A): each class independently is fine, and the two
	// don't interfere with each other's cached MRO. Z(X, Y) merges both
	// and needs A before B and B before A at once: no C3 order exists,
	// so Z degrades to [Z, MROAny].
	x := object.NewClass("X", object.AnalysisClassKind, 4, [][]*object.Class{{a, b}})
	y := object.NewClass("Y", object.AnalysisClassKind, 5, [][]*object.Class{{b, a}})

	xMRO := LinearizeAll(x)[0]
	yMRO := LinearizeAll(y)[0]
	if xMRO[1] != a || xMRO[2] != b {
		t.Errorf("X's MRO should preserve (A, B) order, got %v", names(xMRO))
	}
	if yMRO[1] != b || yMRO[2] != a {
		t.Errorf("Y's MRO should preserve (B, A) order, got %v", names(yMRO))
	}

	z := object.NewClass("Z", object.AnalysisClassKind, 6, [][]*object.Class{{x, y}})
	zMROs := LinearizeAll(z)
	if len(zMROs) != 1 || len(zMROs[0]) != 2 || zMROs[0][0] != z || zMROs[0][1] != object.MROAny {
		t.Errorf("Z(X, Y) has no consistent order and should degrade to [Z, MROAny], got %v", zMROs)
	}
}

func TestLinearizeBasesAny(t *testing.T) {
	c := object.NewBasesAnyClass("Mystery", object.AnalysisClassKind, 1)
	mros := LinearizeAll(c)
	if len(mros) != 1 || len(mros[0]) != 2 || mros[0][1] != object.MROAny {
		t.Errorf("BasesAny class should linearize to [self, MROAny], got %v", mros)
	}
}

func TestLinearizeMultipleBaseListCandidates(t *testing.T) {
	o := object.NewClass("object", object.ArtificialClassKind, 1, nil)
	a := object.NewClass("A", object.AnalysisClassKind, 2, [][]*object.Class{{o}})
	b := object.NewClass("B", object.AnalysisClassKind, 3, [][]*object.Class{{o}})
	// A base expression resolving to either A or B under different
	// branches: two base-list candidates, one MRO per candidate.
	c := object.NewClass("C", object.AnalysisClassKind, 4, [][]*object.Class{{a}, {b}})

	mros := LinearizeAll(c)
	if len(mros) != 2 {
		t.Fatalf("expected 2 MRO candidates, got %d", len(mros))
	}
	if mros[0][1] != a || mros[1][1] != b {
		t.Errorf("expected candidate MROs through A then B, got %v / %v", names(mros[0]), names(mros[1]))
	}
}

func names(cs []*object.Class) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Name
	}
	return out
}
