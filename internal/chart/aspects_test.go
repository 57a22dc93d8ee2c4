package chart

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAspectColors(t *testing.T) {
	want := map[AspectType]string{
		Conjunction: "#D62728",
		Sextile:     "#1F77B4",
		Square:      "#FF7F0E",
		Trine:       "#2CA02C",
		Opposition:  "#9467BD",
		Semisextile: "#8C564B",
		Semisquare:  "#E377C2",
		Quincunx:    "#7F7F7F",
		Quintile:    "#17BECF",
		Biquintile:  "#BCBD22",
	}

	for typ, color := range want {
		if got := typ.Color(); got != color {
			t.Errorf("%s.Color() = %s, want %s", typ, got, color)
		}
		if !typ.Known() {
			t.Errorf("%s should be known", typ)
		}
	}

	if got := AspectType("septile").Color(); got != FallbackAspectColor {
		t.Errorf("unknown type colour = %s, want %s", got, FallbackAspectColor)
	}
	if len(AspectTypes) != len(want) {
		t.Errorf("AspectTypes has %d entries, want %d", len(AspectTypes), len(want))
	}
}

func TestParseAspectType(t *testing.T) {
	if got := ParseAspectType("  Trine "); got != Trine {
		t.Errorf("ParseAspectType = %q, want trine", got)
	}
	if got := ParseAspectType("Septile"); got.Known() {
		t.Errorf("septile should not be known, got %q", got)
	}
}

func TestDetectAspects(t *testing.T) {
	bodies := []Body{
		{Name: "Sun", Angle: 0},
		{Name: "Moon", Angle: 92},   // square to Sun (orb 2)
		{Name: "Mars", Angle: 185},  // opposition to Sun, square-ish to Moon (93)
		{Name: "Venus", Angle: 355}, // conjunction to Sun (5), 97 to Moon and 170 to Mars: none
	}

	got := DetectAspects(bodies, nil)
	want := []Aspect{
		{From: "Sun", To: "Moon", Type: Square, Separation: 92},
		{From: "Sun", To: "Mars", Type: Opposition, Separation: 175},
		{From: "Sun", To: "Venus", Type: Conjunction, Separation: 5},
		{From: "Moon", To: "Mars", Type: Square, Separation: 93},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DetectAspects mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectAspects_FirstDefinitionWins(t *testing.T) {
	defs := []AspectDef{
		{Type: Square, Angle: 90, Orb: 10},
		{Type: Quintile, Angle: 72, Orb: 10},
	}
	bodies := []Body{{Name: "A", Angle: 0}, {Name: "B", Angle: 81}}

	got := DetectAspects(bodies, defs)
	if len(got) != 1 || got[0].Type != Square {
		t.Errorf("DetectAspects = %+v, want one square", got)
	}
}

func TestDetectAspects_Empty(t *testing.T) {
	if got := DetectAspects(nil, nil); len(got) != 0 {
		t.Errorf("DetectAspects(nil) = %v, want empty", got)
	}
}
