package wheel

import (
	"math"
	"testing"

	"github.com/litescript/ls-natal/internal/chart"
)

func threeAspectChart() *chart.Snapshot {
	return &chart.Snapshot{
		Bodies: []chart.Body{
			{Name: "Sun", Symbol: "☉", Angle: 0},
			{Name: "Moon", Symbol: "☽", Angle: 90},
			{Name: "Mars", Symbol: "♂", Angle: 180},
		},
		Aspects: []chart.Aspect{
			{From: "Sun", To: "Moon", Type: chart.Square},
			{From: "Moon", To: "Pluto", Type: chart.Trine},
			{From: "Sun", To: "Mars", Type: chart.Opposition},
		},
	}
}

func TestLayoutWheel_Empty(t *testing.T) {
	cfg := DefaultConfig()
	l := LayoutWheel(&chart.Snapshot{}, NewViewport(500, cfg), cfg)

	if len(l.Wedges) != 12 {
		t.Errorf("wedges = %d, want 12", len(l.Wedges))
	}
	if len(l.Dividers) != 24 {
		t.Errorf("dividers = %d, want 24", len(l.Dividers))
	}
	if len(l.Rings) != 2 {
		t.Errorf("rings = %d, want 2", len(l.Rings))
	}
	if len(l.SignLabels) != 12 || len(l.HouseLabels) != 12 {
		t.Errorf("labels = %d signs, %d houses", len(l.SignLabels), len(l.HouseLabels))
	}
	if len(l.Axes) != 4 {
		t.Errorf("axes = %d, want 4", len(l.Axes))
	}
	if len(l.Aspects) != 0 || len(l.Bodies) != 0 {
		t.Errorf("unexpected aspects/bodies: %d/%d", len(l.Aspects), len(l.Bodies))
	}
	if l.Hub == nil {
		t.Error("hub missing")
	}
}

func TestLayoutWheel_NilSnapshot(t *testing.T) {
	cfg := DefaultConfig()
	l := LayoutWheel(nil, NewViewport(500, cfg), cfg)
	if len(l.Wedges) != 12 || len(l.Axes) != 4 {
		t.Errorf("nil snapshot: %d wedges, %d axes", len(l.Wedges), len(l.Axes))
	}
}

func TestLayoutWheel_SkipsUnresolvableAspects(t *testing.T) {
	cfg := DefaultConfig()
	l := LayoutWheel(threeAspectChart(), NewViewport(500, cfg), cfg)

	if len(l.Aspects) != 2 {
		t.Fatalf("aspect lines = %d, want 2", len(l.Aspects))
	}
	if l.Aspects[0].Index != 0 || l.Aspects[1].Index != 2 {
		t.Errorf("aspect indices = %d,%d, want 0,2", l.Aspects[0].Index, l.Aspects[1].Index)
	}
	if l.Aspects[0].Color != "#FF7F0E" || l.Aspects[1].Color != "#9467BD" {
		t.Errorf("colours = %s,%s", l.Aspects[0].Color, l.Aspects[1].Color)
	}
}

func TestLayoutWheel_UnknownAspectTypeFallsBack(t *testing.T) {
	s := threeAspectChart()
	s.Aspects = []chart.Aspect{{From: "Sun", To: "Moon", Type: "septile"}}

	cfg := DefaultConfig()
	l := LayoutWheel(s, NewViewport(500, cfg), cfg)
	if len(l.Aspects) != 1 || l.Aspects[0].Color != "#999999" {
		t.Errorf("aspects = %+v", l.Aspects)
	}
}

func TestLayoutWheel_SingleBodyAtReference(t *testing.T) {
	cfg := DefaultConfig()
	vp := NewViewport(500, cfg)
	s := &chart.Snapshot{Bodies: []chart.Body{{Name: "Sun", Angle: 0}}}

	l := LayoutWheel(s, vp, cfg)

	if len(l.Bodies) != 1 {
		t.Fatalf("markers = %d, want 1", len(l.Bodies))
	}
	if len(l.Aspects) != 0 {
		t.Errorf("aspect lines = %d, want 0", len(l.Aspects))
	}
	want := Point{X: 250, Y: 250 - 0.9*210}
	if !near(l.Bodies[0].At, want) {
		t.Errorf("Sun marker at %+v, want %+v", l.Bodies[0].At, want)
	}
	if math.Abs(l.Bodies[0].Radius-12.5) > eps {
		t.Errorf("marker radius = %v, want 12.5", l.Bodies[0].Radius)
	}
}

func TestLayoutWheel_IdenticalAngles(t *testing.T) {
	cfg := DefaultConfig()
	s := &chart.Snapshot{Bodies: []chart.Body{
		{Name: "Sun", Angle: 100},
		{Name: "Moon", Angle: 100},
	}}
	l := LayoutWheel(s, NewViewport(500, cfg), cfg)

	if l.Bodies[0].At != l.Bodies[1].At {
		t.Errorf("markers differ: %+v vs %+v", l.Bodies[0].At, l.Bodies[1].At)
	}
}

func TestLayoutWheel_ConsistentConvention(t *testing.T) {
	cfg := DefaultConfig()
	vp := NewViewport(500, cfg)
	s := &chart.Snapshot{
		Bodies:  []chart.Body{{Name: "A", Angle: 90}, {Name: "B", Angle: 270}},
		Aspects: []chart.Aspect{{From: "A", To: "B", Type: chart.Opposition}},
	}
	l := LayoutWheel(s, vp, cfg)

	// MC label, body A, the aspect endpoint and the 90° zodiac divider all
	// lie on the same ray.
	ray := func(p Point) float64 {
		return math.Atan2(p.Y-vp.Center.Y, p.X-vp.Center.X)
	}
	want := ray(l.Axes[1].At)
	for name, p := range map[string]Point{
		"body":    l.Bodies[0].At,
		"aspect":  l.Aspects[0].P1,
		"divider": l.Dividers[3].To,
	} {
		if math.Abs(ray(p)-want) > 1e-9 {
			t.Errorf("%s ray = %v, want %v", name, ray(p), want)
		}
	}
	if l.Axes[1].Text != "MC" {
		t.Errorf("axis 1 = %q, want MC", l.Axes[1].Text)
	}
}

func TestLayoutWheel_Labels(t *testing.T) {
	cfg := DefaultConfig()
	vp := NewViewport(500, cfg)
	l := LayoutWheel(nil, vp, cfg)

	aries := l.SignLabels[0]
	if aries.Text != "♈" || aries.Angle != 15 {
		t.Errorf("first sign label = %+v", aries)
	}
	if d := aries.At.Dist(vp.Center); math.Abs(d-(vp.Radius+18)) > 1e-9 {
		t.Errorf("sign label distance = %v", d)
	}

	asc := l.Axes[0]
	if asc.Text != "ASC" || asc.Layer() != LayerAxes {
		t.Errorf("ASC label = %+v", asc)
	}
	if d := asc.At.Dist(vp.Center); math.Abs(d-(vp.Radius+40)) > 1e-9 {
		t.Errorf("axis label distance = %v", d)
	}

	if l.HouseLabels[0].Text != "1" || l.HouseLabels[11].Text != "12" {
		t.Errorf("house labels = %q..%q", l.HouseLabels[0].Text, l.HouseLabels[11].Text)
	}
}

func TestLayoutWheel_CuspWedges(t *testing.T) {
	s := &chart.Snapshot{
		Houses: []float64{0, 200, 210, 220, 230, 240, 250, 260, 270, 280, 290, 300},
	}
	cfg := DefaultConfig()
	l := LayoutWheel(s, NewViewport(500, cfg), cfg)

	if !l.HasHouses {
		t.Fatal("HasHouses = false")
	}
	if l.Wedges[0].Sweep != 200 || !l.Wedges[0].LargeArc() {
		t.Errorf("wedge 0 = %+v", l.Wedges[0])
	}
	if l.Wedges[11].Sweep != 60 || l.Wedges[11].LargeArc() {
		t.Errorf("wedge 11 = %+v", l.Wedges[11])
	}
	if l.HouseLabels[0].Angle != 100 {
		t.Errorf("house 1 label angle = %v, want 100", l.HouseLabels[0].Angle)
	}
	// House dividers follow the cusps, zodiac dividers stay on 30° steps.
	if l.Dividers[12+1].Angle != 200 || l.Dividers[1].Angle != 30 {
		t.Errorf("dividers: house %v, zodiac %v", l.Dividers[13].Angle, l.Dividers[1].Angle)
	}
}

func TestWedge_Path(t *testing.T) {
	cfg := DefaultConfig()
	l := LayoutWheel(nil, NewViewport(500, cfg), cfg)

	want := "M 250.00 250.00 L 250.00 40.00 A 210.00 210.00 0 0 1 355.00 68.13 Z"
	if got := l.Wedges[0].Path(); got != want {
		t.Errorf("Path() = %q\nwant     %q", got, want)
	}
}

func TestPrimitives_DrawOrder(t *testing.T) {
	cfg := DefaultConfig()
	l := LayoutWheel(threeAspectChart(), NewViewport(500, cfg), cfg)

	prims := l.Primitives()
	want := 12 + 24 + 2 + 12 + 12 + 2 + 3 + 4 + 1
	if len(prims) != want {
		t.Fatalf("primitives = %d, want %d", len(prims), want)
	}

	last := LayerWedges
	for i, p := range prims {
		if p.Layer() < last {
			t.Fatalf("primitive %d (%s) drawn after layer %s", i, p.Layer(), last)
		}
		last = p.Layer()
	}
	if prims[len(prims)-1].Layer() != LayerHub {
		t.Errorf("last layer = %s, want hub", prims[len(prims)-1].Layer())
	}
}

func TestLayoutWheel_NoHub(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ShowHub = false
	l := LayoutWheel(nil, NewViewport(500, cfg), cfg)
	if l.Hub != nil {
		t.Error("hub drawn with ShowHub=false")
	}
}
