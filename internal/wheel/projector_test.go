package wheel

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/litescript/ls-natal/internal/chart"
)

func newTestProjector(s *chart.Snapshot) *Projector {
	p := NewProjector(DefaultConfig())
	p.Resize(500)
	p.SetChart(s)
	return p
}

func TestProjector_HoverExclusive(t *testing.T) {
	p := newTestProjector(threeAspectChart())

	p.SetHover(BodyTarget("Sun"))
	h := p.SetHover(BodyTarget("Moon"))

	if !h.BodyHighlighted("Moon") {
		t.Error("Moon should be highlighted")
	}
	if h.BodyHighlighted("Sun") {
		t.Error("Sun should no longer be highlighted")
	}

	h = p.SetHover(AspectTarget(0))
	if h.BodyHighlighted("Moon") || !h.AspectHighlighted(0) {
		t.Errorf("aspect hover should clear body hover: %+v", h.Target)
	}

	h = p.SetHover(BodyTarget("Mars"))
	if h.AspectHighlighted(0) || !h.BodyHighlighted("Mars") {
		t.Errorf("body hover should clear aspect hover: %+v", h.Target)
	}

	h = p.SetHover(nil)
	if h.Active() || h.Tooltip != nil {
		t.Errorf("leave should clear hover, got %+v", h)
	}
	for _, name := range []string{"Sun", "Moon", "Mars"} {
		if p.Hover().BodyHighlighted(name) {
			t.Errorf("%s still highlighted after leave", name)
		}
	}
}

func TestProjector_HoverUnknownTargetClears(t *testing.T) {
	p := newTestProjector(threeAspectChart())
	p.SetHover(BodyTarget("Sun"))

	if h := p.SetHover(BodyTarget("Pluto")); h.Active() {
		t.Errorf("unknown body should clear hover, got %+v", h.Target)
	}
	// Aspect 1 references a missing body and is never drawn.
	if h := p.SetHover(AspectTarget(1)); h.Active() {
		t.Errorf("undrawn aspect should clear hover, got %+v", h.Target)
	}
}

func TestProjector_NoTooltipUntilHover(t *testing.T) {
	p := newTestProjector(&chart.Snapshot{Bodies: []chart.Body{{Name: "Sun", Angle: 0}}})

	if p.Hover().Tooltip != nil {
		t.Fatal("tooltip present before hover")
	}

	h := p.SetHover(BodyTarget("Sun"))
	if h.Tooltip == nil || !strings.HasPrefix(h.Tooltip.Text, "Sun ") {
		t.Fatalf("tooltip = %+v", h.Tooltip)
	}
	m := p.Layout().Bodies[0]
	if h.Tooltip.Anchor != m.At {
		t.Errorf("tooltip anchor = %+v, want marker %+v", h.Tooltip.Anchor, m.At)
	}
	if h.Tooltip.Box.X != m.At.X+15 || h.Tooltip.Box.Y != m.At.Y-30 {
		t.Errorf("tooltip box = %+v", h.Tooltip.Box)
	}
}

func TestProjector_HoverDoesNotMoveGeometry(t *testing.T) {
	p := newTestProjector(threeAspectChart())
	before := p.Layout()

	p.SetHover(BodyTarget("Sun"))
	p.SetHover(AspectTarget(2))
	p.SetHover(nil)

	if p.Layout() != before {
		t.Error("hover replaced the layout")
	}
}

func TestProjector_SetChartResetsHover(t *testing.T) {
	p := newTestProjector(threeAspectChart())
	p.SetHover(BodyTarget("Sun"))

	p.SetChart(threeAspectChart())
	if p.Hover().Active() {
		t.Error("hover survived a new chart")
	}
}

func TestProjector_ResizeKeepsHover(t *testing.T) {
	p := newTestProjector(threeAspectChart())
	p.SetHover(BodyTarget("Moon"))

	l := p.Resize(300)
	h := p.Hover()
	if !h.BodyHighlighted("Moon") {
		t.Fatal("hover lost on resize")
	}
	if l.Viewport.Size != 300 {
		t.Errorf("size = %v, want 300", l.Viewport.Size)
	}
	m, _ := l.Marker("Moon")
	if h.Tooltip.Anchor != m.At {
		t.Errorf("tooltip not re-anchored: %+v vs %+v", h.Tooltip.Anchor, m.At)
	}
}

func TestProjector_SetChartCopiesSnapshot(t *testing.T) {
	s := threeAspectChart()
	p := newTestProjector(s)

	s.Bodies[0].Name = "Changed"
	if _, ok := p.Layout().Marker("Sun"); !ok {
		t.Error("layout observed a caller mutation")
	}
}

func TestHitTest_IdenticalAnglesLastDrawnWins(t *testing.T) {
	p := newTestProjector(&chart.Snapshot{Bodies: []chart.Body{
		{Name: "Sun", Angle: 100},
		{Name: "Moon", Angle: 100},
	}})
	at := p.Layout().Bodies[0].At

	for i := 0; i < 5; i++ {
		got := p.HitTest(at)
		if got == nil || got.Kind != TargetBody || got.Name != "Moon" || got.Index != 1 {
			t.Fatalf("HitTest = %+v, want Moon (index 1)", got)
		}
	}

	h := p.HoverAt(at)
	if !h.MarkerHighlighted(1) || h.MarkerHighlighted(0) {
		t.Errorf("HoverAt highlighted %+v", h.Target)
	}
}

func TestHitTest_NearestMarker(t *testing.T) {
	p := newTestProjector(&chart.Snapshot{Bodies: []chart.Body{
		{Name: "Sun", Angle: 100},
		{Name: "Moon", Angle: 102},
	}})
	l := p.Layout()
	sun := l.Bodies[0].At

	// Slightly towards the Sun side of the midpoint.
	mid := Point{X: (sun.X + l.Bodies[1].At.X) / 2, Y: (sun.Y + l.Bodies[1].At.Y) / 2}
	pt := Point{X: mid.X + (sun.X-mid.X)*0.2, Y: mid.Y + (sun.Y-mid.Y)*0.2}

	if got := p.HitTest(pt); got == nil || got.Name != "Sun" {
		t.Errorf("HitTest = %+v, want Sun", got)
	}
}

func TestHitTest_AspectLine(t *testing.T) {
	p := newTestProjector(&chart.Snapshot{
		Bodies:  []chart.Body{{Name: "Sun", Angle: 0}, {Name: "Mars", Angle: 180}},
		Aspects: []chart.Aspect{{From: "Sun", To: "Mars", Type: chart.Opposition}},
	})

	if got := p.HitTest(Point{X: 252, Y: 200}); got == nil || got.Kind != TargetAspect || got.Index != 0 {
		t.Errorf("HitTest near line = %+v, want aspect 0", got)
	}
	if got := p.HitTest(Point{X: 270, Y: 200}); got != nil {
		t.Errorf("HitTest far from line = %+v, want nil", got)
	}

	h := p.HoverAt(Point{X: 252, Y: 200})
	if !h.AspectHighlighted(0) || h.Tooltip == nil {
		t.Fatalf("HoverAt = %+v", h)
	}
	if h.Tooltip.Text != "Sun opposition Mars" {
		t.Errorf("aspect tooltip = %q", h.Tooltip.Text)
	}
}

func TestHitTest_HubCoversAspects(t *testing.T) {
	snap := &chart.Snapshot{
		Bodies:  []chart.Body{{Name: "Sun", Angle: 0}, {Name: "Mars", Angle: 180}},
		Aspects: []chart.Aspect{{From: "Sun", To: "Mars", Type: chart.Opposition}},
	}
	p := newTestProjector(snap)
	hub := p.Layout().Hub
	if hub == nil {
		t.Fatal("no hub")
	}

	for _, pt := range []Point{hub.Center, {X: hub.Center.X + 1, Y: hub.Center.Y - hub.Radius + 1}} {
		if got := p.HitTest(pt); got != nil {
			t.Errorf("HitTest(%v) on hub = %+v, want nil", pt, got)
		}
	}
	if h := p.HoverAt(hub.Center); h.Target != nil {
		t.Errorf("HoverAt on hub = %+v, want no target", h.Target)
	}

	cfg := DefaultConfig()
	cfg.ShowHub = false
	bare := NewProjector(cfg)
	bare.Resize(500)
	bare.SetChart(snap)
	if got := bare.HitTest(hub.Center); got == nil || got.Kind != TargetAspect {
		t.Errorf("HitTest without hub = %+v, want aspect", got)
	}
}

func TestProjector_CycleBody(t *testing.T) {
	p := newTestProjector(threeAspectChart())

	steps := []struct {
		step int
		want string
	}{
		{1, "Sun"},
		{1, "Moon"},
		{-1, "Sun"},
		{-1, "Mars"},
		{1, "Sun"},
	}
	for i, s := range steps {
		h := p.CycleBody(s.step)
		if !h.BodyHighlighted(s.want) {
			t.Fatalf("step %d: hovered %+v, want %s", i, h.Target, s.want)
		}
	}
}

func TestProjector_CycleAspectSkipsUndrawn(t *testing.T) {
	p := newTestProjector(threeAspectChart())

	for i, want := range []int{0, 2, 0} {
		if h := p.CycleAspect(1); !h.AspectHighlighted(want) {
			t.Fatalf("step %d: hovered %+v, want aspect %d", i, h.Target, want)
		}
	}
	if h := p.CycleAspect(-1); !h.AspectHighlighted(2) {
		t.Errorf("reverse: hovered %+v, want aspect 2", h.Target)
	}
}

func TestBodyTooltipText(t *testing.T) {
	b := chart.Body{
		Name:   "Sun",
		Sign:   "Leo",
		Degree: chart.Float(15),
		Minute: chart.Float(15),
		Second: chart.Float(27),
		House:  chart.Int(5),
	}
	if got, want := BodyTooltipText(b), "Sun 15°15'27\" Leo H5"; got != want {
		t.Errorf("BodyTooltipText = %q, want %q", got, want)
	}
}

func TestTooltip_FlipsAtRightEdge(t *testing.T) {
	p := newTestProjector(&chart.Snapshot{Bodies: []chart.Body{{Name: "Mars", Angle: 90}}})
	h := p.SetHover(BodyTarget("Mars"))

	box := h.Tooltip.Box
	if box.X+box.W > p.Layout().Viewport.Size {
		t.Errorf("tooltip box %+v overflows viewport", box)
	}
	if box.X >= h.Tooltip.Anchor.X {
		t.Errorf("tooltip should sit left of the marker, box %+v anchor %+v", box, h.Tooltip.Anchor)
	}
}

func TestProjector_ConcurrentResizeAndHover(t *testing.T) {
	p := newTestProjector(threeAspectChart())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p.Resize(float64(200 + 50*i + j))
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				p.SetHover(BodyTarget("Moon"))
				p.SetHover(nil)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				f := p.Frame()
				if len(f.Layout.Wedges) != 12 {
					t.Errorf("partial layout observed")
				}
			}
		}()
	}
	wg.Wait()
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		in      string
		want    *Target
		wantErr bool
	}{
		{"", nil, false},
		{"Sun", BodyTarget("Sun"), false},
		{"body:Moon", BodyTarget("Moon"), false},
		{"aspect:2", AspectTarget(2), false},
		{"ASPECT:0", AspectTarget(0), false},
		{"aspect:x", nil, true},
		{"aspect:-1", nil, true},
		{"body:", nil, true},
		{"Part:Fortune", BodyTarget("Part:Fortune"), false},
	}
	for _, tt := range tests {
		got, err := ParseTarget(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTarget(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseTarget(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
