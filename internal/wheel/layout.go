package wheel

import (
	"fmt"
	"strconv"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
)

// Layer is a drawing pass. Layers are painted in increasing order.
type Layer int

const (
	LayerWedges Layer = iota
	LayerDividers
	LayerRings
	LayerLabels
	LayerAspects
	LayerBodies
	LayerAxes
	LayerHub
)

func (l Layer) String() string {
	switch l {
	case LayerWedges:
		return "wedges"
	case LayerDividers:
		return "dividers"
	case LayerRings:
		return "rings"
	case LayerLabels:
		return "labels"
	case LayerAspects:
		return "aspects"
	case LayerBodies:
		return "bodies"
	case LayerAxes:
		return "axes"
	case LayerHub:
		return "hub"
	default:
		return "unknown"
	}
}

// Primitive is anything drawable on the wheel.
type Primitive interface {
	Layer() Layer
}

// Axis labels in angle order.
var axisNames = [4]string{"ASC", "MC", "DSC", "IC"}

const (
	hubGlyph = "☉"

	// Font sizes relative to the viewport size.
	signFontFraction  = 0.06
	houseFontFraction = 0.045
	bodyFontFraction  = 0.05
	axisFontFraction  = 0.05
	hubFontFraction   = 0.06
)

// Wedge is a pie slice from the centre to the outer ring.
type Wedge struct {
	Index      int     `json:"index"` // 0-based house (or sign) number
	StartAngle float64 `json:"start_angle"`
	Sweep      float64 `json:"sweep"` // degrees, clockwise
	Center     Point   `json:"center"`
	Radius     float64 `json:"radius"`
	Start      Point   `json:"start"`
	End        Point   `json:"end"`
}

func (Wedge) Layer() Layer { return LayerWedges }

// LargeArc reports whether the slice spans more than half the circle.
func (w Wedge) LargeArc() bool { return w.Sweep > 180 }

// Path returns the wedge as an SVG path.
func (w Wedge) Path() string {
	large := 0
	if w.LargeArc() {
		large = 1
	}
	return fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
		w.Center.X, w.Center.Y, w.Start.X, w.Start.Y,
		w.Radius, w.Radius, large, w.End.X, w.End.Y)
}

// DividerKind distinguishes the two concentric ring systems.
type DividerKind int

const (
	DividerZodiac DividerKind = iota // sign boundary, house ring to outer ring
	DividerHouse                     // house cusp, centre to house ring
)

// Divider is a radial line.
type Divider struct {
	Kind  DividerKind `json:"kind"`
	Angle float64     `json:"angle"`
	From  Point       `json:"from"`
	To    Point       `json:"to"`
}

func (Divider) Layer() Layer { return LayerDividers }

// RingKind identifies a ring.
type RingKind int

const (
	RingOuter RingKind = iota
	RingHouse
)

// Ring is an unfilled circle.
type Ring struct {
	Kind   RingKind `json:"kind"`
	Center Point    `json:"center"`
	Radius float64  `json:"radius"`
}

func (Ring) Layer() Layer { return LayerRings }

// LabelKind identifies what a text label marks.
type LabelKind int

const (
	LabelSign LabelKind = iota
	LabelHouse
	LabelAxis
)

// Label is centred text.
type Label struct {
	Kind     LabelKind `json:"kind"`
	Text     string    `json:"text"`
	Angle    float64   `json:"angle"`
	At       Point     `json:"at"`
	FontSize float64   `json:"font_size"`
}

func (l Label) Layer() Layer {
	if l.Kind == LabelAxis {
		return LayerAxes
	}
	return LayerLabels
}

// AspectLine connects two body positions.
type AspectLine struct {
	Index  int          `json:"index"` // position in Snapshot.Aspects
	Aspect chart.Aspect `json:"aspect"`
	Color  string       `json:"color"`
	P1     Point        `json:"p1"`
	P2     Point        `json:"p2"`
}

func (AspectLine) Layer() Layer { return LayerAspects }

// BodyMarker is a circle plus glyph at a body's angle.
type BodyMarker struct {
	Index    int        `json:"index"`
	Body     chart.Body `json:"body"`
	At       Point      `json:"at"`
	Radius   float64    `json:"radius"`
	FontSize float64    `json:"font_size"`
}

func (BodyMarker) Layer() Layer { return LayerBodies }

// Hub is the filled disc at the centre of the wheel.
type Hub struct {
	Center   Point   `json:"center"`
	Radius   float64 `json:"radius"`
	Glyph    string  `json:"glyph"`
	FontSize float64 `json:"font_size"`
}

func (Hub) Layer() Layer { return LayerHub }

// Layout is the complete set of primitives for one snapshot at one viewport
// size. A Layout is never modified after LayoutWheel returns it.
type Layout struct {
	Viewport    Viewport     `json:"viewport"`
	Wedges      []Wedge      `json:"wedges"`
	Dividers    []Divider    `json:"dividers"`
	Rings       []Ring       `json:"rings"`
	SignLabels  []Label      `json:"sign_labels"`
	HouseLabels []Label      `json:"house_labels"`
	Aspects     []AspectLine `json:"aspects"`
	Bodies      []BodyMarker `json:"bodies"`
	Axes        []Label      `json:"axes"`
	Hub         *Hub         `json:"hub,omitempty"`
	HasHouses   bool         `json:"has_houses"`
}

// LayoutWheel computes every primitive for snap. Aspects whose endpoints do
// not both resolve are skipped. A nil snapshot lays out an empty wheel.
func LayoutWheel(snap *chart.Snapshot, vp Viewport, cfg Config) *Layout {
	cfg = cfg.withDefaults()
	if snap == nil {
		snap = &chart.Snapshot{}
	}

	l := &Layout{Viewport: vp, HasHouses: snap.HasHouses()}
	houseR := cfg.HouseRingFraction * vp.Radius

	// Cusp angles: supplied cusps or equal 30° houses.
	cusps := make([]float64, chart.HouseCount)
	for i := range cusps {
		if l.HasHouses {
			cusps[i] = astro.NormalizeDeg(snap.Houses[i])
		} else {
			cusps[i] = float64(i) * astro.DegreesPerSign
		}
	}

	// 1. Wedges.
	l.Wedges = make([]Wedge, chart.HouseCount)
	for i, start := range cusps {
		sweep := astro.NormalizeDeg(cusps[(i+1)%chart.HouseCount] - start)
		l.Wedges[i] = Wedge{
			Index:      i,
			StartAngle: start,
			Sweep:      sweep,
			Center:     vp.Center,
			Radius:     vp.Radius,
			Start:      ProjectAngle(start, vp.Radius, vp),
			End:        ProjectAngle(start+sweep, vp.Radius, vp),
		}
	}

	// 2. Dividers: zodiac boundaries first, then house cusps.
	l.Dividers = make([]Divider, 0, 2*chart.HouseCount)
	for i := 0; i < len(astro.Signs); i++ {
		a := float64(i) * astro.DegreesPerSign
		l.Dividers = append(l.Dividers, Divider{
			Kind:  DividerZodiac,
			Angle: a,
			From:  ProjectAngle(a, houseR, vp),
			To:    ProjectAngle(a, vp.Radius, vp),
		})
	}
	for _, a := range cusps {
		l.Dividers = append(l.Dividers, Divider{
			Kind:  DividerHouse,
			Angle: a,
			From:  vp.Center,
			To:    ProjectAngle(a, houseR, vp),
		})
	}

	// 3. Rings.
	l.Rings = []Ring{
		{Kind: RingOuter, Center: vp.Center, Radius: vp.Radius},
		{Kind: RingHouse, Center: vp.Center, Radius: houseR},
	}

	// 4. Sign glyphs centred in each 30° sector, house numbers mid-house.
	l.SignLabels = make([]Label, len(astro.Signs))
	for i, sign := range astro.Signs {
		a := float64(i)*astro.DegreesPerSign + astro.DegreesPerSign/2
		l.SignLabels[i] = Label{
			Kind:     LabelSign,
			Text:     sign.Glyph,
			Angle:    a,
			At:       ProjectAngle(a, vp.Radius+cfg.ZodiacLabelOffset, vp),
			FontSize: vp.Size * signFontFraction,
		}
	}
	l.HouseLabels = make([]Label, chart.HouseCount)
	for i, w := range l.Wedges {
		a := astro.NormalizeDeg(w.StartAngle + w.Sweep/2)
		l.HouseLabels[i] = Label{
			Kind:     LabelHouse,
			Text:     strconv.Itoa(i + 1),
			Angle:    a,
			At:       ProjectFraction(a, cfg.HouseNumberFraction, vp),
			FontSize: vp.Size * houseFontFraction,
		}
	}

	// 5. Aspect lines.
	resolved := snap.ResolvedAspects()
	l.Aspects = make([]AspectLine, 0, len(resolved))
	for _, ra := range resolved {
		l.Aspects = append(l.Aspects, AspectLine{
			Index:  ra.Index,
			Aspect: ra.Aspect,
			Color:  ra.Aspect.Type.Color(),
			P1:     ProjectFraction(ra.From.Angle, cfg.AspectFraction, vp),
			P2:     ProjectFraction(ra.To.Angle, cfg.AspectFraction, vp),
		})
	}

	// 6. Body markers at their literal angles; overlaps are allowed.
	l.Bodies = make([]BodyMarker, len(snap.Bodies))
	for i, b := range snap.Bodies {
		l.Bodies[i] = BodyMarker{
			Index:    i,
			Body:     b,
			At:       ProjectFraction(b.Angle, cfg.MarkerFraction, vp),
			Radius:   vp.Size * cfg.MarkerSizeFraction,
			FontSize: vp.Size * bodyFontFraction,
		}
	}

	// 7. Axes.
	l.Axes = make([]Label, len(axisNames))
	for i, name := range axisNames {
		a := float64(i) * 90
		l.Axes[i] = Label{
			Kind:     LabelAxis,
			Text:     name,
			Angle:    a,
			At:       ProjectAngle(a, vp.Radius+cfg.AxisLabelOffset, vp),
			FontSize: vp.Size * axisFontFraction,
		}
	}

	// 8. Hub.
	if cfg.ShowHub {
		l.Hub = &Hub{
			Center:   vp.Center,
			Radius:   vp.Size * cfg.HubSizeFraction,
			Glyph:    hubGlyph,
			FontSize: vp.Size * hubFontFraction,
		}
	}

	return l
}

// Primitives returns every primitive in back-to-front draw order.
func (l *Layout) Primitives() []Primitive {
	n := len(l.Wedges) + len(l.Dividers) + len(l.Rings) + len(l.SignLabels) +
		len(l.HouseLabels) + len(l.Aspects) + len(l.Bodies) + len(l.Axes) + 1
	out := make([]Primitive, 0, n)

	for _, p := range l.Wedges {
		out = append(out, p)
	}
	for _, p := range l.Dividers {
		out = append(out, p)
	}
	for _, p := range l.Rings {
		out = append(out, p)
	}
	for _, p := range l.SignLabels {
		out = append(out, p)
	}
	for _, p := range l.HouseLabels {
		out = append(out, p)
	}
	for _, p := range l.Aspects {
		out = append(out, p)
	}
	for _, p := range l.Bodies {
		out = append(out, p)
	}
	for _, p := range l.Axes {
		out = append(out, p)
	}
	if l.Hub != nil {
		out = append(out, *l.Hub)
	}
	return out
}

// Marker returns the marker for the named body. Repeated names resolve to
// the first occurrence, matching aspect resolution.
func (l *Layout) Marker(name string) (BodyMarker, bool) {
	for _, m := range l.Bodies {
		if m.Body.Name == name {
			return m, true
		}
	}
	return BodyMarker{}, false
}

// AspectLine returns the drawn line for the aspect at index in the snapshot.
func (l *Layout) AspectLine(index int) (AspectLine, bool) {
	for _, a := range l.Aspects {
		if a.Index == index {
			return a, true
		}
	}
	return AspectLine{}, false
}
