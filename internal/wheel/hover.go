package wheel

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/litescript/ls-natal/internal/astro"
	"github.com/litescript/ls-natal/internal/chart"
)

// TargetKind says what a hover target points at.
type TargetKind int

const (
	TargetBody TargetKind = iota + 1
	TargetAspect
)

func (k TargetKind) String() string {
	switch k {
	case TargetBody:
		return "body"
	case TargetAspect:
		return "aspect"
	default:
		return "none"
	}
}

// Target references a hoverable entity. For bodies, Index is the marker
// index (or -1 to resolve by Name); for aspects it is the index in
// Snapshot.Aspects.
type Target struct {
	Kind  TargetKind `json:"kind"`
	Name  string     `json:"name,omitempty"`
	Index int        `json:"index"`
}

// BodyTarget references a body by name.
func BodyTarget(name string) *Target {
	return &Target{Kind: TargetBody, Name: name, Index: -1}
}

// AspectTarget references an aspect by its index in the snapshot.
func AspectTarget(index int) *Target {
	return &Target{Kind: TargetAspect, Index: index}
}

// ParseTarget reads a target written as "aspect:N", "body:NAME" or a bare
// body name. An empty string yields nil.
func ParseTarget(s string) (*Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	kind, rest, found := strings.Cut(s, ":")
	if !found {
		return BodyTarget(s), nil
	}
	switch strings.ToLower(kind) {
	case "body":
		if rest == "" {
			return nil, fmt.Errorf("hover target %q: missing body name", s)
		}
		return BodyTarget(rest), nil
	case "aspect":
		i, err := strconv.Atoi(rest)
		if err != nil || i < 0 {
			return nil, fmt.Errorf("hover target %q: bad aspect index", s)
		}
		return AspectTarget(i), nil
	default:
		return BodyTarget(s), nil
	}
}

// Rect is an axis-aligned box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Tooltip is the text shown next to a hovered entity.
type Tooltip struct {
	Text   string `json:"text"`
	Anchor Point  `json:"anchor"` // the hovered marker or line midpoint
	Box    Rect   `json:"box"`
	TextAt Point  `json:"text_at"` // centre baseline of the text
}

// Tooltip box geometry, px.
const (
	tooltipDX       = 15.0
	tooltipDY       = -30.0
	tooltipMinW     = 110.0
	tooltipH        = 32.0
	tooltipBaseline = 18.0
	tooltipCharW    = 6.6
	tooltipPad      = 16.0
)

// HoverState is the current hover: at most one body or one aspect.
type HoverState struct {
	Target  *Target  `json:"target,omitempty"`
	Tooltip *Tooltip `json:"tooltip,omitempty"`
}

// Active reports whether anything is hovered.
func (h HoverState) Active() bool { return h.Target != nil }

// MarkerHighlighted reports whether the body marker at index is hovered.
func (h HoverState) MarkerHighlighted(index int) bool {
	return h.Target != nil && h.Target.Kind == TargetBody && h.Target.Index == index
}

// BodyHighlighted reports whether the named body is hovered.
func (h HoverState) BodyHighlighted(name string) bool {
	return h.Target != nil && h.Target.Kind == TargetBody && h.Target.Name == name
}

// AspectHighlighted reports whether the aspect at snapshot index is hovered.
func (h HoverState) AspectHighlighted(index int) bool {
	return h.Target != nil && h.Target.Kind == TargetAspect && h.Target.Index == index
}

// resolveHover binds t to the layout. Targets that name nothing drawn
// (an unknown body, an unresolvable aspect) clear the hover.
func resolveHover(l *Layout, t *Target) HoverState {
	if l == nil || t == nil {
		return HoverState{}
	}

	switch t.Kind {
	case TargetBody:
		var m BodyMarker
		ok := false
		if t.Index >= 0 && t.Index < len(l.Bodies) &&
			(t.Name == "" || l.Bodies[t.Index].Body.Name == t.Name) {
			m, ok = l.Bodies[t.Index], true
		} else if t.Name != "" {
			m, ok = l.Marker(t.Name)
		}
		if !ok {
			return HoverState{}
		}
		return HoverState{
			Target:  &Target{Kind: TargetBody, Name: m.Body.Name, Index: m.Index},
			Tooltip: newTooltip(BodyTooltipText(m.Body), m.At, l.Viewport),
		}

	case TargetAspect:
		a, ok := l.AspectLine(t.Index)
		if !ok {
			return HoverState{}
		}
		mid := Point{X: (a.P1.X + a.P2.X) / 2, Y: (a.P1.Y + a.P2.Y) / 2}
		return HoverState{
			Target:  &Target{Kind: TargetAspect, Index: a.Index},
			Tooltip: newTooltip(AspectTooltipText(a.Aspect), mid, l.Viewport),
		}
	}
	return HoverState{}
}

// BodyTooltipText formats a body as "Sun 15°15'0\" Leo H5".
func BodyTooltipText(b chart.Body) string {
	s := b.Name + " " + chart.FormatPosition(b)
	if b.House != nil {
		s += fmt.Sprintf(" H%d", *b.House)
	}
	return s
}

// AspectTooltipText formats an aspect as "Sun square Moon 90°0'0\"".
func AspectTooltipText(a chart.Aspect) string {
	s := fmt.Sprintf("%s %s %s", a.From, a.Type, a.To)
	if a.Separation > 0 {
		s += " " + astro.FormatDMS(a.Separation)
	}
	return s
}

// newTooltip places the box up and to the right of the anchor, flipping to
// the left when it would leave the viewport.
func newTooltip(text string, anchor Point, vp Viewport) *Tooltip {
	w := float64(utf8.RuneCountInString(text))*tooltipCharW + tooltipPad
	if w < tooltipMinW {
		w = tooltipMinW
	}

	x := anchor.X + tooltipDX
	if x+w > vp.Size && anchor.X-tooltipDX-w >= 0 {
		x = anchor.X - tooltipDX - w
	}
	y := anchor.Y + tooltipDY
	if y < 0 {
		y = 0
	}

	box := Rect{X: x, Y: y, W: w, H: tooltipH}
	return &Tooltip{
		Text:   text,
		Anchor: anchor,
		Box:    box,
		TextAt: Point{X: box.X + box.W/2, Y: box.Y + tooltipBaseline},
	}
}
