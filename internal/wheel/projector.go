package wheel

import (
	"sync"

	"github.com/litescript/ls-natal/internal/chart"
)

// Frame is a consistent layout and hover pair for one render.
type Frame struct {
	Layout *Layout    `json:"layout"`
	Hover  HoverState `json:"hover"`
}

// Projector holds the current chart layout and hover state. Layout and hover
// are independent: resizing never touches the hover target, and hover never
// recomputes geometry. A new chart always clears the hover.
type Projector struct {
	mu sync.RWMutex

	cfg       Config
	available float64
	snap      *chart.Snapshot
	layout    *Layout
	hover     HoverState
}

// NewProjector creates a projector with an empty chart at the maximum size.
func NewProjector(cfg Config) *Projector {
	cfg = cfg.withDefaults()
	p := &Projector{cfg: cfg}
	p.layout = LayoutWheel(nil, NewViewport(0, cfg), cfg)
	return p
}

// Config returns the projector's configuration.
func (p *Projector) Config() Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg
}

// SetChart replaces the displayed chart and resets the hover. The snapshot
// is copied; later changes by the caller are not observed.
func (p *Projector) SetChart(s *chart.Snapshot) *Layout {
	snap := s.Clone()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Readers see either the old layout or the complete new one.
	layout := LayoutWheel(snap, NewViewport(p.available, p.cfg), p.cfg)
	p.snap = snap
	p.layout = layout
	p.hover = HoverState{}
	return layout
}

// Resize recomputes the layout for a new available width. An existing hover
// target is kept and its tooltip re-anchored.
func (p *Projector) Resize(available float64) *Layout {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.available = available
	p.layout = LayoutWheel(p.snap, NewViewport(available, p.cfg), p.cfg)
	p.hover = resolveHover(p.layout, p.hover.Target)
	return p.layout
}

// SetHover sets or clears (nil) the hovered entity.
func (p *Projector) SetHover(t *Target) HoverState {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.hover = resolveHover(p.layout, t)
	return p.hover
}

// HoverAt hit-tests pt and hovers whatever is found there.
func (p *Projector) HoverAt(pt Point) HoverState {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.hover = resolveHover(p.layout, p.layout.HitTest(pt, p.cfg.AspectHitTolerance))
	return p.hover
}

// HitTest maps a point to a hover target without changing state.
func (p *Projector) HitTest(pt Point) *Target {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.layout.HitTest(pt, p.cfg.AspectHitTolerance)
}

// Layout returns the current layout.
func (p *Projector) Layout() *Layout {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.layout
}

// Hover returns the current hover state.
func (p *Projector) Hover() HoverState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.hover
}

// Frame returns the current layout and hover together.
func (p *Projector) Frame() Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Frame{Layout: p.layout, Hover: p.hover}
}

// CycleBody hovers the next (step > 0) or previous body marker, wrapping.
func (p *Projector) CycleBody(step int) HoverState {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.layout.Bodies)
	if n == 0 {
		p.hover = HoverState{}
		return p.hover
	}
	next := 0
	if step < 0 {
		next = n - 1
	}
	if t := p.hover.Target; t != nil && t.Kind == TargetBody {
		next = wrap(t.Index+step, n)
	}
	p.hover = resolveHover(p.layout, &Target{Kind: TargetBody, Index: next})
	return p.hover
}

// CycleAspect hovers the next (step > 0) or previous drawn aspect, wrapping.
func (p *Projector) CycleAspect(step int) HoverState {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.layout.Aspects)
	if n == 0 {
		p.hover = HoverState{}
		return p.hover
	}
	pos := 0
	if step < 0 {
		pos = n - 1
	}
	if t := p.hover.Target; t != nil && t.Kind == TargetAspect {
		for i, a := range p.layout.Aspects {
			if a.Index == t.Index {
				pos = wrap(i+step, n)
				break
			}
		}
	}
	p.hover = resolveHover(p.layout, AspectTarget(p.layout.Aspects[pos].Index))
	return p.hover
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// HitTest returns the body marker nearest to pt among those containing it;
// when markers overlap exactly the last drawn wins. Failing that, it returns
// the nearest aspect line within tol pixels, or nil. Points on the hub hit
// nothing.
func (l *Layout) HitTest(pt Point, tol float64) *Target {
	if l == nil {
		return nil
	}

	best := -1
	bestDist := 0.0
	for i := len(l.Bodies) - 1; i >= 0; i-- {
		m := l.Bodies[i]
		d := pt.Dist(m.At)
		if d > m.Radius {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		m := l.Bodies[best]
		return &Target{Kind: TargetBody, Name: m.Body.Name, Index: m.Index}
	}
	// The hub is drawn over the aspect lines.
	if l.Hub != nil && pt.Dist(l.Hub.Center) <= l.Hub.Radius {
		return nil
	}

	bestAspect := -1
	for i := len(l.Aspects) - 1; i >= 0; i-- {
		d := distToSegment(pt, l.Aspects[i].P1, l.Aspects[i].P2)
		if d > tol {
			continue
		}
		if bestAspect < 0 || d < bestDist {
			bestAspect, bestDist = i, d
		}
	}
	if bestAspect >= 0 {
		return AspectTarget(l.Aspects[bestAspect].Index)
	}
	return nil
}
