package wheel

import (
	"math"

	"github.com/litescript/ls-natal/internal/astro"
)

// Point is a position on the drawing surface in pixels, y growing downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dist returns the Euclidean distance between two points.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Viewport is the square drawing surface derived from the available width.
type Viewport struct {
	Size        float64 `json:"size"`
	Radius      float64 `json:"radius"`
	Center      Point   `json:"center"`
	AngleOffset float64 `json:"angle_offset"`
}

// NewViewport sizes the wheel for the given available width. The edge is
// capped at cfg.MaxSize; a non-positive width means "unconstrained".
func NewViewport(available float64, cfg Config) Viewport {
	cfg = cfg.withDefaults()

	size := cfg.MaxSize
	if available > 0 && available < size {
		size = available
	}
	return Viewport{
		Size:        size,
		Radius:      size * cfg.RadiusFraction,
		Center:      Point{X: size / 2, Y: size / 2},
		AngleOffset: cfg.AngleOffset,
	}
}

// ProjectAngle maps an ecliptic angle to a point r pixels from the centre.
// 0° is at the top and angles increase clockwise.
func ProjectAngle(angle, r float64, vp Viewport) Point {
	theta := astro.DegToRad(astro.NormalizeDeg(angle + vp.AngleOffset))
	return Point{
		X: vp.Center.X + r*math.Sin(theta),
		Y: vp.Center.Y - r*math.Cos(theta),
	}
}

// ProjectFraction is ProjectAngle with r given as a fraction of the radius.
func ProjectFraction(angle, frac float64, vp Viewport) Point {
	return ProjectAngle(angle, frac*vp.Radius, vp)
}

// distToSegment returns the distance from p to the segment ab.
func distToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(Point{X: a.X + t*dx, Y: a.Y + t*dy})
}
