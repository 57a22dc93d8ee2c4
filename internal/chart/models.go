// Package chart holds the natal chart snapshot model: bodies, aspects and
// house cusps as delivered by the chart-generation service.
package chart

import (
	"errors"
	"fmt"
	"math"
)

// Body is a celestial body (or chart point) positioned on the ecliptic.
type Body struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Angle  float64 `json:"angle"` // ecliptic longitude, degrees [0, 360)

	// Informational fields, never used for projection.
	Sign   string   `json:"sign,omitempty"`
	Degree *float64 `json:"degree,omitempty"`
	Minute *float64 `json:"minute,omitempty"`
	Second *float64 `json:"second,omitempty"`
	House  *int     `json:"house,omitempty"`
}

// Aspect is a named angular relationship between two bodies, referenced by name.
type Aspect struct {
	From string     `json:"from"`
	To   string     `json:"to"`
	Type AspectType `json:"type"`

	// Separation is the actual arc between the bodies when the service
	// reports it; zero when unknown.
	Separation float64 `json:"separation,omitempty"`
}

// HouseCount is the number of houses (and cusps) in a chart.
const HouseCount = 12

// Snapshot is one generated chart. A new snapshot replaces the previous one
// wholesale; nothing is merged across requests.
type Snapshot struct {
	Name     string `json:"name,omitempty"`
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Place    string `json:"place,omitempty"`
	Timezone string `json:"timezone,omitempty"`

	Bodies  []Body    `json:"bodies"`
	Aspects []Aspect  `json:"aspects"`
	Houses  []float64 `json:"houses,omitempty"` // 12 cusp angles, or nil for equal houses

	ChartURL       string `json:"chart_url,omitempty"`
	Interpretation string `json:"interpretation,omitempty"`
	Warning        string `json:"warning,omitempty"`
}

// Validation errors.
var (
	ErrDuplicateBody = errors.New("duplicate body name")
	ErrEmptyBodyName = errors.New("empty body name")
	ErrBadAngle      = errors.New("angle is not a finite number")
	ErrHouseCount    = errors.New("house cusps must have exactly 12 entries")
	ErrHouseNumber   = errors.New("house number out of range 1-12")
)

// Validate checks the structural invariants of a snapshot: unique, non-empty
// body names, finite angles and well-formed house data. Aspects referencing
// unknown bodies are not an error; they are skipped at layout time.
func (s *Snapshot) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(s.Bodies))

	for _, b := range s.Bodies {
		if b.Name == "" {
			errs = append(errs, ErrEmptyBodyName)
			continue
		}
		if seen[b.Name] {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateBody, b.Name))
		}
		seen[b.Name] = true

		if math.IsNaN(b.Angle) || math.IsInf(b.Angle, 0) {
			errs = append(errs, fmt.Errorf("%w: body %q", ErrBadAngle, b.Name))
		}
		if b.House != nil && (*b.House < 1 || *b.House > HouseCount) {
			errs = append(errs, fmt.Errorf("%w: body %q has house %d", ErrHouseNumber, b.Name, *b.House))
		}
	}

	if len(s.Houses) != 0 && len(s.Houses) != HouseCount {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrHouseCount, len(s.Houses)))
	}
	for i, c := range s.Houses {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			errs = append(errs, fmt.Errorf("%w: house cusp %d", ErrBadAngle, i+1))
		}
	}

	return errors.Join(errs...)
}

// HasHouses reports whether the snapshot carries a usable cusp overlay.
func (s *Snapshot) HasHouses() bool {
	return len(s.Houses) == HouseCount
}

// BodyIndex maps body names to their index in Bodies. If a name repeats,
// the first occurrence wins.
func (s *Snapshot) BodyIndex() map[string]int {
	idx := make(map[string]int, len(s.Bodies))
	for i, b := range s.Bodies {
		if _, ok := idx[b.Name]; !ok {
			idx[b.Name] = i
		}
	}
	return idx
}

// Lookup returns the body with the given name.
func (s *Snapshot) Lookup(name string) (Body, bool) {
	for _, b := range s.Bodies {
		if b.Name == name {
			return b, true
		}
	}
	return Body{}, false
}

// ResolvedAspect is an aspect whose endpoints both exist in the body set.
type ResolvedAspect struct {
	Index  int // position in Snapshot.Aspects
	Aspect Aspect
	From   Body
	To     Body
}

// ResolvedAspects returns the aspects whose endpoints both resolve, in input
// order. Unresolvable aspects are dropped silently.
func (s *Snapshot) ResolvedAspects() []ResolvedAspect {
	idx := s.BodyIndex()
	out := make([]ResolvedAspect, 0, len(s.Aspects))
	for i, a := range s.Aspects {
		fi, okFrom := idx[a.From]
		ti, okTo := idx[a.To]
		if !okFrom || !okTo {
			continue
		}
		out = append(out, ResolvedAspect{
			Index:  i,
			Aspect: a,
			From:   s.Bodies[fi],
			To:     s.Bodies[ti],
		})
	}
	return out
}

// Clone returns a deep copy so callers can hand snapshots across goroutines.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Bodies = make([]Body, len(s.Bodies))
	for i, b := range s.Bodies {
		c.Bodies[i] = b.clone()
	}
	c.Aspects = append([]Aspect(nil), s.Aspects...)
	if s.Houses != nil {
		c.Houses = append([]float64(nil), s.Houses...)
	}
	return &c
}

func (b Body) clone() Body {
	b.Degree = cloneFloat(b.Degree)
	b.Minute = cloneFloat(b.Minute)
	b.Second = cloneFloat(b.Second)
	if b.House != nil {
		h := *b.House
		b.House = &h
	}
	return b
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Float returns a pointer to v, for populating optional body fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for populating optional body fields.
func Int(v int) *int { return &v }
