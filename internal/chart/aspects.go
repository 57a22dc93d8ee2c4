package chart

import (
	"math"
	"strings"

	"github.com/litescript/ls-natal/internal/astro"
)

// AspectType is one of the fixed aspect kinds.
type AspectType string

const (
	Conjunction AspectType = "conjunction"
	Sextile     AspectType = "sextile"
	Square      AspectType = "square"
	Trine       AspectType = "trine"
	Opposition  AspectType = "opposition"
	Semisextile AspectType = "semisextile"
	Semisquare  AspectType = "semisquare"
	Quincunx    AspectType = "quincunx"
	Quintile    AspectType = "quintile"
	Biquintile  AspectType = "biquintile"
)

// FallbackAspectColor is used for aspect types outside the vocabulary.
const FallbackAspectColor = "#999999"

var aspectColors = map[AspectType]string{
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

// AspectTypes lists the vocabulary in its canonical order.
var AspectTypes = []AspectType{
	Conjunction, Sextile, Square, Trine, Opposition,
	Semisextile, Semisquare, Quincunx, Quintile, Biquintile,
}

// ParseAspectType normalises a service-supplied type name. Unknown names are
// returned as-is (lower-cased) so they still render with the fallback colour.
func ParseAspectType(s string) AspectType {
	return AspectType(strings.ToLower(strings.TrimSpace(s)))
}

// Known reports whether t belongs to the fixed vocabulary.
func (t AspectType) Known() bool {
	_, ok := aspectColors[t]
	return ok
}

// Color returns the display colour for the aspect type.
func (t AspectType) Color() string {
	if c, ok := aspectColors[t]; ok {
		return c
	}
	return FallbackAspectColor
}

// AspectDef defines the exact angle and allowed orb for an aspect type.
type AspectDef struct {
	Type  AspectType
	Angle float64
	Orb   float64
}

// DefaultAspectDefs are the angles and orbs used by the chart service.
// Order matters: the first matching definition wins.
var DefaultAspectDefs = []AspectDef{
	{Conjunction, 0, 8},
	{Sextile, 60, 6},
	{Square, 90, 6},
	{Trine, 120, 8},
	{Opposition, 180, 8},
	{Semisextile, 30, 2},
	{Semisquare, 45, 3},
	{Quincunx, 150, 3},
	{Quintile, 72, 2},
	{Biquintile, 144, 2},
}

// DetectAspects finds aspects between every unordered pair of bodies. For
// each pair, the first definition whose angle lies within its orb of the
// shortest-arc separation is reported.
func DetectAspects(bodies []Body, defs []AspectDef) []Aspect {
	if defs == nil {
		defs = DefaultAspectDefs
	}

	var out []Aspect
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			sep := astro.Separation(bodies[i].Angle, bodies[j].Angle)
			for _, d := range defs {
				if math.Abs(sep-d.Angle) <= d.Orb {
					out = append(out, Aspect{
						From:       bodies[i].Name,
						To:         bodies[j].Name,
						Type:       d.Type,
						Separation: math.Round(sep*100) / 100,
					})
					break
				}
			}
		}
	}
	return out
}
