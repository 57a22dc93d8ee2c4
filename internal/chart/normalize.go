package chart

import (
	"github.com/litescript/ls-natal/internal/astro"
)

// Normalize reduces every angle modulo 360 and fills in the informational
// fields the service left out: symbol, sign and the degree/minute/second
// position within the sign. Values the service did supply are kept.
func (s *Snapshot) Normalize() {
	for i := range s.Bodies {
		b := &s.Bodies[i]
		b.Angle = astro.NormalizeDeg(b.Angle)

		if b.Symbol == "" {
			b.Symbol = astro.GlyphFor(b.Name)
		}
		sign, dms := astro.SignPosition(b.Angle)
		if b.Sign == "" {
			b.Sign = sign.Name
		}
		if b.Degree == nil {
			b.Degree = Float(float64(dms.Degrees))
			b.Minute = Float(float64(dms.Minutes))
			b.Second = Float(float64(dms.Seconds))
		}
	}

	for i := range s.Aspects {
		s.Aspects[i].Type = ParseAspectType(string(s.Aspects[i].Type))
	}

	for i := range s.Houses {
		s.Houses[i] = astro.NormalizeDeg(s.Houses[i])
	}
}

// HouseOf returns the 1-based house containing angle for the given cusps.
// With no cusps, houses are equal 30° sectors starting at 0°.
func HouseOf(angle float64, cusps []float64) int {
	angle = astro.NormalizeDeg(angle)
	if len(cusps) != HouseCount {
		return int(angle/30)%HouseCount + 1
	}
	for i := 0; i < HouseCount; i++ {
		start := astro.NormalizeDeg(cusps[i])
		span := astro.NormalizeDeg(cusps[(i+1)%HouseCount] - start)
		if astro.NormalizeDeg(angle-start) < span {
			return i + 1
		}
	}
	return 1
}

// AssignHouses fills absent House fields from the snapshot's cusps (or equal
// houses when none are present).
func (s *Snapshot) AssignHouses() {
	for i := range s.Bodies {
		if s.Bodies[i].House == nil {
			s.Bodies[i].House = Int(HouseOf(s.Bodies[i].Angle, s.Houses))
		}
	}
}
