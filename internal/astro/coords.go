// Package astro provides ecliptic angle math and the zodiac tables used by
// chart snapshots and the wheel projector.
package astro

import (
	"fmt"
	"math"
)

// DegreesPerSign is the width of one zodiac sign along the ecliptic.
const DegreesPerSign = 30.0

// NormalizeDeg wraps an angle into the [0, 360) range.
func NormalizeDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// math.Mod of a tiny negative value can round back up to exactly 360.
	if a >= 360 {
		a = 0
	}
	return a
}

// NormalizeSigned wraps an angle into the (-180, 180] range.
func NormalizeSigned(a float64) float64 {
	a = NormalizeDeg(a)
	if a > 180 {
		a -= 360
	}
	return a
}

// Separation returns the shortest arc between two ecliptic longitudes,
// in degrees within [0, 180].
func Separation(a, b float64) float64 {
	d := math.Abs(NormalizeDeg(a) - NormalizeDeg(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// DMS is a sexagesimal decomposition of an angle.
type DMS struct {
	Degrees int
	Minutes int
	Seconds int
}

// SplitDMS decomposes a non-negative angle into whole degrees, minutes and
// rounded seconds. Rounding carries 60" into the minutes and 60' into the
// degrees, so the result never shows 60 in either field.
func SplitDMS(angle float64) DMS {
	angle = math.Abs(angle)
	d := int(angle)
	mf := (angle - float64(d)) * 60
	m := int(mf)
	s := int(math.Round((mf - float64(m)) * 60))
	if s == 60 {
		s = 0
		m++
	}
	if m == 60 {
		m = 0
		d++
	}
	return DMS{Degrees: d, Minutes: m, Seconds: s}
}

// String formats the angle as D°M'S".
func (v DMS) String() string {
	return fmt.Sprintf("%d°%d'%d\"", v.Degrees, v.Minutes, v.Seconds)
}

// FormatDMS formats an ecliptic longitude (reduced modulo 360) as D°M'S".
func FormatDMS(angle float64) string {
	v := SplitDMS(NormalizeDeg(angle))
	if v.Degrees >= 360 {
		v.Degrees -= 360
	}
	return v.String()
}

// WithinSign returns the position of a longitude inside its sign, [0, 30).
func WithinSign(angle float64) float64 {
	return math.Mod(NormalizeDeg(angle), DegreesPerSign)
}
